package augstream

/*------------------------------------------------------------------------------
* errors.go : tagged, wrapped error kinds (spec.md §7)
*
* gnssgo's decoders report failure as negative int return codes plus a
* Trace() log line; augstream instead tags every error with its kind so a
* driver can dispatch on cause without string matching, and wraps the
* underlying error with github.com/pkg/errors so context survives across
* pipeline stages (the same library gnssgo/app/rtkrcv/rtkrcv.go imports,
* just put to active use here instead of sitting unused).
 */

import (
	"fmt"

	"github.com/pkg/errors"
)

// DecodeError is the CSSR/RTCM-stage counterpart of FrameError: every error
// carries the PRN and GPS TOW it was observed at, plus the stage name
// (spec.md §7 "Every error carries the PRN and the GPS TOW... plus the
// stage name").
type DecodeError struct {
	Kind  ErrorKind
	PRN   int
	TOW   int
	Stage string
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s[stage=%s prn=%d tow=%d]: %s", e.Kind, e.Stage, e.PRN, e.TOW, e.cause)
}

// Unwrap lets errors.Is/errors.As and pkg/errors.Cause recover the
// underlying failure.
func (e *DecodeError) Unwrap() error { return e.cause }

// NewDecodeError wraps cause with stage/PRN/TOW context, per §7's "error
// carries the PRN and the GPS TOW... plus the stage name".
func NewDecodeError(kind ErrorKind, stage string, prn, tow int, cause error) *DecodeError {
	return &DecodeError{Kind: kind, PRN: prn, TOW: tow, Stage: stage, cause: errors.Wrap(cause, stage)}
}

// Cause unwraps to the innermost error using pkg/errors, useful in tests
// that want to assert on the original sentinel rather than the decorated
// message.
func Cause(err error) error { return errors.Cause(err) }

var (
	errShortPayload    = errors.New("payload shorter than dialect minimum header")
	errMaskAbsent      = errors.New("no mask installed for this stream")
	errUnknownSubtype  = errors.New("unrecognized CSSR subtype")
	errRSUncorrectable = errors.New("reed-solomon erasure decode failed")
	errMSMismatch      = errors.New("HAS page MS changed mid-group")
)
