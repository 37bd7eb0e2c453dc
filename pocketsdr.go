package augstream

/*------------------------------------------------------------------------------
* pocketsdr.go : Pocket SDR text-log framer (line-oriented, §4.1)
*
* The upstream Pocket SDR tool logs one decoded frame per line as
* "$L6FRM,tow,prn,cno,hexpayload" / "$OBS,...". There is no teacher
* equivalent (gnssgo never reads Pocket SDR logs); this is grounded directly
* on spec.md §4.1's description and the end-to-end scenario in §8 (the
* "20230305-063900has.psdr" input). Framing here has no checksum of its own
* -- the embedded payload is still validated by whatever stage consumes it
* (HAS pages are RS-checked at reassembly).
 */

import (
	"bufio"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
)

// PocketSDRFramer decodes a Pocket SDR text log, one frame per matching
// line.
type PocketSDRFramer struct {
	r       *bufio.Reader
	isL6    bool // true: $L6FRM lines carry 250-byte L6 data; false: $HASFRM lines carry 62-byte HAS pages
}

// NewPocketSDRFramer wraps r; isL6 selects which record type to extract.
func NewPocketSDRFramer(r io.Reader, isL6 bool) *PocketSDRFramer {
	return &PocketSDRFramer{r: bufio.NewReader(r), isL6: isL6}
}

// Next returns the next decoded frame or a line-parse error; io.EOF maps to
// ok=false with no error, matching the lazy end-of-stream convention of
// FrameSource.
func (p *PocketSDRFramer) Next() (*SatFrame, *FrameError, bool) {
	for {
		line, err := p.r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if f, ferr := p.parseLine(line); f != nil || ferr != nil {
				return f, ferr, true
			}
		}
		if err != nil {
			return nil, nil, false
		}
	}
}

func (p *PocketSDRFramer) parseLine(line string) (*SatFrame, *FrameError) {
	fields := strings.Split(line, ",")
	if len(fields) < 5 {
		return nil, nil
	}
	tag := fields[0]
	wantTag := "$HASFRM"
	if p.isL6 {
		wantTag = "$L6FRM"
	}
	if tag != wantTag {
		return nil, nil
	}
	tow, err1 := strconv.Atoi(fields[1])
	prn, err2 := strconv.Atoi(fields[2])
	cno, err3 := strconv.ParseFloat(fields[3], 64)
	raw, err4 := hex.DecodeString(strings.TrimSpace(fields[4]))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return nil, &FrameError{Kind: ErrLengthFail, PRN: prn, TOW: tow, Stage: "pocketsdr"}
	}

	wantLen := 62
	if p.isL6 {
		wantLen = 250
	}
	if len(raw) != wantLen {
		return nil, &FrameError{Kind: ErrLengthFail, PRN: prn, TOW: tow, Stage: "pocketsdr"}
	}

	c := ConstGalileo
	if p.isL6 {
		c = ConstQZSS
	}
	return &SatFrame{
		Constellation: c,
		PRN:           prn,
		Epoch:         GTime{TOW: tow},
		CNo:           cno,
		HasCNo:        true,
		Payload:       raw,
		Vendor:        "pocketsdr",
	}, nil
}
