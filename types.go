package augstream

/*------------------------------------------------------------------------------
* types.go : core record types shared across framer, reassembler and decoder
*
* Constellation/PRN ranges are generalized from the SYS_x/MINPRNxxx/MAXPRNxxx
* constant families in gnssgo/src/types.go; the rest (SatFrame, FrameError,
* HASPage, Mask, CSSRStats, RtcmMessage) are new records shaped directly by
* spec.md §3.
 */

import "fmt"

// Constellation identifies the navigation system a PRN belongs to.
type Constellation int

const (
	ConstNone Constellation = iota
	ConstGPS
	ConstGalileo
	ConstQZSS
	ConstBeiDou
	ConstQZSSL1S
)

func (c Constellation) String() string {
	switch c {
	case ConstGPS:
		return "GPS"
	case ConstGalileo:
		return "GAL"
	case ConstQZSS:
		return "QZS"
	case ConstBeiDou:
		return "BDS"
	case ConstQZSSL1S:
		return "QZL1S"
	default:
		return "NONE"
	}
}

// PRN ranges from spec.md §3.
const (
	MinPRNGPS      = 1
	MaxPRNGPS      = 32
	MinPRNGalileo  = 1
	MaxPRNGalileo  = 36
	MinPRNQZSSL6   = 193
	MaxPRNQZSSL6   = 211
	MinPRNQZSSL1S  = 120
	MaxPRNQZSSL1S  = 158
	MinPRNBeiDou   = 1
	MaxPRNBeiDou   = 63
)

// ConstellationOf infers the constellation a raw PRN belongs to for a given
// signal family hint (L6 vs L1S matter for QZSS since the PRN ranges
// overlap with different meanings).
func ConstellationOf(prn int, isL1S bool) Constellation {
	switch {
	case prn >= MinPRNGPS && prn <= MaxPRNGPS:
		return ConstGPS
	case prn >= MinPRNGalileo && prn <= MaxPRNGalileo:
		return ConstGalileo
	case isL1S && prn >= MinPRNQZSSL1S && prn <= MaxPRNQZSSL1S:
		return ConstQZSSL1S
	case !isL1S && prn >= MinPRNQZSSL6 && prn <= MaxPRNQZSSL6:
		return ConstQZSS
	case prn >= MinPRNBeiDou && prn <= MaxPRNBeiDou:
		return ConstBeiDou
	default:
		return ConstNone
	}
}

// SatLabel renders a PRN the way display collaborators do (§6): G01, E01,
// J01 (QZSS), C01 (BeiDou).
func SatLabel(c Constellation, prn int) string {
	switch c {
	case ConstGPS:
		return fmt.Sprintf("G%02d", prn)
	case ConstGalileo:
		return fmt.Sprintf("E%02d", prn)
	case ConstQZSS:
		return fmt.Sprintf("J%02d", prn-192)
	case ConstQZSSL1S:
		return fmt.Sprintf("J%02d", prn-192)
	case ConstBeiDou:
		return fmt.Sprintf("C%02d", prn)
	default:
		return fmt.Sprintf("?%03d", prn)
	}
}

// GTime is a GPS week + seconds-of-week receive epoch, integer seconds per
// spec.md §3 ("receive epoch (GPS week + seconds-of-week, integer)").
type GTime struct {
	Week int
	TOW  int // seconds of week
}

// ErrorKind tags the cause of a FrameError/DecodeError per spec.md §7.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrSyncLost
	ErrChecksumFail
	ErrLengthFail
	ErrRsUncorrectable
	ErrWeekInvalid
	ErrTowInvalid
	ErrFlagBitSet
	ErrIodssrMismatch
	ErrMaskAbsent
	ErrUnknownSubtype
	ErrShortPayload
	ErrMSMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyncLost:
		return "SyncLost"
	case ErrChecksumFail:
		return "ChecksumFail"
	case ErrLengthFail:
		return "LengthFail"
	case ErrRsUncorrectable:
		return "RsUncorrectable"
	case ErrWeekInvalid:
		return "WeekInvalid"
	case ErrTowInvalid:
		return "TowInvalid"
	case ErrFlagBitSet:
		return "FlagBitSet"
	case ErrIodssrMismatch:
		return "IodssrMismatch"
	case ErrMaskAbsent:
		return "MaskAbsent"
	case ErrUnknownSubtype:
		return "UnknownSubtype"
	case ErrShortPayload:
		return "ShortPayload"
	case ErrMSMismatch:
		return "MS mismatch"
	default:
		return "None"
	}
}

// SatFrame is a decoded satellite payload frame (spec.md §3).
type SatFrame struct {
	Constellation Constellation
	PRN           int
	Epoch         GTime
	CNo           float64 // dB-Hz, 0 if not reported
	HasCNo        bool
	Payload       []uint8
	Vendor        string
}

// FrameError is emitted by a framer in place of a SatFrame when framing
// checks fail; the stream continues (§4.1).
type FrameError struct {
	Kind  ErrorKind
	PRN   int
	TOW   int
	Stage string
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s[prn=%d tow=%d]: %s", e.Kind, e.PRN, e.TOW, e.Err)
}

// HASPage is one Galileo HAS page (spec.md §3).
type HASPage struct {
	PRN     int
	MID     int // message ID, 5 bits
	MS      int // message size in pages, 5 bits
	PID     int // page ID, 8 bits, 1-based
	Payload []uint8 // 424 bits packed into 53 bytes
}

// MaskEntry is one satellite's declared signal bitmap within a Mask.
type MaskEntry struct {
	Constellation Constellation
	PRN           int
	Signals       []int // signal IDs present, in mask order
}

// Mask is the CSSR mask context for one (PRN-stream, dialect) key,
// installed by ST-1/MT-1 and consulted by every downstream subtype
// (spec.md §3 "Mask context").
type Mask struct {
	IODSSR  int
	IODP    int
	Entries []MaskEntry
}

// SatIndex returns the 0-based position of prn within the mask's satellite
// ordering, or -1 if absent. Downstream corrections are dense arrays indexed
// by this ordering (§9 "Mask as typed record").
func (m *Mask) SatIndex(prn int) int {
	for i, e := range m.Entries {
		if e.PRN == prn {
			return i
		}
	}
	return -1
}

// NSat and NSig feed the CSSRStats bit-accounting identity in §4.3.
func (m *Mask) NSat() int { return len(m.Entries) }
func (m *Mask) NSig() int {
	n := 0
	for _, e := range m.Entries {
		n += len(e.Signals)
	}
	return n
}

// CSSRStats accumulates the per-mask-epoch bit-accounting counters exposed
// on every ST-1 boundary (spec.md §4.3).
type CSSRStats struct {
	NSat     int
	NSig     int
	BitSat   int
	BitSig   int
	BitOther int
	BitNull  int
	BitTotal int
}

// Invariant (spec.md §8): BitSat+BitSig+BitOther+BitNull == BitTotal.
func (s *CSSRStats) Reconcile() {
	s.BitTotal = s.BitSat + s.BitSig + s.BitOther + s.BitNull
}

// RtcmMessage is a framed, CRC-validated RTCM 3 message (spec.md §3/§4.4).
type RtcmMessage struct {
	Type    int
	Payload []uint8 // full payload including the 12-bit type field
}

// RtcmError is emitted by the RTCM framer in place of a message on CRC or
// length failure (§4.4).
type RtcmError struct {
	Kind ErrorKind
	Err  error
}

func (e *RtcmError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Err) }

// FrameSource is the common pull interface the pipeline consumes (§9 "lazy
// sequence of typed records"); the reassembly stage only depends on this
// interface, never on a concrete vendor type. PocketSDRFramer implements it
// directly; the byte-oriented framers expose Feed(byte) instead and are
// wrapped by the caller (cmd/corrstream's byteFeeder).
type FrameSource interface {
	// Next returns the next decoded frame, or a non-nil ferr on a framing
	// failure, or ok=false at clean end of stream. Exactly one of frame/ferr
	// is non-nil when ok is true.
	Next() (frame *SatFrame, ferr *FrameError, ok bool)
}
