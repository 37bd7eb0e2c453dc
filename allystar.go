package augstream

/*------------------------------------------------------------------------------
* allystar.go : Allystar HD9310 L6 framer + best-satellite tick selector
*
* Header layout and the two-byte Fletcher-like checksum are grounded on the
* byte-by-byte input_* state machines in gnssgo/src/rcvraw.go and the
* checksum_ublox accumulation style in gnssgo/src/ublox.go; the field table
* itself (PRN offset -700, data-length check, flag bits) comes straight from
* spec.md §4.1.
 */

import "encoding/binary"

const (
	allystarRegionLen  = 264 // length field value: bytes from PRN through 252B data
	allystarTotalLen   = 4 + 2 + allystarRegionLen + 2
	allystarPRNOffset  = 700
	allystarDataLenWant = 63
)

var allystarSync = []uint8{0xF1, 0xD9, 0x02, 0x10}

// AllystarFramer decodes one Allystar HD9310 byte stream into L6 satellite
// frames.
type AllystarFramer struct {
	bf *byteFramer
}

// NewAllystarFramer constructs a framer over a raw Allystar byte stream.
func NewAllystarFramer() *AllystarFramer {
	a := &AllystarFramer{}
	a.bf = newByteFramer(allystarSync, allystarTotalLen, allystarLenFn, a.decode)
	return a
}

func allystarLenFn(buf []uint8, numByte int) (int, bool) {
	if numByte < 6 {
		return 0, false
	}
	l := int(binary.LittleEndian.Uint16(buf[4:6]))
	if l != allystarRegionLen {
		return 0, true // signal a length failure via an impossible total
	}
	return allystarTotalLen, true
}

func (a *AllystarFramer) decode(buf []uint8) (*SatFrame, *FrameError) {
	// buf[4:6] is the length field itself; the checksum runs over it plus
	// the region it announces, per AllystarChecksum's "length through
	// payload" contract.
	checksumSpan := buf[4 : 6+allystarRegionLen]
	region := buf[6 : 6+allystarRegionLen]
	trailer := buf[6+allystarRegionLen:]

	sum, sumOfSums := AllystarChecksum(checksumSpan)
	if sum != trailer[0] || sumOfSums != trailer[1] {
		return nil, &FrameError{Kind: ErrChecksumFail, Stage: "allystar"}
	}

	prn := int(binary.LittleEndian.Uint16(region[0:2])) - allystarPRNOffset
	dataLen := int(region[3])
	if dataLen-2 != allystarDataLenWant {
		return nil, &FrameError{Kind: ErrLengthFail, PRN: prn, Stage: "allystar"}
	}
	week := int(binary.BigEndian.Uint16(region[4:6]))
	tow := int(binary.BigEndian.Uint32(region[6:10]))
	cno := float64(region[10])
	flags := region[11]

	if flags&0x2 != 0 {
		return nil, &FrameError{Kind: ErrWeekInvalid, PRN: prn, TOW: tow, Stage: "allystar"}
	}
	if flags&0x4 != 0 {
		return nil, &FrameError{Kind: ErrTowInvalid, PRN: prn, TOW: tow, Stage: "allystar"}
	}
	if flags&0x1 != 0 {
		return nil, &FrameError{Kind: ErrRsUncorrectable, PRN: prn, TOW: tow, Stage: "allystar"}
	}

	payload := make([]uint8, 252)
	copy(payload, region[12:264])

	return &SatFrame{
		Constellation: ConstellationOf(prn, false),
		PRN:           prn,
		Epoch:         GTime{Week: week, TOW: tow},
		CNo:           cno,
		HasCNo:        true,
		Payload:       payload,
		Vendor:        "allystar",
	}, nil
}

// Feed pushes one byte through the framer.
func (a *AllystarFramer) Feed(b uint8) (*SatFrame, *FrameError, bool) { return a.bf.feed(b) }

// BestSatSelector implements the "at most one L6 frame per tick" invariant
// of spec.md §4.1: across a 1-second tick keyed by GPS TOW, it retains the
// highest-C/No candidate (or a pinned PRN) and emits it at tick close.
type BestSatSelector struct {
	pinnedPRN int // 0 means "no pin, pick by C/No"
	curTOW    int
	haveTOW   bool
	best      *SatFrame
}

// NewBestSatSelector creates a selector; pinnedPRN==0 means select by
// highest C/No, ties breaking to the lowest PRN.
func NewBestSatSelector(pinnedPRN int) *BestSatSelector {
	return &BestSatSelector{pinnedPRN: pinnedPRN}
}

// Observe feeds one decoded frame into the current tick's candidate table.
// It returns a previously-completed tick's winner (if the tick just
// advanced) so callers drain it before the new candidate is buffered.
func (s *BestSatSelector) Observe(f *SatFrame) *SatFrame {
	var flushed *SatFrame
	if !s.haveTOW {
		s.haveTOW = true
		s.curTOW = f.Epoch.TOW
	} else if f.Epoch.TOW != s.curTOW {
		flushed = s.best
		s.best = nil
		s.curTOW = f.Epoch.TOW
	}

	switch {
	case s.pinnedPRN != 0:
		if f.PRN == s.pinnedPRN {
			s.best = f
		}
	case s.best == nil:
		s.best = f
	case f.CNo > s.best.CNo:
		s.best = f
	case f.CNo == s.best.CNo && f.PRN < s.best.PRN:
		s.best = f
	}
	return flushed
}

// Flush returns the current tick's candidate (used at end of stream).
func (s *BestSatSelector) Flush() *SatFrame {
	b := s.best
	s.best = nil
	return b
}
