package augstream

/*------------------------------------------------------------------------------
* sbf.go : Septentrio SBF framer
*
* Sync bytes "$@", 2-byte CRC, 2-byte block ID/revision, 2-byte length
* (multiple of 4). The CRC-16-CCITT
* validator reuses crc.go's table-driven implementation, grounded on
* gnssgo/src/common.go's Rtk_CRC16 the same way rtcm3.go's CRC-24Q does.
 */

import "encoding/binary"

var sbfSync = []uint8{'$', '@'}

const (
	blockGALRawCNAV = 4246 // HAS page carrier
	blockQZSRawL6   = 4247
)

// SBFFramer decodes a Septentrio SBF block stream.
type SBFFramer struct {
	bf *byteFramer
}

// NewSBFFramer constructs a framer over a raw SBF byte stream.
func NewSBFFramer() *SBFFramer {
	s := &SBFFramer{}
	s.bf = newByteFramer(sbfSync, 4096, sbfLenFn, s.decode)
	return s
}

func sbfLenFn(buf []uint8, numByte int) (int, bool) {
	if numByte < 8 {
		return 0, false
	}
	l := int(binary.LittleEndian.Uint16(buf[6:8]))
	if l%4 != 0 {
		return 0, true
	}
	return l, true
}

func (s *SBFFramer) decode(buf []uint8) (*SatFrame, *FrameError) {
	// CRC covers everything after the 2-byte CRC field itself.
	want := binary.LittleEndian.Uint16(buf[2:4])
	got := CRC16CCITT(buf[4:])
	if got != want {
		return nil, &FrameError{Kind: ErrChecksumFail, Stage: "sbf"}
	}

	blockIDRev := binary.LittleEndian.Uint16(buf[4:6])
	blockID := int(blockIDRev & 0x1FFF)
	body := buf[8:]

	switch blockID {
	case blockGALRawCNAV:
		return decodeSBFGALRawCNAV(body)
	case blockQZSRawL6:
		return decodeSBFQZSRawL6(body)
	default:
		return nil, &FrameError{Kind: ErrUnknownSubtype, Stage: "sbf"}
	}
}

func decodeSBFGALRawCNAV(body []uint8) (*SatFrame, *FrameError) {
	if len(body) < 8+62 {
		return nil, &FrameError{Kind: ErrShortPayload, Stage: "sbf"}
	}
	tow := int(binary.LittleEndian.Uint32(body[0:4])) / 1000
	week := int(binary.LittleEndian.Uint16(body[4:6]))
	svid := int(body[6])
	data := make([]uint8, 62)
	copy(data, body[8:8+62])
	return &SatFrame{
		Constellation: ConstGalileo,
		PRN:           svid,
		Epoch:         GTime{Week: week, TOW: tow},
		Payload:       data,
		Vendor:        "sbf",
	}, nil
}

func decodeSBFQZSRawL6(body []uint8) (*SatFrame, *FrameError) {
	if len(body) < 8+250 {
		return nil, &FrameError{Kind: ErrShortPayload, Stage: "sbf"}
	}
	tow := int(binary.LittleEndian.Uint32(body[0:4])) / 1000
	week := int(binary.LittleEndian.Uint16(body[4:6]))
	svid := int(body[6])
	data := make([]uint8, 250)
	copy(data, body[8:8+250])
	return &SatFrame{
		Constellation: ConstQZSS,
		PRN:           svid,
		Epoch:         GTime{Week: week, TOW: tow},
		Payload:       data,
		Vendor:        "sbf",
	}, nil
}

// Feed pushes one byte through the framer.
func (s *SBFFramer) Feed(b uint8) (*SatFrame, *FrameError, bool) { return s.bf.feed(b) }
