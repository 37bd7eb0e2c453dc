package augstream

/*------------------------------------------------------------------------------
* novatel.go : NovAtel OEM7 binary framer
*
* Sync bytes, the 28-byte OEM4/6/7 header (header-length byte at offset 3,
* message length at offset 8) and the reflected CRC-32 trailer are grounded
* on gnssgo/src/novatel.go's OEM4SYNC1..3/OEM4HLEN constants and
* decode_oem4's raw.Len = U2L(buff[8:]) + OEM4HLEN framing. Only the two
* message IDs spec.md calls out (GALCNAVRAWPAGE for HAS, QZSSRAWSUBFRAME for
* QZSS LNAV) are dispatched; everything else is surfaced as a
* vendor-specific diagnostic the way decode_ubx falls through to a
* MsgType label for unhandled class/IDs.
 */

import "encoding/binary"

var novatelSync = []uint8{0xAA, 0x44, 0x12}

const (
	oem4MinHeader = 28
	// NovAtel message IDs of interest (spec.md §4.1).
	idGALCNAVRAWPAGE    = 1122 // decoded Galileo nav -- HAS page carrier in this port
	idQZSSRAWSUBFRAME   = 1330
)

// NovAtelFramer decodes an OEM7 binary stream.
type NovAtelFramer struct {
	bf *byteFramer
}

// NewNovAtelFramer constructs a framer over a raw OEM7 byte stream.
func NewNovAtelFramer() *NovAtelFramer {
	n := &NovAtelFramer{}
	n.bf = newByteFramer(novatelSync, 8192, novatelLenFn, n.decode)
	return n
}

func novatelLenFn(buf []uint8, numByte int) (int, bool) {
	if numByte < 12 {
		return 0, false
	}
	hlen := int(buf[3])
	if hlen < oem4MinHeader {
		return 0, true // length failure
	}
	msgLen := int(binary.LittleEndian.Uint16(buf[8:10]))
	return hlen + msgLen + 4, true // +4 bytes CRC-32 trailer
}

func (n *NovAtelFramer) decode(buf []uint8) (*SatFrame, *FrameError) {
	hlen := int(buf[3])
	body := buf[:len(buf)-4]
	trailer := buf[len(buf)-4:]

	crc := CRC32Reflected(body)
	want := binary.LittleEndian.Uint32(trailer)
	if crc != want {
		return nil, &FrameError{Kind: ErrChecksumFail, Stage: "novatel"}
	}

	msgID := int(binary.LittleEndian.Uint16(buf[4:6]))
	week := int(binary.LittleEndian.Uint16(buf[14:16]))
	tow := int(binary.LittleEndian.Uint32(buf[16:20])) / 1000

	payload := buf[hlen : len(buf)-4]

	switch msgID {
	case idGALCNAVRAWPAGE:
		return decodeNovatelHASPage(payload, week, tow)
	case idQZSSRAWSUBFRAME:
		return decodeNovatelQZSSSubframe(payload, week, tow)
	default:
		return nil, &FrameError{Kind: ErrUnknownSubtype, TOW: tow, Stage: "novatel"}
	}
}

func decodeNovatelHASPage(payload []uint8, week, tow int) (*SatFrame, *FrameError) {
	if len(payload) < 4+62 {
		return nil, &FrameError{Kind: ErrShortPayload, TOW: tow, Stage: "novatel"}
	}
	prn := int(binary.LittleEndian.Uint32(payload[0:4]))
	data := make([]uint8, 62)
	copy(data, payload[4:4+62])
	return &SatFrame{
		Constellation: ConstGalileo,
		PRN:           prn,
		Epoch:         GTime{Week: week, TOW: tow},
		Payload:       data,
		Vendor:        "novatel",
	}, nil
}

func decodeNovatelQZSSSubframe(payload []uint8, week, tow int) (*SatFrame, *FrameError) {
	if len(payload) < 8+30 {
		return nil, &FrameError{Kind: ErrShortPayload, TOW: tow, Stage: "novatel"}
	}
	prn := int(binary.LittleEndian.Uint32(payload[0:4]))
	data := make([]uint8, 30)
	copy(data, payload[8:8+30])
	return &SatFrame{
		Constellation: ConstellationOf(prn, false),
		PRN:           prn,
		Epoch:         GTime{Week: week, TOW: tow},
		Payload:       data,
		Vendor:        "novatel",
	}, nil
}

// Feed pushes one byte through the framer.
func (n *NovAtelFramer) Feed(b uint8) (*SatFrame, *FrameError, bool) { return n.bf.feed(b) }
