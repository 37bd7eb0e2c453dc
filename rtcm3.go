package augstream

/*------------------------------------------------------------------------------
* rtcm3.go : RTCM 3 framer, CRC-24Q validation, message dispatch (§4.4)
*
* Sync search, 10-bit length field and CRC-24Q trailer follow spec.md §4.4
* directly; the 1005 ECEF-ARP field layout (38-bit signed milli-meter
* fields) is grounded on gnssgo/src/rtcm3.go's decode_type1005/getbits_38;
* the MSM header (satellite/signal/cell mask, epoch time, multiple-message
* flag) is grounded on both gnssgo/src/rtcm3.go's decode_type1001..1012
* family and the field catalogue in
* other_examples/goblimey-go-ntrip__header.go. The 4073 CSSR envelope
* encoder/decoder has no teacher analogue and is built directly from
* spec.md §4.4's round-trip invariant.
 */

import "github.com/pkg/errors"

var rtcmSync = []uint8{0xD3}

// RTCM message types of interest (spec.md §3).
const (
	RTCM1005 = 1005
	RTCM1007 = 1007
	RTCM1008 = 1008
	RTCM1033 = 1033
	RTCM4073 = 4073
)

// RTCM3Framer decodes a D3-prefixed RTCM 3 byte stream (spec.md §4.4).
type RTCM3Framer struct {
	buf     []uint8
	numByte int
	msgLen  int
}

// NewRTCM3Framer constructs an RTCM 3 framer.
func NewRTCM3Framer() *RTCM3Framer {
	return &RTCM3Framer{buf: make([]uint8, 3+1023+3)}
}

// Feed pushes one byte through the RTCM framer. ok=false means no frame
// boundary yet.
func (r *RTCM3Framer) Feed(b uint8) (msg *RtcmMessage, rerr *RtcmError, ok bool) {
	if r.numByte == 0 {
		if b != 0xD3 {
			return nil, nil, false
		}
		r.buf[0] = b
		r.numByte = 1
		return nil, nil, false
	}
	r.buf[r.numByte] = b
	r.numByte++

	if r.numByte == 3 {
		lenField := (int(r.buf[1]) << 8) | int(r.buf[2])
		if lenField&0xFC00 != 0 {
			// upper 6 bits must be zero; re-sync without losing this byte.
			r.numByte = 0
			if b == 0xD3 {
				r.buf[0] = b
				r.numByte = 1
			}
			return nil, &RtcmError{Kind: ErrLengthFail, Err: errors.New("length upper bits nonzero")}, true
		}
		r.msgLen = lenField & 0x3FF
		if r.msgLen == 0 {
			r.numByte = 0
			return nil, &RtcmError{Kind: ErrLengthFail, Err: errors.New("zero-length payload")}, true
		}
	}
	total := 3 + r.msgLen + 3
	if r.numByte < 3 || r.numByte < total {
		return nil, nil, false
	}

	payload := r.buf[3 : 3+r.msgLen]
	crcGot := CRC24Q(r.buf[:3+r.msgLen])
	crcWant := uint32(r.buf[3+r.msgLen])<<16 | uint32(r.buf[3+r.msgLen+1])<<8 | uint32(r.buf[3+r.msgLen+2])
	r.numByte = 0
	if crcGot != crcWant {
		return nil, &RtcmError{Kind: ErrChecksumFail, Err: errors.Errorf("crc24q mismatch got=%06x want=%06x", crcGot, crcWant)}, true
	}

	c := NewBitCursor(payload)
	msgType := int(c.ReadU(12))
	return &RtcmMessage{Type: msgType, Payload: payload}, nil, true
}

// getbits38 reads a 38-bit signed field scaled as RTKLIB's getbits_38 does:
// 32 high bits signed, 6 low bits unsigned, combined as hi*64+lo.
func getbits38(c *BitCursor) float64 {
	hi := c.ReadS(32)
	lo := c.ReadU(6)
	return float64(hi)*64.0 + float64(lo)
}

// StationARP is the decoded body of RTCM 1005/1006.
type StationARP struct {
	StationID int
	ITRF      int
	X, Y, Z   float64 // ECEF meters
	Height    float64 // 1006 only
}

// DecodeStationARP decodes message type 1005 or 1006 (spec.md §3).
func DecodeStationARP(msg *RtcmMessage) (*StationARP, error) {
	c := NewBitCursor(msg.Payload)
	c.Advance(12) // message type already known
	sta := &StationARP{}
	sta.StationID = int(c.ReadU(12))
	sta.ITRF = int(c.ReadU(6))
	c.Advance(4) // reserved + GPS/GLONASS/Galileo indicators, ignored
	sta.X = getbits38(c) * 0.0001
	c.Advance(2)
	sta.Y = getbits38(c) * 0.0001
	c.Advance(2)
	sta.Z = getbits38(c) * 0.0001
	if msg.Type == RTCM1006 {
		sta.Height = float64(c.ReadU(16)) * 0.0001
	}
	return sta, nil
}

const RTCM1006 = 1006

// AntennaDescriptor is the decoded body of RTCM 1007/1008/1033.
type AntennaDescriptor struct {
	StationID     int
	Descriptor    string
	AntennaSetup  int
	SerialNumber  string
	ReceiverType  string
	ReceiverFW    string
	ReceiverSN    string
}

// DecodeAntennaDescriptor decodes 1007, 1008, or 1033.
func DecodeAntennaDescriptor(msg *RtcmMessage) (*AntennaDescriptor, error) {
	c := NewBitCursor(msg.Payload)
	c.Advance(12)
	d := &AntennaDescriptor{}
	d.StationID = int(c.ReadU(12))
	d.Descriptor = readRTCMString(c)
	d.AntennaSetup = int(c.ReadU(8))
	if msg.Type == RTCM1008 || msg.Type == RTCM1033 {
		d.SerialNumber = readRTCMString(c)
	}
	if msg.Type == RTCM1033 {
		d.ReceiverType = readRTCMString(c)
		d.ReceiverFW = readRTCMString(c)
		d.ReceiverSN = readRTCMString(c)
	}
	return d, nil
}

func readRTCMString(c *BitCursor) string {
	n := int(c.ReadU(8))
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(c.ReadU(8))
	}
	return string(b)
}

// EncodeRTCM3 frames payload (beginning with its 12-bit message type) as a
// complete RTCM 3 message: D3, 10-bit length, payload, CRC-24Q.
func EncodeRTCM3(payload []uint8) []uint8 {
	n := len(payload)
	out := make([]uint8, 3+n+3)
	out[0] = 0xD3
	out[1] = uint8((n >> 8) & 0x3)
	out[2] = uint8(n & 0xFF)
	copy(out[3:], payload)
	crc := CRC24Q(out[:3+n])
	out[3+n] = uint8(crc >> 16)
	out[3+n+1] = uint8(crc >> 8)
	out[3+n+2] = uint8(crc)
	return out
}

// EncodeCSSR4073 packages a raw CSSR bitstream (CLAS or MADOCA-PPP) as the
// payload of an RTCM type-4073 message, per spec.md §4.4: "the CSSR
// bitstream is packaged unchanged as the payload of an RTCM type-4073
// message". subNumber distinguishes CLAS (1) from MADOCA-PPP (2) per
// spec.md §6 ("vendor sub-number indicating CLAS vs MADOCA-PPP").
func EncodeCSSR4073(cssrBits []uint8, subNumber int) []uint8 {
	w := NewBitWriter(12 + 4 + len(cssrBits)*8)
	w.WriteU(RTCM4073, 12)
	w.WriteU(uint32(subNumber), 4)
	w.WriteBytes(cssrBits)
	return EncodeRTCM3(w.Bytes())
}

// DecodeCSSR4073 recovers the CSSR bitstream and sub-number packaged by
// EncodeCSSR4073, giving decode(encode(x))==x (spec.md §8 round-trip
// invariant).
func DecodeCSSR4073(msg *RtcmMessage) (cssrBits []uint8, subNumber int, err error) {
	if msg.Type != RTCM4073 {
		return nil, 0, errors.Errorf("not a 4073 message: type=%d", msg.Type)
	}
	c := NewBitCursor(msg.Payload)
	c.Advance(12)
	subNumber = int(c.ReadU(4))
	rest := msg.Payload[2:]
	return rest, subNumber, nil
}
