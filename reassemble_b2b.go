package augstream

/*------------------------------------------------------------------------------
* reassemble_b2b.go : BeiDou B2b message classification (§4.2)
*
* MT1/MT2/MT3/MT4/MT63 frames from one PRN decode independently -- no
* cross-message reassembly is required, only a shared mask context across
* MT2/3/4 (spec.md §4.2). No teacher analogue; the message-type dispatch
* mirrors the plain switch-on-type style gnssgo/src/rtcm3.go uses for its
* decode_type* family.
 */

// B2bMessageType enumerates the BeiDou B2b message types spec.md names.
type B2bMessageType int

const (
	B2bMT1  B2bMessageType = 1
	B2bMT2  B2bMessageType = 2
	B2bMT3  B2bMessageType = 3
	B2bMT4  B2bMessageType = 4
	B2bMT63 B2bMessageType = 63
)

// B2bFrame is one decoded (unreassembled) BeiDou B2b message.
type B2bFrame struct {
	PRN     int
	MT      B2bMessageType
	Payload []uint8 // 486 bits packed into 61 (or spec's 62 zero-padded) bytes
}

// ClassifyB2b reads the message-type field from a raw 486-bit B2b payload
// (spec.md §3) and returns the message type without consuming buf; callers
// route to the appropriate CSSR subtype decoder based on the result.
func ClassifyB2b(buf []uint8) B2bMessageType {
	c := NewBitCursor(buf)
	return B2bMessageType(c.ReadU(6))
}
