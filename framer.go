package augstream

/*------------------------------------------------------------------------------
* framer.go : vendor-agnostic framing scaffolding (§4.1)
*
* gnssgo's per-vendor decoders (rcvraw.go, ublox.go, novatel.go) each
* hand-roll their own sync/length/checksum state machine inline. augstream
* factors the common "feed one byte, maybe emit a frame" shape into
* byteFramer so each vendor file only supplies sync bytes, header length and
* a checksum+decode callback.
 */

// VendorKind enumerates the supported vendor framers. Each vendor has its own
// framer type and constructor; no function in this package dispatches on it.
type VendorKind int

const (
	VendorAllystar VendorKind = iota
	VendorNovAtel
	VendorSBF
	VendorUBlox
	VendorPocketSDR
	VendorRTCM3
)

// byteFramer implements the byte-by-byte synchronize/accumulate/dispatch
// loop shared by every fixed-preamble vendor framer. decodeFn is called once
// NumByte reaches the frame's total length (header+payload+trailer); it
// returns the decoded frame or an error frame. Lengths that are only known
// once enough header bytes have arrived are handled by lenFn reporting
// known=false until then.
type byteFramer struct {
	buf      []uint8
	numByte  int
	sync     []uint8
	state    int // how many sync bytes matched so far
	decodeFn func(buf []uint8) (*SatFrame, *FrameError)
	lenFn    func(buf []uint8, numByte int) (total int, known bool)
}

func newByteFramer(sync []uint8, maxLen int, lenFn func([]uint8, int) (int, bool), decodeFn func([]uint8) (*SatFrame, *FrameError)) *byteFramer {
	return &byteFramer{buf: make([]uint8, maxLen), sync: sync, lenFn: lenFn, decodeFn: decodeFn}
}

// feed pushes one byte through the state machine. ok=false means "no frame
// boundary reached yet"; ok=true means frame/ferr (exactly one non-nil) is
// ready.
func (f *byteFramer) feed(b uint8) (frame *SatFrame, ferr *FrameError, ok bool) {
	if f.numByte == 0 {
		// sync search: shift a candidate sync window through state.
		if b == f.sync[f.state] {
			f.buf[f.state] = b
			f.state++
			if f.state == len(f.sync) {
				f.numByte = f.state
				f.state = 0
			}
			return nil, nil, false
		}
		// resync: this byte might itself be the start of a new preamble.
		f.state = 0
		if b == f.sync[0] {
			f.buf[0] = b
			f.state = 1
			if f.state == len(f.sync) {
				f.numByte = f.state
				f.state = 0
			}
		}
		return nil, nil, false
	}

	if f.numByte >= len(f.buf) {
		f.numByte = 0
		return nil, &FrameError{Kind: ErrSyncLost, Stage: "framer"}, true
	}
	f.buf[f.numByte] = b
	f.numByte++

	total, known := f.lenFn(f.buf, f.numByte)
	if !known {
		return nil, nil, false
	}
	if total <= 0 || total > len(f.buf) {
		f.numByte = 0
		return nil, &FrameError{Kind: ErrLengthFail, Stage: "framer"}, true
	}
	if f.numByte < total {
		return nil, nil, false
	}

	frame, ferr = f.decodeFn(f.buf[:total])
	f.numByte = 0
	return frame, ferr, true
}
