package augstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildL1SPayload packs mt and the data-field bits dfFill writes into a
// 32-byte L1S payload with a valid CRC-24Q trailer, mirroring the frame
// L1SDecoder.Decode reconstructs internally.
func buildL1SPayload(mt int, dfFill func(w *BitWriter)) []uint8 {
	dfw := NewBitWriter(l1sDFBits)
	dfFill(dfw)
	for dfw.Len() < l1sDFBits {
		dfw.WriteU(0, 1)
	}
	dfBytes := dfw.Bytes()

	full := NewBitWriter(256)
	full.WriteU(0x53, l1sPreambleBits)
	full.WriteU(uint32(mt), l1sMTBits)
	dc := NewBitCursor(dfBytes)
	for read := 0; read < l1sDFBits; {
		n := l1sDFBits - read
		if n > 32 {
			n = 32
		}
		full.WriteU(dc.ReadU(n), n)
		read += n
	}
	crc := l1sFrameCRC(0x53, mt, full.Bytes(), l1sPreambleBits+l1sMTBits)
	full.WriteU(crc, l1sCRCBits)
	return full.Bytes()
}

func TestL1SDecoderRejectsCRCMismatch(t *testing.T) {
	payload := buildL1SPayload(63, func(w *BitWriter) {})
	payload[10] ^= 0xFF // corrupt a data-field byte

	d := NewL1SDecoder()
	_, err := d.Decode(186, payload)
	require.NotNil(t, err)
	require.Equal(t, ErrChecksumFail, err.Kind)
}

func TestL1SDecoderRejectsShortPayload(t *testing.T) {
	d := NewL1SDecoder()
	_, err := d.Decode(186, make([]uint8, 4))
	require.NotNil(t, err)
	require.Equal(t, ErrShortPayload, err.Kind)
}

func TestL1SDecoderDecodesPRNMask(t *testing.T) {
	payload := buildL1SPayload(48, func(w *BitWriter) {
		w.WriteU(0, 2) // IODP
		for i := 0; i < 64; i++ {
			var bit uint32
			if i == 15 { // G16
				bit = 1
			}
			w.WriteU(bit, 1)
		}
	})

	d := NewL1SDecoder()
	msg, err := d.Decode(186, payload)
	require.Nil(t, err)
	require.Equal(t, "PRN mask", msg.Name)
	require.NotNil(t, msg.PRNMask)
	require.Equal(t, []string{"G16"}, msg.PRNMask.Sats)
}

func TestL1SDecoderDGPSCorrectionListsStationAndPRC(t *testing.T) {
	d := NewL1SDecoder()
	maskPayload := buildL1SPayload(48, func(w *BitWriter) {
		w.WriteU(0, 2)
		for i := 0; i < 64; i++ {
			var bit uint32
			if i == 15 { // G16
				bit = 1
			}
			w.WriteU(bit, 1)
		}
	})
	_, err := d.Decode(186, maskPayload)
	require.Nil(t, err)

	dgpsPayload := buildL1SPayload(50, func(w *BitWriter) {
		w.WriteU(0, 2) // IODP, matches mask
		w.WriteU(0, 2) // IODI, matches default
		w.WriteU(0, 6) // GMS code 0 = Sapporo
		w.WriteU(0, 1) // GMS health
		for i := 0; i < 23; i++ {
			var bit uint32
			if i == 0 { // G16 is mask index 0
				bit = 1
			}
			w.WriteU(bit, 1)
		}
		w.WriteS(-77, 12) // -77*0.04 = -3.08 m
		for i := 1; i < 14; i++ {
			w.WriteS(0, 12)
		}
	})

	msg, err := d.Decode(186, dgpsPayload)
	require.Nil(t, err)
	require.Equal(t, "DGPS correction", msg.Name)
	require.NotNil(t, msg.DGPS)
	require.Equal(t, "Sapporo", msg.DGPS.Station)
	require.Len(t, msg.DGPS.Corrections, 1)
	require.Equal(t, "G16", msg.DGPS.Corrections[0].SV)
	require.InDelta(t, -3.08, msg.DGPS.Corrections[0].PRCMeter, 1e-9)
}

func TestL1SDecoderDGPSCorrectionEmptyWithoutPriorMask(t *testing.T) {
	d := NewL1SDecoder()
	dgpsPayload := buildL1SPayload(50, func(w *BitWriter) {
		w.WriteU(0, 2)
		w.WriteU(0, 2)
		w.WriteU(0, 6)
		w.WriteU(0, 1)
	})

	msg, err := d.Decode(186, dgpsPayload)
	require.Nil(t, err)
	require.Equal(t, "Sapporo", msg.DGPS.Station)
	require.Empty(t, msg.DGPS.Corrections)
}

func TestL1SDecoderSatelliteHealthListsUnhealthy(t *testing.T) {
	payload := buildL1SPayload(51, func(w *BitWriter) {
		w.WriteU(0, 2) // spare
		for i := 0; i < 64; i++ {
			var bit uint32 = 1 // healthy by default
			if i == 3 {
				bit = 0
			}
			w.WriteU(bit, 1)
		}
	})

	d := NewL1SDecoder()
	msg, err := d.Decode(186, payload)
	require.Nil(t, err)
	require.NotNil(t, msg.Health)
	require.Contains(t, msg.Health.Unhealthy, "G03")
}

func TestPipelineL1SDecodesDGPSCorrection(t *testing.T) {
	maskPayload := buildL1SPayload(48, func(w *BitWriter) {
		w.WriteU(0, 2)
		for i := 0; i < 64; i++ {
			var bit uint32
			if i == 15 {
				bit = 1
			}
			w.WriteU(bit, 1)
		}
	})
	dgpsPayload := buildL1SPayload(50, func(w *BitWriter) {
		w.WriteU(0, 2)
		w.WriteU(0, 2)
		w.WriteU(0, 6)
		w.WriteU(0, 1)
		for i := 0; i < 23; i++ {
			var bit uint32
			if i == 0 {
				bit = 1
			}
			w.WriteU(bit, 1)
		}
		w.WriteS(-77, 12)
		for i := 1; i < 14; i++ {
			w.WriteS(0, 12)
		}
	})

	f1 := &SatFrame{PRN: 186, Epoch: GTime{TOW: 1}, Payload: maskPayload, Vendor: "test"}
	f2 := &SatFrame{PRN: 186, Epoch: GTime{TOW: 2}, Payload: dgpsPayload, Vendor: "test"}
	src := &fakeSource{frames: []*SatFrame{f1, f2}, errs: make([]*FrameError, 2)}
	p := NewPipeline(src, "l1s", DialectCLAS, 186)

	var got *L1SMessage
	for {
		ev, ok := p.Next()
		if !ok {
			break
		}
		require.Nil(t, ev.DecodeErr)
		if ev.L1S != nil && ev.L1S.DGPS != nil {
			got = ev.L1S
		}
	}
	require.NotNil(t, got)
	require.Equal(t, "Sapporo", got.DGPS.Station)
	require.Len(t, got.DGPS.Corrections, 1)
	require.Equal(t, "G16", got.DGPS.Corrections[0].SV)
	require.InDelta(t, -3.08, got.DGPS.Corrections[0].PRCMeter, 1e-9)
}
