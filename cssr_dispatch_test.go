package augstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// writeCSSRHeader writes the msgnum(12)+subtype(4)+epoch/hepoch+interval(4)+
// mmi(1) fields that precede every subtype body but ST-10's.
func writeCSSRHeader(w *BitWriter, subtype int) {
	w.WriteU(cssrMsgNum, 12)
	w.WriteU(uint32(subtype), 4)
	if hdrBits := cssrHeaderBits(subtype); hdrBits > 0 {
		epochWidth := 12
		if subtype == 1 {
			epochWidth = 20
		}
		w.WriteU(0, epochWidth) // epoch/hepoch, value unused by the decoder
		w.WriteU(0, 4)          // update interval
		w.WriteU(0, 1)          // mmi
	}
}

func TestWalkCSSRSubframeRecoversSyncAfterMismatch(t *testing.T) {
	dec := NewCSSRDecoder()
	dec.installMask(193, DialectCLAS, sampleMask(1))
	tbl := TableFor(DialectCLAS)

	w := NewBitWriter(0)
	// ST-3 (clock) subtype with the wrong IODSSR.
	writeCSSRHeader(w, 3)
	w.WriteU(9, tbl.IODSSR.Width) // active mask has IODSSR 1, this is 9
	nsat := sampleMask(1).NSat()
	for i := 0; i < nsat; i++ {
		w.WriteS(0, tbl.ClockC0.Width)
	}

	results := WalkCSSRSubframe(w.Bytes(), dec, 193, DialectCLAS, 0)
	require.Len(t, results, 1)
	require.Equal(t, 3, results[0].Subtype)
	require.NotNil(t, results[0].Err)
	require.Equal(t, ErrIodssrMismatch, results[0].Err.Kind)
}

func TestWalkCSSRSubframeStopsOnZeroPadding(t *testing.T) {
	dec := NewCSSRDecoder()
	results := WalkCSSRSubframe(make([]uint8, 16), dec, 193, DialectCLAS, 0)
	require.Empty(t, results)
}

func TestWalkCSSRSubframeUnknownSubtypeAdvancesAndContinues(t *testing.T) {
	dec := NewCSSRDecoder()
	tbl := TableFor(DialectCLAS)

	w := NewBitWriter(0)
	writeCSSRHeader(w, 15) // no decoder registered for subtype 15
	w.WriteU(0, tbl.IODSSR.Width)

	results := WalkCSSRSubframe(w.Bytes(), dec, 193, DialectCLAS, 0)
	require.Len(t, results, 1)
	require.Equal(t, 15, results[0].Subtype)
	require.NotNil(t, results[0].Err)
	require.Equal(t, ErrUnknownSubtype, results[0].Err.Kind)
}

func TestWalkCSSRSubframeAbortsWhenDeclaredLengthExceedsBuffer(t *testing.T) {
	dec := NewCSSRDecoder()
	dec.installMask(193, DialectCLAS, sampleMask(1))

	w := NewBitWriter(0)
	writeCSSRHeader(w, 3) // ST-3 needs IODSSR + nsat*ClockC0 bits, far more than remains

	results := WalkCSSRSubframe(w.Bytes(), dec, 193, DialectCLAS, 0)
	require.Empty(t, results)
}

func TestWalkCSSRSubframeRejectsWrongMsgNum(t *testing.T) {
	dec := NewCSSRDecoder()
	w := NewBitWriter(0)
	w.WriteU(1234, 12) // not 4073
	w.WriteU(1, 4)

	results := WalkCSSRSubframe(w.Bytes(), dec, 193, DialectCLAS, 0)
	require.Empty(t, results)
}
