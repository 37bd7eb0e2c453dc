package augstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeST1InstallsMask(t *testing.T) {
	t2 := TableFor(DialectCLAS)
	w := NewBitWriter(t2.IODSSR.Width + t2.IODP.Width + t2.SatMaskBits + 2*t2.SigMaskBits)
	w.WriteU(3, t2.IODSSR.Width)
	w.WriteU(1, t2.IODP.Width)

	satMask := uint64(0)
	satMask |= uint64(1) << uint(t2.SatMaskBits-1)   // PRN 1
	satMask |= uint64(1) << uint(t2.SatMaskBits-1-2) // PRN 3
	// WriteU packs at most 32 bits, so the wider mask goes in two pieces.
	w.WriteU(uint32(satMask>>32), t2.SatMaskBits-32)
	w.WriteU(uint32(satMask), 32)
	w.WriteU(1<<uint(t2.SigMaskBits-1), t2.SigMaskBits) // PRN1 signal 1
	w.WriteU(1<<uint(t2.SigMaskBits-1), t2.SigMaskBits) // PRN3 signal 1

	c := NewBitCursor(w.Bytes())
	dec := NewCSSRDecoder()
	msg, err := DecodeST1(c, dec, 193, DialectCLAS, ConstQZSS)
	require.NoError(t, err)
	require.Equal(t, 3, msg.Mask.IODSSR)
	require.Len(t, msg.Mask.Entries, 2)
	require.Equal(t, 1, msg.Mask.Entries[0].PRN)
	require.Equal(t, 3, msg.Mask.Entries[1].PRN)

	require.NotNil(t, dec.ActiveMask(193, DialectCLAS))
	require.Equal(t, 3, dec.ActiveMask(193, DialectCLAS).IODSSR)
}

func TestDecodeST2OrbitAgainstMask(t *testing.T) {
	dec := NewCSSRDecoder()
	dec.installMask(193, DialectCLAS, &Mask{
		IODSSR: 5,
		Entries: []MaskEntry{
			{PRN: 1, Signals: []int{1}},
			{PRN: 2, Signals: []int{1}},
		},
	})

	tbl := TableFor(DialectCLAS)
	w := NewBitWriter(0)
	w.WriteU(5, tbl.IODSSR.Width)
	for i := 0; i < 2; i++ {
		w.WriteU(0, tbl.IODE.Width)
		w.WriteS(10, tbl.OrbitRadial.Width)
		w.WriteS(-5, tbl.OrbitAlong.Width)
		w.WriteS(2, tbl.OrbitCross.Width)
	}

	c := NewBitCursor(w.Bytes())
	msg, err := DecodeST2(c, dec, 193, DialectCLAS)
	require.NoError(t, err)
	require.Equal(t, 5, msg.IODSSR)
	require.Len(t, msg.Sats, 2)
	require.InDelta(t, 10*tbl.OrbitRadial.Scale, msg.Sats[0].RadialM, 1e-9)
	require.True(t, msg.Sats[0].HasRadial)
}

func TestDecodeST2IODSSRMismatchReturnsError(t *testing.T) {
	dec := NewCSSRDecoder()
	dec.installMask(193, DialectCLAS, &Mask{IODSSR: 1, Entries: []MaskEntry{{PRN: 1}}})

	tbl := TableFor(DialectCLAS)
	w := NewBitWriter(0)
	w.WriteU(2, tbl.IODSSR.Width) // wrong IODSSR
	c := NewBitCursor(w.Bytes())

	_, err := DecodeST2(c, dec, 193, DialectCLAS)
	require.Error(t, err)
	de := err.(*DecodeError)
	require.Equal(t, ErrIodssrMismatch, de.Kind)
}

func TestFieldSpecInvalidSentinel(t *testing.T) {
	f := FieldSpec{Width: 4, HasNoData: true}
	require.True(t, f.invalid(-8))
	require.False(t, f.invalid(-7))
	require.False(t, f.invalid(0))
}
