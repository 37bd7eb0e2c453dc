package augstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleMask(iodssr int) *Mask {
	return &Mask{
		IODSSR: iodssr,
		Entries: []MaskEntry{
			{Constellation: ConstGPS, PRN: 1, Signals: []int{1, 2}},
			{Constellation: ConstGPS, PRN: 3, Signals: []int{1}},
		},
	}
}

func TestCSSRDecoderMaskAbsentBeforeFirstMask(t *testing.T) {
	dec := NewCSSRDecoder()
	_, err := dec.CheckIODSSR(193, DialectCLAS, 2)
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok)
	require.Equal(t, ErrMaskAbsent, de.Kind)
}

func TestCSSRDecoderIODSSREqualSucceeds(t *testing.T) {
	dec := NewCSSRDecoder()
	dec.installMask(193, DialectCLAS, sampleMask(4))
	m, err := dec.CheckIODSSR(193, DialectCLAS, 4)
	require.NoError(t, err)
	require.Equal(t, 4, m.IODSSR)
}

func TestCSSRDecoderIODSSRMismatchDoesNotMutateMask(t *testing.T) {
	dec := NewCSSRDecoder()
	original := sampleMask(4)
	dec.installMask(193, DialectCLAS, original)

	_, err := dec.CheckIODSSR(193, DialectCLAS, 5)
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok)
	require.Equal(t, ErrIodssrMismatch, de.Kind)

	require.Same(t, original, dec.ActiveMask(193, DialectCLAS))
	require.Equal(t, 4, dec.ActiveMask(193, DialectCLAS).IODSSR)
}

func TestCSSRDecoderMaskContextsAreIndependentPerPRNAndDialect(t *testing.T) {
	dec := NewCSSRDecoder()
	dec.installMask(193, DialectCLAS, sampleMask(1))
	dec.installMask(193, DialectMADOCAPPP, sampleMask(2))
	dec.installMask(194, DialectCLAS, sampleMask(3))

	require.Equal(t, 1, dec.ActiveMask(193, DialectCLAS).IODSSR)
	require.Equal(t, 2, dec.ActiveMask(193, DialectMADOCAPPP).IODSSR)
	require.Equal(t, 3, dec.ActiveMask(194, DialectCLAS).IODSSR)
}

func TestCSSRDecoderBitAccountingReconciles(t *testing.T) {
	dec := NewCSSRDecoder()
	dec.installMask(193, DialectCLAS, sampleMask(1))
	dec.AccountBits(193, DialectCLAS, "sat", 100)
	dec.AccountBits(193, DialectCLAS, "sig", 50)
	dec.AccountBits(193, DialectCLAS, "other", 10)
	dec.AccountBits(193, DialectCLAS, "null", 5)

	st := dec.Stats(193, DialectCLAS)
	require.Equal(t, st.BitSat+st.BitSig+st.BitOther+st.BitNull, st.BitTotal)
	require.Equal(t, 165, st.BitTotal)
}

func TestMaskNSatNSig(t *testing.T) {
	m := sampleMask(1)
	require.Equal(t, 2, m.NSat())
	require.Equal(t, 3, m.NSig())
	require.Equal(t, 0, m.SatIndex(1))
	require.Equal(t, 1, m.SatIndex(3))
	require.Equal(t, -1, m.SatIndex(99))
}
