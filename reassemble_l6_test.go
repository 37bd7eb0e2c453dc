package augstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeL6Frame(prn int, start bool, fill uint8) L6Frame {
	data := make([]uint8, l6DPartBytes)
	for i := range data {
		data[i] = fill
	}
	return L6Frame{PRN: prn, SubframeStart: start, DataPart: data}
}

func TestL6ReassemblerConcatenatesFiveParts(t *testing.T) {
	r := NewL6Reassembler()
	var sf []uint8
	for i := 0; i < l6PartsPerSF; i++ {
		out, flushed := r.Add(makeL6Frame(193, i == 0, uint8(i)))
		require.False(t, flushed)
		if i < l6PartsPerSF-1 {
			require.Nil(t, out)
		} else {
			sf = out
		}
	}
	require.Len(t, sf, (l6SubframeBits+7)/8)
	require.Equal(t, uint8(0), sf[0])
}

func TestL6ReassemblerFlushesIncompletePriorSubframe(t *testing.T) {
	r := NewL6Reassembler()
	r.Add(makeL6Frame(193, true, 1))
	r.Add(makeL6Frame(193, false, 2))

	_, flushed := r.Add(makeL6Frame(193, true, 3))
	require.True(t, flushed)
}

func TestL6ReassemblerDropsMidSubframeWithNoStart(t *testing.T) {
	r := NewL6Reassembler()
	out, flushed := r.Add(makeL6Frame(193, false, 1))
	require.Nil(t, out)
	require.False(t, flushed)
}

func buildL6Raw(prn, mtid uint8, dpart []uint8, leadingGarbage int) []uint8 {
	raw := make([]uint8, leadingGarbage)
	raw = append(raw, 0x1A, 0xCF, 0xFC, 0x1D)
	raw = append(raw, prn, mtid)
	raw = append(raw, dpart...)
	raw = append(raw, make([]uint8, 32)...) // RS trailer, unread by ParseL6Payload
	return raw
}

func TestParseL6PayloadSplitsHeaderAndData(t *testing.T) {
	dpart := make([]uint8, l6DPartBytes)
	dpart[0] = 0x81 // alert bit set, rest zero
	dpart[1] = 0xAB

	// mtid = vendorID(5=CLAS)<<5 | Kobe(1)<<4 | facilitySub(1)<<3 | Ionospheric(0)<<2 | CNAV(1)<<1 | SubframeStart(1)
	mtid := uint8(0xBB)
	raw := buildL6Raw(193, mtid, dpart, 2) // 2 bytes of leading garbage before the preamble

	f := ParseL6Payload(193, raw)
	require.Equal(t, 193, f.PRN)
	require.Equal(t, L6VendorCLAS, f.VendorID)
	require.True(t, f.Kobe)
	require.Equal(t, 1, f.FacilitySub)
	require.False(t, f.Ionospheric)
	require.True(t, f.CNAV)
	require.True(t, f.SubframeStart)
	require.True(t, f.Alert)
	require.Len(t, f.DataPart, l6DPartBytes)
	require.Equal(t, uint8(0x03), f.DataPart[0])
}

func TestParseL6PayloadReturnsEmptyWhenPreambleMissing(t *testing.T) {
	f := ParseL6Payload(193, make([]uint8, 64))
	require.Equal(t, 193, f.PRN)
	require.Len(t, f.DataPart, l6DPartBytes)
}

func TestIsAllZero(t *testing.T) {
	require.True(t, isAllZero([]uint8{0, 0, 0}))
	require.False(t, isAllZero([]uint8{0, 1, 0}))
}
