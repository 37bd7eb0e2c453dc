package augstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildHASPages(ms int, cleartext []uint8) []HASPage {
	pages := make([]HASPage, ms)
	gen := rsGeneratorMatrix(ms)
	for col := 0; col < ms; col++ {
		page := make([]uint8, hasPageBytes)
		for byteOff := 0; byteOff < hasPageBytes; byteOff++ {
			var v uint8
			for j := 0; j < ms; j++ {
				v = gf.add(v, gf.mul(cleartext[j*hasPageBytes+byteOff], gen.rows[j][col]))
			}
			page[byteOff] = v
		}
		pages[col] = HASPage{MID: 1, MS: ms, PID: col + 1, Payload: page}
	}
	return pages
}

func TestHASReassemblerDecodesOnceMSPagesArrive(t *testing.T) {
	ms := 4
	cleartext := make([]uint8, ms*hasCleartextPerPage)
	for i := range cleartext {
		cleartext[i] = uint8(i)
	}
	pages := buildHASPages(ms, cleartext)

	r := NewHASReassembler()
	var result *HASResult
	for i, p := range pages {
		res, err := r.Add(11, p)
		require.Nil(t, err)
		if i < ms-1 {
			require.Nil(t, res)
		} else {
			result = res
		}
	}
	require.NotNil(t, result)
	require.Equal(t, ms, result.MS)
	require.Equal(t, cleartext, result.Cleartext)
}

func TestHASReassemblerRejectsPIDZero(t *testing.T) {
	r := NewHASReassembler()
	_, err := r.Add(11, HASPage{MID: 1, MS: 2, PID: 0, Payload: make([]uint8, hasPageBytes)})
	require.NotNil(t, err)
	require.Equal(t, ErrShortPayload, err.Kind)
}

func TestHASReassemblerReplacesGroupOnMSChange(t *testing.T) {
	r := NewHASReassembler()
	_, err := r.Add(11, HASPage{MID: 1, MS: 4, PID: 1, Payload: make([]uint8, hasPageBytes)})
	require.Nil(t, err)

	// A page for the same MID but a different MS starts a fresh group and
	// surfaces the mismatch as a diagnostic.
	res, err := r.Add(11, HASPage{MID: 1, MS: 2, PID: 1, Payload: make([]uint8, hasPageBytes)})
	require.NotNil(t, err)
	require.Equal(t, ErrMSMismatch, err.Kind)
	require.Nil(t, res)

	g := r.groups[1]
	require.Equal(t, 2, g.ms)
	require.Len(t, g.pages, 1)
}
