package augstream

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildNovatelFrame(msgID int, week, tow uint32, payload []uint8) []uint8 {
	hlen := oem4MinHeader
	header := make([]uint8, hlen)
	header[0], header[1], header[2] = novatelSync[0], novatelSync[1], novatelSync[2]
	header[3] = uint8(hlen)
	binary.LittleEndian.PutUint16(header[4:6], uint16(msgID))
	binary.LittleEndian.PutUint16(header[8:10], uint16(len(payload)))
	binary.LittleEndian.PutUint16(header[14:16], uint16(week))
	binary.LittleEndian.PutUint32(header[16:20], tow*1000)

	body := append(append([]uint8{}, header...), payload...)
	crc := CRC32Reflected(body)
	trailer := make([]uint8, 4)
	binary.LittleEndian.PutUint32(trailer, crc)
	return append(body, trailer...)
}

func TestNovAtelFramerDecodesHASPage(t *testing.T) {
	payload := make([]uint8, 4+62)
	binary.LittleEndian.PutUint32(payload[0:4], 11)
	raw := buildNovatelFrame(idGALCNAVRAWPAGE, 2200, 345600, payload)

	nf := NewNovAtelFramer()
	var got *SatFrame
	for _, b := range raw {
		if f, ferr, ok := nf.Feed(b); ok {
			require.Nil(t, ferr)
			got = f
		}
	}
	require.NotNil(t, got)
	require.Equal(t, 11, got.PRN)
	require.Equal(t, ConstGalileo, got.Constellation)
	require.Equal(t, 345600, got.Epoch.TOW)
	require.Len(t, got.Payload, 62)
}

func TestNovAtelFramerDecodesQZSSSubframe(t *testing.T) {
	payload := make([]uint8, 8+30)
	binary.LittleEndian.PutUint32(payload[0:4], 193)
	raw := buildNovatelFrame(idQZSSRAWSUBFRAME, 2200, 100, payload)

	nf := NewNovAtelFramer()
	var got *SatFrame
	for _, b := range raw {
		if f, ferr, ok := nf.Feed(b); ok {
			require.Nil(t, ferr)
			got = f
		}
	}
	require.NotNil(t, got)
	require.Equal(t, 193, got.PRN)
	require.Len(t, got.Payload, 30)
}

func TestNovAtelFramerRejectsChecksumFailure(t *testing.T) {
	payload := make([]uint8, 4+62)
	raw := buildNovatelFrame(idGALCNAVRAWPAGE, 2200, 100, payload)
	raw[len(raw)-1] ^= 0xFF

	nf := NewNovAtelFramer()
	var ferr *FrameError
	for _, b := range raw {
		if _, e, ok := nf.Feed(b); ok {
			ferr = e
		}
	}
	require.NotNil(t, ferr)
	require.Equal(t, ErrChecksumFail, ferr.Kind)
}

func TestNovAtelFramerUnknownMessageID(t *testing.T) {
	payload := make([]uint8, 4)
	raw := buildNovatelFrame(9999, 2200, 100, payload)

	nf := NewNovAtelFramer()
	var ferr *FrameError
	for _, b := range raw {
		if _, e, ok := nf.Feed(b); ok {
			ferr = e
		}
	}
	require.NotNil(t, ferr)
	require.Equal(t, ErrUnknownSubtype, ferr.Kind)
}
