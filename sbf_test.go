package augstream

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSBFFrame(blockID int, body []uint8) []uint8 {
	total := 8 + len(body)
	for total%4 != 0 {
		body = append(body, 0)
		total++
	}
	buf := make([]uint8, total)
	buf[0], buf[1] = sbfSync[0], sbfSync[1]
	binary.LittleEndian.PutUint16(buf[4:6], uint16(blockID))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(total))
	copy(buf[8:], body)

	crc := CRC16CCITT(buf[4:])
	binary.LittleEndian.PutUint16(buf[2:4], crc)
	return buf
}

func TestSBFFramerDecodesGALRawCNAV(t *testing.T) {
	body := make([]uint8, 8+62)
	binary.LittleEndian.PutUint32(body[0:4], 345600000)
	binary.LittleEndian.PutUint16(body[4:6], 2200)
	body[6] = 11
	raw := buildSBFFrame(blockGALRawCNAV, body)

	sf := NewSBFFramer()
	var got *SatFrame
	for _, b := range raw {
		if f, ferr, ok := sf.Feed(b); ok {
			require.Nil(t, ferr)
			got = f
		}
	}
	require.NotNil(t, got)
	require.Equal(t, 11, got.PRN)
	require.Equal(t, ConstGalileo, got.Constellation)
	require.Equal(t, 345600, got.Epoch.TOW)
}

func TestSBFFramerDecodesQZSRawL6(t *testing.T) {
	body := make([]uint8, 8+250)
	binary.LittleEndian.PutUint32(body[0:4], 100000)
	binary.LittleEndian.PutUint16(body[4:6], 2200)
	body[6] = 193
	raw := buildSBFFrame(blockQZSRawL6, body)

	sf := NewSBFFramer()
	var got *SatFrame
	for _, b := range raw {
		if f, ferr, ok := sf.Feed(b); ok {
			require.Nil(t, ferr)
			got = f
		}
	}
	require.NotNil(t, got)
	require.Equal(t, 193, got.PRN)
	require.Equal(t, ConstQZSS, got.Constellation)
	require.Len(t, got.Payload, 250)
}

func TestSBFFramerRejectsChecksumFailure(t *testing.T) {
	body := make([]uint8, 8+62)
	raw := buildSBFFrame(blockGALRawCNAV, body)
	raw[len(raw)-1] ^= 0xFF

	sf := NewSBFFramer()
	var ferr *FrameError
	for _, b := range raw {
		if _, e, ok := sf.Feed(b); ok {
			ferr = e
		}
	}
	require.NotNil(t, ferr)
	require.Equal(t, ErrChecksumFail, ferr.Kind)
}
