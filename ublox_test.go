package augstream

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildUBXFrame(class, id uint8, payload []uint8) []uint8 {
	buf := make([]uint8, 0, 6+len(payload)+2)
	buf = append(buf, ubxSync...)
	buf = append(buf, class, id)
	lenBytes := make([]uint8, 2)
	binary.LittleEndian.PutUint16(lenBytes, uint16(len(payload)))
	buf = append(buf, lenBytes...)
	buf = append(buf, payload...)

	ckA, ckB := Fletcher8(buf[2:])
	buf = append(buf, ckA, ckB)
	return buf
}

func buildSFRBXPayload(gnssID, svid, sigID, numWords int) []uint8 {
	p := make([]uint8, 8+numWords*4)
	p[0] = uint8(gnssID)
	p[1] = uint8(svid)
	p[3] = uint8(numWords)
	p[4] = uint8(sigID)
	return p
}

func TestUBloxFramerDecodesSFRBX(t *testing.T) {
	payload := buildSFRBXPayload(0, 12, 0, 10)
	raw := buildUBXFrame(classRXM, idRXMSFRBX, payload)

	uf := NewUBloxFramer(-1, -1)
	var got *SatFrame
	for _, b := range raw {
		if f, ferr, ok := uf.Feed(b); ok {
			require.Nil(t, ferr)
			got = f
		}
	}
	require.NotNil(t, got)
	require.Equal(t, 12, got.PRN)
	require.Equal(t, ConstGPS, got.Constellation)
	require.Len(t, got.Payload, 40)
}

func TestUBloxFramerFiltersByGNSSID(t *testing.T) {
	payload := buildSFRBXPayload(2, 5, 0, 10)
	raw := buildUBXFrame(classRXM, idRXMSFRBX, payload)

	uf := NewUBloxFramer(0, -1) // only accept GPS
	var ferr *FrameError
	for _, b := range raw {
		if _, e, ok := uf.Feed(b); ok {
			ferr = e
		}
	}
	require.NotNil(t, ferr)
	require.Equal(t, ErrUnknownSubtype, ferr.Kind)
}

func TestUBloxFramerDecodesPMP(t *testing.T) {
	payload := make([]uint8, 12+32)
	payload[4] = 186
	for i := range payload[12:] {
		payload[12+i] = uint8(i)
	}
	raw := buildUBXFrame(classRXM, idRXMPMP, payload)

	uf := NewUBloxFramer(-1, -1)
	var got *SatFrame
	for _, b := range raw {
		if f, ferr, ok := uf.Feed(b); ok {
			require.Nil(t, ferr)
			got = f
		}
	}
	require.NotNil(t, got)
	require.Equal(t, ConstQZSSL1S, got.Constellation)
	require.Equal(t, 186, got.PRN)
	require.Len(t, got.Payload, 32)
}

func TestUBloxFramerRejectsChecksumFailure(t *testing.T) {
	payload := buildSFRBXPayload(0, 12, 0, 10)
	raw := buildUBXFrame(classRXM, idRXMSFRBX, payload)
	raw[len(raw)-1] ^= 0xFF

	uf := NewUBloxFramer(-1, -1)
	var ferr *FrameError
	for _, b := range raw {
		if _, e, ok := uf.Feed(b); ok {
			ferr = e
		}
	}
	require.NotNil(t, ferr)
	require.Equal(t, ErrChecksumFail, ferr.Kind)
}
