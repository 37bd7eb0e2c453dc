package augstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRC24QDetectsBitFlip(t *testing.T) {
	msg := []uint8{0xD3, 0x00, 0x03, 0xAA, 0xBB, 0xCC}
	crc := CRC24Q(msg)

	corrupt := append([]uint8{}, msg...)
	corrupt[3] ^= 0x01
	require.NotEqual(t, crc, CRC24Q(corrupt))
}

func TestCRC24QDeterministic(t *testing.T) {
	msg := []uint8{1, 2, 3, 4, 5}
	require.Equal(t, CRC24Q(msg), CRC24Q(msg))
}

func TestCRC16CCITTDetectsBitFlip(t *testing.T) {
	msg := []uint8{0x24, 0x00, 0x99, 0x10, 0x20, 0x30, 0x40}
	crc := CRC16CCITT(msg)
	corrupt := append([]uint8{}, msg...)
	corrupt[0] ^= 0xFF
	require.NotEqual(t, crc, CRC16CCITT(corrupt))
}

func TestCRC32ReflectedKnownVector(t *testing.T) {
	// "123456789" under NovAtel's CRC-32 (zlib's reflected polynomial, but
	// initial value 0 and no final XOR) gives 0x2DFD2D88, not zlib's
	// 0xCBF43926.
	require.Equal(t, uint32(0x2DFD2D88), CRC32Reflected([]byte("123456789")))
}

func TestFletcher8ChangesOnCorruption(t *testing.T) {
	buf := []uint8{0x02, 0x13, 0x08, 0x00, 1, 2, 3, 4, 5, 6, 7, 8}
	a1, b1 := Fletcher8(buf)
	buf[4] ^= 0xFF
	a2, b2 := Fletcher8(buf)
	require.False(t, a1 == a2 && b1 == b2)
}

func TestAllystarChecksumDeterministic(t *testing.T) {
	buf := make([]uint8, 268)
	for i := range buf {
		buf[i] = uint8(i)
	}
	s1, ss1 := AllystarChecksum(buf)
	s2, ss2 := AllystarChecksum(buf)
	require.Equal(t, s1, s2)
	require.Equal(t, ss1, ss2)
}
