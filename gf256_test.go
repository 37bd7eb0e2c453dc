package augstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGF256MulDivInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		for b := 1; b < 256; b++ {
			prod := gf.mul(uint8(a), uint8(b))
			require.Equal(t, uint8(a), gf.div(prod, uint8(b)))
		}
	}
}

func TestGF256MulByZero(t *testing.T) {
	require.EqualValues(t, 0, gf.mul(0, 200))
	require.EqualValues(t, 0, gf.mul(200, 0))
}

func TestGF256Inverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		require.EqualValues(t, 1, gf.mul(uint8(a), gf.inv(uint8(a))))
	}
}

func TestGF256Pow(t *testing.T) {
	require.EqualValues(t, 1, gf.pow(7, 0))
	require.Equal(t, gf.mul(7, gf.mul(7, 7)), gf.pow(7, 3))
}
