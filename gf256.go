package augstream

/*------------------------------------------------------------------------------
* gf256.go : GF(2^8) field arithmetic for the Galileo HAS Reed-Solomon code
*
* Built from the primitive polynomial 0x11D, the same primitive used by the
* classic Phil Karn RS codecs referenced in
* other_examples/doismellburning-samoyed__fx25_init.go. The field tables here
* are exp/log tables (not copied from that file) sized for symsize=8, which
* is all HAS needs; reedsolomon.go uses them for an erasure-only decoder per
* spec.md §9's "solving a linear system" simplification.
 */

const gf256Prim = 0x11D

type gf256 struct {
	exp [510]uint8 // doubled for wraparound-free lookups
	log [256]int16
}

var gf = newGF256()

func newGF256() *gf256 {
	g := &gf256{}
	x := 1
	for i := 0; i < 255; i++ {
		g.exp[i] = uint8(x)
		g.log[x] = int16(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= gf256Prim
		}
	}
	for i := 255; i < 510; i++ {
		g.exp[i] = g.exp[i-255]
	}
	g.log[0] = -1
	return g
}

func (g *gf256) add(a, b uint8) uint8 { return a ^ b }

func (g *gf256) mul(a, b uint8) uint8 {
	if a == 0 || b == 0 {
		return 0
	}
	return g.exp[int(g.log[a])+int(g.log[b])]
}

func (g *gf256) div(a, b uint8) uint8 {
	if a == 0 {
		return 0
	}
	if b == 0 {
		panic("gf256: division by zero")
	}
	d := int(g.log[a]) - int(g.log[b])
	if d < 0 {
		d += 255
	}
	return g.exp[d]
}

func (g *gf256) inv(a uint8) uint8 {
	return g.exp[255-int(g.log[a])]
}

// pow returns base^n in GF(256), base nonzero.
func (g *gf256) pow(base uint8, n int) uint8 {
	if base == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	e := (int(g.log[base]) * n) % 255
	if e < 0 {
		e += 255
	}
	return g.exp[e]
}
