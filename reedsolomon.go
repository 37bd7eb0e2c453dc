package augstream

/*------------------------------------------------------------------------------
* reedsolomon.go : Galileo HAS RS(255,k) erasure decoder over GF(2^8)
*
* spec.md §4.2/§9: HAS pages form columns of a systematic RS(255,MS) code;
* PID-1 is the column index and the first MS columns are the cleartext
* systematic symbols. Rather than a full Berlekamp-Massey error/erasure
* decoder, this implements the simplification spec.md §9 calls out directly:
* treat the received symbols as a linear system in the unknown message
* vector and solve it by Gaussian elimination over GF(256).
 */

import "github.com/pkg/errors"

const rsN = 255

// rsGenerator caches the systematic generator matrix for a given message
// length k so repeated HAS decodes at the same MS don't rebuild it.
type rsGenerator struct {
	k int
	// rows[j] is generator row j (length rsN), rows[j][j] == 1 and
	// rows[j][i]==0 for i<k, i!=j (systematic: first k columns are identity).
	rows [][]uint8
}

var rsGenCache = map[int]*rsGenerator{}

// rsGeneratorMatrix returns (building and caching if needed) the systematic
// RS(255,k) generator matrix, encoding each standard basis message through
// polynomial-division RS encoding over evaluation points exp[0..254].
func rsGeneratorMatrix(k int) *rsGenerator {
	if g, ok := rsGenCache[k]; ok {
		return g
	}
	nParity := rsN - k
	// Generator polynomial g(x) = product_{i=0..nParity-1} (x - exp[i]).
	genPoly := make([]uint8, nParity+1)
	genPoly[0] = 1
	for i := 0; i < nParity; i++ {
		root := gf.exp[i]
		next := make([]uint8, len(genPoly)+1)
		for j, c := range genPoly {
			next[j] ^= gf.mul(c, root)
			next[j+1] ^= c
		}
		genPoly = next
	}

	rows := make([][]uint8, k)
	for j := 0; j < k; j++ {
		msg := make([]uint8, k)
		msg[j] = 1
		row := rsEncodeSystematic(msg, genPoly, nParity)
		rows[j] = row
	}
	g := &rsGenerator{k: k, rows: rows}
	rsGenCache[k] = g
	return g
}

// rsEncodeSystematic appends nParity parity symbols (the remainder of
// msg(x)*x^nParity divided by genPoly) after the k systematic symbols,
// producing one full length-255 codeword row.
func rsEncodeSystematic(msg []uint8, genPoly []uint8, nParity int) []uint8 {
	k := len(msg)
	codeword := make([]uint8, k+nParity)
	copy(codeword, msg)
	remainder := make([]uint8, nParity)
	for i := 0; i < k; i++ {
		coef := gf.add(msg[i], remainder[0])
		copy(remainder, remainder[1:])
		remainder[nParity-1] = 0
		if coef != 0 {
			for j := 0; j < nParity; j++ {
				remainder[j] ^= gf.mul(genPoly[j+1], coef)
			}
		}
	}
	copy(codeword[k:], remainder)
	return codeword
}

// RSDecodeHAS recovers the k=MS systematic message bytes for one RS column
// (one byte offset across all HAS pages of a group) given the received
// (column index, byte) pairs, where the column index is PID-1. len(received)
// must be >= k; k of the supplied columns are used, picked in map iteration
// order. Returns an error if the system is singular; HASReassembler reports
// that as RsUncorrectable.
func RSDecodeHAS(k int, received map[int]uint8) ([]uint8, error) {
	if k <= 0 || k > rsN {
		return nil, errors.Errorf("reedsolomon: invalid k=%d", k)
	}
	if len(received) < k {
		return nil, errors.Errorf("reedsolomon: need %d symbols, have %d", k, len(received))
	}
	gen := rsGeneratorMatrix(k)

	cols := make([]int, 0, k)
	for pid := range received {
		cols = append(cols, pid)
		if len(cols) == k {
			break
		}
	}

	// Build A (k x k): A[row][j] = gen.rows[j][cols[row]]; solve A * m = y.
	a := make([][]uint8, k)
	y := make([]uint8, k)
	for r, col := range cols {
		row := make([]uint8, k)
		for j := 0; j < k; j++ {
			row[j] = gen.rows[j][col]
		}
		a[r] = row
		y[r] = received[col]
	}

	m, ok := gf256GaussSolve(a, y)
	if !ok {
		return nil, errors.New("reedsolomon: singular system (RS decode failed)")
	}
	return m, nil
}

// gf256GaussSolve solves a*x = y for x over GF(256) via Gauss-Jordan
// elimination with partial pivoting (any nonzero pivot suffices in a finite
// field — no notion of numerical stability applies).
func gf256GaussSolve(a [][]uint8, y []uint8) ([]uint8, bool) {
	n := len(a)
	// augment
	aug := make([][]uint8, n)
	for i := range a {
		row := make([]uint8, n+1)
		copy(row, a[i])
		row[n] = y[i]
		aug[i] = row
	}
	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if aug[r][col] != 0 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			return nil, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		inv := gf.inv(aug[col][col])
		for c := 0; c <= n; c++ {
			aug[col][c] = gf.mul(aug[col][c], inv)
		}
		for r := 0; r < n; r++ {
			if r == col || aug[r][col] == 0 {
				continue
			}
			factor := aug[r][col]
			for c := 0; c <= n; c++ {
				aug[r][c] ^= gf.mul(factor, aug[col][c])
			}
		}
	}
	x := make([]uint8, n)
	for i := 0; i < n; i++ {
		x[i] = aug[i][n]
	}
	return x, true
}
