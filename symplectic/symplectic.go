// Package symplectic implements linear algebra over GF(2) equipped with the
// standard symplectic form.
//
// A row of length 2n is laid out as (x_1..x_n, z_1..z_n).
// Rows and matrices hold 0/1 entries only.
//
// References:
//   - How to efficiently select an arbitrary Clifford group element, Robert Koenig, John A. Smolin
package symplectic

import (
	"fmt"
	"math/rand/v2"
)

// XorRow adds src into dst over GF(2).
func XorRow(dst, src []uint8) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("%d %d", len(dst), len(src)))
	}
	for i, b := range src {
		dst[i] ^= b
	}
}

// Inner is the symplectic inner product sum_i a_x[i]*b_z[i] + a_z[i]*b_x[i] mod 2.
// It is 0 when the Pauli operators encoded by a and b commute, and 1 otherwise.
func Inner(a, b []uint8) uint8 {
	if len(a) != len(b) || len(a)%2 != 0 {
		panic(fmt.Sprintf("%d %d", len(a), len(b)))
	}
	n := len(a) / 2
	var s uint8
	for i := 0; i < n; i++ {
		s ^= a[i] & b[n+i]
		s ^= a[n+i] & b[i]
	}
	return s
}

// Identity returns the size x size identity matrix.
func Identity(size int) [][]uint8 {
	m := make([][]uint8, size)
	for i := range m {
		m[i] = make([]uint8, size)
		m[i][i] = 1
	}
	return m
}

// Clone deep copies a matrix.
func Clone(m [][]uint8) [][]uint8 {
	c := make([][]uint8, len(m))
	for i, row := range m {
		c[i] = make([]uint8, len(row))
		copy(c[i], row)
	}
	return c
}

// RowReduce brings m to reduced row echelon form in place,
// and returns the pivot columns.
func RowReduce(m [][]uint8) []int {
	if len(m) == 0 {
		return nil
	}
	cols := len(m[0])
	pivots := make([]int, 0)
	r := 0
	for c := 0; c < cols && r < len(m); c++ {
		p := -1
		for i := r; i < len(m); i++ {
			if m[i][c] == 1 {
				p = i
				break
			}
		}
		if p < 0 {
			continue
		}
		m[r], m[p] = m[p], m[r]
		for i := range m {
			if i != r && m[i][c] == 1 {
				XorRow(m[i], m[r])
			}
		}
		pivots = append(pivots, c)
		r++
	}
	return pivots
}

// Rank returns the GF(2) rank of m.
func Rank(m [][]uint8) int {
	return len(RowReduce(Clone(m)))
}

// Inverse returns the inverse of a square matrix over GF(2).
// A singular input is a programming error and panics.
func Inverse(m [][]uint8) [][]uint8 {
	size := len(m)
	aug := make([][]uint8, size)
	for i, row := range m {
		if len(row) != size {
			panic(fmt.Sprintf("%d %d", len(row), size))
		}
		aug[i] = make([]uint8, 2*size)
		copy(aug[i], row)
		aug[i][size+i] = 1
	}
	RowReduce(aug)

	inv := make([][]uint8, size)
	for i := range aug {
		if aug[i][i] != 1 {
			panic(fmt.Sprintf("singular matrix, row %d", i))
		}
		inv[i] = aug[i][size:]
	}
	return inv
}

// RightInverse returns x such that m @ x is the identity,
// for a full row rank matrix m with at least as many columns as rows.
// A rank deficient input panics.
func RightInverse(m [][]uint8) [][]uint8 {
	rows := len(m)
	cols := len(m[0])
	aug := make([][]uint8, rows)
	for i, row := range m {
		aug[i] = make([]uint8, cols+rows)
		copy(aug[i], row)
		aug[i][cols+i] = 1
	}
	pivots := RowReduce(aug)

	// With e @ m in echelon form r, setting x[pivot_i] to row i of e
	// gives r @ x = e, hence m @ x = identity.
	x := make([][]uint8, cols)
	for j := range x {
		x[j] = make([]uint8, rows)
	}
	if len(pivots) != rows {
		panic(fmt.Sprintf("rank %d, expected %d", len(pivots), rows))
	}
	for i, p := range pivots {
		if p >= cols {
			panic(fmt.Sprintf("pivot %d beyond %d columns", p, cols))
		}
		copy(x[p], aug[i][cols:])
	}
	return x
}

// RandMatrix returns a matrix with uniformly random entries.
func RandMatrix(rng *rand.Rand, rows, cols int) [][]uint8 {
	m := make([][]uint8, rows)
	for i := range m {
		m[i] = randRow(rng, cols)
	}
	return m
}

// RandInvertible returns a matrix drawn uniformly from GL(size, 2).
// Rows are built one at a time, each drawn uniformly from the complement
// of the span of the previous rows, so no rejection is needed.
func RandInvertible(rng *rand.Rand, size int) [][]uint8 {
	m := make([][]uint8, 0, size)
	basis := make([][]uint8, 0, size)
	for len(m) < size {
		v := randOutsideSpan(rng, basis, size)
		m = append(m, v)

		row := make([]uint8, size)
		copy(row, v)
		basis = append(basis, row)
		RowReduce(basis)
	}
	return m
}

// randOutsideSpan samples uniformly from the vectors of length size that are
// outside the span of basis. basis must be in reduced row echelon form.
// Every such vector is uniquely a span element plus a vector supported on the
// non-pivot columns with at least one bit set.
func randOutsideSpan(rng *rand.Rand, basis [][]uint8, size int) []uint8 {
	pivot := make([]bool, size)
	for _, row := range basis {
		for c, b := range row {
			if b == 1 {
				pivot[c] = true
				break
			}
		}
	}
	free := make([]int, 0, size)
	for c := 0; c < size; c++ {
		if !pivot[c] {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		panic(fmt.Sprintf("span covers all of dimension %d", size))
	}

	v := make([]uint8, size)
	for _, row := range basis {
		if rng.IntN(2) == 1 {
			XorRow(v, row)
		}
	}
	for i, b := range randNonzero(rng, len(free)) {
		v[free[i]] ^= b
	}
	return v
}

// IsSymplectic reports whether the rows of a 2n x 2n matrix form a symplectic
// basis: row i and row n+i anticommute, all other pairs commute.
func IsSymplectic(m [][]uint8) bool {
	nn := len(m)
	if nn%2 != 0 {
		return false
	}
	n := nn / 2
	for i := 0; i < nn; i++ {
		if len(m[i]) != nn {
			return false
		}
		for j := i; j < nn; j++ {
			want := uint8(0)
			if j == i+n {
				want = 1
			}
			if Inner(m[i], m[j]) != want {
				return false
			}
		}
	}
	return true
}

// RandSymplectic returns a matrix drawn uniformly from Sp(2n, 2),
// in the (x_1..x_n, z_1..z_n) layout.
// The construction fixes one hyperbolic pair per round via symplectic
// transvections, following Koenig and Smolin.
func RandSymplectic(rng *rand.Rand, n int) [][]uint8 {
	g := randSymplecticPairs(rng, n)

	// Permute from the internal (x_1, z_1, x_2, z_2, ...) layout.
	perm := make([]int, 2*n)
	for k := 0; k < n; k++ {
		perm[2*k] = k
		perm[2*k+1] = n + k
	}
	out := make([][]uint8, 2*n)
	for i := range g {
		out[perm[i]] = make([]uint8, 2*n)
		for j := range g[i] {
			out[perm[i]][perm[j]] = g[i][j]
		}
	}
	return out
}

// innerPairs is the symplectic product in the (x_1, z_1, x_2, z_2, ...) layout.
func innerPairs(a, b []uint8) uint8 {
	var s uint8
	for i := 0; i < len(a); i += 2 {
		s ^= a[i] & b[i+1]
		s ^= a[i+1] & b[i]
	}
	return s
}

// transvect applies the symplectic transvection v -> v + <v,k> k in place.
func transvect(k, v []uint8) {
	if innerPairs(v, k) == 1 {
		XorRow(v, k)
	}
}

// findTransvection returns h1, h2 such that applying the transvections by h1
// then h2 maps the nonzero vector x to the nonzero vector y.
func findTransvection(x, y []uint8) ([]uint8, []uint8) {
	nn := len(x)
	h1 := make([]uint8, nn)
	h2 := make([]uint8, nn)
	if equalRow(x, y) {
		return h1, h2
	}
	if innerPairs(x, y) == 1 {
		copy(h1, x)
		XorRow(h1, y)
		return h1, h2
	}

	z := make([]uint8, nn)
	// A pair where both x and y act nontrivially.
	for i := 0; i < nn; i += 2 {
		if (x[i] | x[i+1]) != 0 && (y[i] | y[i+1]) != 0 {
			z[i] = x[i] ^ y[i]
			z[i+1] = x[i+1] ^ y[i+1]
			if (z[i] | z[i+1]) == 0 {
				z[i+1] = 1
				if x[i] != x[i+1] {
					z[i] = 1
				}
			}
			copy(h1, x)
			XorRow(h1, z)
			copy(h2, y)
			XorRow(h2, z)
			return h1, h2
		}
	}
	// No overlap. Pick a site where only x acts, and one where only y acts.
	for i := 0; i < nn; i += 2 {
		if (x[i] | x[i+1]) != 0 && (y[i] | y[i+1]) == 0 {
			if x[i] == x[i+1] {
				z[i+1] = 1
			} else {
				z[i+1] = x[i]
				z[i] = x[i+1]
			}
			break
		}
	}
	for i := 0; i < nn; i += 2 {
		if (x[i] | x[i+1]) == 0 && (y[i] | y[i+1]) != 0 {
			if y[i] == y[i+1] {
				z[i+1] = 1
			} else {
				z[i+1] = y[i]
				z[i] = y[i+1]
			}
			break
		}
	}
	copy(h1, x)
	XorRow(h1, z)
	copy(h2, y)
	XorRow(h2, z)
	return h1, h2
}

func randSymplecticPairs(rng *rand.Rand, n int) [][]uint8 {
	nn := 2 * n

	// The image of the first basis vector, uniform over nonzero vectors.
	f1 := randNonzero(rng, nn)
	e1 := make([]uint8, nn)
	e1[0] = 1
	t1, t2 := findTransvection(e1, f1)

	// The image of the second basis vector is determined up to nn-1 free bits.
	bits := randRow(rng, nn-1)
	eprime := make([]uint8, nn)
	eprime[0] = 1
	for j := 2; j < nn; j++ {
		eprime[j] = bits[j-1]
	}
	transvect(t1, eprime)
	transvect(t2, eprime)
	h0 := eprime
	if bits[0] == 1 {
		// Z_f1 degenerates to the identity.
		for i := range f1 {
			f1[i] = 0
		}
	}

	var g [][]uint8
	if n == 1 {
		g = Identity(2)
	} else {
		sub := randSymplecticPairs(rng, n-1)
		g = make([][]uint8, nn)
		for i := 0; i < 2; i++ {
			g[i] = make([]uint8, nn)
			g[i][i] = 1
		}
		for i, row := range sub {
			g[2+i] = make([]uint8, nn)
			copy(g[2+i][2:], row)
		}
	}
	for _, row := range g {
		transvect(t1, row)
		transvect(t2, row)
		transvect(h0, row)
		transvect(f1, row)
	}
	return g
}

func randRow(rng *rand.Rand, size int) []uint8 {
	row := make([]uint8, size)
	for i := range row {
		row[i] = uint8(rng.IntN(2))
	}
	return row
}

// randNonzero samples uniformly from the nonzero vectors of the given length.
func randNonzero(rng *rand.Rand, size int) []uint8 {
	row := make([]uint8, size)
	if size <= 62 {
		k := rng.Uint64N(uint64(1)<<size-1) + 1
		for i := range row {
			row[i] = uint8(k >> i & 1)
		}
		return row
	}
	for {
		zero := true
		for i := range row {
			row[i] = uint8(rng.IntN(2))
			if row[i] == 1 {
				zero = false
			}
		}
		if !zero {
			return row
		}
	}
}

func equalRow(a, b []uint8) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
