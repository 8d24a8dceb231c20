package clifford

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"

	"github.com/fumin/clifford/symplectic"
)

// A CliffordMap is a Clifford group element represented by its conjugation
// action on the elementary generators: row j is the image of X_j, row n+j the
// image of Z_j. The bit vectors of the rows form a symplectic matrix over
// GF(2), and the row phases carry the sign bookkeeping.
type CliffordMap struct {
	n    int
	rows *PauliList
}

// NewCliffordMap builds a map from its 2n hermitian generator images.
// Rows must be ordered as the images of X_1..X_n followed by Z_1..Z_n.
func NewCliffordMap(images *PauliList) (*CliffordMap, error) {
	n := images.N()
	if images.Len() != 2*n {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d rows for %d qubits", images.Len(), n)
	}
	for i := 0; i < images.Len(); i++ {
		if !images.At(i).Hermitian() {
			return nil, errors.Wrapf(ErrInvalidOperator, "row %d image %s is not hermitian", i, images.At(i))
		}
	}
	if !symplectic.IsSymplectic(images.b) {
		return nil, errors.Wrap(ErrNonSymplecticMap, "images break the commutation structure")
	}
	return &CliffordMap{n: n, rows: images.Clone()}, nil
}

// IdentityMap returns the identity Clifford map on n qubits.
func IdentityMap(n int) *CliffordMap {
	l := &PauliList{n: n, b: symplectic.Identity(2 * n), ph: make([]uint8, 2*n)}
	return &CliffordMap{n: n, rows: l}
}

// RandClifford draws a map uniformly from the n qubit Clifford group modulo
// global phase. The bit matrix is a uniform symplectic matrix; each image
// phase is then free only in its sign, the rest being pinned by hermiticity.
func RandClifford(rng *rand.Rand, n int) *CliffordMap {
	l := &PauliList{n: n, b: symplectic.RandSymplectic(rng, n), ph: make([]uint8, 2*n)}
	c := &CliffordMap{n: n, rows: l}
	for i := range l.ph {
		l.ph[i] = uint8(c.rows.At(i).countY()+2*rng.IntN(2)) % 4
	}
	return c
}

// RandPauliMap draws a tensor product of independent, uniformly random single
// qubit Clifford maps, so every generator image has weight one.
func RandPauliMap(rng *rand.Rand, n int) *CliffordMap {
	c := IdentityMap(n)
	for q := 0; q < n; q++ {
		if err := c.Embed(RandClifford(rng, 1), []int{q}); err != nil {
			panic(fmt.Sprintf("%+v", err))
		}
	}
	return c
}

// RotationMap returns the Clifford rotation (1 + iP)/sqrt(2) generated by a
// hermitian, non-identity Pauli operator. Generators commuting with P are
// unchanged; a generator g anticommuting with P maps to iPg.
func RotationMap(p *Pauli) (*CliffordMap, error) {
	if !p.Hermitian() {
		return nil, errors.Wrapf(ErrInvalidOperator, "%s is not hermitian", p)
	}
	if p.Weight() == 0 {
		return nil, errors.Wrap(ErrInvalidOperator, "identity generates no rotation")
	}
	c := IdentityMap(p.N())
	for i := 0; i < 2*p.N(); i++ {
		g := c.rows.At(i)
		if symplectic.Inner(p.b, g.b) == 0 {
			continue
		}
		img := p.Mul(g)
		img.ph = (img.ph + 1) % 4
		c.rows.b[i] = img.b
		c.rows.ph[i] = img.ph
	}
	return c, nil
}

// N returns the number of qubits.
func (c *CliffordMap) N() int { return c.n }

func (c *CliffordMap) Clone() *CliffordMap {
	return &CliffordMap{n: c.n, rows: c.rows.Clone()}
}

// XImage returns the image of X_j under conjugation.
func (c *CliffordMap) XImage(j int) *Pauli { return c.rows.At(j) }

// ZImage returns the image of Z_j under conjugation.
func (c *CliffordMap) ZImage(j int) *Pauli { return c.rows.At(c.n + j) }

// Act conjugates an arbitrary Pauli operator by the map. The bits of p select
// which generator images to multiply together, in the canonical order X_j
// before Z_j with ascending j, so the accumulated phase corrections are exact.
func (c *CliffordMap) Act(p *Pauli) *Pauli {
	if p.N() != c.n {
		panic(fmt.Sprintf("%d %d", p.N(), c.n))
	}
	acc := make([]uint8, 2*c.n)
	ph := p.ph
	for j := 0; j < c.n; j++ {
		if p.b[j] == 1 {
			ph = mulInto(acc, ph, c.rows.b[j], c.rows.ph[j])
		}
		if p.b[c.n+j] == 1 {
			ph = mulInto(acc, ph, c.rows.b[c.n+j], c.rows.ph[c.n+j])
		}
	}
	return &Pauli{b: acc, ph: ph}
}

// Compose returns the map equivalent to applying c first and then d.
// Every generator image of c is pushed through d.
func (c *CliffordMap) Compose(d *CliffordMap) *CliffordMap {
	if c.n != d.n {
		panic(fmt.Sprintf("%d %d", c.n, d.n))
	}
	out := &CliffordMap{n: c.n, rows: &PauliList{n: c.n, b: make([][]uint8, 2*c.n), ph: make([]uint8, 2*c.n)}}
	for i := 0; i < 2*c.n; i++ {
		img := d.Act(c.rows.At(i))
		out.rows.b[i] = img.b
		out.rows.ph[i] = img.ph
	}
	return out
}

// Inverse returns the map composing with c to the identity, phases included.
// The bit matrix is inverted over GF(2); the phase of each inverse row is the
// negation of the phase picked up by pushing that row through c.
func (c *CliffordMap) Inverse() *CliffordMap {
	binv := symplectic.Inverse(c.rows.b)
	out := &CliffordMap{n: c.n, rows: &PauliList{n: c.n, b: binv, ph: make([]uint8, 2*c.n)}}
	for i := 0; i < 2*c.n; i++ {
		fwd := c.Act(&Pauli{b: binv[i]})
		out.rows.ph[i] = (4 - fwd.ph) % 4
	}
	return out
}

// Embed overwrites the block of c acting on the given qubits with a smaller
// map, leaving the rest untouched.
func (c *CliffordMap) Embed(small *CliffordMap, qubits []int) error {
	k := small.n
	if len(qubits) != k {
		return errors.Wrapf(ErrDimensionMismatch, "%d qubits for a %d qubit map", len(qubits), k)
	}
	for a := 0; a < k; a++ {
		xi, err := small.rows.At(a).Embed(c.n, qubits)
		if err != nil {
			return errors.Wrap(err, "")
		}
		zi, err := small.rows.At(k+a).Embed(c.n, qubits)
		if err != nil {
			return errors.Wrap(err, "")
		}
		q := qubits[a]
		c.rows.b[q], c.rows.ph[q] = xi.b, xi.ph
		c.rows.b[c.n+q], c.rows.ph[c.n+q] = zi.b, zi.ph
	}
	return nil
}

// On returns the map embedded into an n qubit identity at the given qubits.
// Bad indices are a programming error and panic.
func (c *CliffordMap) On(n int, qubits ...int) *CliffordMap {
	out := IdentityMap(n)
	if err := out.Embed(c, qubits); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return out
}

func (c *CliffordMap) String() string {
	lines := make([]string, 0, 2*c.n)
	for j := 0; j < c.n; j++ {
		lines = append(lines, fmt.Sprintf("X%d -> %s", j, c.XImage(j)))
		lines = append(lines, fmt.Sprintf("Z%d -> %s", j, c.ZImage(j)))
	}
	return strings.Join(lines, "\n")
}

func mapFromLabels(labels ...string) *CliffordMap {
	c, err := NewCliffordMap(L(labels...))
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return c
}

// Hadamard returns the single qubit H gate, exchanging X and Z.
func Hadamard() *CliffordMap { return mapFromLabels("Z", "X") }

// SGate returns the single qubit phase gate diag(1, i).
func SGate() *CliffordMap { return mapFromLabels("Y", "Z") }

// SDag returns the adjoint of the phase gate.
func SDag() *CliffordMap { return mapFromLabels("-Y", "Z") }

// XGate returns the Pauli X gate as a Clifford map.
func XGate() *CliffordMap { return mapFromLabels("X", "-Z") }

// YGate returns the Pauli Y gate as a Clifford map.
func YGate() *CliffordMap { return mapFromLabels("-X", "-Z") }

// ZGate returns the Pauli Z gate as a Clifford map.
func ZGate() *CliffordMap { return mapFromLabels("-X", "Z") }

// CNOT returns the controlled-NOT with the first qubit as control.
func CNOT() *CliffordMap { return mapFromLabels("XX", "IX", "ZI", "ZZ") }

// CZ returns the controlled-Z gate.
func CZ() *CliffordMap { return mapFromLabels("XZ", "ZX", "ZI", "IZ") }

// Swap returns the two qubit swap gate.
func Swap() *CliffordMap { return mapFromLabels("IX", "XI", "IZ", "ZI") }
