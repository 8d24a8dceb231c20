// Package clifford simulates quantum circuits restricted to the Clifford
// group using the stabilizer formalism. States and operators are tracked as
// binary vectors with i^phase bookkeeping, so every operation is exact and
// polynomial in the number of qubits.
//
// References:
//   - Improved simulation of stabilizer circuits, Scott Aaronson, Daniel Gottesman
//   - How to efficiently select an arbitrary Clifford group element, Robert Koenig, John A. Smolin
package clifford

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"

	"github.com/fumin/clifford/symplectic"
)

// A Pauli is the operator i^phase * prod_j X_j^{x_j} Z_j^{z_j} over n qubits.
// Its bit vector has length 2n in the layout (x_1..x_n, z_1..z_n).
// The letter Y stands for the bits (1, 1) plus a unit of phase, since Y = iXZ.
type Pauli struct {
	b  []uint8
	ph uint8
}

// NewPauli parses a Pauli operator from a label such as "XIZY", "-ZZ" or "iY".
// The optional prefix is one of + - i +i -i.
func NewPauli(label string) (*Pauli, error) {
	p, err := newPauli(label)
	if err != nil {
		return nil, errors.Wrap(err, label)
	}
	return p, nil
}

// P parses a Pauli operator from a label, and panics on malformed input.
func P(label string) *Pauli {
	p, err := NewPauli(label)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return p
}

func newPauli(label string) (*Pauli, error) {
	var ph uint8
	switch {
	case strings.HasPrefix(label, "+i"):
		ph, label = 1, label[2:]
	case strings.HasPrefix(label, "-i"):
		ph, label = 3, label[2:]
	case strings.HasPrefix(label, "+"):
		label = label[1:]
	case strings.HasPrefix(label, "-"):
		ph, label = 2, label[1:]
	case strings.HasPrefix(label, "i"):
		ph, label = 1, label[1:]
	}
	if len(label) == 0 {
		return nil, errors.Wrap(ErrInvalidOperator, "empty body")
	}

	n := len(label)
	p := &Pauli{b: make([]uint8, 2*n), ph: ph}
	for i, c := range []byte(label) {
		switch c {
		case 'I':
		case 'X':
			p.b[i] = 1
		case 'Z':
			p.b[n+i] = 1
		case 'Y':
			p.b[i] = 1
			p.b[n+i] = 1
			p.ph = (p.ph + 1) % 4
		default:
			return nil, errors.Wrapf(ErrInvalidOperator, "letter %q", c)
		}
	}
	return p, nil
}

// NewPauliBits constructs a Pauli from a raw bit vector of length 2n and a
// phase exponent in [0, 4).
func NewPauliBits(bits []uint8, phase int) (*Pauli, error) {
	if len(bits) == 0 || len(bits)%2 != 0 {
		return nil, errors.Wrapf(ErrInvalidOperator, "bit vector length %d", len(bits))
	}
	if phase < 0 || phase > 3 {
		return nil, errors.Wrapf(ErrInvalidOperator, "phase %d", phase)
	}
	p := &Pauli{b: make([]uint8, len(bits)), ph: uint8(phase)}
	for i, b := range bits {
		if b > 1 {
			return nil, errors.Wrapf(ErrInvalidOperator, "bit %d at %d", b, i)
		}
		p.b[i] = b
	}
	return p, nil
}

// IdentityPauli returns the identity operator on n qubits.
func IdentityPauli(n int) *Pauli {
	return &Pauli{b: make([]uint8, 2*n)}
}

// RandPauli samples uniformly over the 4^n Pauli strings on n qubits.
// The phase is fixed so that the result is the +1 signed hermitian operator.
func RandPauli(rng *rand.Rand, n int) *Pauli {
	p := &Pauli{b: make([]uint8, 2*n)}
	for i := range p.b {
		p.b[i] = uint8(rng.IntN(2))
	}
	p.ph = uint8(p.countY()) % 4
	return p
}

// N returns the number of qubits.
func (p *Pauli) N() int { return len(p.b) / 2 }

// Phase returns the exponent of the i^phase prefactor.
func (p *Pauli) Phase() int { return int(p.ph) }

// Bits returns a copy of the (x_1..x_n, z_1..z_n) bit vector.
func (p *Pauli) Bits() []uint8 {
	b := make([]uint8, len(p.b))
	copy(b, p.b)
	return b
}

// At returns the single qubit letter at index i, one of 'I', 'X', 'Y', 'Z'.
func (p *Pauli) At(i int) byte {
	n := p.N()
	switch {
	case p.b[i] == 1 && p.b[n+i] == 1:
		return 'Y'
	case p.b[i] == 1:
		return 'X'
	case p.b[n+i] == 1:
		return 'Z'
	}
	return 'I'
}

func (p *Pauli) Clone() *Pauli {
	return &Pauli{b: p.Bits(), ph: p.ph}
}

func (p *Pauli) Equal(q *Pauli) bool {
	if len(p.b) != len(q.b) || p.ph != q.ph {
		return false
	}
	for i := range p.b {
		if p.b[i] != q.b[i] {
			return false
		}
	}
	return true
}

// countY is the number of sites where both x and z bits are set.
func (p *Pauli) countY() int {
	n := p.N()
	c := 0
	for i := 0; i < n; i++ {
		c += int(p.b[i] & p.b[n+i])
	}
	return c
}

// Hermitian reports whether the operator is hermitian,
// which holds exactly when phase and the Y count agree mod 2.
func (p *Pauli) Hermitian() bool {
	return (int(p.ph)-p.countY())%2 == 0
}

// Sign returns +1 or -1 for a hermitian operator. Non-hermitian input panics.
func (p *Pauli) Sign() int {
	d := (int(p.ph) - p.countY() + 4) % 4
	switch d {
	case 0:
		return 1
	case 2:
		return -1
	}
	panic(fmt.Sprintf("non-hermitian operator %s", p))
}

func (p *Pauli) String() string {
	var sb strings.Builder
	switch (int(p.ph) - p.countY() + 4) % 4 {
	case 0:
		sb.WriteByte('+')
	case 1:
		sb.WriteString("+i")
	case 2:
		sb.WriteByte('-')
	case 3:
		sb.WriteString("-i")
	}
	for i := 0; i < p.N(); i++ {
		sb.WriteByte(p.At(i))
	}
	return sb.String()
}

// Weight is the number of non-identity single qubit factors.
func (p *Pauli) Weight() int {
	n := p.N()
	w := 0
	for i := 0; i < n; i++ {
		w += int(p.b[i] | p.b[n+i])
	}
	return w
}

// Support returns the qubit indices where the operator acts non-trivially.
func (p *Pauli) Support() []int {
	n := p.N()
	s := make([]int, 0)
	for i := 0; i < n; i++ {
		if (p.b[i] | p.b[n+i]) == 1 {
			s = append(s, i)
		}
	}
	return s
}

// Mul returns the group product p * q.
// Bit vectors add over GF(2); besides the phases of both operands, each site
// where p carries a Z bit and q an X bit contributes i^2, since ZX = -XZ.
func (p *Pauli) Mul(q *Pauli) *Pauli {
	if len(p.b) != len(q.b) {
		panic(fmt.Sprintf("%d %d", p.N(), q.N()))
	}
	out := p.Clone()
	out.ph = mulInto(out.b, out.ph, q.b, q.ph)
	return out
}

// mulInto multiplies the operator (b2, ph2) into (b1, ph1) from the right,
// mutating b1 in place and returning the resulting phase.
func mulInto(b1 []uint8, ph1 uint8, b2 []uint8, ph2 uint8) uint8 {
	n := len(b1) / 2
	ph := ph1 + ph2
	for i := 0; i < n; i++ {
		ph += 2 * (b1[n+i] & b2[i])
	}
	symplectic.XorRow(b1, b2)
	return ph % 4
}

// Commutes reports whether p and q commute.
func (p *Pauli) Commutes(q *Pauli) bool {
	return symplectic.Inner(p.b, q.b) == 0
}

// Conjugate returns q p q^-1, which is p itself when the operators commute
// and -p when they anticommute. The phases of q cancel exactly.
func (p *Pauli) Conjugate(q *Pauli) *Pauli {
	out := p.Clone()
	if !p.Commutes(q) {
		out.ph = (out.ph + 2) % 4
	}
	return out
}

// Embed places a k qubit operator into an n qubit register at the given
// distinct qubit indices.
func (p *Pauli) Embed(n int, qubits []int) (*Pauli, error) {
	k := p.N()
	if len(qubits) != k {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d qubits for a %d qubit operator", len(qubits), k)
	}
	seen := make(map[int]bool, k)
	out := &Pauli{b: make([]uint8, 2*n), ph: p.ph}
	for i, q := range qubits {
		if q < 0 || q >= n {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "qubit %d of %d", q, n)
		}
		if seen[q] {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "duplicate qubit %d", q)
		}
		seen[q] = true
		out.b[q] = p.b[i]
		out.b[n+q] = p.b[k+i]
	}
	return out, nil
}

// A PauliList is an ordered sequence of Pauli operators over the same
// register. It backs tableau rows and generator sets.
type PauliList struct {
	n  int
	b  [][]uint8
	ph []uint8
}

// NewPauliList collects operators into a list. All must share the qubit count.
func NewPauliList(ps ...*Pauli) (*PauliList, error) {
	if len(ps) == 0 {
		return nil, errors.Wrap(ErrInvalidOperator, "empty list")
	}
	l := &PauliList{n: ps[0].N()}
	for i, p := range ps {
		if p.N() != l.n {
			return nil, errors.Wrapf(ErrDimensionMismatch, "row %d has %d qubits, expected %d", i, p.N(), l.n)
		}
		l.b = append(l.b, p.Bits())
		l.ph = append(l.ph, p.ph)
	}
	return l, nil
}

// L parses a list of Pauli labels, and panics on malformed input.
func L(labels ...string) *PauliList {
	ps := make([]*Pauli, 0, len(labels))
	for _, s := range labels {
		ps = append(ps, P(s))
	}
	l, err := NewPauliList(ps...)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return l
}

// Len returns the number of operators in the list.
func (l *PauliList) Len() int { return len(l.b) }

// N returns the number of qubits.
func (l *PauliList) N() int { return l.n }

// At returns a copy of the i-th operator.
func (l *PauliList) At(i int) *Pauli {
	p := &Pauli{b: make([]uint8, 2*l.n), ph: l.ph[i]}
	copy(p.b, l.b[i])
	return p
}

func (l *PauliList) Clone() *PauliList {
	c := &PauliList{n: l.n, b: make([][]uint8, l.Len()), ph: make([]uint8, l.Len())}
	for i, row := range l.b {
		c.b[i] = make([]uint8, len(row))
		copy(c.b[i], row)
	}
	copy(c.ph, l.ph)
	return c
}

func (l *PauliList) String() string {
	lines := make([]string, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		lines = append(lines, l.At(i).String())
	}
	return strings.Join(lines, "\n")
}

// Combine returns the list whose i-th row is the ordered product of the rows
// selected by the i-th row of the binary coefficient matrix c.
func (l *PauliList) Combine(c [][]uint8) *PauliList {
	out := &PauliList{n: l.n, b: make([][]uint8, len(c)), ph: make([]uint8, len(c))}
	for i, sel := range c {
		if len(sel) != l.Len() {
			panic(fmt.Sprintf("%d %d", len(sel), l.Len()))
		}
		acc := make([]uint8, 2*l.n)
		var ph uint8
		for j, bit := range sel {
			if bit == 1 {
				ph = mulInto(acc, ph, l.b[j], l.ph[j])
			}
		}
		out.b[i] = acc
		out.ph[i] = ph
	}
	return out
}

// commutes reports whether rows i and j of the list commute.
func (l *PauliList) commutes(i, j int) bool {
	return symplectic.Inner(l.b[i], l.b[j]) == 0
}
