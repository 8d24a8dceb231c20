package clifford

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// A PauliSum is a linear combination of Pauli operators with complex
// coefficients. It is not itself a group element; it serves as an observable
// for expectation values.
type PauliSum struct {
	n     int
	terms []*Pauli
	cs    []complex128
}

// NewPauliSum returns the empty sum over n qubits.
func NewPauliSum(n int) *PauliSum {
	return &PauliSum{n: n}
}

// N returns the number of qubits.
func (s *PauliSum) N() int { return s.n }

// Len returns the number of terms.
func (s *PauliSum) Len() int { return len(s.terms) }

// Add appends the term c * p.
func (s *PauliSum) Add(c complex128, p *Pauli) error {
	if p.N() != s.n {
		return errors.Wrapf(ErrDimensionMismatch, "term on %d qubits, sum on %d", p.N(), s.n)
	}
	s.terms = append(s.terms, p.Clone())
	s.cs = append(s.cs, c)
	return nil
}

// Scale multiplies every coefficient by c.
func (s *PauliSum) Scale(c complex128) {
	for i := range s.cs {
		s.cs[i] *= c
	}
}

// Term returns the i-th term as a coefficient and a copy of its operator.
func (s *PauliSum) Term(i int) (complex128, *Pauli) {
	return s.cs[i], s.terms[i].Clone()
}

// Simplify folds phases into coefficients, merges terms sharing a Pauli
// string, and drops terms with zero coefficient. Terms end up sorted by
// their string form with phase zero.
func (s *PauliSum) Simplify() {
	merged := make(map[string]complex128)
	for i, t := range s.terms {
		key := string(bitsKey(t.b))
		merged[key] += s.cs[i] * phaseFactor(t.ph)
	}

	keys := make([]string, 0, len(merged))
	for k, c := range merged {
		if c == 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.terms = s.terms[:0]
	s.cs = s.cs[:0]
	for _, k := range keys {
		s.terms = append(s.terms, &Pauli{b: keyBits(k)})
		s.cs = append(s.cs, merged[k])
	}
}

func (s *PauliSum) String() string {
	parts := make([]string, 0, len(s.terms))
	for i, t := range s.terms {
		parts = append(parts, fmt.Sprintf("%v %s", s.cs[i], t))
	}
	return strings.Join(parts, " + ")
}

func bitsKey(b []uint8) []byte {
	k := make([]byte, len(b))
	for i, v := range b {
		k[i] = '0' + v
	}
	return k
}

func keyBits(k string) []uint8 {
	b := make([]uint8, len(k))
	for i := range k {
		b[i] = k[i] - '0'
	}
	return b
}
