package clifford

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"

	"github.com/fumin/clifford/symplectic"
)

// A StabilizerState is a pure n qubit stabilizer state held as a tableau of
// 2n Pauli operators: rows 0..n-1 are the stabilizer generators, rows n..2n-1
// the destabilizers. Destabilizer j anticommutes with stabilizer j and
// commutes with every other row, and the stacked bit vectors are invertible
// over GF(2). Every public mutation restores these invariants or fails.
type StabilizerState struct {
	n   int
	tab *PauliList
}

// ZeroState returns the all zeros basis state,
// stabilized by Z on every qubit with X destabilizers.
func ZeroState(n int) *StabilizerState {
	return IdentityMap(n).ToState()
}

// OneState returns the all ones basis state,
// stabilized by -Z on every qubit.
func OneState(n int) *StabilizerState {
	s := ZeroState(n)
	for i := 0; i < n; i++ {
		s.tab.ph[i] = (s.tab.ph[i] + 2) % 4
	}
	return s
}

// NewStabilizerState builds the state fixed by n independent, mutually
// commuting hermitian generators. The destabilizers are completed internally;
// the given rows are kept verbatim as the stabilizer half of the tableau.
func NewStabilizerState(gens *PauliList) (*StabilizerState, error) {
	n := gens.N()
	if gens.Len() != n {
		return nil, errors.Wrapf(ErrDependentGenerators, "%d generators for %d qubits", gens.Len(), n)
	}
	for i := 0; i < n; i++ {
		if !gens.At(i).Hermitian() {
			return nil, errors.Wrapf(ErrInvalidOperator, "generator %d %s is not hermitian", i, gens.At(i))
		}
		for j := i + 1; j < n; j++ {
			if !gens.commutes(i, j) {
				return nil, errors.Wrapf(ErrDependentGenerators, "generators %d and %d anticommute", i, j)
			}
		}
	}
	if symplectic.Rank(gens.b) != n {
		return nil, errors.Wrap(ErrDependentGenerators, "generators are linearly dependent")
	}

	// Destabilizer bits must pair with the stabilizers: inner(d_i, s_j) = 1
	// exactly when i = j. Writing the form as a matrix product, the candidates
	// are the columns of a right inverse of the stabilizer bits times J.
	sj := make([][]uint8, n)
	for i, row := range gens.b {
		sj[i] = make([]uint8, 2*n)
		copy(sj[i], row[n:])
		copy(sj[i][n:], row[:n])
	}
	dt := symplectic.RightInverse(sj)
	d := make([][]uint8, n)
	for i := range d {
		d[i] = make([]uint8, 2*n)
		for j := 0; j < 2*n; j++ {
			d[i][j] = dt[j][i]
		}
	}
	// The candidates need not commute among themselves. Adding stabilizer k to
	// destabilizer i for every anticommuting pair i > k fixes that without
	// touching the pairing, since the stabilizers commute with everything here.
	for i := 0; i < n; i++ {
		for k := 0; k < i; k++ {
			if symplectic.Inner(d[i], d[k]) == 1 {
				symplectic.XorRow(d[i], gens.b[k])
			}
		}
	}

	tab := &PauliList{n: n, b: make([][]uint8, 2*n), ph: make([]uint8, 2*n)}
	for i := 0; i < n; i++ {
		tab.b[i] = make([]uint8, 2*n)
		copy(tab.b[i], gens.b[i])
		tab.ph[i] = gens.ph[i]
		tab.b[n+i] = d[i]
		tab.ph[n+i] = uint8(countYBits(d[i])) % 4
	}
	s := &StabilizerState{n: n, tab: tab}
	if err := s.Check(); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return s, nil
}

// GHZState returns the n qubit Greenberger-Horne-Zeilinger state
// (|0...0> + |1...1>)/sqrt(2).
func GHZState(n int) *StabilizerState {
	labels := make([]string, 0, n)
	labels = append(labels, strings.Repeat("X", n))
	for i := 0; i < n-1; i++ {
		body := make([]byte, n)
		for j := range body {
			body[j] = 'I'
		}
		body[i], body[i+1] = 'Z', 'Z'
		labels = append(labels, string(body))
	}
	s, err := NewStabilizerState(L(labels...))
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return s
}

// RandStabilizer draws a state uniformly from the n qubit stabilizer states,
// as the image of the zero state under a uniformly random Clifford map.
func RandStabilizer(rng *rand.Rand, n int) *StabilizerState {
	return RandClifford(rng, n).ToState()
}

// RandPauliState draws a random product state, where each qubit is stabilized
// by a signed single qubit Pauli operator.
func RandPauliState(rng *rand.Rand, n int) *StabilizerState {
	return RandPauliMap(rng, n).ToState()
}

// ToState interprets a Clifford map as the stabilizer state it generates from
// the zero state: the Z images become stabilizers, the X images destabilizers.
func (c *CliffordMap) ToState() *StabilizerState {
	tab := &PauliList{n: c.n, b: make([][]uint8, 2*c.n), ph: make([]uint8, 2*c.n)}
	for j := 0; j < c.n; j++ {
		z, x := c.ZImage(j), c.XImage(j)
		tab.b[j], tab.ph[j] = z.b, z.ph
		tab.b[c.n+j], tab.ph[c.n+j] = x.b, x.ph
	}
	return &StabilizerState{n: c.n, tab: tab}
}

// ToMap interprets the tableau as the encoding Clifford map,
// inverting ToState.
func (s *StabilizerState) ToMap() *CliffordMap {
	rows := &PauliList{n: s.n, b: make([][]uint8, 2*s.n), ph: make([]uint8, 2*s.n)}
	for j := 0; j < s.n; j++ {
		d, g := s.tab.At(s.n+j), s.tab.At(j)
		rows.b[j], rows.ph[j] = d.b, d.ph
		rows.b[s.n+j], rows.ph[s.n+j] = g.b, g.ph
	}
	return &CliffordMap{n: s.n, rows: rows}
}

// N returns the number of qubits.
func (s *StabilizerState) N() int { return s.n }

func (s *StabilizerState) Clone() *StabilizerState {
	return &StabilizerState{n: s.n, tab: s.tab.Clone()}
}

// Stabilizers returns a copy of the stabilizer generators.
func (s *StabilizerState) Stabilizers() *PauliList {
	return &PauliList{n: s.n, b: symplectic.Clone(s.tab.b[:s.n]), ph: append([]uint8(nil), s.tab.ph[:s.n]...)}
}

// Destabilizers returns a copy of the destabilizer generators.
func (s *StabilizerState) Destabilizers() *PauliList {
	return &PauliList{n: s.n, b: symplectic.Clone(s.tab.b[s.n:]), ph: append([]uint8(nil), s.tab.ph[s.n:]...)}
}

func (s *StabilizerState) String() string {
	return s.Stabilizers().String()
}

// Check verifies the tableau invariants: commuting independent stabilizers,
// the destabilizer pairing, and full rank of the stacked bit vectors.
func (s *StabilizerState) Check() error {
	n := s.n
	for i := 0; i < 2*n; i++ {
		if !s.tab.At(i).Hermitian() {
			return errors.Wrapf(ErrInvalidOperator, "row %d %s is not hermitian", i, s.tab.At(i))
		}
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if !s.tab.commutes(i, j) {
				return errors.Wrapf(ErrDependentGenerators, "stabilizers %d and %d anticommute", i, j)
			}
			if i != j && !s.tab.commutes(n+i, n+j) {
				return errors.Wrapf(ErrDependentGenerators, "destabilizers %d and %d anticommute", i, j)
			}
		}
		for j := 0; j < n; j++ {
			want := uint8(0)
			if i == j {
				want = 1
			}
			if symplectic.Inner(s.tab.b[n+i], s.tab.b[j]) != want {
				return errors.Wrapf(ErrDependentGenerators, "destabilizer %d pairing with stabilizer %d", i, j)
			}
		}
	}
	if r := symplectic.Rank(s.tab.b); r != 2*n {
		return errors.Wrapf(ErrDependentGenerators, "tableau rank %d, expected %d", r, 2*n)
	}
	return nil
}

// Apply conjugates every tableau row by the map, in place.
func (s *StabilizerState) Apply(c *CliffordMap) error {
	if c.n != s.n {
		return errors.Wrapf(ErrDimensionMismatch, "map on %d qubits, state on %d", c.n, s.n)
	}
	for i := 0; i < 2*s.n; i++ {
		img := c.Act(s.tab.At(i))
		s.tab.b[i], s.tab.ph[i] = img.b, img.ph
	}
	return nil
}

// ApplyOn applies a smaller map to the given qubits.
func (s *StabilizerState) ApplyOn(c *CliffordMap, qubits ...int) error {
	full := IdentityMap(s.n)
	if err := full.Embed(c, qubits); err != nil {
		return errors.Wrap(err, "")
	}
	return s.Apply(full)
}

// MeasurePauli measures a hermitian, non-identity Pauli observable,
// returning +1 or -1. The tableau collapses in place on the random branch
// and is untouched on the deterministic one.
func (s *StabilizerState) MeasurePauli(rng *rand.Rand, p *Pauli) (int, error) {
	if err := s.checkObservable(p); err != nil {
		return 0, err
	}
	out, _ := s.measure(rng, p)
	return out, nil
}

// MeasureQubit measures Z on a single qubit.
func (s *StabilizerState) MeasureQubit(rng *rand.Rand, q int) (int, error) {
	if q < 0 || q >= s.n {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "qubit %d of %d", q, s.n)
	}
	z := IdentityPauli(s.n)
	z.b[s.n+q] = 1
	return s.MeasurePauli(rng, z)
}

// Measure measures a list of observables in order, collapsing the state as it
// goes. It returns the outcomes and the log2 probability of observing them.
func (s *StabilizerState) Measure(rng *rand.Rand, obs *PauliList) ([]int, float64, error) {
	if obs.N() != s.n {
		return nil, 0, errors.Wrapf(ErrDimensionMismatch, "observables on %d qubits, state on %d", obs.N(), s.n)
	}
	outs := make([]int, 0, obs.Len())
	var log2prob float64
	for i := 0; i < obs.Len(); i++ {
		p := obs.At(i)
		if err := s.checkObservable(p); err != nil {
			return nil, 0, errors.Wrapf(err, "observable %d", i)
		}
		out, random := s.measure(rng, p)
		if random {
			log2prob--
		}
		outs = append(outs, out)
	}
	return outs, log2prob, nil
}

func (s *StabilizerState) checkObservable(p *Pauli) error {
	if p.N() != s.n {
		return errors.Wrapf(ErrDimensionMismatch, "observable on %d qubits, state on %d", p.N(), s.n)
	}
	if !p.Hermitian() {
		return errors.Wrapf(ErrInvalidOperator, "observable %s is not hermitian", p)
	}
	if p.Weight() == 0 {
		return errors.Wrap(ErrInvalidOperator, "identity observable")
	}
	return nil
}

func (s *StabilizerState) measure(rng *rand.Rand, p *Pauli) (outcome int, random bool) {
	n := s.n
	k := -1
	for j := 0; j < n; j++ {
		if symplectic.Inner(s.tab.b[j], p.b) == 1 {
			k = j
			break
		}
	}
	if k < 0 {
		return s.deterministic(p), false
	}

	// The observable anticommutes with stabilizer k: the outcome is a fair
	// coin. Clear every other anticommuting row by multiplying in the old
	// generator, then promote it to destabilizer k and install the observable.
	old := s.tab.At(k)
	for j := 0; j < 2*n; j++ {
		if j == k {
			continue
		}
		if symplectic.Inner(s.tab.b[j], p.b) == 1 {
			s.tab.ph[j] = mulInto(s.tab.b[j], s.tab.ph[j], old.b, old.ph)
		}
	}
	outcome = 1
	if rng.IntN(2) == 1 {
		outcome = -1
	}
	s.tab.b[n+k], s.tab.ph[n+k] = old.b, old.ph
	installed := p.Clone()
	if outcome == -1 {
		installed.ph = (installed.ph + 2) % 4
	}
	s.tab.b[k], s.tab.ph[k] = installed.b, installed.ph
	return outcome, true
}

// deterministic resolves a measurement commuting with every stabilizer. The
// observable is then a product of stabilizer generators, and the destabilizer
// inner products select exactly which ones.
func (s *StabilizerState) deterministic(p *Pauli) int {
	sel := make([][]uint8, 1)
	sel[0] = make([]uint8, s.n)
	for j := 0; j < s.n; j++ {
		sel[0][j] = symplectic.Inner(s.tab.b[s.n+j], p.b)
	}
	prod := s.Stabilizers().Combine(sel)
	if !equalBits(prod.b[0], p.b) {
		panic(fmt.Sprintf("observable %s outside the stabilizer group of\n%s", p, s))
	}
	switch (int(p.ph) - int(prod.ph[0]) + 4) % 4 {
	case 0:
		return 1
	case 2:
		return -1
	}
	panic(fmt.Sprintf("anti-hermitian phase comparing %s against %s", p, prod.At(0)))
}

// Expect evaluates a hermitian Pauli observable without touching the state:
// +1 or -1 when the outcome is certain, 0 when it is a fair coin.
func (s *StabilizerState) Expect(p *Pauli) (int, error) {
	if err := s.checkObservable(p); err != nil {
		return 0, err
	}
	for j := 0; j < s.n; j++ {
		if symplectic.Inner(s.tab.b[j], p.b) == 1 {
			return 0, nil
		}
	}
	return s.deterministic(p), nil
}

// ExpectSum evaluates the expectation value of a weighted sum of Pauli terms.
func (s *StabilizerState) ExpectSum(sum *PauliSum) (complex128, error) {
	if sum.N() != s.n {
		return 0, errors.Wrapf(ErrDimensionMismatch, "sum on %d qubits, state on %d", sum.N(), s.n)
	}
	var total complex128
	for i, c := range sum.cs {
		t := sum.terms[i]
		if t.Weight() == 0 {
			total += c * phaseFactor(t.ph)
			continue
		}
		anticommuting := false
		for j := 0; j < s.n; j++ {
			if symplectic.Inner(s.tab.b[j], t.b) == 1 {
				anticommuting = true
				break
			}
		}
		if anticommuting {
			continue
		}
		sel := make([][]uint8, 1)
		sel[0] = make([]uint8, s.n)
		for j := 0; j < s.n; j++ {
			sel[0][j] = symplectic.Inner(s.tab.b[s.n+j], t.b)
		}
		prod := s.Stabilizers().Combine(sel)
		if !equalBits(prod.b[0], t.b) {
			panic(fmt.Sprintf("term %s outside the stabilizer group of\n%s", t, s))
		}
		total += c * phaseFactor((t.ph-prod.ph[0]+4)%4)
	}
	return total, nil
}

// Entropy returns the entanglement entropy, in bits, of the given qubit
// subset. It is the GF(2) rank of the stabilizer bit vectors restricted to
// the subset, minus the subset size; the result is exact.
func (s *StabilizerState) Entropy(subset []int) (float64, error) {
	seen := make(map[int]bool, len(subset))
	for _, q := range subset {
		if q < 0 || q >= s.n {
			return 0, errors.Wrapf(ErrIndexOutOfRange, "qubit %d of %d", q, s.n)
		}
		if seen[q] {
			return 0, errors.Wrapf(ErrIndexOutOfRange, "duplicate qubit %d", q)
		}
		seen[q] = true
	}
	if len(subset) == 0 {
		return 0, nil
	}

	k := len(subset)
	restricted := make([][]uint8, s.n)
	for i := 0; i < s.n; i++ {
		restricted[i] = make([]uint8, 2*k)
		for a, q := range subset {
			restricted[i][a] = s.tab.b[i][q]
			restricted[i][k+a] = s.tab.b[i][s.n+q]
		}
	}
	return float64(symplectic.Rank(restricted) - k), nil
}

// Sample draws L operators uniformly from the stabilizer group,
// as random products of the generators.
func (s *StabilizerState) Sample(rng *rand.Rand, l int) *PauliList {
	return s.Stabilizers().Combine(symplectic.RandMatrix(rng, l, s.n))
}

func countYBits(b []uint8) int {
	n := len(b) / 2
	c := 0
	for i := 0; i < n; i++ {
		c += int(b[i] & b[n+i])
	}
	return c
}

func equalBits(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func phaseFactor(ph uint8) complex128 {
	switch ph % 4 {
	case 0:
		return 1
	case 1:
		return 1i
	case 2:
		return -1
	}
	return -1i
}
