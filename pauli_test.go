package clifford

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
)

func TestNewPauli(t *testing.T) {
	t.Parallel()
	tests := []struct {
		label string
		s     string
		n     int
		herm  bool
	}{
		{label: "XIZY", s: "+XIZY", n: 4, herm: true},
		{label: "+XIZY", s: "+XIZY", n: 4, herm: true},
		{label: "-ZZ", s: "-ZZ", n: 2, herm: true},
		{label: "iX", s: "+iX", n: 1, herm: false},
		{label: "-iY", s: "-iY", n: 1, herm: false},
		{label: "I", s: "+I", n: 1, herm: true},
		{label: "YY", s: "+YY", n: 2, herm: true},
	}
	for _, test := range tests {
		t.Run(test.label, func(t *testing.T) {
			t.Parallel()
			p, err := NewPauli(test.label)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if s := p.String(); s != test.s {
				t.Fatalf("%s, expected %s", s, test.s)
			}
			if p.N() != test.n {
				t.Fatalf("%d, expected %d", p.N(), test.n)
			}
			if p.Hermitian() != test.herm {
				t.Fatalf("hermitian %v, expected %v", p.Hermitian(), test.herm)
			}
		})
	}
}

func TestNewPauliErrors(t *testing.T) {
	t.Parallel()
	if _, err := NewPauli("XA"); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("%+v", err)
	}
	if _, err := NewPauli(""); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("%+v", err)
	}
	if _, err := NewPauliBits([]uint8{1, 0, 1}, 0); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("%+v", err)
	}
	if _, err := NewPauliBits([]uint8{1, 0}, 4); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("%+v", err)
	}
	if _, err := NewPauliBits([]uint8{1, 2}, 0); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("%+v", err)
	}
}

// TestMul pins down the single qubit multiplication table.
func TestMul(t *testing.T) {
	t.Parallel()
	tests := []struct {
		p string
		q string
		r string
	}{
		{p: "X", q: "Y", r: "+iZ"},
		{p: "Y", q: "X", r: "-iZ"},
		{p: "Y", q: "Z", r: "+iX"},
		{p: "Z", q: "Y", r: "-iX"},
		{p: "Z", q: "X", r: "+iY"},
		{p: "X", q: "Z", r: "-iY"},
		{p: "X", q: "X", r: "+I"},
		{p: "Y", q: "Y", r: "+I"},
		{p: "Z", q: "Z", r: "+I"},
		{p: "I", q: "Y", r: "+Y"},
		{p: "-X", q: "Y", r: "-iZ"},
		{p: "XY", q: "YX", r: "+ZZ"},
		{p: "XX", q: "ZZ", r: "-YY"},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s*%s", test.p, test.q), func(t *testing.T) {
			t.Parallel()
			r := P(test.p).Mul(P(test.q))
			if s := r.String(); s != test.r {
				t.Fatalf("%s, expected %s", s, test.r)
			}
		})
	}
}

// TestMulCommutation checks that p*q and q*p agree exactly when p and q
// commute, and differ by a sign exactly when they anticommute.
func TestMulCommutation(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(6)
		p, q := RandPauli(rng, n), RandPauli(rng, n)
		pq, qp := p.Mul(q), q.Mul(p)
		if !equalBits(pq.b, qp.b) {
			t.Fatalf("bit vectors differ: %s %s", pq, qp)
		}
		wantDiff := uint8(0)
		if !p.Commutes(q) {
			wantDiff = 2
		}
		if diff := (pq.ph - qp.ph + 4) % 4; diff != wantDiff {
			t.Fatalf("p=%s q=%s: phase difference %d, expected %d", p, q, diff, wantDiff)
		}
	}
}

func TestConjugate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		p string
		q string
		r string
	}{
		{p: "X", q: "Z", r: "-X"},
		{p: "X", q: "X", r: "+X"},
		{p: "ZZ", q: "XI", r: "-ZZ"},
		{p: "ZZ", q: "XX", r: "+ZZ"},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s^%s", test.p, test.q), func(t *testing.T) {
			t.Parallel()
			r := P(test.p).Conjugate(P(test.q))
			if s := r.String(); s != test.r {
				t.Fatalf("%s, expected %s", s, test.r)
			}
		})
	}
}

func TestWeightSupport(t *testing.T) {
	t.Parallel()
	p := P("XIYZI")
	if w := p.Weight(); w != 3 {
		t.Fatalf("%d", w)
	}
	sup := p.Support()
	if len(sup) != 3 || sup[0] != 0 || sup[1] != 2 || sup[2] != 3 {
		t.Fatalf("%v", sup)
	}
	if w := IdentityPauli(3).Weight(); w != 0 {
		t.Fatalf("%d", w)
	}
}

func TestEmbed(t *testing.T) {
	t.Parallel()
	p, err := P("XZ").Embed(4, []int{2, 0})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if s := p.String(); s != "+ZIXI" {
		t.Fatalf("%s", s)
	}

	if _, err := P("XZ").Embed(4, []int{0}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("%+v", err)
	}
	if _, err := P("XZ").Embed(4, []int{0, 4}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("%+v", err)
	}
	if _, err := P("XZ").Embed(4, []int{1, 1}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("%+v", err)
	}
}

func TestRandPauli(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(3, 4))
	seen := make(map[string]bool)
	for trial := 0; trial < 500; trial++ {
		p := RandPauli(rng, 2)
		if !p.Hermitian() {
			t.Fatalf("%s", p)
		}
		if sign := p.Sign(); sign != 1 {
			t.Fatalf("%s sign %d", p, sign)
		}
		seen[p.String()] = true
	}
	if len(seen) != 16 {
		t.Fatalf("%d distinct strings, expected 16", len(seen))
	}
}

func TestPauliListCombine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		l   *PauliList
		c   [][]uint8
		out []string
	}{
		{
			l:   L("XI", "IZ"),
			c:   [][]uint8{{1, 1}, {1, 0}, {0, 0}},
			out: []string{"+XZ", "+XI", "+II"},
		},
		{
			l:   L("X", "Y"),
			c:   [][]uint8{{1, 1}},
			out: []string{"+iZ"},
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v", test.c), func(t *testing.T) {
			t.Parallel()
			got := test.l.Combine(test.c)
			for i, want := range test.out {
				if s := got.At(i).String(); s != want {
					t.Fatalf("row %d: %s, expected %s", i, s, want)
				}
			}
		})
	}
}

func TestPauliListErrors(t *testing.T) {
	t.Parallel()
	if _, err := NewPauliList(P("X"), P("XX")); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("%+v", err)
	}
	if _, err := NewPauliList(); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("%+v", err)
	}
}

func TestPauliSum(t *testing.T) {
	t.Parallel()
	sum := NewPauliSum(2)
	for _, term := range []struct {
		c complex128
		p string
	}{
		{c: 0.5, p: "XX"},
		{c: 0.5, p: "XX"},
		{c: 1, p: "iZZ"},
		{c: 2, p: "ZI"},
		{c: -2, p: "ZI"},
	} {
		if err := sum.Add(term.c, P(term.p)); err != nil {
			t.Fatalf("%+v", err)
		}
	}
	sum.Simplify()
	if sum.Len() != 2 {
		t.Fatalf("%d terms: %s", sum.Len(), sum)
	}
	// Phases are folded into coefficients, and terms come out sorted by
	// their bit vectors, so ZZ precedes XX.
	c0, p0 := sum.Term(0)
	if p0.String() != "+ZZ" || c0 != 1i {
		t.Fatalf("%v %s", c0, p0)
	}
	c1, p1 := sum.Term(1)
	if p1.String() != "+XX" || c1 != 1 {
		t.Fatalf("%v %s", c1, p1)
	}

	if err := sum.Add(1, P("X")); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("%+v", err)
	}
}
