package clifford

import (
	"github.com/fumin/clifford/mat"
)

// Matrix expands the operator to its explicit 2^n x 2^n sparse matrix.
// This is exponential in n and exists for cross-checking the binary algebra
// on small registers, not for simulation.
func (p *Pauli) Matrix() *mat.COO {
	m := mat.COOZeros(1, 1)
	m.Scalar(complex64(phaseFactor(p.ph)))
	n := p.N()
	for i := 0; i < n; i++ {
		switch {
		case p.b[i] == 1 && p.b[n+i] == 1:
			// X @ Z rather than Y, since the i of Y = iXZ lives in the phase.
			m.Kron(mat.M([][]complex64{
				{0, -1},
				{1, 0},
			}))
		case p.b[i] == 1:
			m.Kron(mat.M(mat.PauliX))
		case p.b[n+i] == 1:
			m.Kron(mat.M(mat.PauliZ))
		default:
			m.Kron(mat.M(mat.Identity2))
		}
	}
	return m
}

// DensityMatrix expands the state to its 2^n x 2^n density matrix
// prod_i (1 + g_i)/2 over the stabilizer generators g_i.
// Exponential in n; cross-check use only.
func (s *StabilizerState) DensityMatrix() *mat.COO {
	dim := 1 << s.n
	rho := mat.COOIdentity(dim)
	for i := 0; i < s.n; i++ {
		term := s.tab.At(i).Matrix()
		term.Add(1, mat.COOIdentity(dim))
		term.Scale(0.5)
		rho = rho.MatMul(term)
	}
	return rho
}
