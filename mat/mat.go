// Package mat implements sparse complex matrices in coordinate format.
// The stabilizer core is exact and never needs them; they are the numeric
// substrate for expanding small operators to explicit matrices and
// cross-checking the binary algebra.
package mat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fumin/tensor"
	gomat "gonum.org/v1/gonum/mat"
)

var (
	Identity2 = [][]complex64{
		{1, 0},
		{0, 1},
	}
	PauliX = [][]complex64{
		{0, 1},
		{1, 0},
	}
	PauliY = [][]complex64{
		{0, -1i},
		{1i, 0},
	}
	PauliZ = [][]complex64{
		{1, 0},
		{0, -1},
	}
)

type vRowCol struct {
	v   complex64
	row int
	col int
}

func rowMajor(a, b vRowCol) int {
	if a.row != b.row {
		return a.row - b.row
	}
	return a.col - b.col
}

// COO is a sparse matrix holding its non-zero entries in row major order.
type COO struct {
	rows int
	cols int
	Data []vRowCol

	m map[[2]int]complex64
}

// M constructs a COO matrix from a dense representation.
func M(dense [][]complex64) *COO {
	m := &COO{rows: len(dense), cols: len(dense[0]), Data: make([]vRowCol, 0), m: make(map[[2]int]complex64)}
	for i, row := range dense {
		for j, v := range row {
			if v == 0 {
				continue
			}
			m.Data = append(m.Data, vRowCol{v: v, row: i, col: j})
		}
	}
	return m
}

func COOZeros(rows, cols int) *COO {
	m := M([][]complex64{{0}})
	m.Zeros(rows, cols)
	return m
}

func COOIdentity(rows int) *COO {
	m := COOZeros(rows, rows)
	for i := 0; i < rows; i++ {
		m.Data = append(m.Data, vRowCol{v: 1, row: i, col: i})
	}
	return m
}

func (m *COO) Rows() int { return m.rows }
func (m *COO) Cols() int { return m.cols }

func (m *COO) Zeros(rows, cols int) {
	m.rows, m.cols = rows, cols
	m.Data = m.Data[:0]
}

func (m *COO) Scalar(v complex64) {
	m.rows, m.cols = 1, 1
	m.Data = m.Data[:0]
	m.Data = append(m.Data, vRowCol{v: v, row: 0, col: 0})
}

func (m *COO) At(i, j int) complex64 {
	for _, v := range m.Data {
		if v.row == i && v.col == j {
			return v.v
		}
	}
	return 0
}

func (a *COO) Equal(b *COO) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	if len(a.Data) != len(b.Data) {
		return false
	}
	for i, av := range a.Data {
		if av != b.Data[i] {
			return false
		}
	}
	return true
}

// Scale multiplies every entry by v.
func (m *COO) Scale(v complex64) {
	for i := range m.Data {
		m.Data[i].v *= v
	}
	m.Data = slices.DeleteFunc(m.Data, func(e vRowCol) bool {
		return e.v == 0
	})
}

// Add does a += c*b.
func (a *COO) Add(c complex64, b *COO) {
	if a.rows != b.rows || a.cols != b.cols {
		panic(fmt.Sprintf("%dx%d %dx%d", a.rows, a.cols, b.rows, b.cols))
	}
	clear(a.m)
	for _, v := range a.Data {
		a.m[[2]int{v.row, v.col}] = v.v
	}
	for _, v := range b.Data {
		a.m[[2]int{v.row, v.col}] += c * v.v
	}

	a.Data = a.Data[:0]
	for yx, v := range a.m {
		if v == 0 {
			continue
		}
		a.Data = append(a.Data, vRowCol{v: v, row: yx[0], col: yx[1]})
	}
	slices.SortFunc(a.Data, rowMajor)
	clear(a.m)
}

// Kron does a = kron(a, b).
func (a *COO) Kron(b *COO) {
	rows := a.rows * b.rows
	cols := a.cols * b.cols
	a.rows, a.cols = rows, cols

	prevElemNum := len(a.Data)
	for i := prevElemNum - 1; i >= 0; i-- {
		av := a.Data[i]
		a.Data[i].v = 0
		for _, bv := range b.Data {
			ky := av.row*b.rows + bv.row
			kx := av.col*b.cols + bv.col
			a.Data = append(a.Data, vRowCol{v: av.v * bv.v, row: ky, col: kx})
		}
	}

	a.Data = slices.DeleteFunc(a.Data, func(v vRowCol) bool {
		return v.v == 0
	})
	slices.SortFunc(a.Data, rowMajor)
}

// MatMul returns the matrix product a @ b.
func (a *COO) MatMul(b *COO) *COO {
	if a.cols != b.rows {
		panic(fmt.Sprintf("%dx%d %dx%d", a.rows, a.cols, b.rows, b.cols))
	}
	clear(a.m)
	for _, av := range a.Data {
		for _, bv := range b.Data {
			if av.col != bv.row {
				continue
			}
			a.m[[2]int{av.row, bv.col}] += av.v * bv.v
		}
	}

	p := COOZeros(a.rows, b.cols)
	for yx, v := range a.m {
		if v == 0 {
			continue
		}
		p.Data = append(p.Data, vRowCol{v: v, row: yx[0], col: yx[1]})
	}
	slices.SortFunc(p.Data, rowMajor)
	clear(a.m)
	return p
}

// Dense expands the matrix to a dense tensor.
func (m *COO) Dense() *tensor.Dense {
	t := tensor.Zeros(m.rows, m.cols)
	for _, v := range m.Data {
		t.SetAt([]int{v.row, v.col}, v.v)
	}
	return t
}

// CDense expands the matrix to a gonum complex dense matrix.
func (m *COO) CDense() *gomat.CDense {
	d := gomat.NewCDense(m.rows, m.cols, nil)
	for _, v := range m.Data {
		d.Set(v.row, v.col, complex128(v.v))
	}
	return d
}

func (m *COO) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%dx%d[", m.rows, m.cols))
	for i, v := range m.Data {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("(%d,%d)%v", v.row, v.col, v.v))
	}
	sb.WriteString("]")
	return sb.String()
}
