// Package tridiag provides a compact tridiagonal matrix and an O(n) LU
// factorization for solving tridiagonal linear systems.
package tridiag

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSingularPivot is returned when elimination produces a zero (or
	// non-finite) pivot.
	ErrSingularPivot = errors.New("tridiag: singular pivot")
	// ErrDimensionMismatch is returned when a vector does not match the size
	// of the matrix it is combined with.
	ErrDimensionMismatch = errors.New("tridiag: dimension mismatch")
	// ErrNotFactorized is returned when solving with an empty LU.
	ErrNotFactorized = errors.New("tridiag: matrix not factorized")
)

// Matrix is a square tridiagonal matrix stored as three parallel slices.
// Sub[i] holds A(i+1,i), Diag[i] holds A(i,i) and Super[i] holds A(i,i+1).
// All entries outside the three bands are zero.
type Matrix struct {
	Sub   []float64
	Diag  []float64
	Super []float64
}

// New creates a zeroed size x size tridiagonal matrix.
func New(size int) *Matrix {
	if size <= 0 {
		panic("tridiag: non-positive size")
	}
	return &Matrix{
		Sub:   make([]float64, size-1),
		Diag:  make([]float64, size),
		Super: make([]float64, size-1),
	}
}

// NewBands creates a size x size matrix with constant sub, diag and super
// band values.
func NewBands(size int, sub, diag, super float64) *Matrix {
	m := New(size)
	for i := range m.Diag {
		m.Diag[i] = diag
	}
	for i := range m.Sub {
		m.Sub[i] = sub
		m.Super[i] = super
	}
	return m
}

func (m *Matrix) Size() int        { return len(m.Diag) }
func (m *Matrix) Dims() (int, int) { return m.Size(), m.Size() }
func (m *Matrix) T() mat.Matrix    { return mat.Transpose{Matrix: m} }

// At returns A(i,j).  It panics if i or j is outside the matrix.
func (m *Matrix) At(i, j int) float64 {
	m.checkIndex(i, j)
	switch j - i {
	case 0:
		return m.Diag[i]
	case 1:
		return m.Super[i]
	case -1:
		return m.Sub[j]
	}
	return 0
}

// Set stores v at A(i,j).  It panics if (i,j) is outside the three bands.
func (m *Matrix) Set(i, j int, v float64) {
	m.checkIndex(i, j)
	switch j - i {
	case 0:
		m.Diag[i] = v
	case 1:
		m.Super[i] = v
	case -1:
		m.Sub[j] = v
	default:
		panic(fmt.Sprintf("tridiag: (%v,%v) is outside the tridiagonal band", i, j))
	}
}

func (m *Matrix) checkIndex(i, j int) {
	n := m.Size()
	if i < 0 || i >= n || j < 0 || j >= n {
		panic(fmt.Sprintf("tridiag: index (%v,%v) out of range for size %v", i, j, n))
	}
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		Sub:   append([]float64{}, m.Sub...),
		Diag:  append([]float64{}, m.Diag...),
		Super: append([]float64{}, m.Super...),
	}
}

// IsSymmetric reports whether the sub and super diagonals are equal.
func (m *Matrix) IsSymmetric() bool {
	for i := range m.Sub {
		if m.Sub[i] != m.Super[i] {
			return false
		}
	}
	return true
}

// MulVec computes A*x and stores it in dst.  If dst is nil a new slice is
// allocated.
func (m *Matrix) MulVec(dst, x []float64) ([]float64, error) {
	n := m.Size()
	if len(x) != n {
		return nil, fmt.Errorf("MulVec: len(x)=%v for size %v: %w", len(x), n, ErrDimensionMismatch)
	}
	if dst == nil {
		dst = make([]float64, n)
	} else if len(dst) != n {
		return nil, fmt.Errorf("MulVec: len(dst)=%v for size %v: %w", len(dst), n, ErrDimensionMismatch)
	}
	for i := 0; i < n; i++ {
		v := m.Diag[i] * x[i]
		if i > 0 {
			v += m.Sub[i-1] * x[i-1]
		}
		if i < n-1 {
			v += m.Super[i] * x[i+1]
		}
		dst[i] = v
	}
	return dst, nil
}

// Mul returns the tridiagonal part of the product a*b.  For the bidiagonal
// factors produced by LU the product is exactly tridiagonal.
func Mul(a, b *Matrix) (*Matrix, error) {
	n := a.Size()
	if b.Size() != n {
		return nil, fmt.Errorf("Mul: sizes %v and %v: %w", n, b.Size(), ErrDimensionMismatch)
	}
	c := New(n)
	for i := 0; i < n; i++ {
		for j := i - 1; j <= i+1; j++ {
			if j < 0 || j >= n {
				continue
			}
			tot := 0.0
			for k := i - 1; k <= i+1; k++ {
				if k < 0 || k >= n {
					continue
				}
				tot += a.At(i, k) * b.At(k, j)
			}
			c.Set(i, j, tot)
		}
	}
	return c, nil
}

// Dense returns a dense copy of m.
func (m *Matrix) Dense() *mat.Dense {
	n := m.Size()
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, m.Diag[i])
		if i < n-1 {
			d.Set(i, i+1, m.Super[i])
			d.Set(i+1, i, m.Sub[i])
		}
	}
	return d
}
