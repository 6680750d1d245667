package tridiag

import (
	"fmt"
	"math"
)

// LU holds an LU factorization of a tridiagonal matrix A used for solving
// Ax=b.  L is lower bidiagonal with the pivots on its diagonal and the
// sub-diagonal of A below it.  U is unit upper bidiagonal holding the
// multipliers A(i,i+1)/pivot(i) on its super-diagonal.
type LU struct {
	L, U *Matrix
}

// Factorize computes the factorization of A and stores it in lu.  It returns
// an error wrapping ErrSingularPivot if a zero pivot is produced.  Previously
// stored factors are replaced.
func (lu *LU) Factorize(A *Matrix) error {
	size := A.Size()
	L, U := New(size), New(size)
	copy(L.Sub, A.Sub)

	for i := 0; i < size; i++ {
		omega := A.Diag[i]
		if i > 0 {
			omega -= A.Sub[i-1] * U.Super[i-1]
		}
		if omega == 0 || math.IsNaN(omega) || math.IsInf(omega, 0) {
			return fmt.Errorf("pivot %v = %v: %w", i, omega, ErrSingularPivot)
		}
		L.Diag[i] = omega
		U.Diag[i] = 1
		if i < size-1 {
			U.Super[i] = A.Super[i] / omega
		}
	}

	lu.L, lu.U = L, U
	return nil
}

// Pivots returns a copy of the pivots (the diagonal of L).
func (lu *LU) Pivots() []float64 { return append([]float64{}, lu.L.Diag...) }

// SolveLower solves Ly = b via forward substitution.
func (lu *LU) SolveLower(b []float64) ([]float64, error) {
	if err := lu.check(b); err != nil {
		return nil, err
	}
	y := make([]float64, len(b))
	for i := range b {
		piv := lu.L.Diag[i]
		if piv == 0 {
			return nil, fmt.Errorf("forward substitution at row %v: %w", i, ErrSingularPivot)
		}
		if i == 0 {
			y[i] = b[i] / piv
			continue
		}
		y[i] = (b[i] - lu.L.Sub[i-1]*y[i-1]) / piv
	}
	return y, nil
}

// SolveUpper solves Ux = y via backward substitution.
func (lu *LU) SolveUpper(y []float64) ([]float64, error) {
	if err := lu.check(y); err != nil {
		return nil, err
	}
	n := len(y)
	x := make([]float64, n)
	x[n-1] = y[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = y[i] - lu.U.Super[i]*x[i+1]
	}
	return x, nil
}

// Solve solves Ax=b using the stored factorization.  b is not modified.
func (lu *LU) Solve(b []float64) ([]float64, error) {
	y, err := lu.SolveLower(b)
	if err != nil {
		return nil, err
	}
	return lu.SolveUpper(y)
}

func (lu *LU) check(b []float64) error {
	if lu.L == nil || lu.U == nil {
		return ErrNotFactorized
	}
	if len(b) != lu.L.Size() {
		return fmt.Errorf("len(b)=%v for size %v: %w", len(b), lu.L.Size(), ErrDimensionMismatch)
	}
	return nil
}
