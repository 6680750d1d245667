package galerkin

import (
	"math"

	"github.com/AntonKilmetov/PoissonEquation/tridiag"
)

// Stiffness builds the n x n stiffness matrix for linear elements of width h:
// 2/h on the diagonal and -1/h on both off-diagonals.  Boundary rows are not
// treated specially.
func Stiffness(n int, h float64) *tridiag.Matrix {
	return tridiag.NewBands(n, -1/h, 2/h, -1/h)
}

// Load builds the load vector for the source -4*pi*x^2 reflected about the
// middle of the domain.  Nodes up to index n/2 (integer division) are
// integrated exactly against their hat functions; the remaining interior
// nodes copy their mirror image n-1-i.  Both boundary entries are zero.
func Load(g Grid) []float64 {
	n, h, x := g.Len(), g.H, g.X
	b := make([]float64, n)
	for i := 1; i < n-1; i++ {
		if i <= n/2 {
			b[i] = (-math.Pi / (3 * h)) * (math.Pow(x[i-1], 4) - 2*math.Pow(x[i], 4) + math.Pow(x[i+1], 4))
		} else {
			b[i] = b[n-1-i]
		}
	}
	return b
}
