// Package galerkin solves the one dimensional Poisson problem -phi'' = f on
// [0,1] with piecewise linear (hat function) elements on a uniform grid.
//
// The discrete system A*phi = B has a tridiagonal stiffness matrix A and is
// solved with the O(n) factorization in package tridiag.
package galerkin

import (
	"errors"
	"fmt"
	"math"

	"github.com/AntonKilmetov/PoissonEquation/tridiag"
)

var (
	// ErrInvalidConfiguration is returned when a step size does not produce a
	// usable grid over [0,1].
	ErrInvalidConfiguration = errors.New("galerkin: invalid configuration")
	// ErrSingularPivot is returned when factorization or substitution meets
	// a zero pivot.  It is the same value as tridiag.ErrSingularPivot.
	ErrSingularPivot = tridiag.ErrSingularPivot
)

// MinNodes is the smallest grid that has an interior node with a neighbor on
// each side.
const MinNodes = 3

// maxNodes bounds the grid size so 1/step always fits in an int.
const maxNodes = math.MaxInt32

// Grid is a uniform partition of [0,1].
type Grid struct {
	// X holds the node positions, X[i] = i*H.
	X []float64
	// H is the distance between neighboring nodes.
	H float64
}

// NewGrid builds floor(1/step)+1 nodes at positions i*step.  The last node
// is at 1 only if step divides 1 evenly.
func NewGrid(step float64) (Grid, error) {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return Grid{}, fmt.Errorf("step %v is not a positive finite number: %w", step, ErrInvalidConfiguration)
	}
	if 1/step >= maxNodes {
		return Grid{}, fmt.Errorf("step %v yields too many nodes: %w", step, ErrInvalidConfiguration)
	}

	n := int(1/step) + 1
	if n < MinNodes {
		return Grid{}, fmt.Errorf("step %v yields %v nodes, need at least %v: %w", step, n, MinNodes, ErrInvalidConfiguration)
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) * step
	}
	return Grid{X: xs, H: step}, nil
}

// Len returns the number of nodes.
func (g Grid) Len() int { return len(g.X) }

// Clone returns a copy of g that shares no storage with it.
func (g Grid) Clone() Grid { return Grid{X: append([]float64{}, g.X...), H: g.H} }
