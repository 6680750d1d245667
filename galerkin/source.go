package galerkin

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Source is the right hand side f of -phi'' = f.
type Source interface {
	Val(x float64) float64
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(x float64) float64

func (f SourceFunc) Val(x float64) float64 { return f(x) }

type ConstVal float64

func (c ConstVal) Val(x float64) float64 { return float64(c) }

// ChargeDensity is the electrostatic source -4*pi*rho(x) for a charge density
// rho(x) = x^2.  Projected onto the hat functions it gives exactly the first
// half of the entries built by Load.
var ChargeDensity = SourceFunc(func(x float64) float64 { return -4 * math.Pi * x * x })

// Mirrored reflects a source about x = 1/2: points left of the middle use
// Src directly and points right of it use Src(1-x).
type Mirrored struct {
	Src Source
}

func (m Mirrored) Val(x float64) float64 {
	if x <= 0.5 {
		return m.Src.Val(x)
	}
	return m.Src.Val(1 - x)
}

// LinVals linearly interpolates tabulated source values.  X must be
// increasing.  Outside [X[0], X[len(X)-1]] the end values are used.
type LinVals struct {
	X []float64
	Y []float64
}

func (p *LinVals) Val(x float64) float64 {
	for i := 0; i < len(p.X)-1; i++ {
		x1, x2 := p.X[i], p.X[i+1]
		y1, y2 := p.Y[i], p.Y[i+1]
		if x1 <= x && x <= x2 {
			return y1 + (x-x1)/(x2-x1)*(y2-y1)
		}
	}
	if x < p.X[0] {
		return p.Y[0]
	}
	return p.Y[len(p.Y)-1]
}

// DefaultQuadOrder is the number of Gauss-Legendre points used per element.
// Three points integrate polynomial sources up to degree four exactly against
// the linear hat functions.
const DefaultQuadOrder = 3

// ProjectLoad builds the load vector B[i] = integral of src*w_i where w_i is
// the hat function of node i.  Each of the two elements supporting w_i is
// integrated with an order-point Gauss-Legendre rule.  Boundary entries stay
// zero so phi satisfies homogeneous Dirichlet conditions in the load.
func ProjectLoad(g Grid, src Source, order int) ([]float64, error) {
	if order <= 0 {
		return nil, fmt.Errorf("quadrature order %v: %w", order, ErrInvalidConfiguration)
	}
	if src == nil {
		return nil, fmt.Errorf("nil source: %w", ErrInvalidConfiguration)
	}

	n, x := g.Len(), g.X
	b := make([]float64, n)
	for i := 1; i < n-1; i++ {
		left, mid, right := x[i-1], x[i], x[i+1]
		rising := func(xx float64) float64 { return src.Val(xx) * (xx - left) / (mid - left) }
		falling := func(xx float64) float64 { return src.Val(xx) * (right - xx) / (right - mid) }
		b[i] = quad.Fixed(rising, left, mid, order, quad.Legendre{}, 0) +
			quad.Fixed(falling, mid, right, order, quad.Legendre{}, 0)
	}
	return b, nil
}
