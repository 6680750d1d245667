package galerkin

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/AntonKilmetov/PoissonEquation/tridiag"
)

// Solver holds the discrete system for one step size together with the
// factorization of its stiffness matrix.  Everything is built by New and
// never modified afterwards, so ComputeSolution always returns the same
// result.  A Solver is not meant to be shared between goroutines that also
// inspect its matrices; use one Solver per goroutine.
type Solver struct {
	grid Grid
	a    *tridiag.Matrix
	b    []float64
	lu   tridiag.LU
	log  logrus.FieldLogger
}

type options struct {
	src   Source
	order int
	log   logrus.FieldLogger
}

// Option configures a Solver.
type Option func(*options)

// WithSource replaces the closed form load of Load with the quadrature
// projection of src (see ProjectLoad) using order points per element.
func WithSource(src Source, order int) Option {
	return func(o *options) {
		o.src = src
		o.order = order
	}
}

// WithLogger sets the logger used for construction diagnostics.  By default
// nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// New builds the grid, stiffness matrix, load vector and LU factors for the
// given step.  It fails with ErrInvalidConfiguration if the step does not
// give at least MinNodes nodes and with ErrSingularPivot if the stiffness
// matrix cannot be factored.
func New(step float64, opts ...Option) (*Solver, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.log = discard
	}

	grid, err := NewGrid(step)
	if err != nil {
		return nil, err
	}

	s := &Solver{
		grid: grid,
		a:    Stiffness(grid.Len(), grid.H),
		log:  o.log.WithFields(logrus.Fields{"step": step, "nodes": grid.Len()}),
	}

	if o.src != nil {
		s.b, err = ProjectLoad(grid, o.src, o.order)
		if err != nil {
			return nil, err
		}
		s.log.WithField("order", o.order).Debug("projected load with quadrature")
	} else {
		s.b = Load(grid)
		s.log.Debug("assembled closed form load")
	}

	if err := s.lu.Factorize(s.a); err != nil {
		return nil, fmt.Errorf("factorize stiffness: %w", err)
	}
	s.log.Debug("factorized stiffness matrix")
	return s, nil
}

// ComputeSolution solves A*phi = B with forward and back substitution and
// returns phi, one value per grid node.  The returned slice belongs to the
// caller.
func (s *Solver) ComputeSolution() ([]float64, error) {
	phi, err := s.lu.Solve(s.b)
	if err != nil {
		return nil, fmt.Errorf("compute solution: %w", err)
	}
	return phi, nil
}

// Len returns the number of grid nodes.
func (s *Solver) Len() int { return s.grid.Len() }

// Grid returns a copy of the solver's grid.
func (s *Solver) Grid() Grid { return s.grid.Clone() }

// Stiffness returns a copy of the stiffness matrix A.
func (s *Solver) Stiffness() *tridiag.Matrix { return s.a.Clone() }

// Load returns a copy of the load vector B.
func (s *Solver) Load() []float64 { return append([]float64{}, s.b...) }

// Factors returns copies of the L and U factors of A.
func (s *Solver) Factors() (L, U *tridiag.Matrix) { return s.lu.L.Clone(), s.lu.U.Clone() }
