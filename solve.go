package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/AntonKilmetov/PoissonEquation/galerkin"
)

// verifyTol is the largest relative difference accepted between phi and a
// dense reference solve.
const verifyTol = 1e-9

var errVerify = errors.New("solution does not match dense solve")

func newSolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "solve",
		Short: "Solve for a single grid step and print phi",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, closeOut, err := openOutput(cmd, a.cfg.Output)
			if err != nil {
				return err
			}
			if err := runSolve(a.cfg, a.log, w); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}
}

func runSolve(cfg Config, log *logrus.Logger, w io.Writer) error {
	s, err := galerkin.New(cfg.Step, galerkin.WithLogger(log))
	if err != nil {
		return err
	}
	phi, err := s.ComputeSolution()
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"step": cfg.Step, "nodes": s.Len()}).Info("solved")

	if cfg.Verify {
		if err := verify(s, phi, log); err != nil {
			return err
		}
	}

	sol := Solution{Step: cfg.Step, X: s.Grid().X, Phi: phi}
	if err := writeSolution(w, cfg.Format, sol); err != nil {
		return err
	}
	if cfg.Plot != "" {
		if err := savePlot(cfg.Plot, sol); err != nil {
			return err
		}
		log.WithField("file", cfg.Plot).Info("saved plot")
	}
	return nil
}

// residual returns the relative residual |A*phi - B| / |B|.  A zero load
// gives the absolute residual.
func residual(s *galerkin.Solver, phi []float64) (float64, error) {
	b := s.Load()
	r, err := s.Stiffness().MulVec(nil, phi)
	if err != nil {
		return 0, err
	}
	floats.Sub(r, b)
	norm := floats.Norm(b, 2)
	if norm == 0 {
		return floats.Norm(r, 2), nil
	}
	return floats.Norm(r, 2) / norm, nil
}

// verify compares phi with a general dense LU solve of the same system.
func verify(s *galerkin.Solver, phi []float64, log *logrus.Logger) error {
	b := s.Load()
	var want mat.VecDense
	if err := want.SolveVec(s.Stiffness().Dense(), mat.NewVecDense(len(b), b)); err != nil {
		return fmt.Errorf("dense solve: %w", err)
	}
	ref := want.RawVector().Data

	diff := floats.Distance(phi, ref, 2)
	if norm := floats.Norm(ref, 2); norm > 0 {
		diff /= norm
	}
	res, err := residual(s, phi)
	if err != nil {
		return err
	}

	entry := log.WithFields(logrus.Fields{"difference": diff, "residual": res})
	if diff > verifyTol {
		entry.Warn("verification failed")
		return fmt.Errorf("relative difference %g > %g: %w", diff, verifyTol, errVerify)
	}
	entry.Info("verified against dense solve")
	return nil
}
