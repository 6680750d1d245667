package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AntonKilmetov/PoissonEquation/galerkin"
)

// Summary describes the solution for one step of a sweep.
type Summary struct {
	Step     float64 `yaml:"step"`
	Nodes    int     `yaml:"nodes"`
	MinX     float64 `yaml:"min_x"`
	MinPhi   float64 `yaml:"min_phi"`
	Residual float64 `yaml:"residual"`
}

func newSweepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Solve for several grid steps concurrently and summarize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sums, err := runSweep(ctx, a.cfg.Steps, a.cfg.Workers, a.log)
			if err != nil {
				return err
			}

			w, closeOut, err := openOutput(cmd, a.cfg.Output)
			if err != nil {
				return err
			}
			if err := writeSummaries(w, a.cfg.Format, sums); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}
}

// runSweep solves every step with its own Solver, at most workers at a time.
// Summaries are returned in the order of steps.  The first failure cancels
// the remaining solves.
func runSweep(ctx context.Context, steps []float64, workers int, log *logrus.Logger) ([]Summary, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("sweep: no steps given")
	}

	sums := make([]Summary, len(steps))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, h := range steps {
		i, h := i, h
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := galerkin.New(h, galerkin.WithLogger(log))
			if err != nil {
				return fmt.Errorf("step %v: %w", h, err)
			}
			phi, err := s.ComputeSolution()
			if err != nil {
				return fmt.Errorf("step %v: %w", h, err)
			}
			res, err := residual(s, phi)
			if err != nil {
				return fmt.Errorf("step %v: %w", h, err)
			}

			x := s.Grid().X
			imin := 0
			for j := range phi {
				if phi[j] < phi[imin] {
					imin = j
				}
			}
			sums[i] = Summary{Step: h, Nodes: s.Len(), MinX: x[imin], MinPhi: phi[imin], Residual: res}
			log.WithFields(logrus.Fields{"step": h, "nodes": s.Len(), "residual": res}).Debug("sweep step done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sums, nil
}

func writeSummaries(w io.Writer, format string, sums []Summary) error {
	switch format {
	case "yaml":
		return writeYAML(w, struct {
			Sweep []Summary `yaml:"sweep"`
		}{sums})
	case "csv":
		rows := make([][]string, len(sums))
		for i, s := range sums {
			rows[i] = []string{fmtFloat(s.Step), fmt.Sprint(s.Nodes), fmtFloat(s.MinX), fmtFloat(s.MinPhi), fmtFloat(s.Residual)}
		}
		return writeCSV(w, []string{"step", "nodes", "min_x", "min_phi", "residual"}, rows)
	default:
		rows := make([][]string, len(sums))
		for i, s := range sums {
			rows[i] = []string{fmtFloat(s.Step), fmt.Sprint(s.Nodes), fmtFloat(s.MinX), fmtFloat(s.MinPhi), fmt.Sprintf("%.3g", s.Residual)}
		}
		return writeTable(w, []string{"step", "nodes", "min_x", "min_phi", "residual"}, rows)
	}
}
