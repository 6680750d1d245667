package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

// app carries the state shared by the subcommands once flags and config have
// been resolved.
type app struct {
	v    *viper.Viper
	cfg  Config
	log  *logrus.Logger
	path string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "poisson",
		Short: "Solve -phi'' = f on [0,1] with linear Galerkin elements",
		Long: `poisson assembles the tridiagonal stiffness matrix and load vector of the
1D Poisson problem on a uniform grid and solves it with a tridiagonal LU
factorization.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.v, a.path)
			if err != nil {
				return err
			}
			logger, err := setupLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, logger
			if used := a.v.ConfigFileUsed(); used != "" {
				a.log.WithField("file", used).Debug("loaded config")
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.path, "config", "", "YAML config file")
	flags.Float64("step", 0.01, "grid step h")
	flags.StringSlice("steps", []string{"0.1", "0.05", "0.02", "0.01"}, "grid steps for sweep")
	flags.String("format", "table", "output format: table, csv or yaml")
	flags.StringP("output", "o", "", "output file (default stdout)")
	flags.String("plot", "", "save a PNG plot of phi to this file")
	flags.Bool("verify", false, "check phi against a dense solve")
	flags.Int("workers", 4, "concurrent solves for sweep")
	flags.String("log-level", "info", "log level")

	v, err := newViper(flags)
	if err != nil {
		// Binding only fails for a nil flag, which is a programming error.
		panic(err)
	}
	a.v = v

	root.AddCommand(newSolveCmd(a), newSweepCmd(a))
	return root
}

// openOutput returns the writer for cfg.Output and a function that closes it.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
