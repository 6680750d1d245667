package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/AntonKilmetov/PoissonEquation/galerkin"
)

const tol = 1e-9

// phiHalf is the exact solution for step 0.5: phi = B1 * [1/4, 1/2, 1/4].
var phiHalf = []float64{-7 * math.Pi / 48, -7 * math.Pi / 24, -7 * math.Pi / 48}

func testConfig() Config {
	return Config{Step: 0.5, Format: "table", Workers: 2, LogLevel: "error"}
}

func TestLoadConfig_Defaults(t *testing.T) {
	v, err := newViper(pflag.NewFlagSet("test", pflag.ContinueOnError))
	require.NoError(t, err)

	cfg, err := loadConfig(v, "")
	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.Step)
	assert.Equal(t, []float64{0.1, 0.05, 0.02, 0.01}, cfg.Steps)
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Verify)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poisson.yaml")
	require.NoError(t, os.WriteFile(path, []byte("step: 0.2\nformat: CSV\nsteps: [0.5, 0.25]\nverify: true\n"), 0o644))
	t.Setenv("POISSON_WORKERS", "7")

	v, err := newViper(pflag.NewFlagSet("test", pflag.ContinueOnError))
	require.NoError(t, err)
	cfg, err := loadConfig(v, path)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.Step)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, []float64{0.5, 0.25}, cfg.Steps)
	assert.True(t, cfg.Verify)
	assert.Equal(t, 7, cfg.Workers)
}

func TestLoadConfig_Errors(t *testing.T) {
	var tests = []struct {
		name string
		env  map[string]string
	}{
		{"bad format", map[string]string{"POISSON_FORMAT": "xml"}},
		{"bad steps", map[string]string{"POISSON_STEPS": "0.1,abc"}},
		{"bad workers", map[string]string{"POISSON_WORKERS": "0"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for k, val := range test.env {
				t.Setenv(k, val)
			}
			v, err := newViper(pflag.NewFlagSet("test", pflag.ContinueOnError))
			require.NoError(t, err)
			_, err = loadConfig(v, "")
			assert.Error(t, err)
		})
	}

	v, err := newViper(pflag.NewFlagSet("test", pflag.ContinueOnError))
	require.NoError(t, err)
	_, err = loadConfig(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = setupLogger("loud")
	assert.Error(t, err)
}

func TestRunSolve_Formats(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "csv"
		var buf bytes.Buffer
		require.NoError(t, runSolve(cfg, logger, &buf))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"i", "x", "phi"}, records[0])
		for i, rec := range records[1:] {
			assert.Equal(t, strconv.Itoa(i), rec[0])
			phi, err := strconv.ParseFloat(rec[2], 64)
			require.NoError(t, err)
			assert.InDelta(t, phiHalf[i], phi, tol)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "yaml"
		var buf bytes.Buffer
		require.NoError(t, runSolve(cfg, logger, &buf))

		var sol Solution
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &sol))
		assert.Equal(t, 0.5, sol.Step)
		assert.Equal(t, []float64{0, 0.5, 1}, sol.X)
		assert.InDeltaSlice(t, phiHalf, sol.Phi, tol)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runSolve(testConfig(), logger, &buf))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, []string{"i", "x", "phi"}, strings.Fields(lines[0]))
		assert.Equal(t, "0.5", strings.Fields(lines[2])[1])
	})
}

func TestRunSolve_VerifyAndPlot(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	cfg := testConfig()
	cfg.Step = 0.01
	cfg.Verify = true
	cfg.Plot = filepath.Join(t.TempDir(), "phi.png")

	var buf bytes.Buffer
	require.NoError(t, runSolve(cfg, logger, &buf))

	info, err := os.Stat(cfg.Plot)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	var verified bool
	for _, e := range hook.AllEntries() {
		if e.Message == "verified against dense solve" {
			verified = true
			assert.Less(t, e.Data["difference"].(float64), verifyTol)
			assert.Less(t, e.Data["residual"].(float64), verifyTol)
		}
	}
	assert.True(t, verified, "no verification log entry")
}

func TestRunSolve_InvalidStep(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cfg := testConfig()
	cfg.Step = 1

	var buf bytes.Buffer
	err := runSolve(cfg, logger, &buf)
	assert.ErrorIs(t, err, galerkin.ErrInvalidConfiguration)
	assert.Zero(t, buf.Len())
}

func TestRunSweep(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	steps := []float64{0.5, 0.1, 0.05, 0.01}

	sums, err := runSweep(context.Background(), steps, 2, logger)
	require.NoError(t, err)
	require.Len(t, sums, len(steps))

	wantNodes := []int{3, 11, 21, 101}
	for i, s := range sums {
		assert.Equal(t, steps[i], s.Step)
		assert.Equal(t, wantNodes[i], s.Nodes)
		assert.InDelta(t, 0.5, s.MinX, 1e-12, "step %v", s.Step)
		assert.Less(t, s.MinPhi, 0.0)
		assert.Less(t, s.Residual, tol)
	}
	assert.InDelta(t, phiHalf[1], sums[0].MinPhi, tol)
}

func TestRunSweep_Errors(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	_, err := runSweep(context.Background(), []float64{0.1, 1.0, 0.01}, 1, logger)
	assert.ErrorIs(t, err, galerkin.ErrInvalidConfiguration)

	_, err = runSweep(context.Background(), nil, 1, logger)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runSweep(ctx, []float64{0.1}, 1, logger)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteSummaries(t *testing.T) {
	sums := []Summary{{Step: 0.5, Nodes: 3, MinX: 0.5, MinPhi: -1, Residual: 0}}

	var buf bytes.Buffer
	require.NoError(t, writeSummaries(&buf, "yaml", sums))
	var doc struct {
		Sweep []Summary `yaml:"sweep"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, sums, doc.Sweep)

	buf.Reset()
	require.NoError(t, writeSummaries(&buf, "csv", sums))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"step", "nodes", "min_x", "min_phi", "residual"},
		{"0.5", "3", "0.5", "-1", "0"},
	}, records)
}

func TestRootCmd(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"solve", "--step", "0.5", "--format", "csv", "--log-level", "error"})
	require.NoError(t, root.Execute())

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "1", records[3][1])

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"sweep", "--steps", "0.5,0.25", "--format", "yaml", "--log-level", "error"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "nodes: 5")

	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"solve", "--step", "2", "--log-level", "error"})
	assert.ErrorIs(t, root.Execute(), galerkin.ErrInvalidConfiguration)
}
