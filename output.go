package main

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

// Solution is the nodal solution phi at grid positions X.
type Solution struct {
	Step float64   `yaml:"step"`
	X    []float64 `yaml:"x"`
	Phi  []float64 `yaml:"phi"`
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func writeSolution(w io.Writer, format string, sol Solution) error {
	if len(sol.X) != len(sol.Phi) {
		return fmt.Errorf("solution has %v positions and %v values", len(sol.X), len(sol.Phi))
	}
	if format == "yaml" {
		return writeYAML(w, sol)
	}

	rows := make([][]string, len(sol.X))
	for i := range sol.X {
		rows[i] = []string{strconv.Itoa(i), fmtFloat(sol.X[i]), fmtFloat(sol.Phi[i])}
	}
	header := []string{"i", "x", "phi"}
	if format == "csv" {
		return writeCSV(w, header, rows)
	}
	return writeTable(w, header, rows)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return enc.Close()
}

// savePlot draws phi against x and saves it as an image; the format follows
// the file extension.
func savePlot(path string, sol Solution) error {
	pts := make(plotter.XYs, len(sol.X))
	for i := range sol.X {
		pts[i].X = sol.X[i]
		pts[i].Y = sol.Phi[i]
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("phi(x), h = %v", sol.Step)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "phi"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{B: 200, A: 255}
	p.Add(line)
	p.Legend.Add("galerkin", line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return nil
}
