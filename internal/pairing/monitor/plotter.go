// Package monitor renders diagnostics from a finished cross-match run:
// static histogram plots of the match statistics and an interactive HTML
// report.
package monitor

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/quasar-data/crossmatch/internal/pairing"
)

// Plotter writes match-statistic histograms as PNG files.
type Plotter struct {
	outputDir string
}

// NewPlotter creates a plotter writing into outputDir, creating it if
// necessary.
func NewPlotter(outputDir string) (*Plotter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Plotter{outputDir: outputDir}, nil
}

// GeneratePlots writes one histogram per match statistic: the counterpart
// posterior, the astrometric ratio xi and the photometric ratio eta, plus
// the field-source posteriors for both catalogues. Empty series are skipped.
// Returns the number of plots written.
func (p *Plotter) GeneratePlots(res *pairing.Results) (int, error) {
	series := []struct {
		name   string
		title  string
		xLabel string
		values []float64
	}{
		{"posterior", "Counterpart Posterior", "P(match)", res.Posterior},
		{"xi", "Astrometric Likelihood Ratio", "log10(Nc G / (Nfa Nfb))", res.Xi},
		{"eta", "Photometric Likelihood Ratio", "log10(c / (fa fb))", res.Eta},
		{"a_field_prob", "Catalogue A Field Posterior", "P(unmatched)", res.AFieldProb},
		{"b_field_prob", "Catalogue B Field Posterior", "P(unmatched)", res.BFieldProb},
	}

	count := 0
	for _, s := range series {
		if len(s.values) == 0 {
			continue
		}
		if err := p.histogram(s.name, s.title, s.xLabel, s.values); err != nil {
			return count, fmt.Errorf("%s: %w", s.name, err)
		}
		count++
	}
	return count, nil
}

func (p *Plotter) histogram(name, title, xLabel string, values []float64) error {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = xLabel
	pl.Y.Label.Text = "Count"

	bins := 20
	if len(values) < bins {
		bins = len(values)
	}
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return err
	}
	pl.Add(h)

	file := filepath.Join(p.outputDir, fmt.Sprintf("%s_hist.png", name))
	if err := pl.Save(8*vg.Inch, 5*vg.Inch, file); err != nil {
		return fmt.Errorf("failed to save %s: %w", file, err)
	}
	return nil
}
