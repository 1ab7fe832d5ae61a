package pairing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/quasar-data/crossmatch/internal/monitoring"
)

// PairSources runs the full island-level resolution over every island in
// the inputs: configuration checks, chunked parallel resolution, merging and
// reconciliation. It is deterministic: the same inputs always produce
// bit-identical outputs.
func PairSources(ctx context.Context, in *Inputs, opts Options) (*Results, error) {
	opts = opts.withDefaults()
	start := time.Now()

	if err := validateInputs(in, opts); err != nil {
		return nil, err
	}
	var phot *PhotLike
	if opts.UsePhotometry {
		phot = in.Phot
	}

	islands, err := resolveIslands(ctx, in, phot, opts)
	if err != nil {
		return nil, err
	}
	res := Accumulate(islands, in.A.Len(), in.B.Len(), in.ARejects, in.BRejects)

	logSummary(res, time.Since(start))
	return res, nil
}

// validateInputs raises configuration faults before any island processing
// begins; once resolution starts the only error source is oversized islands.
func validateInputs(in *Inputs, opts Options) error {
	if in.A == nil || in.B == nil {
		return fmt.Errorf("pairing: both catalogues are required")
	}
	if in.Priors == nil {
		return fmt.Errorf("pairing: prior density cubes are required")
	}
	if in.AGrids == nil || in.BGrids == nil {
		return fmt.Errorf("pairing: perturbation grids are required for both catalogues")
	}
	if opts.UsePhotometry && in.Phot == nil {
		return fmt.Errorf("pairing: photometric likelihoods enabled but no likelihood cubes supplied")
	}
	if err := in.AGrids.Validate(in.A.ModelRef); err != nil {
		return fmt.Errorf("pairing: catalogue a grids: %w", err)
	}
	if err := in.BGrids.Validate(in.B.ModelRef); err != nil {
		return fmt.Errorf("pairing: catalogue b grids: %w", err)
	}
	return nil
}

func logSummary(res *Results, elapsed time.Duration) {
	monitoring.Logf("pairing: %d counterpart pairs, %d/%d field sources (a/b), %d warnings in %v",
		len(res.AC), len(res.AField), len(res.BField), len(res.Warnings), elapsed.Round(time.Millisecond))
	if len(res.Posterior) == 0 {
		return
	}
	p := append([]float64(nil), res.Posterior...)
	sort.Float64s(p)
	monitoring.Logf("pairing: posterior quantiles p16=%.4f p50=%.4f p84=%.4f",
		stat.Quantile(0.16, stat.Empirical, p, nil),
		stat.Quantile(0.50, stat.Empirical, p, nil),
		stat.Quantile(0.84, stat.Empirical, p, nil))
}
