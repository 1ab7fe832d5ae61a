// Package auf holds the precomputed Astrometric Uncertainty Function grids
// produced by the upstream perturbation simulation stage: per
// (density-bin, filter, pointing) contamination-fraction curves,
// contamination-flux levels and fourier-domain perturbation kernels, looked
// up through each source's model-reference index triple.
package auf

import (
	"fmt"

	"github.com/quasar-data/crossmatch/internal/catalog"
)

// Grid is a dense 4-D array of curves: Levels values per
// (density, filter, pointing) cell, stored level-innermost so one lookup
// returns a contiguous curve. Cells beyond a ragged density axis are padded
// with -1 by Assemble and never referenced by a valid model-reference index.
type Grid struct {
	Levels    int
	Density   int
	Filters   int
	Pointings int
	Data      []float64
}

// NewGrid allocates a grid of the given dimensions with every cell set to
// the -1 padding value.
func NewGrid(levels, density, filters, pointings int) *Grid {
	g := &Grid{
		Levels:    levels,
		Density:   density,
		Filters:   filters,
		Pointings: pointings,
		Data:      make([]float64, levels*density*filters*pointings),
	}
	for i := range g.Data {
		g.Data[i] = -1
	}
	return g
}

func (g *Grid) base(ref catalog.ModelRef) int {
	if ref.Density < 0 || ref.Density >= g.Density ||
		ref.Filter < 0 || ref.Filter >= g.Filters ||
		ref.Pointing < 0 || ref.Pointing >= g.Pointings {
		// Out-of-bounds model references are a programming fault: ranges are
		// validated when grids and catalogues load, not per lookup.
		panic(fmt.Sprintf("auf: model reference %+v out of grid bounds (%d,%d,%d)",
			ref, g.Density, g.Filters, g.Pointings))
	}
	return ((ref.Pointing*g.Filters+ref.Filter)*g.Density + ref.Density) * g.Levels
}

// Curve returns the Levels-long curve for ref. The slice aliases the grid's
// backing array and must be treated as read-only.
func (g *Grid) Curve(ref catalog.ModelRef) []float64 {
	b := g.base(ref)
	return g.Data[b : b+g.Levels]
}

// Value returns the scalar entry for ref on a Levels==1 grid.
func (g *Grid) Value(ref catalog.ModelRef) float64 {
	if g.Levels != 1 {
		panic(fmt.Sprintf("auf: Value on grid with %d levels", g.Levels))
	}
	return g.Data[g.base(ref)]
}

// Set stores a curve at ref; len(curve) must equal Levels.
func (g *Grid) Set(ref catalog.ModelRef, curve []float64) {
	if len(curve) != g.Levels {
		panic(fmt.Sprintf("auf: curve length %d does not match grid levels %d", len(curve), g.Levels))
	}
	copy(g.Data[g.base(ref):], curve)
}

// Grids bundles one catalogue's AUF grid family with the shared
// fourier-space coordinates. Rho holds bin midpoints and DRho bin widths;
// both catalogues in a run share the same rho sampling.
type Grids struct {
	Frac    *Grid // contamination fraction per flux-cut level
	Flux    *Grid // expected contamination flux (single level)
	Fourier *Grid // fourier-domain perturbation kernel over Rho

	Rho  []float64
	DRho []float64
}

// Validate performs the load-time bound check for every source's model
// reference and the internal dimension agreement of the family.
func (g *Grids) Validate(refs []catalog.ModelRef) error {
	if g.Flux.Levels != 1 {
		return fmt.Errorf("auf: flux grid has %d levels, want 1", g.Flux.Levels)
	}
	if g.Fourier.Levels != len(g.Rho) || len(g.Rho) != len(g.DRho) {
		return fmt.Errorf("auf: fourier grid levels %d, rho %d, drho %d disagree",
			g.Fourier.Levels, len(g.Rho), len(g.DRho))
	}
	for _, grid := range []*Grid{g.Frac, g.Flux, g.Fourier} {
		if grid.Density != g.Frac.Density || grid.Filters != g.Frac.Filters ||
			grid.Pointings != g.Frac.Pointings {
			return fmt.Errorf("auf: grid family dimensions disagree")
		}
	}
	for i, ref := range refs {
		if ref.Density < 0 || ref.Density >= g.Frac.Density ||
			ref.Filter < 0 || ref.Filter >= g.Frac.Filters ||
			ref.Pointing < 0 || ref.Pointing >= g.Frac.Pointings {
			return fmt.Errorf("auf: source %d model reference %+v out of grid bounds (%d,%d,%d)",
				i, ref, g.Frac.Density, g.Frac.Filters, g.Frac.Pointings)
		}
	}
	return nil
}

// NFracs returns the number of contamination flux-cut levels.
func (g *Grids) NFracs() int { return g.Frac.Levels }
