// Package pairing implements the island-level Bayesian resolution engine:
// for every island of candidate cross-catalogue matches it enumerates all
// possible counterpart assignments, scores them against astrometric and
// photometric likelihoods and prior densities, and emits the
// maximum-a-posteriori assignment with calibrated probabilities,
// contamination estimates and likelihood-ratio diagnostics.
package pairing

import (
	"fmt"

	"github.com/quasar-data/crossmatch/internal/auf"
	"github.com/quasar-data/crossmatch/internal/catalog"
	"github.com/quasar-data/crossmatch/internal/config"
)

// PriorCube is one prior-density cube, indexed by (local-density bin,
// filter, sky-pointing bin). Entries are source densities per unit sky area
// and may legitimately be exactly zero.
type PriorCube struct {
	Density   int
	Filters   int
	Pointings int
	Data      []float64
}

// NewPriorCube allocates a zeroed cube of the given dimensions.
func NewPriorCube(density, filters, pointings int) *PriorCube {
	return &PriorCube{
		Density:   density,
		Filters:   filters,
		Pointings: pointings,
		Data:      make([]float64, density*filters*pointings),
	}
}

// At returns the density entry for the given index triple.
func (c *PriorCube) At(d, f, p int) float64 {
	if d < 0 || d >= c.Density || f < 0 || f >= c.Filters || p < 0 || p >= c.Pointings {
		panic(fmt.Sprintf("pairing: prior index (%d,%d,%d) out of cube bounds (%d,%d,%d)",
			d, f, p, c.Density, c.Filters, c.Pointings))
	}
	return c.Data[(p*c.Filters+f)*c.Density+d]
}

// Set stores a density entry.
func (c *PriorCube) Set(d, f, p int, v float64) {
	c.Data[(p*c.Filters+f)*c.Density+d] = v
}

// Fill sets every entry to v.
func (c *PriorCube) Fill(v float64) {
	for i := range c.Data {
		c.Data[i] = v
	}
}

// Priors holds the three prior-density cubes: counterpart density and the
// two catalogues' field-source densities. Each source looks its entry up via
// (ModelRef.Density, MagRef, SkyInd); a pair uses the A-side triple for the
// counterpart density.
type Priors struct {
	C  *PriorCube
	Fa *PriorCube
	Fb *PriorCube
}

// PhotLike holds the optional photometric likelihood cubes. A nil *PhotLike
// means photometric likelihoods are disabled and every ratio is exactly 1;
// the enable switch is Options.UsePhotometry, validated against the cubes at
// run start.
type PhotLike struct {
	// Bin edges per filter; a magnitude bins into the half-open interval
	// [edge[i], edge[i+1]).
	AEdges [][]float64
	BEdges [][]float64

	// C[point][aFilt][bFilt][aBin][bBin] is the true-pair likelihood;
	// Fa[point][aFilt][aBin] and Fb[point][bFilt][bBin] are the field
	// likelihoods entering unpaired-source terms.
	C  [][][][][]float64
	Fa [][][]float64
	Fb [][][]float64
}

// Inputs is the full read-only input set for a pairing run. Everything here
// is shared by reference across workers and never mutated during the run.
type Inputs struct {
	A *catalog.Sources
	B *catalog.Sources

	AGrids *auf.Grids
	BGrids *auf.Grids

	Priors *Priors
	Phot   *PhotLike

	Islands  []catalog.Island
	ARejects []int32
	BRejects []int32
}

// Options are the resolved run parameters.
type Options struct {
	NumWorkers       int
	ChunkSize        int
	MaxIslandSources int
	UsePhotometry    bool
}

// OptionsFromConfig resolves run options from a loaded configuration.
func OptionsFromConfig(c *config.RunConfig) Options {
	o := Options{}
	if c.NumWorkers != nil {
		o.NumWorkers = *c.NumWorkers
	}
	if c.ChunkSize != nil {
		o.ChunkSize = *c.ChunkSize
	}
	if c.MaxIslandSources != nil {
		o.MaxIslandSources = *c.MaxIslandSources
	}
	if c.UsePhotometry != nil {
		o.UsePhotometry = *c.UsePhotometry
	}
	return o.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.NumWorkers < 1 {
		o.NumWorkers = 1
	}
	if o.ChunkSize < 1 {
		o.ChunkSize = 4096
	}
	if o.MaxIslandSources < 2 {
		o.MaxIslandSources = 20
	}
	return o
}

// IslandResult is the fixed-shape per-island output record. Counterpart
// slices are parallel: pair k is ACounterparts[k] matched to
// BCounterparts[k], with its diagnostics at index k. Field slices list the
// island members left unmatched under the selected hypothesis.
type IslandResult struct {
	Index int

	ACounterparts []int32
	BCounterparts []int32
	PairPosterior []float64 // posterior of the selected hypothesis, per pair
	Xi            []float64 // log10 astrometric likelihood ratio, per pair
	Eta           []float64 // log10 photometric likelihood ratio, per pair
	AContamProb   [][]float64
	BContamProb   [][]float64
	AContamFlux   []float64
	BContamFlux   []float64

	AField     []int32
	BField     []int32
	AFieldProb []float64 // posterior of being genuinely unmatched
	BFieldProb []float64

	MaxScore float64 // raw score of the selected hypothesis
	Integral float64 // normalising integral Z over all hypotheses
}

// Empty reports whether the island recorded nothing (zero sources).
func (r *IslandResult) Empty() bool {
	return len(r.ACounterparts) == 0 && len(r.AField) == 0 && len(r.BField) == 0
}
