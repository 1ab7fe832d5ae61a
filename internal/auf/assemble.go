package auf

import (
	"fmt"

	"github.com/quasar-data/crossmatch/internal/catalog"
)

// Assemble builds a dense Grid from the ragged per-(filter, pointing) outputs
// of the perturbation simulation stage. lengths[f][p] gives the number of
// density-magnitude combinations simulated for that filter and pointing;
// curves(f, p) returns a level-major [levels][lengths[f][p]] matrix. The
// density axis is padded to the longest simulated combination with the -1
// fill value.
func Assemble(levels, nFilters, nPointings int, lengths [][]int, curves func(f, p int) [][]float64) (*Grid, error) {
	if len(lengths) != nFilters {
		return nil, fmt.Errorf("auf: lengths has %d filters, want %d", len(lengths), nFilters)
	}
	maxLen := 0
	for f := 0; f < nFilters; f++ {
		if len(lengths[f]) != nPointings {
			return nil, fmt.Errorf("auf: lengths[%d] has %d pointings, want %d", f, len(lengths[f]), nPointings)
		}
		for p := 0; p < nPointings; p++ {
			if lengths[f][p] > maxLen {
				maxLen = lengths[f][p]
			}
		}
	}

	g := NewGrid(levels, maxLen, nFilters, nPointings)
	curve := make([]float64, levels)
	for p := 0; p < nPointings; p++ {
		for f := 0; f < nFilters; f++ {
			m := curves(f, p)
			if len(m) != levels {
				return nil, fmt.Errorf("auf: curves(%d,%d) has %d levels, want %d", f, p, len(m), levels)
			}
			for d := 0; d < lengths[f][p]; d++ {
				for l := 0; l < levels; l++ {
					if len(m[l]) != lengths[f][p] {
						return nil, fmt.Errorf("auf: curves(%d,%d) level %d has %d entries, want %d",
							f, p, l, len(m[l]), lengths[f][p])
					}
					curve[l] = m[l][d]
				}
				g.Set(catalog.ModelRef{Density: d, Filter: f, Pointing: p}, curve)
			}
		}
	}
	return g, nil
}
