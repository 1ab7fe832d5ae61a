package auf

import (
	"sort"

	"github.com/quasar-data/crossmatch/internal/catalog"
)

// Compact cuts a grid family down to only the (density, filter, pointing)
// combinations referenced by refs and rebases the references onto the
// smaller grids. Chunked runs over memory-mapped grids use this so each
// worker holds an in-memory cutout proportional to its chunk, not to the
// full catalogue.
func Compact(g *Grids, refs []catalog.ModelRef) (*Grids, []catalog.ModelRef) {
	dens, densMap := uniqueAxis(refs, func(r catalog.ModelRef) int { return r.Density })
	filt, filtMap := uniqueAxis(refs, func(r catalog.ModelRef) int { return r.Filter })
	point, pointMap := uniqueAxis(refs, func(r catalog.ModelRef) int { return r.Pointing })

	small := &Grids{
		Frac:    compactGrid(g.Frac, dens, filt, point),
		Flux:    compactGrid(g.Flux, dens, filt, point),
		Fourier: compactGrid(g.Fourier, dens, filt, point),
		Rho:     g.Rho,
		DRho:    g.DRho,
	}
	rebased := make([]catalog.ModelRef, len(refs))
	for i, r := range refs {
		rebased[i] = catalog.ModelRef{
			Density:  densMap[r.Density],
			Filter:   filtMap[r.Filter],
			Pointing: pointMap[r.Pointing],
		}
	}
	return small, rebased
}

func uniqueAxis(refs []catalog.ModelRef, get func(catalog.ModelRef) int) ([]int, map[int]int) {
	seen := map[int]bool{}
	for _, r := range refs {
		seen[get(r)] = true
	}
	vals := make([]int, 0, len(seen))
	for v := range seen {
		vals = append(vals, v)
	}
	sort.Ints(vals)
	idx := make(map[int]int, len(vals))
	for i, v := range vals {
		idx[v] = i
	}
	return vals, idx
}

func compactGrid(g *Grid, dens, filt, point []int) *Grid {
	out := NewGrid(g.Levels, len(dens), len(filt), len(point))
	for pi, p := range point {
		for fi, f := range filt {
			for di, d := range dens {
				src := catalog.ModelRef{Density: d, Filter: f, Pointing: p}
				dst := catalog.ModelRef{Density: di, Filter: fi, Pointing: pi}
				out.Set(dst, g.Curve(src))
			}
		}
	}
	return out
}
