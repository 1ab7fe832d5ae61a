// Package catalog holds the read-only source-catalogue data model shared by
// the cross-identification engine: per-source astrometry and photometry,
// island membership lists from the upstream grouping stage, and reject lists
// for sources removed before pairing.
package catalog

import "fmt"

// ModelRef is the per-source model-reference index triple pointing into that
// catalogue's AUF grids: the normalising-density bin, the filter, and the sky
// pointing the perturbation simulation was run for.
type ModelRef struct {
	Density  int
	Filter   int
	Pointing int
}

// Sources is a struct-of-arrays view of one catalogue. All slices are indexed
// by source and immutable for the duration of a run.
type Sources struct {
	Lon []float64 // degrees, [0, 360)
	Lat []float64 // degrees
	Sig []float64 // positional uncertainty, 1-sigma, degrees

	Mags     [][]float64 // per-source magnitude vector, one entry per filter
	MagRef   []int       // best-filter index into Mags
	ModelRef []ModelRef  // AUF grid reference per source
	SkyInd   []int       // sky-pointing bin for the prior/likelihood cubes
}

// Len returns the number of sources in the catalogue.
func (s *Sources) Len() int { return len(s.Lon) }

// Validate checks the parallel slices agree in length and that per-source
// indices are in range for the given filter count. Grid-bound checks for
// ModelRef happen at grid load time, not here.
func (s *Sources) Validate(nFilters int) error {
	n := s.Len()
	if len(s.Lat) != n || len(s.Sig) != n || len(s.Mags) != n ||
		len(s.MagRef) != n || len(s.ModelRef) != n || len(s.SkyInd) != n {
		return fmt.Errorf("catalog: ragged source arrays (n=%d lat=%d sig=%d mags=%d magref=%d modelref=%d skyind=%d)",
			n, len(s.Lat), len(s.Sig), len(s.Mags), len(s.MagRef), len(s.ModelRef), len(s.SkyInd))
	}
	for i := 0; i < n; i++ {
		if len(s.Mags[i]) != nFilters {
			return fmt.Errorf("catalog: source %d has %d magnitudes, want %d", i, len(s.Mags[i]), nFilters)
		}
		if s.MagRef[i] < 0 || s.MagRef[i] >= nFilters {
			return fmt.Errorf("catalog: source %d best-filter index %d out of range [0,%d)", i, s.MagRef[i], nFilters)
		}
	}
	return nil
}

// Island is one connected group of candidate matches: the catalogue-A and
// catalogue-B source indices mutually reachable within the matching radius.
// Either side may be empty; both empty is a fully rejected group and records
// nothing downstream.
type Island struct {
	A []int32
	B []int32
}

// Size returns the combined member count of the island.
func (is Island) Size() int { return len(is.A) + len(is.B) }

// IslandsFromPadded converts the upstream grouping stage's padded membership
// lists into Islands. alist and blist hold one row per island, padded with -1
// beyond the first alen[i] (blen[i]) entries; the padding is discarded.
func IslandsFromPadded(alist, blist [][]int32, alen, blen []int32) ([]Island, error) {
	if len(alist) != len(blist) || len(alist) != len(alen) || len(alist) != len(blen) {
		return nil, fmt.Errorf("catalog: padded island lists disagree in length (%d/%d/%d/%d)",
			len(alist), len(blist), len(alen), len(blen))
	}
	islands := make([]Island, len(alist))
	for i := range alist {
		na, nb := int(alen[i]), int(blen[i])
		if na > len(alist[i]) || nb > len(blist[i]) {
			return nil, fmt.Errorf("catalog: island %d counts (%d,%d) exceed row lengths (%d,%d)",
				i, na, nb, len(alist[i]), len(blist[i]))
		}
		if na > 0 {
			islands[i].A = append([]int32(nil), alist[i][:na]...)
		}
		if nb > 0 {
			islands[i].B = append([]int32(nil), blist[i][:nb]...)
		}
	}
	return islands, nil
}
