package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quasar-data/crossmatch/internal/auf"
	"github.com/quasar-data/crossmatch/internal/catalog"
	"github.com/quasar-data/crossmatch/internal/pairing"
)

// inputsFile is the JSON run manifest. Bulk per-source arrays live in raw
// little-endian float64 files referenced by path; integer bookkeeping arrays
// and the (much smaller) grid and prior cubes are inline.
type inputsFile struct {
	CatalogA catalogFile     `json:"catalog_a"`
	CatalogB catalogFile     `json:"catalog_b"`
	AGrids   *auf.Grids      `json:"a_grids"`
	BGrids   *auf.Grids      `json:"b_grids"`
	Priors   *pairing.Priors `json:"priors"`
	Islands  islandFile      `json:"islands"`
	ARejects []int32         `json:"a_rejects"`
	BRejects []int32         `json:"b_rejects"`
}

type catalogFile struct {
	Lon      string             `json:"lon"` // raw float64 array files
	Lat      string             `json:"lat"`
	Sig      string             `json:"sig"`
	Mags     []string           `json:"mags"` // one file per filter, source-ordered
	MagRef   []int              `json:"mag_ref"`
	SkyInd   []int              `json:"sky_ind"`
	ModelRef []catalog.ModelRef `json:"model_ref"`
}

// islandFile carries the padded island-group arrays from the upstream
// grouping stage: fixed-width rows padded with -1.
type islandFile struct {
	AList [][]int32 `json:"alist"`
	BList [][]int32 `json:"blist"`
	ALen  []int32   `json:"alen"`
	BLen  []int32   `json:"blen"`
}

// loadInputs reads the manifest at path and assembles the full input set.
// Relative array paths resolve against dirA/dirB (or the manifest's own
// directory when empty). The returned closer releases any mapped files.
func loadInputs(path, dirA, dirB string, useMmap bool) (*pairing.Inputs, func() error, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read inputs manifest: %w", err)
	}
	var f inputsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse inputs manifest: %w", err)
	}

	base := filepath.Dir(path)
	if dirA == "" {
		dirA = base
	}
	if dirB == "" {
		dirB = base
	}

	var closers []func() error
	closeAll := func() error {
		var first error
		for _, c := range closers {
			if err := c(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	a, err := loadCatalog(&f.CatalogA, dirA, useMmap, &closers)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("catalogue a: %w", err)
	}
	b, err := loadCatalog(&f.CatalogB, dirB, useMmap, &closers)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("catalogue b: %w", err)
	}

	islands, err := catalog.IslandsFromPadded(f.Islands.AList, f.Islands.BList, f.Islands.ALen, f.Islands.BLen)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("island lists: %w", err)
	}

	in := &pairing.Inputs{
		A: a, B: b,
		AGrids: f.AGrids, BGrids: f.BGrids,
		Priors:   f.Priors,
		Islands:  islands,
		ARejects: f.ARejects,
		BRejects: f.BRejects,
	}
	return in, closeAll, nil
}

func loadCatalog(cf *catalogFile, dir string, useMmap bool, closers *[]func() error) (*catalog.Sources, error) {
	loadArray := func(name string) ([]float64, error) {
		vals, closer, err := catalog.LoadFloat64s(filepath.Join(dir, name), useMmap)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, closer)
		return vals, nil
	}

	lon, err := loadArray(cf.Lon)
	if err != nil {
		return nil, err
	}
	lat, err := loadArray(cf.Lat)
	if err != nil {
		return nil, err
	}
	sig, err := loadArray(cf.Sig)
	if err != nil {
		return nil, err
	}

	n := len(lon)
	cols := make([][]float64, len(cf.Mags))
	for j, name := range cf.Mags {
		col, err := loadArray(name)
		if err != nil {
			return nil, err
		}
		if len(col) != n {
			return nil, fmt.Errorf("magnitude array %s has %d entries, want %d", name, len(col), n)
		}
		cols[j] = col
	}
	mags := make([][]float64, n)
	for i := 0; i < n; i++ {
		mags[i] = make([]float64, len(cols))
		for j := range cols {
			mags[i][j] = cols[j][i]
		}
	}

	s := &catalog.Sources{
		Lon: lon, Lat: lat, Sig: sig,
		Mags:     mags,
		MagRef:   cf.MagRef,
		ModelRef: cf.ModelRef,
		SkyInd:   cf.SkyInd,
	}
	if err := s.Validate(len(cf.Mags)); err != nil {
		return nil, err
	}
	return s, nil
}

// loadPhotLike reads the photometric likelihood cubes from a JSON file.
func loadPhotLike(path string) (*pairing.PhotLike, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read photometric likelihoods: %w", err)
	}
	var p pairing.PhotLike
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to parse photometric likelihoods: %w", err)
	}
	return &p, nil
}
