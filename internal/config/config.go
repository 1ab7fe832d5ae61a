// Package config loads the cross-match run configuration. The schema uses
// pointer-typed optional fields so that an absent key is distinguishable
// from an explicit zero, letting partial configuration files overlay the
// built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// RunConfig is the root JSON configuration for a pairing run.
type RunConfig struct {
	// Scheduling params
	NumWorkers *int `json:"num_workers,omitempty"` // worker pool size; default NumCPU
	ChunkSize  *int `json:"chunk_size,omitempty"`  // islands per chunk; default 4096

	// Resolution params
	MaxIslandSources *int  `json:"max_island_sources,omitempty"` // combined A+B member bound; default 20
	UsePhotometry    *bool `json:"use_photometry,omitempty"`     // enable photometric likelihood ratios

	// Input handling
	UseMemmap    *bool   `json:"use_memmap,omitempty"`     // memory-map large array files
	CatalogAPath *string `json:"catalog_a_path,omitempty"` // catalogue A array directory
	CatalogBPath *string `json:"catalog_b_path,omitempty"` // catalogue B array directory
	PhotLikePath *string `json:"phot_like_path,omitempty"` // photometric likelihood cube directory

	// Output params
	ResultsDB  *string `json:"results_db,omitempty"`  // sqlite result store path; empty disables
	PlotDir    *string `json:"plot_dir,omitempty"`    // diagnostic histogram directory; empty disables
	ReportPath *string `json:"report_path,omitempty"` // HTML scatter report path; empty disables
}

// Helper functions to create pointers.
func ptrInt(v int) *int          { return &v }
func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }

// Default returns the built-in defaults for every tunable field.
func Default() *RunConfig {
	return &RunConfig{
		NumWorkers:       ptrInt(runtime.NumCPU()),
		ChunkSize:        ptrInt(4096),
		MaxIslandSources: ptrInt(20),
		UsePhotometry:    ptrBool(false),
		UseMemmap:        ptrBool(false),
	}
}

// Load reads a JSON configuration file and overlays it onto the defaults.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var override RunConfig
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c := Default()
	c.Merge(&override)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Merge overlays every non-nil field of other onto c.
func (c *RunConfig) Merge(other *RunConfig) {
	if other.NumWorkers != nil {
		c.NumWorkers = other.NumWorkers
	}
	if other.ChunkSize != nil {
		c.ChunkSize = other.ChunkSize
	}
	if other.MaxIslandSources != nil {
		c.MaxIslandSources = other.MaxIslandSources
	}
	if other.UsePhotometry != nil {
		c.UsePhotometry = other.UsePhotometry
	}
	if other.UseMemmap != nil {
		c.UseMemmap = other.UseMemmap
	}
	if other.CatalogAPath != nil {
		c.CatalogAPath = other.CatalogAPath
	}
	if other.CatalogBPath != nil {
		c.CatalogBPath = other.CatalogBPath
	}
	if other.PhotLikePath != nil {
		c.PhotLikePath = other.PhotLikePath
	}
	if other.ResultsDB != nil {
		c.ResultsDB = other.ResultsDB
	}
	if other.PlotDir != nil {
		c.PlotDir = other.PlotDir
	}
	if other.ReportPath != nil {
		c.ReportPath = other.ReportPath
	}
}

// Validate raises configuration faults before any island processing begins.
// Missing required parameter combinations are fatal here, never mid-run.
func (c *RunConfig) Validate() error {
	if c.NumWorkers != nil && *c.NumWorkers < 1 {
		return fmt.Errorf("config: num_workers must be >= 1, got %d", *c.NumWorkers)
	}
	if c.ChunkSize != nil && *c.ChunkSize < 1 {
		return fmt.Errorf("config: chunk_size must be >= 1, got %d", *c.ChunkSize)
	}
	if c.MaxIslandSources != nil && *c.MaxIslandSources < 2 {
		return fmt.Errorf("config: max_island_sources must be >= 2, got %d", *c.MaxIslandSources)
	}
	if c.UsePhotometry != nil && *c.UsePhotometry &&
		(c.PhotLikePath == nil || *c.PhotLikePath == "") {
		return fmt.Errorf("config: use_photometry requires phot_like_path to be set")
	}
	return nil
}

// GetString returns the dereferenced value of a string field, or empty.
func GetString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
