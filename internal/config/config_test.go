package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `{"chunk_size": 128, "use_memmap": true}`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 128, *c.ChunkSize)
	assert.True(t, *c.UseMemmap)
	// Untouched fields keep their defaults.
	assert.Equal(t, 20, *c.MaxIslandSources)
	assert.False(t, *c.UsePhotometry)
	assert.GreaterOrEqual(t, *c.NumWorkers, 1)
}

func TestLoad_PhotometryWithoutCubesIsFatal(t *testing.T) {
	path := writeConfig(t, `{"use_photometry": true}`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phot_like_path")
}

func TestLoad_PhotometryWithCubes(t *testing.T) {
	path := writeConfig(t, `{"use_photometry": true, "phot_like_path": "/data/phot"}`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/phot", GetString(c.PhotLikePath))
}

func TestValidate_Ranges(t *testing.T) {
	for _, body := range []string{
		`{"num_workers": 0}`,
		`{"chunk_size": -5}`,
		`{"max_island_sources": 1}`,
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, "config %s should be rejected", body)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	_, err := Load(writeConfig(t, `{"chunk_size": `))
	assert.Error(t, err)
}
