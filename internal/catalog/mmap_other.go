//go:build !unix

package catalog

import (
	"fmt"
	"os"
)

// mapFile falls back to an ordinary read on platforms without unix mmap.
// The memory-bounding benefit is lost but behaviour is identical.
func mapFile(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, func() error { return nil }, nil
}
