package catalog

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"unsafe"
)

// Flat binary float64 array files. The format is a raw little-endian payload
// with no header so files can be memory-mapped and reinterpreted in place.
// These back the very largest inputs (catalogue columns, AUF grids), where
// the run configuration chooses between mapping and an ordinary read.

// WriteFloat64s writes vals to path as raw little-endian float64s.
func WriteFloat64s(path string, vals []float64) error {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write array %s: %w", path, err)
	}
	return nil
}

// LoadFloat64s loads the array at path. With useMmap set the file is mapped
// read-only and the returned slice aliases the mapping; callers must treat it
// as immutable and call the returned closer once done with it. Without mmap
// the whole payload is read into memory and the closer is a no-op.
func LoadFloat64s(path string, useMmap bool) ([]float64, func() error, error) {
	data, closer, err := loadBytes(path, useMmap)
	if err != nil {
		return nil, nil, err
	}
	if len(data)%8 != 0 {
		closer()
		return nil, nil, fmt.Errorf("load array %s: size %d not a multiple of 8", path, len(data))
	}
	n := len(data) / 8
	if n == 0 {
		return nil, closer, nil
	}
	// Little-endian hosts can reinterpret the mapping directly; that is the
	// point of the headerless format. Anything else decodes a copy.
	if hostLittleEndian() {
		vals := unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), n)
		return vals, closer, nil
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
	}
	closer()
	return vals, func() error { return nil }, nil
}

func hostLittleEndian() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}

func loadBytes(path string, useMmap bool) ([]byte, func() error, error) {
	if useMmap {
		return mapFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read array %s: %w", path, err)
	}
	return data, func() error { return nil }, nil
}
