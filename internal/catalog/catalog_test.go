package catalog

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIslandsFromPadded(t *testing.T) {
	alist := [][]int32{{0, 3}, {1, 4}, {6, -1}, {-1, -1}}
	blist := [][]int32{{1, -1}, {0, -1}, {-1, -1}, {2, -1}}
	alen := []int32{2, 2, 1, 0}
	blen := []int32{1, 1, 0, 1}

	islands, err := IslandsFromPadded(alist, blist, alen, blen)
	if err != nil {
		t.Fatal(err)
	}
	want := []Island{
		{A: []int32{0, 3}, B: []int32{1}},
		{A: []int32{1, 4}, B: []int32{0}},
		{A: []int32{6}},
		{B: []int32{2}},
	}
	if diff := cmp.Diff(want, islands); diff != "" {
		t.Errorf("islands mismatch (-want +got):\n%s", diff)
	}
	if islands[2].Size() != 1 || islands[3].Size() != 1 {
		t.Error("lonely islands should have size 1")
	}
}

func TestIslandsFromPadded_BadCounts(t *testing.T) {
	_, err := IslandsFromPadded([][]int32{{0}}, [][]int32{{1}}, []int32{2}, []int32{1})
	if err == nil {
		t.Fatal("expected error for count exceeding row length")
	}
}

func TestSourcesValidate(t *testing.T) {
	s := &Sources{
		Lon:      []float64{0, 1},
		Lat:      []float64{0, 1},
		Sig:      []float64{1e-4, 1e-4},
		Mags:     [][]float64{{10, 11}, {12, 13}},
		MagRef:   []int{0, 1},
		ModelRef: []ModelRef{{}, {}},
		SkyInd:   []int{0, 0},
	}
	if err := s.Validate(2); err != nil {
		t.Fatalf("valid sources rejected: %v", err)
	}
	s.MagRef[1] = 2
	if err := s.Validate(2); err == nil {
		t.Error("out-of-range best-filter index accepted")
	}
	s.MagRef[1] = 1
	s.Sig = s.Sig[:1]
	if err := s.Validate(2); err == nil {
		t.Error("ragged arrays accepted")
	}
}

func TestFloat64ArrayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "col.f64")
	vals := []float64{0, 1.5, -2.25, 3e300, -4e-300}
	if err := WriteFloat64s(path, vals); err != nil {
		t.Fatal(err)
	}

	for _, useMmap := range []bool{false, true} {
		got, closer, err := LoadFloat64s(path, useMmap)
		if err != nil {
			t.Fatalf("mmap=%v: %v", useMmap, err)
		}
		if diff := cmp.Diff(vals, got); diff != "" {
			t.Errorf("mmap=%v round trip mismatch (-want +got):\n%s", useMmap, diff)
		}
		if err := closer(); err != nil {
			t.Errorf("mmap=%v: closer: %v", useMmap, err)
		}
	}
}

func TestLoadFloat64s_BadSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.f64")
	if err := WriteFloat64s(path, []float64{1}); err != nil {
		t.Fatal(err)
	}
	// Truncate to a non multiple of 8.
	if err := truncateFile(path, 5); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadFloat64s(path, false); err == nil {
		t.Error("expected error for truncated file")
	}
}
