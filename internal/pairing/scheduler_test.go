package pairing

import (
	"context"
	"errors"
	"testing"

	"github.com/quasar-data/crossmatch/internal/catalog"
)

// lonelyInputs builds n single-source islands so every result region is
// trivially checkable against its island index.
func lonelyInputs(n int) *Inputs {
	lons := make([]float64, n)
	lats := make([]float64, n)
	for i := range lons {
		lons[i] = float64(i) * 0.01
	}
	a := makeSources(lons, lats, 0.1/3600, 1)
	b := makeSources(nil, nil, 0.1/3600, 1)

	priors := &Priors{
		C:  NewPriorCube(1, 1, 1),
		Fa: NewPriorCube(1, 1, 1),
		Fb: NewPriorCube(1, 1, 1),
	}
	priors.Fa.Fill(1)

	rho, drho := fourierCoords()
	islands := make([]catalog.Island, n)
	for i := range islands {
		islands[i] = catalog.Island{A: []int32{int32(i)}}
	}
	return &Inputs{
		A: a, B: b,
		AGrids:  constGrids(1, rho, drho),
		BGrids:  constGrids(1, rho, drho),
		Priors:  priors,
		Islands: islands,
	}
}

func TestResolveIslands_ChunkedWorkers(t *testing.T) {
	const n = 25
	in := lonelyInputs(n)
	opts := Options{NumWorkers: 8, ChunkSize: 4, MaxIslandSources: 20}

	results, err := resolveIslands(context.Background(), in, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != n {
		t.Fatalf("got %d results, want %d", len(results), n)
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d carries index %d", i, r.Index)
		}
		if len(r.AField) != 1 || r.AField[0] != int32(i) {
			t.Errorf("result %d field = %v, want [%d]", i, r.AField, i)
		}
	}
}

func TestResolveIslands_MoreWorkersThanIslands(t *testing.T) {
	in := lonelyInputs(2)
	opts := Options{NumWorkers: 16, ChunkSize: 4096, MaxIslandSources: 20}
	results, err := resolveIslands(context.Background(), in, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestResolveIslands_ErrorStopsRun(t *testing.T) {
	in := lonelyInputs(10)
	// An island larger than the enumeration bound in the middle of the list.
	big := catalog.Island{}
	for i := int32(0); i < 10; i++ {
		big.A = append(big.A, i)
		big.B = append(big.B, 0)
	}
	in.Islands[5] = big
	in.B = makeSources([]float64{0}, []float64{0}, 0.1/3600, 1)

	opts := Options{NumWorkers: 4, ChunkSize: 1, MaxIslandSources: 8}
	results, err := resolveIslands(context.Background(), in, nil, opts)
	var oversized *ErrOversizedIsland
	if !errors.As(err, &oversized) {
		t.Fatalf("err = %v, want ErrOversizedIsland", err)
	}
	if oversized.Island != 5 {
		t.Errorf("failing island = %d, want 5", oversized.Island)
	}
	if results != nil {
		t.Errorf("results returned alongside error")
	}
}

func TestResolveIslands_NoIslands(t *testing.T) {
	in := lonelyInputs(0)
	results, err := resolveIslands(context.Background(), in, nil, Options{}.withDefaults())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for an empty island list", len(results))
	}
}
