package pairing

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPairSources_EndToEnd(t *testing.T) {
	f := newFixture(t)
	res, err := PairSources(context.Background(), f.in, Options{NumWorkers: 3, ChunkSize: 2})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int32{0, 1, 2}, res.AC); diff != "" {
		t.Errorf("a counterparts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{1, 0, 3}, res.BC); diff != "" {
		t.Errorf("b counterparts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{3, 4, 5, 6}, res.AField); diff != "" {
		t.Errorf("a field (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{2}, res.BField); diff != "" {
		t.Errorf("b field (-want +got):\n%s", diff)
	}
	for k, p := range res.Posterior {
		if p <= 0.5 || p > 1 {
			t.Errorf("pair %d posterior = %v, want in (0.5, 1]", k, p)
		}
	}
	if res.BFieldProb[0] != 1 {
		t.Errorf("lonely b field posterior = %v, want 1", res.BFieldProb[0])
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestPairSources_RejectLists(t *testing.T) {
	f := newFixture(t)
	// Sources 2 and 5 of catalogue a and 3 of catalogue b were rejected
	// upstream; their island never reaches the resolver.
	f.in.Islands = append(f.in.Islands[:2:2], f.in.Islands[3:]...)
	f.in.ARejects = []int32{2, 5}
	f.in.BRejects = []int32{3}

	res, err := PairSources(context.Background(), f.in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int32{0, 1}, res.AC); diff != "" {
		t.Errorf("a counterparts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{3, 4, 6}, res.AField); diff != "" {
		t.Errorf("a field (-want +got):\n%s", diff)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("reject lists should balance the accounting, got warnings: %v", res.Warnings)
	}
}

func TestPairSources_AccountingWarnings(t *testing.T) {
	f := newFixture(t)
	// Drop the lonely islands so a6 and b2 are recorded nowhere.
	f.in.Islands = f.in.Islands[:3]

	res, err := PairSources(context.Background(), f.in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(res.Warnings), res.Warnings)
	}
	wantA := "1 catalogue a source not in either counterpart, field, or rejected source lists"
	wantB := "1 catalogue b source not in either counterpart, field, or rejected source lists"
	if res.Warnings[0].Message != wantA {
		t.Errorf("a warning = %q, want %q", res.Warnings[0].Message, wantA)
	}
	if res.Warnings[1].Message != wantB {
		t.Errorf("b warning = %q, want %q", res.Warnings[1].Message, wantB)
	}
}

func TestPairSources_Deterministic(t *testing.T) {
	f := newFixture(t)
	first, err := PairSources(context.Background(), f.in, Options{NumWorkers: 4, ChunkSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	second, err := PairSources(context.Background(), f.in, Options{NumWorkers: 1, ChunkSize: 64})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func TestPairSources_PhotometryWithoutCubes(t *testing.T) {
	f := newFixture(t)
	_, err := PairSources(context.Background(), f.in, Options{UsePhotometry: true})
	if err == nil {
		t.Fatal("expected a configuration fault")
	}
	if !strings.Contains(err.Error(), "photometric likelihoods enabled") {
		t.Errorf("error = %v", err)
	}
}

func TestPairSources_Photometry(t *testing.T) {
	f := newFixture(t)
	f.in.Phot = singleBinPhot(3, 4, 2, 1, 1)

	res, err := PairSources(context.Background(), f.in, Options{UsePhotometry: true})
	if err != nil {
		t.Fatal(err)
	}
	// Same geometry, so the same counterparts; eta reports the photometric
	// likelihood ratio c/(fa*fb) = 2.
	if diff := cmp.Diff([]int32{0, 1, 2}, res.AC); diff != "" {
		t.Errorf("a counterparts (-want +got):\n%s", diff)
	}
	for k, eta := range res.Eta {
		if math.Abs(eta-math.Log10(2)) > 1e-12 {
			t.Errorf("pair %d eta = %v, want log10(2)", k, eta)
		}
	}
}

func TestPairSources_Cancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PairSources(ctx, f.in, Options{ChunkSize: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPairSources_MissingInputs(t *testing.T) {
	f := newFixture(t)
	f.in.Priors = nil
	if _, err := PairSources(context.Background(), f.in, Options{}); err == nil {
		t.Error("nil priors accepted")
	}

	f = newFixture(t)
	f.in.BGrids = nil
	if _, err := PairSources(context.Background(), f.in, Options{}); err == nil {
		t.Error("nil grids accepted")
	}
}

// singleBinPhot builds likelihood cubes with one magnitude bin per filter
// covering every fixture magnitude, with constant values c, fa and fb.
func singleBinPhot(aFilters, bFilters int, c, fa, fb float64) *PhotLike {
	p := &PhotLike{}
	for i := 0; i < aFilters; i++ {
		p.AEdges = append(p.AEdges, []float64{0, 2})
	}
	for i := 0; i < bFilters; i++ {
		p.BEdges = append(p.BEdges, []float64{0, 2})
	}
	cPoint := make([][][][]float64, aFilters)
	faPoint := make([][]float64, aFilters)
	for i := 0; i < aFilters; i++ {
		cPoint[i] = make([][][]float64, bFilters)
		for j := 0; j < bFilters; j++ {
			cPoint[i][j] = [][]float64{{c}}
		}
		faPoint[i] = []float64{fa}
	}
	fbPoint := make([][]float64, bFilters)
	for j := 0; j < bFilters; j++ {
		fbPoint[j] = []float64{fb}
	}
	p.C = [][][][][]float64{cPoint}
	p.Fa = [][][]float64{faPoint}
	p.Fb = [][][]float64{fbPoint}
	return p
}
