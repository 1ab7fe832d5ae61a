package pairing

import (
	"fmt"

	"github.com/quasar-data/crossmatch/internal/monitoring"
)

// Results holds the catalogue-wide output arrays merged from every island.
// Counterpart slices are parallel across both catalogues: AC[k] is matched
// to BC[k] with diagnostics at index k.
type Results struct {
	AC            []int32
	BC            []int32
	Posterior     []float64
	Xi            []float64
	Eta           []float64
	AContamProb   [][]float64
	BContamProb   [][]float64
	AContamFlux   []float64
	BContamFlux   []float64
	AField        []int32
	BField        []int32
	AFieldProb    []float64
	BFieldProb    []float64
	Warnings      []ReconcileWarning
}

// ReconcileWarning reports an accounting mismatch after merging: sources
// missing from all of {counterpart, field, rejected}, or recorded more than
// their catalogue holds. Non-fatal; downstream consumers treat it as a
// data-quality signal.
type ReconcileWarning struct {
	Catalog string // "a" or "b"
	Missing int    // sources recorded nowhere
	Extra   int    // indices recorded beyond the catalogue length
	Message string
}

// Accumulate merges per-island results into catalogue-wide arrays and
// reconciles the accounting against both catalogue lengths and the external
// reject lists. Mismatches are logged and returned as warnings, never
// errors: the run completes and emits what it computed.
func Accumulate(islands []IslandResult, lenA, lenB int, aRejects, bRejects []int32) *Results {
	res := &Results{}
	for i := range islands {
		r := &islands[i]
		res.AC = append(res.AC, r.ACounterparts...)
		res.BC = append(res.BC, r.BCounterparts...)
		res.Posterior = append(res.Posterior, r.PairPosterior...)
		res.Xi = append(res.Xi, r.Xi...)
		res.Eta = append(res.Eta, r.Eta...)
		res.AContamProb = append(res.AContamProb, r.AContamProb...)
		res.BContamProb = append(res.BContamProb, r.BContamProb...)
		res.AContamFlux = append(res.AContamFlux, r.AContamFlux...)
		res.BContamFlux = append(res.BContamFlux, r.BContamFlux...)
		res.AField = append(res.AField, r.AField...)
		res.BField = append(res.BField, r.BField...)
		res.AFieldProb = append(res.AFieldProb, r.AFieldProb...)
		res.BFieldProb = append(res.BFieldProb, r.BFieldProb...)
	}

	res.reconcile("a", lenA, len(res.AC)+len(res.AField)+len(aRejects))
	res.reconcile("b", lenB, len(res.BC)+len(res.BField)+len(bRejects))
	return res
}

func (r *Results) reconcile(side string, total, recorded int) {
	switch {
	case recorded < total:
		n := total - recorded
		msg := fmt.Sprintf("%d catalogue %s %s not in either counterpart, field, or rejected source lists",
			n, side, plural(n, "source", "sources"))
		r.warn(side, n, 0, msg)
	case recorded > total:
		n := recorded - total
		msg := fmt.Sprintf("%d additional catalogue %s %s recorded, check results for duplications carefully",
			n, side, plural(n, "index", "indices"))
		r.warn(side, 0, n, msg)
	}
}

func (r *Results) warn(side string, missing, extra int, msg string) {
	monitoring.Logf("pairing: %s", msg)
	r.Warnings = append(r.Warnings, ReconcileWarning{
		Catalog: side,
		Missing: missing,
		Extra:   extra,
		Message: msg,
	})
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
