package pairing

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/quasar-data/crossmatch/internal/catalog"
)

// priorTriple looks up a source's prior-cube index triple.
func priorTriple(s *catalog.Sources, i int32) (d, f, p int) {
	return s.ModelRef[i].Density, s.MagRef[i], s.SkyInd[i]
}

// ResolveIsland scores every hypothesis for one island, selects the maximum
// and derives the per-source outputs. Photometric terms enter only when phot
// is non-nil; contamination estimates are computed for the selected pairs
// alone, since the Hankel transforms dominate per-pair cost.
func ResolveIsland(in *Inputs, phot *PhotLike, maxSources, index int) (IslandResult, error) {
	isl := in.Islands[index]
	res := IslandResult{Index: index}
	m, n := len(isl.A), len(isl.B)
	if m+n == 0 {
		return res, nil
	}
	if m+n > maxSources {
		return res, &ErrOversizedIsland{Island: index, Size: m + n, Limit: maxSources}
	}

	// Per-pair and per-source score terms, computed once up front.
	pairG := make([]float64, m*n)    // astrometric likelihood
	pairTerm := make([]float64, m*n) // Nc * G * c(mA, mB)
	for ai := 0; ai < m; ai++ {
		a := isl.A[ai]
		ad, af, ap := priorTriple(in.A, a)
		nc := in.Priors.C.At(ad, af, ap)
		for bi := 0; bi < n; bi++ {
			b := isl.B[bi]
			g := AstrometricLikelihood(
				in.A.Lon[a], in.A.Lat[a], in.A.Sig[a],
				in.B.Lon[b], in.B.Lat[b], in.B.Sig[b])
			c := phot.PairLikelihood(ap, af, in.B.MagRef[b], in.A.Mags[a][af], in.B.Mags[b][in.B.MagRef[b]])
			pairG[ai*n+bi] = g
			pairTerm[ai*n+bi] = nc * g * c
		}
	}
	fieldA := make([]float64, m) // Nfa * fa(mA)
	for ai, a := range isl.A {
		ad, af, ap := priorTriple(in.A, a)
		fieldA[ai] = in.Priors.Fa.At(ad, af, ap) * phot.AFieldLikelihood(ap, af, in.A.Mags[a][af])
	}
	fieldB := make([]float64, n)
	for bi, b := range isl.B {
		bd, bf, bp := priorTriple(in.B, b)
		fieldB[bi] = in.Priors.Fb.At(bd, bf, bp) * phot.BFieldLikelihood(bp, bf, in.B.Mags[b][bf])
	}

	// Enumerate and score every hypothesis, tracking the strict maximum and
	// the per-source unpaired score sums for field posteriors.
	var scores []float64
	best := math.Inf(-1)
	var bestPairs [][2]int
	unpairedA := make([]float64, m)
	unpairedB := make([]float64, n)
	aPaired := make([]bool, m)
	bPaired := make([]bool, n)
	enumeratePairings(m, n, func(pairs [][2]int) {
		for i := range aPaired {
			aPaired[i] = false
		}
		for i := range bPaired {
			bPaired[i] = false
		}
		score := 1.0
		for _, pr := range pairs {
			score *= pairTerm[pr[0]*n+pr[1]]
			aPaired[pr[0]] = true
			bPaired[pr[1]] = true
		}
		for ai := 0; ai < m; ai++ {
			if !aPaired[ai] {
				score *= fieldA[ai]
			}
		}
		for bi := 0; bi < n; bi++ {
			if !bPaired[bi] {
				score *= fieldB[bi]
			}
		}
		scores = append(scores, score)
		for ai := 0; ai < m; ai++ {
			if !aPaired[ai] {
				unpairedA[ai] += score
			}
		}
		for bi := 0; bi < n; bi++ {
			if !bPaired[bi] {
				unpairedB[bi] += score
			}
		}
		if score > best {
			best = score
			bestPairs = append(bestPairs[:0], pairs...)
		}
	})
	integral := floats.Sum(scores)

	res.MaxScore = best
	res.Integral = integral
	posterior := 1.0
	if integral > 0 {
		posterior = best / integral
	}

	// Counterpart outputs for the selected hypothesis.
	inBestA := make([]bool, m)
	inBestB := make([]bool, n)
	for _, pr := range bestPairs {
		ai, bi := pr[0], pr[1]
		a, b := isl.A[ai], isl.B[bi]
		inBestA[ai] = true
		inBestB[bi] = true

		ad, af, ap := priorTriple(in.A, a)
		bd, bf, bp := priorTriple(in.B, b)
		nc := in.Priors.C.At(ad, af, ap)
		nfa := in.Priors.Fa.At(ad, af, ap)
		nfb := in.Priors.Fb.At(bd, bf, bp)
		g := pairG[ai*n+bi]

		res.ACounterparts = append(res.ACounterparts, a)
		res.BCounterparts = append(res.BCounterparts, b)
		res.PairPosterior = append(res.PairPosterior, posterior)
		res.Xi = append(res.Xi, math.Log10(nc*g/(nfa*nfb)))

		c := phot.PairLikelihood(ap, af, bf, in.A.Mags[a][af], in.B.Mags[b][bf])
		fa := phot.AFieldLikelihood(ap, af, in.A.Mags[a][af])
		fb := phot.BFieldLikelihood(bp, bf, in.B.Mags[b][bf])
		res.Eta = append(res.Eta, math.Log10(c/(fa*fb)))

		sep := catalog.Separation(in.A.Lon[a], in.A.Lat[a], in.B.Lon[b], in.B.Lat[b])
		sig2 := in.A.Sig[a]*in.A.Sig[a] + in.B.Sig[b]*in.B.Sig[b]
		gcc, gcn, gnc, gnn := ContamDensities(
			in.AGrids.Rho, in.AGrids.DRho,
			in.AGrids.Fourier.Curve(in.A.ModelRef[a]),
			in.BGrids.Fourier.Curve(in.B.ModelRef[b]),
			sig2, sep)
		pa, pb := ContamProbs(
			in.AGrids.Frac.Curve(in.A.ModelRef[a]),
			in.BGrids.Frac.Curve(in.B.ModelRef[b]),
			gcc, gcn, gnc, gnn)
		res.AContamProb = append(res.AContamProb, pa)
		res.BContamProb = append(res.BContamProb, pb)
		res.AContamFlux = append(res.AContamFlux, in.AGrids.Flux.Value(in.A.ModelRef[a]))
		res.BContamFlux = append(res.BContamFlux, in.BGrids.Flux.Value(in.B.ModelRef[b]))
	}

	// Field outputs: everything unpaired under the selected hypothesis, with
	// its posterior of being genuinely unmatched.
	for ai := 0; ai < m; ai++ {
		if inBestA[ai] {
			continue
		}
		res.AField = append(res.AField, isl.A[ai])
		p := 1.0
		if integral > 0 {
			p = unpairedA[ai] / integral
		}
		res.AFieldProb = append(res.AFieldProb, p)
	}
	for bi := 0; bi < n; bi++ {
		if inBestB[bi] {
			continue
		}
		res.BField = append(res.BField, isl.B[bi])
		p := 1.0
		if integral > 0 {
			p = unpairedB[bi] / integral
		}
		res.BFieldProb = append(res.BFieldProb, p)
	}
	return res, nil
}
