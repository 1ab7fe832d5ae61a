package pairing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/quasar-data/crossmatch/internal/catalog"
)

// AstrometricLikelihood evaluates the 2-D Gaussian match density
// 1/(2 pi sig^2) exp(-sep^2 / (2 sig^2)) for two sources, with sig^2 the
// quadrature sum of both positional uncertainties and sep the Haversine
// great-circle separation. All angles in degrees; the returned density has
// units of 1/deg^2. This is the dominant term in every pair score.
func AstrometricLikelihood(lonA, latA, sigA, lonB, latB, sigB float64) float64 {
	sep := catalog.Separation(lonA, latA, lonB, latB)
	sig2 := sigA*sigA + sigB*sigB
	return gaussianDensity(sep, sig2)
}

func gaussianDensity(sep, sig2 float64) float64 {
	if sig2 <= 0 {
		// Degenerate width: a delta function. Coincident sources match with
		// certainty, anything else cannot.
		if sep == 0 {
			return math.Inf(1)
		}
		return 0
	}
	return 1 / (2 * math.Pi * sig2) * math.Exp(-0.5*sep*sep/sig2)
}

// binIndex returns the bin a magnitude falls into for the given sorted
// edges, clamped to the valid range so slightly out-of-bounds magnitudes use
// the outermost bins.
func binIndex(edges []float64, mag float64) int {
	i := sort.SearchFloat64s(edges, mag)
	// SearchFloat64s returns the first edge >= mag; an exact hit on edge i
	// belongs to bin i, anything between edges i and i+1 to bin i.
	if i > 0 && (i == len(edges) || edges[i] != mag) {
		i--
	}
	if i > len(edges)-2 {
		i = len(edges) - 2
	}
	if i < 0 {
		i = 0
	}
	return i
}

// PairLikelihood returns the true-pair photometric likelihood for a pair's
// magnitudes. A nil receiver (photometric likelihoods disabled) contributes
// exactly 1.
func (p *PhotLike) PairLikelihood(point, aFilt, bFilt int, magA, magB float64) float64 {
	if p == nil {
		return 1
	}
	ab := binIndex(p.AEdges[aFilt], magA)
	bb := binIndex(p.BEdges[bFilt], magB)
	return p.C[point][aFilt][bFilt][ab][bb]
}

// AFieldLikelihood returns the catalogue-A field photometric likelihood for
// an unpaired source; 1 when disabled.
func (p *PhotLike) AFieldLikelihood(point, aFilt int, mag float64) float64 {
	if p == nil {
		return 1
	}
	return p.Fa[point][aFilt][binIndex(p.AEdges[aFilt], mag)]
}

// BFieldLikelihood is the catalogue-B analogue of AFieldLikelihood.
func (p *PhotLike) BFieldLikelihood(point, bFilt int, mag float64) float64 {
	if p == nil {
		return 1
	}
	return p.Fb[point][bFilt][binIndex(p.BEdges[bFilt], mag)]
}

// ContamDensities evaluates the four fourier-domain match densities for a
// pair at separation sep: Hankel transforms of the combined Gaussian kernel
// multiplied by both, either, or neither source's perturbation kernel
// (cc, cn, nc, nn respectively). rho holds fourier-space bin midpoints and
// drho the bin widths; with unit perturbation kernels every density reduces
// to the closed-form Gaussian within quadrature error.
func ContamDensities(rho, drho, kernA, kernB []float64, sig2, sep float64) (gcc, gcn, gnc, gnn float64) {
	n := len(rho)
	w := make([]float64, n)
	for k := 0; k < n; k++ {
		r := rho[k]
		// Gaussian fourier transform times the Hankel weight
		// J0(2 pi rho sep) 2 pi rho drho.
		w[k] = math.Exp(-2*math.Pi*math.Pi*r*r*sig2) *
			math.J0(2*math.Pi*r*sep) * 2 * math.Pi * r * drho[k]
	}
	gnn = floats.Sum(w)

	wa := make([]float64, n)
	copy(wa, w)
	floats.Mul(wa, kernA)
	gcn = floats.Sum(wa)

	wb := make([]float64, n)
	copy(wb, w)
	floats.Mul(wb, kernB)
	gnc = floats.Sum(wb)

	floats.Mul(wa, kernB) // now Gaussian * kernA * kernB
	gcc = floats.Sum(wa)
	return gcc, gcn, gnc, gnn
}

// ContamProbs derives per-flux-cut contamination probabilities for both
// members of an accepted pair from their contamination-fraction curves and
// the four fourier-domain densities. Zero fraction curves give exactly zero
// probabilities; a vanishing mixture density yields 0, never NaN.
func ContamProbs(fracA, fracB []float64, gcc, gcn, gnc, gnn float64) (pa, pb []float64) {
	n := len(fracA)
	pa = make([]float64, n)
	pb = make([]float64, n)
	for k := 0; k < n; k++ {
		fa, fb := fracA[k], fracB[k]
		mix := fa*fb*gcc + fa*(1-fb)*gcn + (1-fa)*fb*gnc + (1-fa)*(1-fb)*gnn
		if mix <= 0 {
			continue
		}
		pa[k] = fa * (fb*gcc + (1-fb)*gcn) / mix
		pb[k] = fb * (fa*gcc + (1-fa)*gnc) / mix
	}
	return pa, pb
}
