package ivp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Eps is the machine epsilon used throughout this module for roundoff-based
// bounds, matching the teacher's and original_source's use of DBL_EPSILON.
const Eps = 2.220446049250313e-16

// Roundoff returns eps*|tEnd-tStart|, the unit below which time differences
// are treated as zero (spec.md §3/§8).
func Roundoff(tStart, tEnd float64) float64 {
	return Eps * math.Abs(tEnd-tStart)
}

// Weights fills ewt[k] = rtol*|y[k]| + atol, the WRMS weight vector of
// spec.md §4.6. Preserved without an absolute floor, as spec.md §9 directs:
// extremely small y can produce a very tight weight.
func Weights(y []float64, atol, rtol float64, ewt []float64) {
	for k, yk := range y {
		ewt[k] = atol + rtol*math.Abs(yk)
	}
}

// WRMSNorm computes sqrt((1/n) * sum((z[k]/ewt[k])^2)), the weighted
// root-mean-square norm used by both solvers' error estimates.
func WRMSNorm(z, ewt []float64) float64 {
	n := len(z)
	if n == 0 {
		return 0
	}
	scratch := make([]float64, n)
	for k := range z {
		scratch[k] = z[k] / ewt[k]
	}
	sumSq := floats.Dot(scratch, scratch)
	return math.Sqrt(sumSq / float64(n))
}

// EstimateInitialStep implements the initial-step heuristic of spec.md
// §4.6: a single finite-difference estimate of y'' followed by at most one
// refinement iteration (the source caps iterations at 1 despite a defined
// miters=10; this is preserved as written per spec.md §9).
//
// hLB and hUB bound the search (100*roundoff and (tEnd-t)/MinIters
// respectively); order is the method's classical order.
func EstimateInitialStep(fcn Function, t float64, p, y, dy []float64, atol, rtol, hLB, hUB float64, order uint) float64 {
	n := len(y)
	ewt := make([]float64, n)
	Weights(y, atol, rtol, ewt)

	hg := math.Sqrt(hLB * hUB)

	yp := make([]float64, n)
	for k := range y {
		yp[k] = y[k] + hg*dy[k]
	}
	fp := make([]float64, n)
	fcn(t+hg, p, yp, fp)

	diff := make([]float64, n)
	for k := range y {
		diff[k] = (fp[k] - dy[k]) / hg
	}
	yddNorm := WRMSNorm(diff, ewt)

	var hNew float64
	if yddNorm*hUB*hUB > 2.0 {
		hNew = math.Sqrt(2.0 / yddNorm)
	} else {
		hNew = math.Sqrt(hg * hUB)
	}

	h0 := 0.5 * hNew
	if h0 < hLB {
		h0 = hLB
	}
	if h0 > hUB {
		h0 = hUB
	}
	return h0
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
