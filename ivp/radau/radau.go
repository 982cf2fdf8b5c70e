// Package radau implements the 3-stage Radau IIA implicit Runge-Kutta
// solver (order 5) of spec.md §4.4-§4.6: simplified Newton iteration,
// complex-arithmetic linear solves, Gustafsson step control, and
// Jacobian/LU reuse. It is grounded directly on
// original_source/src/radau2a.c (RK_Decomp, RK_PrepareRHS, RK_Solve,
// RK_ErrorEstimate, and the main integrate loop), expressed in the
// teacher's idiom: an explicit per-run workspace, Config-driven
// defaulting, and an Integrator implementing ivp.Integrator.
package radau

import (
	"math"

	"github.com/rollingthunder/batchivp/ivp"
	"github.com/rollingthunder/batchivp/ivp/linalg"
)

// Solver is a reusable Radau IIA Integrator.
type Solver struct {
	// StartNewton, when false, always starts Newton from Z=0 instead of
	// warm-starting from the interpolant (spec.md §4.4).
	StartNewton bool
	// Gustafsson enables the Gustafsson step-size correction after the
	// first accepted step (spec.md §4.6). Enabled by default.
	Gustafsson bool
}

// New returns a Radau IIA Integrator with Gustafsson control and Newton
// warm-starting enabled, the defaults spec.md describes.
func New() *Solver {
	return &Solver{StartNewton: true, Gustafsson: true}
}

func (s *Solver) Info() ivp.IntegratorInfo {
	return ivp.IntegratorInfo{Name: "Radau-IIA", Stages: 3, Order: 5}
}

type workspace struct {
	n int

	a []float64 // Jacobian, column-major N*N

	z1, z2, z3    []float64
	dz1, dz2, dz3 []float64
	f0, fStage    []float64
	tmp           []float64
	ewt           []float64

	cont *cont

	realLU    *linalg.RealLU
	complexLU *linalg.ComplexLU
}

func newWorkspace(n int) *workspace {
	w := &workspace{n: n, a: make([]float64, n*n)}
	w.z1, w.z2, w.z3 = make([]float64, n), make([]float64, n), make([]float64, n)
	w.dz1, w.dz2, w.dz3 = make([]float64, n), make([]float64, n), make([]float64, n)
	w.f0, w.fStage, w.tmp = make([]float64, n), make([]float64, n), make([]float64, n)
	w.ewt = make([]float64, n)
	w.cont = newCont(n)
	return w
}

// decompose builds E1 = (gamma/H)*I - A (real) and E2 = ((alpha+i*beta)/H)*I - A
// (complex) and LU-factors both. Grounded on RK_Decomp.
func (w *workspace) decompose(h float64) error {
	n := w.n
	e1 := make([]float64, n*n)
	e2 := make([]complex128, n*n)
	temp1 := rkGamma / h
	temp2 := complex(rkAlpha/h, rkBeta/h)

	for col := 0; col < n; col++ {
		for row := 0; row < n; row++ {
			idx := col*n + row
			e1[idx] = -w.a[idx]
			e2[idx] = complex(-w.a[idx], 0)
		}
		e1[col*n+col] += temp1
		e2[col*n+col] += temp2
	}

	realLU, err := linalg.FactorizeReal(n, e1)
	if err != nil {
		return err
	}
	complexLU, err := linalg.FactorizeComplex(n, e2)
	if err != nil {
		return err
	}
	w.realLU, w.complexLU = realLU, complexLU
	return nil
}

// prepareRHS computes R_i = Z_i - H*sum_j a_ij*f(t+c_j*H, y+Z_j), the
// simplified-Newton residual of spec.md §4.4 step 1 (RK_PrepareRHS).
func (w *workspace) prepareRHS(fcn ivp.Function, p []float64, t, h float64, y []float64) {
	n := w.n
	copy(w.dz1, w.z1)
	copy(w.dz2, w.z2)
	copy(w.dz3, w.z3)

	zs := [3][]float64{w.z1, w.z2, w.z3}
	rs := [3][]float64{w.dz1, w.dz2, w.dz3}
	for stageJ := 0; stageJ < 3; stageJ++ {
		for k := 0; k < n; k++ {
			w.tmp[k] = y[k] + zs[stageJ][k]
		}
		fcn(t+rkC[stageJ]*h, p, w.tmp, w.fStage)
		for stageI := 0; stageI < 3; stageI++ {
			coef := -h * rkA[stageI][stageJ]
			for k := 0; k < n; k++ {
				rs[stageI][k] += coef * w.fStage[k]
			}
		}
	}
}

// solve transforms the residual via Tinv*Ainv, solves the decoupled real
// and complex systems, and transforms back via T. Grounded on RK_Solve.
func (w *workspace) solve(h float64) error {
	n := w.n
	complexRHS := make([]complex128, n)
	for i := 0; i < n; i++ {
		x1 := w.dz1[i] / h
		x2 := w.dz2[i] / h
		x3 := w.dz3[i] / h
		w.dz1[i] = rkTinvAinv[0][0]*x1 + rkTinvAinv[0][1]*x2 + rkTinvAinv[0][2]*x3
		w.dz2[i] = rkTinvAinv[1][0]*x1 + rkTinvAinv[1][1]*x2 + rkTinvAinv[1][2]*x3
		w.dz3[i] = rkTinvAinv[2][0]*x1 + rkTinvAinv[2][1]*x2 + rkTinvAinv[2][2]*x3
	}

	if err := w.realLU.Solve(w.dz1); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		complexRHS[i] = complex(w.dz2[i], w.dz3[i])
	}
	if err := w.complexLU.Solve(complexRHS); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		w.dz2[i] = real(complexRHS[i])
		w.dz3[i] = imag(complexRHS[i])
	}

	for i := 0; i < n; i++ {
		x1, x2, x3 := w.dz1[i], w.dz2[i], w.dz3[i]
		w.dz1[i] = rkT[0][0]*x1 + rkT[0][1]*x2 + rkT[0][2]*x3
		w.dz2[i] = rkT[1][0]*x1 + rkT[1][1]*x2 + rkT[1][2]*x3
		w.dz3[i] = rkT[2][0]*x1 + rkT[2][1]*x2 + rkT[2][2]*x3
	}
	return nil
}

// errorEstimate forms TMP = rkE[0]*F0 + (rkE[1]*Z1+rkE[2]*Z2+rkE[3]*Z3)/H,
// solves E1*x=TMP, and optionally re-solves with a one-Newton correction
// if Err >= 1 on a first step or after a rejection. Grounded on
// RK_ErrorEstimate.
func (w *workspace) errorEstimate(fcn ivp.Function, p []float64, t, h float64, y []float64, firstStep, reject bool) (float64, error) {
	n := w.n
	tmp := make([]float64, n)
	for i := 0; i < n; i++ {
		tmp[i] = rkE[0]*w.f0[i] + (rkE[1]*w.z1[i]+rkE[2]*w.z2[i]+rkE[3]*w.z3[i])/h
	}
	if err := w.realLU.Solve(tmp); err != nil {
		return 0, err
	}
	errNorm := ivp.WRMSNorm(tmp, w.ewt)

	if errNorm >= 1.0 && (firstStep || reject) {
		ytmp := make([]float64, n)
		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + tmp[i]
		}
		f1 := make([]float64, n)
		fcn(t, p, ytmp, f1)
		for i := 0; i < n; i++ {
			tmp[i] = f1[i] + (rkE[1]*w.z1[i]+rkE[2]*w.z2[i]+rkE[3]*w.z3[i])/h
		}
		if err := w.realLU.Solve(tmp); err != nil {
			return 0, err
		}
		errNorm = ivp.WRMSNorm(tmp, w.ewt)
	}
	return errNorm, nil
}

// Integrate advances yT from t to tEnd in place per spec.md §4.4-§4.8.
func (s *Solver) Integrate(t, tEnd float64, p, yT []float64, cfg *ivp.Config) (ivp.Statistics, error) {
	var stat ivp.Statistics
	n := len(yT)

	if cfg.AbsTol <= 0 {
		cfg.AbsTol = 1e-10
	}
	if cfg.RelTol <= 0 {
		cfg.RelTol = 1e-6
	}
	if cfg.MinIters <= 0 {
		cfg.MinIters = 1
	}
	if cfg.AdaptionLimit <= 0 {
		cfg.AdaptionLimit = 10
	}
	if cfg.Jac == nil {
		return stat, ivp.ErrJacobianRequired
	}

	if t == tEnd {
		stat.CurrentTime = t
		return stat, nil
	}

	sign := 1.0
	if tEnd < t {
		sign = -1.0
	}

	roundoff := ivp.Roundoff(t, tEnd)
	if math.Abs(tEnd-t) < 2*ivp.Eps*math.Max(math.Abs(t), math.Abs(tEnd)) {
		stat.Code = ivp.TDIST_TOO_SMALL
		return stat, &ivp.CodeError{Code: ivp.TDIST_TOO_SMALL, IVP: -1}
	}

	hMin := 100 * roundoff
	hMax := cfg.MaxStep
	if hMax <= 0 {
		hMax = math.Abs(tEnd-t) / float64(cfg.MinIters)
	}
	if cfg.MinStep > hMin {
		hMin = cfg.MinStep
	}
	if hMin >= hMax {
		stat.Code = ivp.TDIST_TOO_SMALL
		return stat, &ivp.CodeError{Code: ivp.TDIST_TOO_SMALL, IVP: -1}
	}

	p0 := p
	if p0 == nil {
		p0 = []float64{}
	}

	w := newWorkspace(n)
	dy0 := make([]float64, n)
	cfg.Fcn(t, p0, yT, dy0)
	stat.Evaluations++

	h := sign * math.Abs(cfg.InitialStep)
	if math.Abs(h) <= hMin {
		hg := ivp.EstimateInitialStep(cfg.Fcn, t, p0, yT, dy0, cfg.AbsTol, cfg.RelTol, hMin, hMax, 5)
		h = sign * math.Abs(hg)
	}
	if math.Abs(h) > hMax {
		h = sign * hMax
	}

	var (
		hOld                       float64
		hAcc, errOld               float64
		firstStep                  = true
		reject                     bool
		skipJac, skipLU            bool
		nConsecutiveFailures       int
		newtonRate                 = math.Pow(2.0, 1.25)
	)

	for sign*(tEnd-t) > roundoff {
		if !reject {
			cfg.Fcn(t, p0, yT, w.f0)
			stat.Evaluations++
		}

		if !skipLU {
			if !skipJac {
				cfg.Jac(t, p0, yT, w.a)
				stat.Evaluations++
			}
			if err := w.decompose(h); err != nil {
				nConsecutiveFailures++
				if nConsecutiveFailures >= 5 {
					yT[0] = math.NaN()
					stat.Code = ivp.MAX_CONSECUTIVE_ERRORS_EXCEEDED
					stat.CurrentTime = t
					return stat, &ivp.CodeError{Code: ivp.MAX_CONSECUTIVE_ERRORS_EXCEEDED, IVP: -1}
				}
				h *= 0.5
				reject = true
				skipJac = true
				skipLU = false
				continue
			}
			nConsecutiveFailures = 0
		}

		stat.NIters++
		if cfg.MaxIters > 0 && stat.NIters > cfg.MaxIters {
			stat.Code = ivp.MAX_STEPS_EXCEEDED
			stat.CurrentTime = t
			return stat, &ivp.CodeError{Code: ivp.MAX_STEPS_EXCEEDED, IVP: -1}
		}
		if 0.1*math.Abs(h) <= math.Abs(t)*ivp.Eps && t != 0 {
			stat.Code = ivp.H_PLUS_T_EQUALS_H
			stat.CurrentTime = t
			return stat, &ivp.CodeError{Code: ivp.H_PLUS_T_EQUALS_H, IVP: -1}
		}

		if firstStep || !s.StartNewton {
			for i := 0; i < n; i++ {
				w.z1[i], w.z2[i], w.z3[i] = 0, 0, 0
			}
		} else {
			w.cont.eval(h/hOld, w.z1, w.z2, w.z3)
		}

		ivp.Weights(yT, cfg.AbsTol, cfg.RelTol, w.ewt)

		newtonDone := false
		newtonIncOld := 0.0
		fac := 0.5
		theta := 0.0
		iter := 0

		newtonRate = math.Pow(math.Max(newtonRate, ivp.Eps), 0.8)

		for ; iter < newtonMaxIter; iter++ {
			w.prepareRHS(cfg.Fcn, p0, t, h, yT)
			stat.Evaluations += 3
			if err := w.solve(h); err != nil {
				nConsecutiveFailures++
				break
			}

			d1 := ivp.WRMSNorm(w.dz1, w.ewt)
			d2 := ivp.WRMSNorm(w.dz2, w.ewt)
			d3 := ivp.WRMSNorm(w.dz3, w.ewt)
			newtonInc := math.Sqrt((d1*d1 + d2*d2 + d3*d3) / 3.0)

			theta = thetaMin
			if iter > 0 {
				theta = newtonInc / newtonIncOld
				if theta < 0.99 {
					newtonRate = theta / (1.0 - theta)
				} else {
					break // non-convergence: theta too large
				}
				predictedErr := (newtonInc * math.Pow(theta, float64(newtonMaxIter-iter-1))) / (1.0 - theta)
				if predictedErr >= newtonTol {
					qNewton := math.Min(10.0, predictedErr/newtonTol)
					fac = 0.8 * math.Pow(qNewton, -1.0/float64(newtonMaxIter-iter))
					break
				}
			}

			newtonIncOld = math.Max(newtonInc, roundoff)
			for i := 0; i < n; i++ {
				w.z1[i] -= w.dz1[i]
				w.z2[i] -= w.dz2[i]
				w.z3[i] -= w.dz3[i]
			}

			newtonDone = newtonRate*newtonInc <= newtonTol
			if newtonDone {
				break
			}
		}

		if !newtonDone {
			h = fac * h
			reject = true
			skipJac = true
			skipLU = false
			stat.Rejected++
			if math.Abs(h) <= hMin {
				stat.Code = ivp.MAX_NEWTON_ITER_EXCEEDED
				stat.CurrentTime = t
				return stat, &ivp.CodeError{Code: ivp.MAX_NEWTON_ITER_EXCEEDED, IVP: -1}
			}
			continue
		}

		errEst, err := w.errorEstimate(cfg.Fcn, p0, t, h, yT, firstStep, reject)
		if err != nil {
			reject = true
			skipJac = true
			skipLU = false
			stat.Rejected++
			continue
		}

		fac = math.Pow(errEst, -1.0/rkELO) * (1.0 + 2.0*newtonMaxIter) / (float64(iter) + 1 + 2.0*newtonMaxIter)
		fac = ivp.Clamp(fac, facMin, facMax)
		hNew := fac * h

		if errEst < 1.0 {
			if s.Gustafsson && !firstStep {
				facGus := facSafe * (h / hAcc) * math.Pow(errEst*errEst/errOld, -0.25)
				facGus = ivp.Clamp(facGus, facMin, facMax)
				fac = math.Min(fac, facGus)
				hNew = fac * h
			}
			hAcc = h
			errOld = math.Max(1e-2, errEst)

			firstStep = false
			hOld = h
			t += h
			for i := 0; i < n; i++ {
				yT[i] += w.z3[i]
			}
			stat.NSteps++

			if s.StartNewton {
				w.cont.build(w.z1, w.z2, w.z3)
			}

			hNew = ivp.Clamp(hNew, hMin, math.Min(hMax, math.Abs(tEnd-t)))
			if reject {
				hNew = math.Min(hNew, math.Abs(h))
			}
			reject = false

			if sign*(t+hNew/qMin-tEnd) >= 0 {
				h = tEnd - t
			} else {
				hRatio := hNew / h
				skipLU = theta <= thetaMin && hRatio >= qMin && hRatio <= qMax
				if !skipLU {
					h = sign * math.Abs(hNew)
				}
			}
			skipJac = iter == 1 || newtonRate <= thetaMin
		} else {
			if firstStep || reject {
				h = facRej * h
			} else {
				h = hNew
			}
			reject = true
			skipJac = true
			skipLU = false
			stat.Rejected++
		}
	}

	stat.CurrentTime = t
	stat.LastStepSize = hOld
	stat.NextStepSize = h
	return stat, nil
}
