// Package rkf45 implements the embedded explicit Runge-Kutta-Fehlberg 4(5)
// solver of spec.md §4.3, the non-stiff workhorse. It is grounded on the
// teacher's generic ode/rk/rk.go stage loop, specialized to the single
// RKFB4 tableau (whose coefficients are bit-for-bit the Fehlberg 4(5) table
// spec.md describes) and to the spec's own WRMS-based PI step controller
// instead of the teacher's aggregated scalar error quotient.
package rkf45

import (
	"math"

	"github.com/rollingthunder/batchivp/ivp"
)

// Solver is a reusable RKF45 Integrator. It holds no per-run state; all
// scratch memory is allocated inside Integrate.
type Solver struct{}

// New returns an RKF45 Integrator.
func New() *Solver { return &Solver{} }

func (s *Solver) Info() ivp.IntegratorInfo {
	return ivp.IntegratorInfo{Name: "RKF45", Stages: 6, Order: 5}
}

// Fehlberg 4(5) / Cash-Karp-adjacent tableau, reproduced to full double
// precision from ode/rk/rk_methods.go's RKFB4 coefficients, which spec.md
// §4.3 describes as the same set (nodes c = (0, 1/4, 3/8, 12/13, 1, 1/2)).
var (
	c = [6]float64{0.0, 1.0 / 4.0, 3.0 / 8.0, 12.0 / 13.0, 1.0, 1.0 / 2.0}

	a = [6][5]float64{
		{},
		{1.0 / 4.0},
		{3.0 / 32.0, 9.0 / 32.0},
		{1932.0 / 2197.0, -7200.0 / 2197.0, 7296.0 / 2197.0},
		{439.0 / 216.0, -8.0, 3680.0 / 513.0, -845.0 / 4104.0},
		{-8.0 / 27.0, 2.0, -3544.0 / 2565.0, 1859.0 / 4104.0, -11.0 / 40.0},
	}

	// b5 are the 5th-order update coefficients (local extrapolation: the
	// accepted solution always uses these, per spec.md §4.3).
	b5 = [6]float64{16.0 / 135.0, 0.0, 6656.0 / 12825.0, 28561.0 / 56430.0, -9.0 / 50.0, 2.0 / 55.0}
	// b4 are the 4th-order coefficients used only to form the error
	// estimate err = |sum(b5*f) - sum(b4*f)| * h.
	b4 = [6]float64{25.0 / 216.0, 0.0, 1408.0 / 2565.0, 2197.0 / 4104.0, -1.0 / 5.0, 0.0}
)

// Workspace is the exported per-lane scratch buffer used by StepOnce, so
// callers that need single-step control (package batch's lock-step lane
// driver) can drive RKF45 without going through Integrate's outer loop.
type Workspace = workspace

// NewWorkspace allocates a Workspace sized for an N-component state.
func NewWorkspace(n int) *Workspace { return newWorkspace(n) }

// StepOnce performs one RKF45 trial step of size h over [t, t+h], writing
// the candidate next state into yOut and leaving the per-component error
// estimate retrievable via w.ErrVec(). It never mutates y or decides
// acceptance; that is the caller's job (package batch's masked lane
// driver calls this directly).
func StepOnce(fcn ivp.Function, p, y []float64, t, h float64, w *Workspace, yOut []float64) {
	step(fcn, p, y, t, h, w, yOut)
}

// ErrVec returns the per-component error estimate from the most recent
// StepOnce/step call.
func (w *workspace) ErrVec() []float64 { return w.errVec }

// Accept computes the WRMS error norm and next-step factor for a
// just-completed trial step, implementing the acceptance rule of
// spec.md §4.6 outside of Integrate's loop.
func Accept(w *Workspace, y []float64, atol, rtol, adaptionLimit float64) (herr, fact float64) {
	ivp.Weights(y, atol, rtol, w.ewt)
	herr = ivp.WRMSNorm(w.errVec, w.ewt)
	fact = 0.840896 * math.Pow(1.0/math.Max(herr, 1e-300), 1.0/4.0)
	fact = ivp.Clamp(fact, 1.0/adaptionLimit, adaptionLimit)
	return
}

type workspace struct {
	n      int
	f      [6][]float64 // stage derivatives f1..f6
	yTmp   []float64
	errVec []float64
	ewt    []float64
}

func newWorkspace(n int) *workspace {
	w := &workspace{n: n, yTmp: make([]float64, n), errVec: make([]float64, n), ewt: make([]float64, n)}
	for i := range w.f {
		w.f[i] = make([]float64, n)
	}
	return w
}

// step performs one trial step of size h over [t, t+h], writing the
// accepted-candidate state into yOut and the per-component error estimate
// into w.errVec. It returns unconditionally (spec.md §4.3): acceptance is
// the controller's job.
func step(fcn ivp.Function, p, y []float64, t, h float64, w *workspace, yOut []float64) {
	n := w.n
	fcn(t, p, y, w.f[0])

	for stage := 1; stage < 6; stage++ {
		for k := 0; k < n; k++ {
			acc := y[k]
			for j := 0; j < stage; j++ {
				acc += h * a[stage][j] * w.f[j][k]
			}
			w.yTmp[k] = acc
		}
		fcn(t+c[stage]*h, p, w.yTmp, w.f[stage])
	}

	for k := 0; k < n; k++ {
		y5 := y[k]
		for stage := 0; stage < 6; stage++ {
			y5 += h * b5[stage] * w.f[stage][k]
		}
		yOut[k] = y5

		diff := 0.0
		for stage := 0; stage < 6; stage++ {
			diff += (b5[stage] - b4[stage]) * w.f[stage][k]
		}
		w.errVec[k] = math.Abs(diff) * h
	}
}

// Integrate advances yT from t to tEnd in place, following spec.md §4.3 and
// §4.6 (initial-step heuristic, PI step adaptation, h_min/h_max bounds,
// terminal nudge onto tEnd).
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

	sign := 1.0
	if tEnd < t {
		sign = -1.0
	}

	if t == tEnd {
		stat.CurrentTime = t
		return stat, nil
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

	w := newWorkspace(n)
	yOut := make([]float64, n)

	dy0 := make([]float64, n)
	p0 := []float64{}
	if p != nil {
		p0 = p
	}
	cfg.Fcn(t, p0, yT, dy0)
	stat.Evaluations++

	h := cfg.InitialStep
	if math.Abs(h) <= hMin {
		h = ivp.EstimateInitialStep(cfg.Fcn, t, p0, yT, dy0, cfg.AbsTol, cfg.RelTol, hMin, hMax, 5)
		h = sign * math.Abs(h)
	}

	for sign*(tEnd-t) > roundoff {
		if sign*(t+h-tEnd) > 0 || sign*(tEnd-(t+h)) < hMin {
			h = tEnd - t
		}
		if math.Abs(h) > hMax {
			h = sign * hMax
		}
		if math.Abs(h) < hMin {
			h = sign * hMin
		}

		stat.NIters++
		step(cfg.Fcn, p0, yT, t, h, w, yOut)
		stat.Evaluations += 6

		ivp.Weights(yT, cfg.AbsTol, cfg.RelTol, w.ewt)
		herr := ivp.WRMSNorm(w.errVec, w.ewt)

		fact := 0.840896 * math.Pow(1.0/math.Max(herr, 1e-300), 1.0/4.0)
		fact = ivp.Clamp(fact, 1.0/cfg.AdaptionLimit, cfg.AdaptionLimit)

		if herr <= 1.0 || math.Abs(h) <= hMin {
			copy(yT, yOut)
			t += h
			stat.NSteps++
			h = h * fact
		} else {
			stat.Rejected++
			h = h * fact
		}

		if cfg.MaxIters > 0 && stat.NIters > cfg.MaxIters {
			stat.Code = ivp.MAX_STEPS_EXCEEDED
			stat.CurrentTime = t
			return stat, &ivp.CodeError{Code: ivp.MAX_STEPS_EXCEEDED, IVP: -1}
		}
	}

	stat.CurrentTime = t
	stat.LastStepSize = h
	stat.NextStepSize = h
	return stat, nil
}
