package batch

import (
	"context"
	"math"

	"github.com/rollingthunder/batchivp/ivp"
	"github.com/rollingthunder/batchivp/ivp/rkf45"
)

// Lane runs a width-V group of RKF45 IVPs in lock-step: every lane takes
// a trial step on the same outer iteration, and a lane that finishes
// early (reaches its own tEnd) is masked out of further state updates
// while the others continue, mirroring a SIMD/SIMT masked-lane execution
// model (spec.md §4.7). This only targets RKF45 because its step kernel
// is a fixed six-stage computation regardless of input (rkf45.StepOnce);
// Radau's variable-count Newton iteration has no such fixed shape and is
// run through Scalar instead.
//
// Its masked-update loop is adapted from the teacher's ode/epp/peer.go
// FcnBlocked pattern of evaluating a fixed-shape RHS across a block of
// lanes per call, generalized here from "block of stages for one IVP" to
// "one stage, across many IVPs."
type Lane struct {
	// Log, if non-nil, receives one record per lock-step iteration in
	// which at least one lane accepted a step. The record's Y is the
	// current state of every job, finished or not, concatenated IVP by
	// IVP (row-major; cfg.Order is not consulted), and its T is lane 0's
	// current time.
	Log *Log
}

// laneState is one IVP's mutable per-lane solver state.
type laneState struct {
	t, tEnd  float64
	h        float64
	done     bool
	rejected int
	stat     ivp.Statistics
	err      error
	ws       *rkf45.Workspace
	yOut     []float64
}

// Run solves jobs (all sharing the same N and tolerances) as a single
// lock-step vector of width len(jobs). p may differ per job; fcn and
// Jac are taken from cfg (Jac is unused by RKF45). integrator and ctx
// are accepted to satisfy Driver; integrator is ignored (Lane always
// steps via rkf45.StepOnce) and ctx is not consulted mid-run since a
// lock-step iteration over a whole lane is already bounded by each IVP's
// own tEnd/MaxIters.
func (d *Lane) Run(ctx context.Context, integrator ivp.Integrator, jobs []Job, cfg ivp.Config) []Result {
	m := len(jobs)
	if m == 0 {
		return nil
	}
	n := len(jobs[0].Y)

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

	lanes := make([]*laneState, m)
	active := 0
	for i, job := range jobs {
		ls := &laneState{t: job.T, tEnd: job.TEnd, ws: rkf45.NewWorkspace(n), yOut: make([]float64, n)}

		if job.T == job.TEnd {
			ls.done = true
			ls.stat.CurrentTime = job.T
			lanes[i] = ls
			continue
		}

		roundoff := ivp.Roundoff(job.T, job.TEnd)
		if math.Abs(job.TEnd-job.T) < 2*ivp.Eps*math.Max(math.Abs(job.T), math.Abs(job.TEnd)) {
			ls.done = true
			ls.stat.Code = ivp.TDIST_TOO_SMALL
			ls.err = &ivp.CodeError{Code: ivp.TDIST_TOO_SMALL, IVP: i}
			lanes[i] = ls
			continue
		}

		hMax := cfg.MaxStep
		if hMax <= 0 {
			hMax = math.Abs(job.TEnd-job.T) / float64(cfg.MinIters)
		}
		hMin := 100 * roundoff
		if cfg.MinStep > hMin {
			hMin = cfg.MinStep
		}
		if hMin >= hMax {
			ls.done = true
			ls.stat.Code = ivp.TDIST_TOO_SMALL
			ls.err = &ivp.CodeError{Code: ivp.TDIST_TOO_SMALL, IVP: i}
			lanes[i] = ls
			continue
		}

		sign := 1.0
		if job.TEnd < job.T {
			sign = -1.0
		}

		dy0 := make([]float64, n)
		cfg.Fcn(job.T, job.P, job.Y, dy0)
		ls.stat.Evaluations++

		h := cfg.InitialStep
		if math.Abs(h) <= hMin {
			h = ivp.EstimateInitialStep(cfg.Fcn, job.T, job.P, job.Y, dy0, cfg.AbsTol, cfg.RelTol, hMin, hMax, 5)
			h = sign * math.Abs(h)
		}
		ls.h = h
		lanes[i] = ls
		active++
	}

	for active > 0 {
		anyAccepted := false
		for i, ls := range lanes {
			if ls.done {
				continue
			}
			job := &jobs[i]

			roundoff := ivp.Roundoff(ls.t, ls.tEnd)
			sign := signOf(ls.tEnd - ls.t)
			if sign*(ls.tEnd-ls.t) <= roundoff {
				ls.done = true
				ls.stat.CurrentTime = ls.t
				ls.stat.LastStepSize = ls.h
				active--
				continue
			}

			hMax := cfg.MaxStep
			if hMax <= 0 {
				hMax = math.Abs(ls.tEnd-ls.t) / float64(cfg.MinIters)
			}
			hMin := 100 * roundoff
			if cfg.MinStep > hMin {
				hMin = cfg.MinStep
			}

			h := ls.h
			if sign*(ls.t+h-ls.tEnd) > 0 || sign*(ls.tEnd-(ls.t+h)) < hMin {
				h = ls.tEnd - ls.t
			}
			if math.Abs(h) > hMax {
				h = sign * hMax
			}
			if math.Abs(h) < hMin {
				h = sign * hMin
			}

			ls.stat.NIters++
			rkf45.StepOnce(cfg.Fcn, job.P, job.Y, ls.t, h, ls.ws, ls.yOut)
			ls.stat.Evaluations += 6

			herr, fact := rkf45.Accept(ls.ws, job.Y, cfg.AbsTol, cfg.RelTol, cfg.AdaptionLimit)

			if herr <= 1.0 || math.Abs(h) <= hMin {
				copy(job.Y, ls.yOut)
				ls.t += h
				ls.stat.NSteps++
				ls.rejected = 0
				ls.h = h * fact
				anyAccepted = true
			} else {
				ls.stat.Rejected++
				ls.rejected++
				ls.h = h * fact
			}

			if cfg.MaxIters > 0 && ls.stat.NIters > cfg.MaxIters {
				ls.done = true
				ls.stat.Code = ivp.MAX_STEPS_EXCEEDED
				ls.stat.CurrentTime = ls.t
				ls.err = &ivp.CodeError{Code: ivp.MAX_STEPS_EXCEEDED, IVP: i}
				active--
			}
		}

		if d.Log != nil && anyAccepted {
			flat := make([]float64, 0, m*n)
			for i := range jobs {
				flat = append(flat, jobs[i].Y...)
			}
			d.Log.Append(lanes[0].t, flat)
		}
	}

	results := make([]Result, m)
	for i, ls := range lanes {
		results[i] = Result{Stats: ls.stat, Err: ls.err}
	}
	return results
}

func signOf(x float64) float64 {
	if x < 0 {
		return -1.0
	}
	return 1.0
}
