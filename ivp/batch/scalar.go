package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/rollingthunder/batchivp/ivp"
	"go.uber.org/zap"
)

// Scalar runs one independent call to Integrator.Integrate per IVP,
// spread across a pool of worker goroutines that drain a shared
// workQueue. It works with any ivp.Integrator (rkf45.Solver or
// radau.Solver alike) since it never looks inside a single step; this is
// the fallback path for Radau, whose variable-iteration-count Newton
// solve makes lock-step lane masking impractical (spec.md §4.7). Its
// worker-pool shape is adapted from the teacher's ode/epp/peer.go
// goroutine-per-block pattern, generalized from "block of one IVP's
// stages" to "one whole IVP."
type Scalar struct {
	// Workers is the number of concurrent goroutines. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int
	// Log, if non-nil, receives one record per IVP: its final (t, y) once
	// Integrate returns. Integrators do not call it directly, and Scalar
	// cannot observe per-step acceptance through the Integrate()
	// interface, so per-step records come only from Lane (RKF45 only).
	Log *Log
	// Logger receives structured per-IVP diagnostics (start, completion,
	// failure). A nil Logger disables logging.
	Logger *zap.Logger
}

// Run solves every job in jobs with integrator, mutating each Job.Y in
// place and returning one Result per job in the same order. It returns
// early, marking unstarted jobs as cancelled, if ctx is done.
func (d *Scalar) Run(ctx context.Context, integrator ivp.Integrator, jobs []Job, cfg ivp.Config) []Result {
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, len(jobs))
	started := make([]bool, len(jobs))
	wq := newWorkQueue(len(jobs))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				i, ok := wq.take()
				if !ok {
					return
				}
				started[i] = true
				job := &jobs[i]
				jobCfg := cfg
				logger.Debug("ivp start", zap.Int("ivp", i), zap.Int("worker", workerID))
				stats, err := integrator.Integrate(job.T, job.TEnd, job.P, job.Y, &jobCfg)
				if cerr, ok := err.(*ivp.CodeError); ok {
					cerr.IVP = i
				}
				if d.Log != nil {
					d.Log.Append(stats.CurrentTime, job.Y)
				}
				if err != nil {
					logger.Warn("ivp failed", zap.Int("ivp", i), zap.String("code", stats.Code.String()), zap.Error(err))
				} else {
					logger.Debug("ivp done", zap.Int("ivp", i), zap.Int("steps", stats.NSteps))
				}
				results[i] = Result{Stats: stats, Err: err}
			}
		}(w)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		for i := range results {
			if !started[i] {
				results[i].Err = err
			}
		}
	}
	return results
}
