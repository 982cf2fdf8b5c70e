package batch

import (
	"context"

	"github.com/google/uuid"
	"github.com/rollingthunder/batchivp/ivp"
	"github.com/rollingthunder/batchivp/ivp/rkf45"
	"go.uber.org/zap"
)

// RunID tags one batch solve for correlation across log lines, following
// the teacher's convention of stamping each benchmark run with an
// identifier (ode/testing/testing.go names runs by method+problem; here
// a uuid distinguishes concurrent runs of the same method+problem pair).
type RunID = uuid.UUID

// Run is the top-level entry point implementing spec.md §4.7's
// integrate(NUM, ...) contract: solve every job in jobs with integrator
// and the given config, choosing Lane when useLane is set and integrator
// is RKF45 (whatever the number of jobs), and Scalar otherwise.
//
// useLane requests the lock-step vector driver; it is only honored when
// integrator is an *rkf45.Solver, since Lane has no Radau counterpart
// (see Lane's doc comment). Any other integrator always runs through
// Scalar regardless of useLane.
func Run(ctx context.Context, integrator ivp.Integrator, jobs []Job, cfg ivp.Config, useLane bool, logger *zap.Logger) ([]Result, RunID) {
	id := uuid.New()
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("run_id", id.String()), zap.String("method", integrator.Info().Name), zap.Int("num_ivps", len(jobs)))
	log.Info("batch run starting")

	var results []Result
	if useLane {
		if _, ok := integrator.(*rkf45.Solver); ok {
			lane := &Lane{}
			if cfg.Logging {
				lane.Log = &Log{}
			}
			results = lane.Run(ctx, integrator, jobs, cfg)
		}
	}
	if results == nil {
		scalar := &Scalar{Logger: logger}
		if cfg.Logging {
			scalar.Log = &Log{}
		}
		results = scalar.Run(ctx, integrator, jobs, cfg)
	}

	ok, failed := 0, 0
	for _, r := range results {
		if r.Err == nil {
			ok++
		} else {
			failed++
		}
	}
	log.Info("batch run complete", zap.Int("succeeded", ok), zap.Int("failed", failed))
	return results, id
}
