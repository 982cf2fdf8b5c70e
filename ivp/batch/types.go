// Package batch is the batch driver / lane-parallel execution model of
// spec.md §4.7: it multiplexes the rkf45 and radau step kernels across
// many independent IVPs, either one-goroutine-per-IVP (Scalar) or as
// width-V lock-step vector lanes with masked updates (Lane). Its
// blocked-evaluation shape is adapted from the teacher's
// ode/epp/peer.go computeEvaluations (FcnBlocked over [block,
// block+BlockSize)); the Newton/peer-method coefficients of that file
// have no role here and were dropped (see DESIGN.md).
package batch

import (
	"context"
	"sync"

	"github.com/rollingthunder/batchivp/ivp"
)

// Driver multiplexes one Integrator across many Jobs. Scalar and Lane
// both implement it, though Lane ignores the integrator argument and
// always steps with RKF45 — see Lane's doc comment.
type Driver interface {
	Run(ctx context.Context, integrator ivp.Integrator, jobs []Job, cfg ivp.Config) []Result
}

var (
	_ Driver = (*Scalar)(nil)
	_ Driver = (*Lane)(nil)
)

// Job describes one IVP's inputs to a batch solve: start/end time,
// parameter bundle (opaque, passed through to Fcn/Jac unchanged), and its
// N-component state slice (mutated in place with the final result).
type Job struct {
	T, TEnd float64
	P       []float64
	Y       []float64
}

// Result is one IVP's outcome.
type Result struct {
	Stats ivp.Statistics
	Err   error
}

// LogRecord is one accepted step across all IVPs sharing a log, laid out
// row-major as spec.md §6 specifies: (t, y[0..N*M-1]).
type LogRecord struct {
	T float64
	Y []float64
}

// Log is the optional per-accepted-step record of spec.md §6's
// getLog(num_ivps, times_out, phi_out) contract. Appends are
// mutex-serialized since multiple worker goroutines may accept steps for
// different IVPs concurrently (spec.md §5: "multi-threaded hosts MUST
// serialize log appends").
type Log struct {
	mu      sync.Mutex
	records []LogRecord
}

// Append adds one record. t and y are copied.
func (l *Log) Append(t float64, y []float64) {
	rec := LogRecord{T: t, Y: append([]float64(nil), y...)}
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
}

// Records returns all accepted-step records so far, in append order.
func (l *Log) Records() []LogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogRecord, len(l.records))
	copy(out, l.records)
	return out
}
