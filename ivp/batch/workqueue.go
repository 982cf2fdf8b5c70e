package batch

import "sync/atomic"

// workQueue hands out job indices [0,n) to a pool of worker goroutines.
// It is the load-balancing mechanism named in spec.md §5: a single atomic
// counter instead of a channel, so a worker that finishes a short IVP
// immediately picks up the next one rather than waiting on a fixed static
// split. Adapted from the teacher's ode/epp/peer.go block-claim loop
// (which used a plain index over contiguous blocks); here each claim is
// one whole IVP rather than one block of stages.
type workQueue struct {
	next  atomic.Int64
	count int64
}

func newWorkQueue(n int) *workQueue {
	wq := &workQueue{count: int64(n)}
	return wq
}

// take returns the next job index and true, or (-1, false) once the
// queue is drained.
func (wq *workQueue) take() (int, bool) {
	i := wq.next.Add(1) - 1
	if i >= wq.count {
		return -1, false
	}
	return int(i), true
}
