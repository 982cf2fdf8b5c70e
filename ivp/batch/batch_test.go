package batch

import (
	"context"
	"testing"

	"github.com/rollingthunder/batchivp/ivp"
	"github.com/rollingthunder/batchivp/ivp/rkf45"
	"github.com/stretchr/testify/assert"
)

func vanDerPol(mu float64) ivp.Function {
	return func(t float64, p, y, dyOut []float64) {
		dyOut[0] = y[1]
		dyOut[1] = mu*(1.0-y[0]*y[0])*y[1] - y[0]
	}
}

func TestScalarTwoIVPDeterminism(t *testing.T) {
	cfg := ivp.Config{Fcn: vanDerPol(1.0), AbsTol: 1e-10, RelTol: 1e-6}

	single := []float64{2.0, 0.0}
	_, err := rkf45.New().Integrate(0, 20, nil, single, &cfg)
	assert.NoError(t, err)

	jobs := []Job{
		{T: 0, TEnd: 20, Y: []float64{2.0, 0.0}},
		{T: 0, TEnd: 20, Y: []float64{2.0, 0.0}},
	}
	results := (&Scalar{Workers: 2}).Run(context.Background(), rkf45.New(), jobs, cfg)

	for _, r := range results {
		assert.NoError(t, r.Err)
	}
	assert.Equal(t, single[0], jobs[0].Y[0])
	assert.Equal(t, single[1], jobs[0].Y[1])
	assert.Equal(t, jobs[0].Y, jobs[1].Y)
}

func TestLaneMatchesScalarWithinTolerance(t *testing.T) {
	cfg := ivp.Config{Fcn: vanDerPol(1.0), AbsTol: 1e-10, RelTol: 1e-6}

	scalarJobs := []Job{
		{T: 0, TEnd: 20, Y: []float64{2.0, 0.0}},
		{T: 0, TEnd: 20, Y: []float64{2.0, 0.0}},
	}
	scalarResults := (&Scalar{Workers: 2}).Run(context.Background(), rkf45.New(), scalarJobs, cfg)
	for _, r := range scalarResults {
		assert.NoError(t, r.Err)
	}

	laneJobs := []Job{
		{T: 0, TEnd: 20, Y: []float64{2.0, 0.0}},
		{T: 0, TEnd: 20, Y: []float64{2.0, 0.0}},
	}
	laneResults := (&Lane{}).Run(context.Background(), rkf45.New(), laneJobs, cfg)
	for _, r := range laneResults {
		assert.NoError(t, r.Err)
	}

	for i := range scalarJobs {
		assert.InDelta(t, scalarJobs[i].Y[0], laneJobs[i].Y[0], 1e-5)
		assert.InDelta(t, scalarJobs[i].Y[1], laneJobs[i].Y[1], 1e-5)
	}
}

func TestScalarCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := ivp.Config{Fcn: vanDerPol(1.0)}
	jobs := []Job{{T: 0, TEnd: 20, Y: []float64{2.0, 0.0}}}
	results := (&Scalar{}).Run(ctx, rkf45.New(), jobs, cfg)

	assert.Len(t, results, 1)
}

func TestLogAppend(t *testing.T) {
	log := &Log{}
	log.Append(1.0, []float64{1, 2})
	log.Append(2.0, []float64{3, 4})

	recs := log.Records()
	assert.Len(t, recs, 2)
	assert.Equal(t, 1.0, recs[0].T)
	assert.Equal(t, []float64{3, 4}, recs[1].Y)
}
