package batch

import (
	"context"
	"testing"

	"github.com/rollingthunder/batchivp/ivp"
	"github.com/rollingthunder/batchivp/ivp/rkf45"
	"github.com/stretchr/testify/assert"
)

func TestRunReturnsDistinctRunIDs(t *testing.T) {
	cfg := ivp.Config{Fcn: vanDerPol(1.0), AbsTol: 1e-10, RelTol: 1e-6}
	jobs := func() []Job {
		return []Job{{T: 0, TEnd: 20, Y: []float64{2.0, 0.0}}}
	}

	_, id1 := Run(context.Background(), rkf45.New(), jobs(), cfg, false, nil)
	_, id2 := Run(context.Background(), rkf45.New(), jobs(), cfg, false, nil)

	assert.NotEqual(t, id1, id2)
}

func TestRunUsesLaneForRKF45(t *testing.T) {
	cfg := ivp.Config{Fcn: vanDerPol(1.0), AbsTol: 1e-10, RelTol: 1e-6}
	jobs := []Job{{T: 0, TEnd: 20, Y: []float64{2.0, 0.0}}}

	results, _ := Run(context.Background(), rkf45.New(), jobs, cfg, true, nil)

	assert.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}
