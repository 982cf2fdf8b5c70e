package rkf45

import (
	"testing"

	"github.com/rollingthunder/batchivp/ivp"
	"github.com/stretchr/testify/assert"
)

func expDecay(t float64, p, y, dyOut []float64) {
	dyOut[0] = -y[0]
}

func vanDerPol(mu float64) ivp.Function {
	return func(t float64, p, y, dyOut []float64) {
		dyOut[0] = y[1]
		dyOut[1] = mu*(1.0-y[0]*y[0])*y[1] - y[0]
	}
}

func TestExponentialDecay(t *testing.T) {
	y := []float64{1.0}
	cfg := &ivp.Config{Fcn: expDecay, AbsTol: 1e-10, RelTol: 1e-6}

	s := New()
	stat, err := s.Integrate(0, 1, nil, y, cfg)

	assert.NoError(t, err)
	assert.InDelta(t, 0.3678794412, y[0], 1e-6)
	assert.LessOrEqual(t, stat.NSteps, 20)
	assert.Equal(t, ivp.SUCCESS, stat.Code)
}

func TestVanDerPolNonStiff(t *testing.T) {
	y := []float64{2.0, 0.0}
	cfg := &ivp.Config{Fcn: vanDerPol(1.0), AbsTol: 1e-10, RelTol: 1e-6}

	s := New()
	_, err := s.Integrate(0, 20, nil, y, cfg)

	assert.NoError(t, err)
	assert.InDelta(t, 2.00861986087015, y[0], 5e-6)
	assert.InDelta(t, -0.0659524608556108, y[1], 5e-6)
}

func TestNoOpWhenTEqualsTEnd(t *testing.T) {
	y := []float64{1.0}
	cfg := &ivp.Config{Fcn: expDecay}
	s := New()
	stat, err := s.Integrate(5, 5, nil, y, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, y[0])
	assert.Equal(t, 5.0, stat.CurrentTime)
}

func TestTDistTooSmall(t *testing.T) {
	y := []float64{1.0}
	cfg := &ivp.Config{Fcn: expDecay}
	s := New()
	_, err := s.Integrate(1, 1+ivp.Eps, nil, y, cfg)
	assert.Error(t, err)
	var cerr *ivp.CodeError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, ivp.TDIST_TOO_SMALL, cerr.Code)
}

func TestMaxStepsExceeded(t *testing.T) {
	y := []float64{2.0, 0.0}
	cfg := &ivp.Config{Fcn: vanDerPol(1.0), AbsTol: 1e-10, RelTol: 1e-6, MaxIters: 2}
	s := New()
	stat, err := s.Integrate(0, 20, nil, y, cfg)
	assert.Error(t, err)
	assert.Equal(t, ivp.MAX_STEPS_EXCEEDED, stat.Code)
}

func TestStepOnceAndAcceptStayInBounds(t *testing.T) {
	y := []float64{2.0, 0.0}
	w := NewWorkspace(2)
	yOut := make([]float64, 2)
	StepOnce(vanDerPol(1.0), nil, y, 0, 1e-3, w, yOut)

	herr, fact := Accept(w, y, 1e-10, 1e-6, 10)
	assert.GreaterOrEqual(t, fact, 0.1)
	assert.LessOrEqual(t, fact, 10.0)
	assert.GreaterOrEqual(t, herr, 0.0)
	assert.NotEqual(t, y, yOut)
}
