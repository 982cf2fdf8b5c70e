package radau

import (
	"testing"

	"github.com/rollingthunder/batchivp/ivp"
	"github.com/stretchr/testify/assert"
)

func vanDerPol(mu float64) (ivp.Function, ivp.Jacobian) {
	fcn := func(t float64, p, y, dyOut []float64) {
		dyOut[0] = y[1]
		dyOut[1] = mu*(1.0-y[0]*y[0])*y[1] - y[0]
	}
	jac := func(t float64, p, y, aOut []float64) {
		aOut[0] = 0.0
		aOut[1] = -2.0*mu*y[0]*y[1] - 1.0
		aOut[2] = 1.0
		aOut[3] = mu * (1.0 - y[0]*y[0])
	}
	return fcn, jac
}

func TestVanDerPolStiff(t *testing.T) {
	fcn, jac := vanDerPol(1000.0)
	y := []float64{2.0, 0.0}
	cfg := &ivp.Config{Fcn: fcn, Jac: jac, AbsTol: 1e-10, RelTol: 1e-6, MaxIters: 1500}

	s := New()
	stat, err := s.Integrate(0, 3000, nil, y, cfg)

	assert.NoError(t, err)
	assert.InDelta(t, -1.5, y[0], 5e-3)
	assert.LessOrEqual(t, stat.NSteps, 1500)
}

func TestRequiresJacobian(t *testing.T) {
	fcn, _ := vanDerPol(1000.0)
	y := []float64{2.0, 0.0}
	cfg := &ivp.Config{Fcn: fcn}

	s := New()
	_, err := s.Integrate(0, 3000, nil, y, cfg)

	assert.ErrorIs(t, err, ivp.ErrJacobianRequired)
}

func TestNoOpWhenTEqualsTEnd(t *testing.T) {
	fcn, jac := vanDerPol(1.0)
	y := []float64{2.0, 0.0}
	cfg := &ivp.Config{Fcn: fcn, Jac: jac}

	s := New()
	stat, err := s.Integrate(1, 1, nil, y, cfg)

	assert.NoError(t, err)
	assert.Equal(t, 1.0, stat.CurrentTime)
}

func TestTDistTooSmall(t *testing.T) {
	fcn, jac := vanDerPol(1.0)
	y := []float64{2.0, 0.0}
	cfg := &ivp.Config{Fcn: fcn, Jac: jac}

	s := New()
	_, err := s.Integrate(1, 1+ivp.Eps, nil, y, cfg)

	var cerr *ivp.CodeError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, ivp.TDIST_TOO_SMALL, cerr.Code)
}
