package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVanDerPolInitialDerivative(t *testing.T) {
	p := NewVanDerPol(1.0)
	y := p.Initialize()
	dy := make([]float64, p.N())
	p.Fcn(0, nil, y, dy)
	assert.Equal(t, []float64{2.0, 0.0}, y)
	assert.Equal(t, 0.0, dy[0])
	assert.InDelta(t, -2.0, dy[1], 1e-12)
}

func TestExponentialDecayInitial(t *testing.T) {
	p := NewExponentialDecay()
	y := p.Initialize()
	dy := make([]float64, p.N())
	p.Fcn(0, nil, y, dy)
	assert.Equal(t, []float64{1.0}, y)
	assert.Equal(t, -1.0, dy[0])
}

func TestBrusselator2DConserveShape(t *testing.T) {
	p := NewBrusselator2D(4)
	y := p.Initialize()
	assert.Len(t, y, p.N())

	dy := make([]float64, p.N())
	p.Fcn(0, nil, y, dy)
	assert.Len(t, dy, p.N())
}

func TestNBodyDerivativeNotNaNAtT0(t *testing.T) {
	p := NewNBody(5)
	y := p.Initialize()
	dy := make([]float64, p.N())
	p.Fcn(0, nil, y, dy)

	for _, v := range dy {
		assert.False(t, v != v, "NaN in n-body derivative")
	}
}

func TestVanDerPolJacobianMatchesFiniteDifference(t *testing.T) {
	jp := NewVanDerPol(1.0).(JacobianProblem)
	y := []float64{1.5, 0.7}
	a := make([]float64, 4)
	jp.Jac(0, nil, y, a)

	const h = 1e-6
	dy0 := make([]float64, 2)
	dy1 := make([]float64, 2)
	jp.Fcn(0, nil, y, dy0)

	yp := []float64{y[0] + h, y[1]}
	jp.Fcn(0, nil, yp, dy1)
	assert.InDelta(t, (dy1[0]-dy0[0])/h, a[0], 1e-4)
	assert.InDelta(t, (dy1[1]-dy0[1])/h, a[1], 1e-4)

	yp = []float64{y[0], y[1] + h}
	jp.Fcn(0, nil, yp, dy1)
	assert.InDelta(t, (dy1[0]-dy0[0])/h, a[2], 1e-4)
	assert.InDelta(t, (dy1[1]-dy0[1])/h, a[3], 1e-4)
}
