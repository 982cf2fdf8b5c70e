package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactorizeRealSolve(t *testing.T) {
	// A = [[4,3],[6,3]] column-major: col0=(4,6), col1=(3,3)
	a := []float64{4, 6, 3, 3}
	lu, err := FactorizeReal(2, a)
	assert.NoError(t, err)

	b := []float64{10, 12} // solution of A*x=b is x=(1,2)
	err = lu.Solve(b)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, b[0], 1e-9)
	assert.InDelta(t, 2.0, b[1], 1e-9)
}

func TestFactorizeRealSingular(t *testing.T) {
	a := []float64{1, 2, 2, 4} // rows (1,2),(2,4) - singular
	_, err := FactorizeReal(2, a)
	assert.Error(t, err)
}
