package ivp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightsNoFloor(t *testing.T) {
	ewt := make([]float64, 3)
	Weights([]float64{0, 1, -2}, 1e-10, 1e-6, ewt)
	assert.InDelta(t, 1e-10, ewt[0], 1e-20)
	assert.InDelta(t, 1e-10+1e-6, ewt[1], 1e-16)
	assert.InDelta(t, 1e-10+2e-6, ewt[2], 1e-16)
}

func TestWRMSNorm(t *testing.T) {
	z := []float64{1, 1}
	ewt := []float64{1, 1}
	assert.InDelta(t, 1.0, WRMSNorm(z, ewt), 1e-12)
}

func TestWRMSNormEmpty(t *testing.T) {
	assert.Equal(t, 0.0, WRMSNorm(nil, nil))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(0.5, 1.0, 10.0))
	assert.Equal(t, 10.0, Clamp(20.0, 1.0, 10.0))
	assert.Equal(t, 5.0, Clamp(5.0, 1.0, 10.0))
}

func TestLaneViewRowMajor(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5, 6} // 2 IVPs, n=3
	lane := LaneView(y, RowMajor, 2, 3, 1)
	assert.Equal(t, []float64{4, 5, 6}, lane)

	lane[0] = 99
	assert.Equal(t, 99.0, y[3])
}

func TestLaneViewColMajor(t *testing.T) {
	y := []float64{1, 2, 10, 20, 100, 200} // n=3 components, num=2 IVPs
	lane := LaneView(y, ColMajor, 2, 3, 1)
	assert.Equal(t, []float64{2, 20, 200}, lane)

	StoreLane(y, ColMajor, 2, 3, 1, []float64{7, 8, 9})
	assert.Equal(t, []float64{1, 7, 10, 8, 100, 9}, y)
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 7, Index(RowMajor, 2, 3, 2, 1))
	assert.Equal(t, 5, Index(ColMajor, 2, 3, 1, 2))
}
