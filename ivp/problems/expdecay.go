package problems

// expdecay is the scalar exponential decay ẏ = -y, y(0) = 1, the
// simplest possible smoke-test fixture (spec.md §8).
type expdecay struct{}

// NewExponentialDecay returns the exponential decay Problem.
func NewExponentialDecay() Problem {
	return expdecay{}
}

func (expdecay) Name() string { return "exponential-decay" }
func (expdecay) N() int       { return 1 }

func (expdecay) Initialize() []float64 {
	return []float64{1.0}
}

func (expdecay) Fcn(t float64, p, y, dyOut []float64) {
	dyOut[0] = -y[0]
}

func (expdecay) Jac(t float64, p, y, aOut []float64) {
	aOut[0] = -1.0
}
