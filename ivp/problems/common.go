// Package problems ships the reference right-hand-side (and, where a
// stiff method needs one, Jacobian) implementations used by this
// module's tests and benchmarks: Van der Pol, exponential decay,
// Brusselator 2D, and gravitational N-body. Grounded on the teacher's
// problems/common.go Problem/TiledProblem interfaces and its four
// concrete problems, adapted to the ivp.Function/ivp.Jacobian
// signatures.
package problems

// Problem is a self-contained test fixture: it knows its own initial
// state and right-hand side. P is passed through unused by every
// problem in this package (none needs per-IVP parameters beyond what is
// baked into the closure at construction), but is accepted to satisfy
// ivp.Function.
type Problem interface {
	// Name identifies the problem for benchmark/report labeling.
	Name() string
	// N is the number of state components.
	N() int
	// Initialize returns a fresh initial-state vector.
	Initialize() []float64
	// Fcn is the right hand side, usable directly as an ivp.Function.
	Fcn(t float64, p, y []float64, dyOut []float64)
}

// JacobianProblem is a Problem that also supplies an analytic Jacobian,
// for use with the Radau solver.
type JacobianProblem interface {
	Problem
	Jac(t float64, p, y []float64, aOut []float64)
}
