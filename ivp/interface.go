// Package ivp defines the contracts shared by every integrator in this
// module: the right-hand-side/Jacobian signatures, solver configuration,
// run statistics, and the common Integrator interface that the rkf45 and
// radau packages implement.
package ivp

// Function evaluates the right hand side f(t, p, y) of an IVP and writes
// the result into dyOut. It must be pure: no observable side effects beyond
// dyOut, since the controller may re-invoke it with identical arguments on
// a rejected step.
type Function func(t float64, p, y []float64, dyOut []float64)

// Jacobian evaluates the N×N Jacobian ∂f/∂y at (t, p, y) and writes it into
// aOut in column-major order. Only required by stiff solvers (Radau).
type Jacobian func(t float64, p, y []float64, aOut []float64)

// Order selects how a packed batch y-matrix is laid out across IVP lanes.
type Order int

const (
	// RowMajor lays out y[i*n+k]: IVP i, component k.
	RowMajor Order = iota
	// ColMajor lays out y[k*num+i]: component k, IVP i.
	ColMajor
)

// Config holds the immutable parameters of a single solve. Zero-valued
// fields are replaced by sensible defaults inside each integrator's
// Integrate, following the teacher's "set default parameters if necessary"
// convention.
type Config struct {
	// Fcn evaluates the right hand side. Required.
	Fcn Function
	// Jac evaluates the Jacobian. Required for Radau, ignored by RKF45.
	Jac Jacobian

	// AbsTol, RelTol are the absolute/relative tolerances.
	AbsTol float64
	RelTol float64

	// InitialStep, if its magnitude exceeds the minimum step, seeds the
	// first step. Otherwise the initial-step heuristic (EstimateInitialStep)
	// picks one.
	InitialStep float64
	// MinStep, MaxStep bound the step size. If MaxStep <= 0 it is set to
	// |tEnd-t|/MinIters; MinStep is raised to at least 100*eps*|tEnd-t0|.
	// RKF45 and batch.Lane clamp every attempt into [MinStep, MaxStep];
	// Radau clamps its first step and every step chosen after an accepted
	// one, but does not raise a step shrunk after a rejection back to
	// MinStep.
	MinStep float64
	MaxStep float64

	// MaxIters caps the total number of step attempts (accepted + rejected).
	// 0 disables the cap.
	MaxIters int
	// MinIters floors the computation of MaxStep as (tEnd-t)/MinIters.
	MinIters int

	// AdaptionLimit clamps the per-step growth/shrink ratio. Defaults to 10.
	AdaptionLimit float64

	// Logging, if true, makes batch.Run attach a Log to the driver it
	// picks (see package batch); Run does not return that Log. The
	// single-IVP integrators do not read this field and keep no per-step
	// log of their own.
	Logging bool

	// Order names a layout for a packed multi-IVP y buffer, as taken by
	// LaneView, StoreLane and Index. Neither the integrators nor the
	// drivers of package batch read this field: each batch.Job carries
	// its own unpacked Y.
	Order Order
}

// Statistics reports the work performed by one Integrate call.
type Statistics struct {
	// NIters counts step attempts (accepted + rejected).
	NIters int
	// NSteps counts accepted steps.
	NSteps int
	// Rejected counts rejected attempts; NIters-NSteps == Rejected always.
	Rejected int
	// Evaluations counts RHS evaluations.
	Evaluations int

	CurrentTime  float64
	LastStepSize float64
	NextStepSize float64

	// Code is SUCCESS unless the run ended in a persistent error.
	Code ErrorCode
}

// IntegratorInfo is static metadata about a method.
type IntegratorInfo struct {
	Name          string
	Stages, Order uint
}

// Integrator advances a single IVP from t to tEnd in place.
type Integrator interface {
	Info() IntegratorInfo
	// Integrate advances yT from t to tEnd in place and returns run
	// statistics. Solving with tEnd == t is a no-op.
	Integrate(t, tEnd float64, p, yT []float64, cfg *Config) (Statistics, error)
}
