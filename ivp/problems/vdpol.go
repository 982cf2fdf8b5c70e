package problems

// vdpol is the Van der Pol oscillator, ẏ1 = y2, ẏ2 = mu*(1-y1^2)*y2 - y1.
// mu=1 is the mildly non-stiff reference scenario for RKF45; mu=1000 is
// the stiff reference scenario for Radau. Grounded on the classical
// Van der Pol test problem referenced throughout original_source/ as the
// library's own smoke-test fixture.
type vdpol struct {
	mu float64
}

// NewVanDerPol returns a Van der Pol Problem with the given stiffness
// parameter mu and initial state y(0) = (2, 0).
func NewVanDerPol(mu float64) Problem {
	return &vdpol{mu: mu}
}

func (v *vdpol) Name() string { return "van-der-pol" }
func (v *vdpol) N() int       { return 2 }

func (v *vdpol) Initialize() []float64 {
	return []float64{2.0, 0.0}
}

func (v *vdpol) Fcn(t float64, p, y, dyOut []float64) {
	dyOut[0] = y[1]
	dyOut[1] = v.mu*(1.0-y[0]*y[0])*y[1] - y[0]
}

// Jac is the analytic Jacobian, column-major per ivp.Jacobian:
// a[0] = d(dy1)/dy1, a[1] = d(dy2)/dy1, a[2] = d(dy1)/dy2, a[3] = d(dy2)/dy2.
func (v *vdpol) Jac(t float64, p, y, aOut []float64) {
	aOut[0] = 0.0
	aOut[1] = -2.0*v.mu*y[0]*y[1] - 1.0
	aOut[2] = 1.0
	aOut[3] = v.mu * (1.0 - y[0]*y[0])
}
