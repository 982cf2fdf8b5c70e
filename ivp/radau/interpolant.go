package radau

// cont caches the quadratic interpolant built from one accepted step's
// {Z1,Z2,Z3}, used to warm-start the next step's Newton iteration
// (spec.md §4.5). Layout matches CONT[0..2] of the source: three N-length
// segments.
type cont struct {
	n          int
	c0, c1, c2 []float64
}

func newCont(n int) *cont {
	return &cont{n: n, c0: make([]float64, n), c1: make([]float64, n), c2: make([]float64, n)}
}

// build computes CONT from {Z1,Z2,Z3} via the closed-form determinant
// identities of RK_Make_Interpolate in original_source/src/radau2a.c.
func (ct *cont) build(z1, z2, z3 []float64) {
	den := (rkC[2] - rkC[1]) * (rkC[1] - rkC[0]) * (rkC[0] - rkC[2])
	c0, c1, c2 := rkC[0], rkC[1], rkC[2]
	for i := 0; i < ct.n; i++ {
		ct.c0[i] = (-c2*c2*c1*z1[i]+z3[i]*c1*c0*c0+
			c1*c1*c2*z1[i]-c1*c1*c0*z3[i]+
			c2*c2*c0*z2[i]-z2[i]*c2*c0*c0)/den - z3[i]
		ct.c1[i] = -(c0*c0*(z3[i]-z2[i]) + c1*c1*(z1[i]-z3[i]) + c2*c2*(z2[i]-z1[i])) / den
		ct.c2[i] = (c0*(z3[i]-z2[i]) + c1*(z1[i]-z3[i]) + c2*(z2[i]-z1[i])) / den
	}
}

// eval reconstructs {Z1,Z2,Z3} at the next step's nodes via Horner
// evaluation, RK_Interpolate in the source. hRatio is H/Hold.
//
// NOTE: the Z3 branch intentionally reuses x2 as the outer Horner
// multiplier instead of x3 (see radau2a.c's RK_Interpolate: "Z3[i] =
// CONT[i] + x2*(...+x3*...)"). spec.md §9 directs this to be preserved as
// written rather than silently "fixed" — flag regressions against a
// reference build instead of changing it here.
func (ct *cont) eval(hRatio float64, z1, z2, z3 []float64) {
	x1 := 1.0 + rkC[0]*hRatio
	x2 := 1.0 + rkC[1]*hRatio
	x3 := 1.0 + rkC[2]*hRatio
	for i := 0; i < ct.n; i++ {
		z1[i] = ct.c0[i] + x1*(ct.c1[i]+x1*ct.c2[i])
		z2[i] = ct.c0[i] + x2*(ct.c1[i]+x2*ct.c2[i])
		z3[i] = ct.c0[i] + x2*(ct.c1[i]+x3*ct.c2[i])
	}
}
