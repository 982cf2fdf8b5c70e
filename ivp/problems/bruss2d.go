package problems

// brusselator2D is the 2D Brusselator reaction-diffusion system on an
// n-by-n grid with Neumann (reflective) boundaries, adapted from the
// teacher's problems/bruss2d.go. State is packed as alternating (u, v)
// pairs per cell, row-major over the grid, so N() == 2*n*n.
type brusselator2D struct {
	a, b, alpha     float64
	n               int
	alphaN1Squared  float64
	a1              float64
}

// NewBrusselator2D returns a Brusselator 2D Problem on an n x n grid
// with the literature-standard parameters A=3.4, B=1.0, alpha=0.002
// (same constants as the teacher's NewBruss2D).
func NewBrusselator2D(n int) Problem {
	b := &brusselator2D{a: 3.4, b: 1.0, alpha: 0.002, n: n}
	n1 := float64(n) - 1.0
	b.a1 = b.a + 1.0
	b.alphaN1Squared = b.alpha * n1 * n1
	return b
}

func (b *brusselator2D) Name() string { return "brusselator-2d" }
func (b *brusselator2D) N() int       { return 2 * b.n * b.n }

func u0(xNorm float64) float64 { return 2 + 0.25*xNorm }
func v0(yNorm float64) float64 { return 1 + 0.8*yNorm }

func (b *brusselator2D) Initialize() []float64 {
	n := b.n
	n1 := float64(n) - 1.0
	y0 := make([]float64, 2*n*n)
	for i := 0; i < n*n; i++ {
		x, y := i%n, i/n
		xNorm, yNorm := float64(x)/n1, float64(y)/n1
		y0[2*i] = u0(yNorm)
		y0[2*i+1] = v0(xNorm)
	}
	return y0
}

func (b *brusselator2D) neighbors(index int) (top, right, bottom, left int) {
	n := b.n
	top, right, bottom, left = index-n, index+1, index+n, index-1
	if top < 0 {
		top = bottom
	} else if bottom >= n*n {
		bottom = top
	}
	if idxModN := index % n; idxModN == 0 {
		left = right
	} else if n-idxModN == 1 {
		right = left
	}
	return
}

func (b *brusselator2D) Fcn(t float64, p, y, dyOut []float64) {
	n := b.n
	for i := 0; i < n*n; i++ {
		top, right, bottom, left := b.neighbors(i)
		u, v := y[2*i], y[2*i+1]
		uTop, uBot, uLeft, uRight := y[2*top], y[2*bottom], y[2*left], y[2*right]
		vTop, vBot, vLeft, vRight := y[2*top+1], y[2*bottom+1], y[2*left+1], y[2*right+1]

		dyOut[2*i] = b.b + u*u*v - b.a1*u + b.alphaN1Squared*(uTop+uBot+uLeft+uRight-4.0*u)
		dyOut[2*i+1] = b.a*u - u*u*v + b.alphaN1Squared*(vTop+vBot+vLeft+vRight-4.0*v)
	}
}
