// Package linalg is the dense linear algebra adapter of spec.md §4.2: LU
// factorization and triangular solve for the real and complex square
// matrices the Radau IIA step kernel needs. Real factorization is a thin
// wrapper over gonum's mat.LU; complex factorization is hand-rolled since
// gonum/mat exposes no complex counterpart (see DESIGN.md).
package linalg

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned by Factorize when the matrix is singular or
// numerically indistinguishable from singular, corresponding to info != 0
// in spec.md §4.2.
var ErrSingular = errors.New("linalg: singular or near-singular matrix")

// RealLU holds the factorization of one real N×N matrix.
type RealLU struct {
	lu mat.LU
	n  int
}

// FactorizeReal LU-factors the N×N matrix given in column-major order (the
// layout spec.md §4.2/§9 requires for the Jacobian boundary). The input
// slice is not mutated; the factorization is copied internally.
func FactorizeReal(n int, aColMajor []float64) (*RealLU, error) {
	rowMajor := make([]float64, n*n)
	for col := 0; col < n; col++ {
		for row := 0; row < n; row++ {
			rowMajor[row*n+col] = aColMajor[col*n+row]
		}
	}
	a := mat.NewDense(n, n, rowMajor)

	var lu mat.LU
	lu.Factorize(a)
	if cond := lu.Cond(); cond > 1/condEps || isNonFinite(cond) {
		return nil, ErrSingular
	}
	return &RealLU{lu: lu, n: n}, nil
}

// condEps bounds the reciprocal condition number below which a factor is
// treated as singular, loosely matching LAPACK's dgetrf info!=0 semantics.
const condEps = 1e-15

func isNonFinite(x float64) bool {
	return x != x || x > 1e300
}

// Solve overwrites b (length N) with the solution of A*x = b using the
// cached factorization.
func (l *RealLU) Solve(b []float64) error {
	rhs := mat.NewDense(l.n, 1, append([]float64(nil), b...))
	var x mat.Dense
	if err := l.lu.SolveTo(&x, false, rhs); err != nil {
		return err
	}
	for i := 0; i < l.n; i++ {
		b[i] = x.At(i, 0)
	}
	return nil
}
