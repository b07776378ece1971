// Package precond implements the preconditioner abstraction for the
// conjugate gradient solver: none, Jacobi (diagonal scaling) and Cholesky
// (triangular factorization with forward/back substitution).
package precond

import (
	"fmt"
	"math"

	"github.com/verge-ml/verge/internal/linalg"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/operator"
)

// Type identifies a preconditioner algorithm.
type Type int

// Supported preconditioner types.
const (
	// None skips preconditioning; the search direction equals the residual.
	None Type = iota
	// Jacobi divides each residual entry by the kernel-matrix diagonal.
	Jacobi
	// Cholesky factors K = UᵀU once and applies two triangular solves.
	Cholesky
)

// String returns the preconditioner name.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Jacobi:
		return "jacobi"
	case Cholesky:
		return "cholesky"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Preconditioner maps a residual block R to a preconditioned block S, both
// shaped num_rhs×num_rows. The precomputed state is built once before the
// CG loop; Apply runs once or twice per iteration.
type Preconditioner interface {
	Apply(r, s *matrix.Dense) error
}

// Build constructs the preconditioner state for op. For Type None it
// returns (nil, nil); the solver treats a nil preconditioner as identity.
//
// Jacobi requires the operator to expose its diagonal, Cholesky its packed
// upper triangle; operators that cannot are rejected.
func Build(t Type, op operator.Operator) (Preconditioner, error) {
	switch t {
	case None:
		return nil, nil
	case Jacobi:
		d, ok := op.(operator.Diagonaler)
		if !ok {
			return nil, fmt.Errorf("precond: operator %T cannot expose its diagonal", op)
		}
		return &jacobi{diag: d.Diagonal()}, nil
	case Cholesky:
		tr, ok := op.(operator.Triangular)
		if !ok {
			return nil, fmt.Errorf("precond: operator %T cannot expose its triangular view", op)
		}
		k := tr.TriangularView()
		u := matrix.ZerosLike(k)
		linalg.DirectCholesky(k, u)
		for i := 0; i < u.Rows(); i++ {
			if math.IsNaN(u.At(i, i)) {
				return nil, fmt.Errorf("precond: cholesky factorization failed, kernel matrix is not positive definite")
			}
		}
		return &cholesky{factor: u, factorT: u.Transpose()}, nil
	default:
		return nil, fmt.Errorf("precond: unsupported preconditioner type %d", int(t))
	}
}

// jacobi divides each residual row entry-wise by the kernel-matrix
// diagonal. Entries whose diagonal is exactly zero (padding region) pass
// through unchanged.
type jacobi struct {
	diag []float64
}

func (j *jacobi) Apply(r, s *matrix.Dense) error {
	if r.Cols() != len(j.diag) {
		panic(fmt.Sprintf("precond: jacobi shape mismatch: %d cols vs %d diagonal entries", r.Cols(), len(j.diag)))
	}
	for row := 0; row < r.Rows(); row++ {
		rrow, srow := r.Row(row), s.Row(row)
		for col := range rrow {
			if j.diag[col] == 0 {
				srow[col] = rrow[col]
			} else {
				srow[col] = rrow[col] / j.diag[col]
			}
		}
	}
	return nil
}

// cholesky applies the factorization K = UᵀU by solving UᵀY = R with a
// forward solve followed by US = Y with a backward solve.
type cholesky struct {
	factor  matrix.View // upper triangular U
	factorT matrix.View // lower triangular Uᵀ
}

func (c *cholesky) Apply(r, s *matrix.Dense) error {
	n := c.factor.Rows()
	if r.Cols() != n {
		panic(fmt.Sprintf("precond: cholesky shape mismatch: %d cols vs order %d", r.Cols(), n))
	}

	// The solves run system-major: one column per right-hand side.
	rhs := r.Rows()
	bt := matrix.NewDense(n, rhs)
	for row := 0; row < rhs; row++ {
		for col := 0; col < n; col++ {
			bt.Set(col, row, r.At(row, col))
		}
	}

	y := matrix.NewDense(n, rhs)
	linalg.TRSM(c.factorT, bt, y)

	x := matrix.NewDense(n, rhs)
	linalg.TRSM(c.factor, y, x)

	for row := 0; row < rhs; row++ {
		for col := 0; col < n; col++ {
			s.Set(row, col, x.At(col, row))
		}
	}
	return nil
}
