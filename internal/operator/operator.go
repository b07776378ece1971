// Package operator defines the BLAS-level-3 contract every compute backend
// must satisfy: applying the symmetric kernel matrix to a block of
// right-hand sides. The solver treats operators as opaque, timed operations.
package operator

import (
	"time"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
)

// Operator applies the (implicitly or explicitly assembled) symmetric kernel
// matrix A of order Rows() as a BLAS level-3 operation.
//
// Apply computes C = alpha*A*B + beta*C, where B and C are dense blocks
// shaped num_rhs×Rows() with one right-hand side per row. C is mutated in
// place; no aliasing between A's state, B and C is permitted. The operator
// is read-only for the entire solve.
type Operator interface {
	Apply(alpha float64, b *matrix.Dense, beta float64, c *matrix.Dense) error
	Rows() int
}

// Builder assembles (or wraps) the kernel matrix of a training set for one
// compute backend. The reduced matrix has order data.Rows()-1 and entries
//
//	K(i,j) = qaCost - q[i] - q[j] + k(row_i, row_j)      for i != j
//	K(i,i) = qaCost - 2*q[i]     + k(row_i, row_i) + 1/cost
//
// where q and qaCost come from the dimensional reduction.
type Builder interface {
	Assemble(data *matrix.Dense, q []float64, qaCost, cost float64, p kernel.Params) (Operator, error)
	Name() string
}

// Diagonaler is implemented by operators that can expose the kernel-matrix
// diagonal, enabling the Jacobi preconditioner.
type Diagonaler interface {
	Diagonal() []float64
}

// Triangular is implemented by operators that can expose the packed upper
// triangle of the kernel matrix, enabling the Cholesky preconditioner.
type Triangular interface {
	TriangularView() matrix.View
}

// Run wraps one Apply invocation with wall-clock timing. The solver
// accumulates the durations across iterations.
func Run(op Operator, alpha float64, b *matrix.Dense, beta float64, c *matrix.Dense) (time.Duration, error) {
	if b.Empty() || c.Empty() {
		panic("operator: the B and C matrices must not be empty")
	}
	start := time.Now()
	err := op.Apply(alpha, b, beta, c)
	return time.Since(start), err
}
