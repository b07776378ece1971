// Package blas implements the kernel-matrix operator contract on top of
// gonum's native BLAS: the packed triangle is expanded into a full symmetric
// matrix once, and every application is a single DSYMM call.
package blas

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/operator"
	"github.com/verge-ml/verge/internal/parallel"
)

// Backend assembles explicit kernel-matrix operators evaluated through
// gonum's blas64 implementation.
type Backend struct {
	cfg parallel.Config
}

// New creates a new BLAS backend.
func New() *Backend {
	return &Backend{cfg: parallel.DefaultConfig()}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "BLAS"
}

// Assemble explicitly assembles the reduced kernel matrix, keeping both the
// packed upper triangle (for the preconditioners) and a dense symmetric
// expansion (for DSYMM).
func (b *Backend) Assemble(data *matrix.Dense, q []float64, qaCost, cost float64, p kernel.Params) (operator.Operator, error) {
	u, err := operator.AssembleUpper(data, q, qaCost, cost, p, b.cfg)
	if err != nil {
		return nil, err
	}

	n := u.Rows()
	full := make([]float64, n*n)
	for row := 0; row < n; row++ {
		for col := row; col < n; col++ {
			v := u.At(row, col)
			full[row*n+col] = v
			full[col*n+row] = v
		}
	}
	return &kernelMatrix{upper: u, full: full, n: n}, nil
}

// kernelMatrix is an explicitly assembled symmetric kernel matrix stored
// both packed (preconditioner access) and dense (BLAS access).
type kernelMatrix struct {
	upper matrix.View
	full  []float64
	n     int
}

// Rows returns the order of the kernel matrix.
func (k *kernelMatrix) Rows() int {
	return k.n
}

// Apply computes C = alpha*A*B + beta*C. With one right-hand side per row
// of B and C and A symmetric, this is C = alpha*B*A + beta*C in row-major
// terms, a single right-sided DSYMM.
func (k *kernelMatrix) Apply(alpha float64, b *matrix.Dense, beta float64, c *matrix.Dense) error {
	if b.Cols() != k.n || c.Cols() != k.n || b.Rows() != c.Rows() {
		panic(fmt.Sprintf("blas: apply shape mismatch: A %dx%d, B %dx%d, C %dx%d", k.n, k.n, b.Rows(), b.Cols(), c.Rows(), c.Cols()))
	}
	if b.Padding() != 0 || c.Padding() != 0 {
		panic("blas: apply requires unpadded blocks")
	}

	blas64.Implementation().Dsymm(blas.Right, blas.Upper,
		b.Rows(), k.n,
		alpha, k.full, k.n,
		b.Data(), b.Stride(),
		beta, c.Data(), c.Stride())
	return nil
}

// Diagonal returns the kernel-matrix diagonal for the Jacobi preconditioner.
func (k *kernelMatrix) Diagonal() []float64 {
	return k.upper.Diagonal()
}

// TriangularView returns the packed upper triangle for the Cholesky
// preconditioner.
func (k *kernelMatrix) TriangularView() matrix.View {
	return k.upper
}
