// Package cpu implements the kernel-matrix operator contract with pure Go
// loops parallelized across worker goroutines.
package cpu

import (
	"fmt"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/operator"
	"github.com/verge-ml/verge/internal/parallel"
)

// Backend assembles explicit kernel-matrix operators evaluated on the CPU.
type Backend struct {
	cfg parallel.Config
}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{cfg: parallel.DefaultConfig()}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "CPU"
}

// Assemble explicitly assembles the reduced kernel matrix and wraps it as a
// symmetric operator.
func (b *Backend) Assemble(data *matrix.Dense, q []float64, qaCost, cost float64, p kernel.Params) (operator.Operator, error) {
	u, err := operator.AssembleUpper(data, q, qaCost, cost, p, b.cfg)
	if err != nil {
		return nil, err
	}
	return &kernelMatrix{upper: u, cfg: b.cfg}, nil
}

// kernelMatrix is an explicitly assembled symmetric kernel matrix stored as
// a packed upper triangle.
type kernelMatrix struct {
	upper matrix.View
	cfg   parallel.Config
}

// Rows returns the order of the kernel matrix.
func (k *kernelMatrix) Rows() int {
	return k.upper.Rows()
}

// Apply computes C = alpha*A*B + beta*C, one goroutine chunk per
// (rhs, row) pair.
func (k *kernelMatrix) Apply(alpha float64, b *matrix.Dense, beta float64, c *matrix.Dense) error {
	n := k.upper.Rows()
	if b.Cols() != n || c.Cols() != n || b.Rows() != c.Rows() {
		panic(fmt.Sprintf("cpu: apply shape mismatch: A %dx%d, B %dx%d, C %dx%d", n, n, b.Rows(), b.Cols(), c.Rows(), c.Cols()))
	}

	parallel.ForPairs(b.Rows(), n, func(rhs, row int) {
		brow := b.Row(rhs)
		sum := 0.0
		for col := 0; col < n; col++ {
			sum += k.upper.SymmetricAt(row, col) * brow[col]
		}
		c.Set(rhs, row, alpha*sum+beta*c.At(rhs, row))
	}, k.cfg)
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
