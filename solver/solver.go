// Copyright 2026 Verge ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package solver exposes the preconditioned conjugate gradient solver used
// for LS-SVM training. It works on any symmetric positive definite operator,
// one right-hand side per matrix row.
package solver

import (
	"log/slog"

	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/operator"
	"github.com/verge-ml/verge/internal/precond"
	internalsolver "github.com/verge-ml/verge/internal/solver"
)

// Dense is a row-major matrix; the solver treats each row as one
// right-hand side.
type Dense = matrix.Dense

// NewDense allocates a zeroed rows by cols matrix.
func NewDense(rows, cols int) *Dense { return matrix.NewDense(rows, cols) }

// FromRows copies a slice of rows into a Dense matrix.
func FromRows(rows [][]float64) *Dense { return matrix.FromRows(rows) }

// Operator applies the system matrix as a BLAS level 3 style product.
type Operator = operator.Operator

// Preconditioner maps a residual block to a search direction block.
type Preconditioner = precond.Preconditioner

// Tracker receives solver telemetry.
type Tracker = internalsolver.Tracker

// Config holds the solver options.
type Config = internalsolver.Config

// Solve runs CG on a*X = b and returns the solution block together with the
// number of iterations spent. Hitting the iteration cap is not an error.
func Solve(a Operator, b *Dense, cfg Config) (*Dense, int, error) {
	return internalsolver.Solve(a, b, cfg)
}

// NopTracker discards all telemetry.
type NopTracker = internalsolver.NopTracker

// NewLogTracker emits telemetry through the given structured logger.
// Per-iteration events are only produced when verbose is set.
func NewLogTracker(logger *slog.Logger, verbose bool) Tracker {
	return internalsolver.NewLogTracker(logger, verbose)
}
