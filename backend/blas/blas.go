// Copyright 2026 Verge ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package blas provides the dense BLAS compute backend backed by gonum.
package blas

import (
	internalblas "github.com/verge-ml/verge/internal/backend/blas"
	"github.com/verge-ml/verge/svm"
)

// Backend expands the kernel matrix to full dense storage and runs its
// matrix products through gonum's symmetric BLAS level 3 routines. It trades
// twice the memory of the packed CPU backend for vectorized products.
type Backend = internalblas.Backend

// Compile-time check that Backend implements svm.Backend.
var _ svm.Backend = (*Backend)(nil)

// New creates a new BLAS backend.
func New() *Backend {
	return internalblas.New()
}
