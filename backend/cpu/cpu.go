// Copyright 2026 Verge ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go compute backend.
package cpu

import (
	internalcpu "github.com/verge-ml/verge/internal/backend/cpu"
	"github.com/verge-ml/verge/svm"
)

// Backend assembles the kernel matrix in packed triangular form and runs its
// matrix products on goroutine worker pools. It is the portable default.
type Backend = internalcpu.Backend

// Compile-time check that Backend implements svm.Backend.
var _ svm.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	model, err := svm.Fit(ds, svm.DefaultParameter(), cpu.New())
func New() *Backend {
	return internalcpu.New()
}
