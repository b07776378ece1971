// Copyright 2026 Verge ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU compute backend via WebGPU.
package webgpu

import (
	internalwebgpu "github.com/verge-ml/verge/internal/backend/webgpu"
	"github.com/verge-ml/verge/svm"
)

// Backend uploads the packed kernel matrix once and dispatches the matrix
// products as compute shaders. Host values are converted to float32 at the
// device boundary; callers needing full float64 accuracy should use the CPU
// or BLAS backend.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements svm.Backend.
var _ svm.Backend = (*Backend)(nil)

// New creates a new WebGPU backend. It fails when no usable adapter is
// present; callers are expected to fall back to cpu.New.
//
// Example:
//
//	backend, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Release()
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable reports whether a WebGPU adapter can be acquired.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
