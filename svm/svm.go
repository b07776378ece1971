// Copyright 2026 Verge ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package svm

import (
	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/operator"
	"github.com/verge-ml/verge/internal/precond"
	internalsvm "github.com/verge-ml/verge/internal/svm"
)

// Backend assembles the kernel matrix and decides where its BLAS level 3
// products run. Implementations live under backend/.
type Backend = operator.Builder

// KernelType selects the kernel function used for training and prediction.
type KernelType = kernel.Type

// Supported kernel functions.
const (
	Linear     = kernel.Linear
	Polynomial = kernel.Polynomial
	RBF        = kernel.RBF
	Sigmoid    = kernel.Sigmoid
	Laplacian  = kernel.Laplacian
	ChiSquared = kernel.ChiSquared
)

// PreconditionerType selects the preconditioner applied inside the CG solver.
type PreconditionerType = precond.Type

// Supported preconditioners.
const (
	PrecondNone     = precond.None
	PrecondJacobi   = precond.Jacobi
	PrecondCholesky = precond.Cholesky
)

// ErrInvalidParameter reports a rejected training or prediction input.
var ErrInvalidParameter = kernel.ErrInvalidParameter

// Parameter holds the training options.
type Parameter = internalsvm.Parameter

// Dataset is a labeled binary classification set.
type Dataset = internalsvm.Dataset

// Model is a fitted classifier.
type Model = internalsvm.Model

// Option configures a fit beyond the numeric parameters.
type Option = internalsvm.Option

// DefaultParameter returns the documented parameter defaults.
func DefaultParameter() Parameter { return internalsvm.DefaultParameter() }

// NewDataset builds a dataset from dense feature rows and integer labels.
func NewDataset(features [][]float64, labels []int) (*Dataset, error) {
	return internalsvm.NewDataset(features, labels)
}

// Fit trains a classifier on ds using the given backend.
func Fit(ds *Dataset, param Parameter, backend Backend, opts ...Option) (*Model, error) {
	return internalsvm.Fit(ds, param, backend, opts...)
}

// WithTracker routes solver telemetry to t.
var WithTracker = internalsvm.WithTracker
