// Copyright 2026 Verge ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package svm provides least squares support vector machine classification.
//
// # Overview
//
// Training solves the LS-SVM system of linear equations with a conjugate
// gradient solver. The heavy lifting, repeated kernel matrix times matrix
// products, is delegated to a pluggable backend:
//   - backend/cpu: pure Go, parallelized over goroutines
//   - backend/blas: dense BLAS via gonum
//   - backend/webgpu: cross-platform GPU compute via WebGPU
//
// # Basic Usage
//
//	import (
//	    "github.com/verge-ml/verge/backend/cpu"
//	    "github.com/verge-ml/verge/svm"
//	)
//
//	func main() {
//	    ds, _ := svm.NewDataset(features, labels)
//	    model, _ := svm.Fit(ds, svm.DefaultParameter(), cpu.New())
//	    predicted, _ := model.Predict(points)
//	}
package svm
