// Copyright 2026 Verge ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package svm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verge-ml/verge/backend/blas"
	"github.com/verge-ml/verge/backend/cpu"
	"github.com/verge-ml/verge/svm"
)

func trainingSet(t *testing.T) *svm.Dataset {
	t.Helper()
	ds, err := svm.NewDataset([][]float64{
		{0.0, 0.0},
		{0.5, 0.5},
		{1.0, 0.0},
		{4.0, 4.0},
		{4.5, 3.5},
		{5.0, 4.0},
	}, []int{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)
	return ds
}

func TestFitAndPredict(t *testing.T) {
	ds := trainingSet(t)

	model, err := svm.Fit(ds, svm.DefaultParameter(), cpu.New())
	require.NoError(t, err)

	predicted, err := model.Predict([][]float64{{0.25, 0.25}, {4.25, 4.25}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, predicted)

	score, err := model.Score(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestBackendsAgree(t *testing.T) {
	ds := trainingSet(t)
	param := svm.DefaultParameter()
	param.Kernel = svm.RBF
	param.Epsilon = 1e-8
	param.MaxIter = 100

	cpuModel, err := svm.Fit(ds, param, cpu.New())
	require.NoError(t, err)
	blasModel, err := svm.Fit(ds, param, blas.New())
	require.NoError(t, err)

	points := [][]float64{{1, 1}, {2, 2}, {3, 3}}
	cpuValues, err := cpuModel.DecisionValues(points)
	require.NoError(t, err)
	blasValues, err := blasModel.DecisionValues(points)
	require.NoError(t, err)

	for i := range cpuValues {
		assert.InDelta(t, cpuValues[i], blasValues[i], 1e-6)
	}
}

func TestPreconditionersAgree(t *testing.T) {
	ds := trainingSet(t)

	var reference []float64
	for _, pt := range []svm.PreconditionerType{svm.PrecondNone, svm.PrecondJacobi, svm.PrecondCholesky} {
		param := svm.DefaultParameter()
		param.Kernel = svm.RBF
		param.Epsilon = 1e-8
		param.MaxIter = 100
		param.Preconditioner = pt

		model, err := svm.Fit(ds, param, cpu.New())
		require.NoError(t, err)
		values, err := model.DecisionValues([][]float64{{2, 2}})
		require.NoError(t, err)

		if reference == nil {
			reference = values
			continue
		}
		assert.InDelta(t, reference[0], values[0], 1e-5, "preconditioner %s", pt)
	}
}

func TestInvalidParameterSurfaces(t *testing.T) {
	ds := trainingSet(t)
	param := svm.DefaultParameter()
	param.Kernel = svm.RBF
	param.Gamma = -1

	_, err := svm.Fit(ds, param, cpu.New())
	assert.ErrorIs(t, err, svm.ErrInvalidParameter)
}
