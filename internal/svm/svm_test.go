package svm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cpubackend "github.com/verge-ml/verge/internal/backend/cpu"
	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/parallel"
	"github.com/verge-ml/verge/internal/precond"
)

// separable2D is a small linearly separable training set: class 1 sits
// around (2, 2), class -1 around (-2, -2).
func separable2D(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewDataset([][]float64{
		{2.0, 2.0},
		{1.5, 2.5},
		{2.5, 1.0},
		{1.0, 1.5},
		{-2.0, -2.0},
		{-1.5, -2.5},
		{-2.5, -1.0},
		{-1.0, -1.5},
	}, []int{1, 1, 1, 1, -1, -1, -1, -1})
	require.NoError(t, err)
	return ds
}

func TestNewDatasetValidation(t *testing.T) {
	_, err := NewDataset(nil, nil)
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter)

	_, err = NewDataset([][]float64{{1}, {2}}, []int{1})
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter, "label count must match")

	_, err = NewDataset([][]float64{{1, 2}, {3}}, []int{1, -1})
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter, "ragged rows must be rejected")

	_, err = NewDataset([][]float64{{1}, {2}, {3}}, []int{0, 1, 2})
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter, "three classes must be rejected")

	_, err = NewDataset([][]float64{{1}, {2}}, []int{5, 5})
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter, "a single class must be rejected")
}

func TestDatasetLabelMapping(t *testing.T) {
	ds, err := NewDataset([][]float64{{1}, {2}, {3}}, []int{7, -3, 7})
	require.NoError(t, err)

	assert.Equal(t, [2]int{7, -3}, ds.Classes())
	assert.Equal(t, []float64{1, -1, 1}, ds.Labels())
}

func TestReduceDimensionsLinear(t *testing.T) {
	ds := separable2D(t)
	p := kernel.Params{Kernel: kernel.Linear}
	cost := 2.0

	q, qaCost := reduceDimensions(ds.Features(), p, cost, parallel.Config{})

	require.Len(t, q, ds.NumRows()-1)
	last := ds.Features().Row(ds.NumRows() - 1)
	for i := range q {
		row := ds.Features().Row(i)
		want := row[0]*last[0] + row[1]*last[1]
		assert.InDelta(t, want, q[i], 1e-12, "q[%d]", i)
	}
	assert.InDelta(t, last[0]*last[0]+last[1]*last[1]+1.0/cost, qaCost, 1e-12)
}

func TestReduceDimensionsIsDeterministic(t *testing.T) {
	ds := separable2D(t)
	p := kernel.Params{Kernel: kernel.RBF, Gamma: 0.5}

	seq, qaSeq := reduceDimensions(ds.Features(), p, 1.0, parallel.Config{})
	par, qaPar := reduceDimensions(ds.Features(), p, 1.0, parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})

	assert.Equal(t, seq, par)
	assert.Equal(t, qaSeq, qaPar)
}

func TestParameterResolve(t *testing.T) {
	p := DefaultParameter()
	p.Kernel = kernel.RBF
	resolved, err := p.resolve(10, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, resolved.Gamma, 1e-12)
	assert.Equal(t, 10, resolved.MaxIter)

	p = DefaultParameter()
	p.Cost = -1
	_, err = p.resolve(10, 4)
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter)

	p = DefaultParameter()
	p.Kernel = kernel.RBF
	p.Gamma = -2
	_, err = p.resolve(10, 4)
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter)
}

func TestFitLinearSeparable(t *testing.T) {
	ds := separable2D(t)
	model, err := Fit(ds, DefaultParameter(), cpubackend.New())
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", model.ID().String())
	assert.Equal(t, ds.NumRows(), model.NumSupportVectors())

	score, err := model.Score(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	predicted, err := model.Predict([][]float64{{3, 3}, {-3, -3}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1}, predicted)
}

// TestFitSatisfiesOptimalityConditions checks the LS-SVM stationarity
// system on the full (unreduced) kernel matrix: (K + I/C)·alpha + b·1 = y
// and sum(alpha) = 0.
func TestFitSatisfiesOptimalityConditions(t *testing.T) {
	ds := separable2D(t)
	param := DefaultParameter()
	param.Epsilon = 1e-10
	param.MaxIter = 100
	param.Cost = 2.0

	model, err := Fit(ds, param, cpubackend.New())
	require.NoError(t, err)

	n := ds.NumRows()
	kp := param.kernelParams()
	y := ds.Labels()

	alphaSum := 0.0
	for i := 0; i < n; i++ {
		alphaSum += model.alpha.At(0, i)
	}
	assert.InDelta(t, 0.0, alphaSum, 1e-8)

	for i := 0; i < n; i++ {
		lhs := model.bias
		for j := 0; j < n; j++ {
			k := kernel.FunctionRows(ds.Features(), i, ds.Features(), j, kp)
			if i == j {
				k += 1.0 / param.Cost
			}
			lhs += k * model.alpha.At(0, j)
		}
		assert.InDelta(t, y[i], lhs, 1e-6, "stationarity for data point %d", i)
	}
}

func TestFitRBFWithCholesky(t *testing.T) {
	ds := separable2D(t)
	param := DefaultParameter()
	param.Kernel = kernel.RBF
	param.Preconditioner = precond.Cholesky
	param.Epsilon = 1e-8

	model, err := Fit(ds, param, cpubackend.New())
	require.NoError(t, err)

	score, err := model.Score(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestFitLinearFastPathMatchesKernelPath(t *testing.T) {
	ds := separable2D(t)
	model, err := Fit(ds, DefaultParameter(), cpubackend.New())
	require.NoError(t, err)
	require.NotNil(t, model.w)

	points := [][]float64{{0.5, -0.25}, {-1, 2}, {3, 0}}
	fast, err := model.DecisionValues(points)
	require.NoError(t, err)

	// Disable the fast path and compare against the kernel evaluation.
	model.w = nil
	slow, err := model.DecisionValues(points)
	require.NoError(t, err)

	for i := range fast {
		assert.InDelta(t, slow[i], fast[i], 1e-9)
	}
}

func TestPredictValidation(t *testing.T) {
	ds := separable2D(t)
	model, err := Fit(ds, DefaultParameter(), cpubackend.New())
	require.NoError(t, err)

	_, err = model.Predict(nil)
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter)

	_, err = model.Predict([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter, "feature count mismatch must be rejected")
}

func TestFitRejectsTinyDataset(t *testing.T) {
	ds := &Dataset{
		features: matrix.FromRows([][]float64{{1, 2}}),
		labels:   []float64{1},
		classes:  [2]int{1, -1},
	}
	_, err := Fit(ds, DefaultParameter(), cpubackend.New())
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter)
}

func TestDecisionValuesAreFiniteAndSigned(t *testing.T) {
	ds := separable2D(t)
	param := DefaultParameter()
	param.Kernel = kernel.Laplacian

	model, err := Fit(ds, param, cpubackend.New())
	require.NoError(t, err)

	values, err := model.DecisionValues([][]float64{{2, 2}, {-2, -2}})
	require.NoError(t, err)
	require.False(t, math.IsNaN(values[0]))
	assert.Positive(t, values[0])
	assert.Negative(t, values[1])
}
