package svm

import (
	"fmt"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/parallel"
)

// DecisionValues computes the raw decision function for every point. A
// positive value votes for the first class, a negative one for the second.
func (m *Model) DecisionValues(points [][]float64) ([]float64, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points to predict", kernel.ErrInvalidParameter)
	}
	for i, p := range points {
		if len(p) != m.NumFeatures() {
			return nil, fmt.Errorf("%w: point %d has %d features, model expects %d", kernel.ErrInvalidParameter, i, len(p), m.NumFeatures())
		}
	}
	pm := matrix.FromRows(points)
	out := make([]float64, pm.Rows())

	if m.w != nil {
		parallel.For(pm.Rows(), func(j int) {
			sum := m.bias
			row := pm.Row(j)
			for f, v := range row {
				sum += m.w[f] * v
			}
			out[j] = sum
		}, parallel.DefaultConfig())
		return out, nil
	}

	kp := m.params.kernelParams()
	parallel.For(pm.Rows(), func(j int) {
		sum := m.bias
		for i := 0; i < m.data.Rows(); i++ {
			sum += m.alpha.At(0, i) * kernel.FunctionRows(m.data, i, pm, j, kp)
		}
		out[j] = sum
	}, parallel.DefaultConfig())
	return out, nil
}

// Predict classifies every point into the original label space.
func (m *Model) Predict(points [][]float64) ([]int, error) {
	values, err := m.DecisionValues(points)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(values))
	for i, v := range values {
		if v > 0 {
			labels[i] = m.classes[0]
		} else {
			labels[i] = m.classes[1]
		}
	}
	return labels, nil
}

// Score returns the fraction of correctly classified points in ds.
func (m *Model) Score(ds *Dataset) (float64, error) {
	points := make([][]float64, ds.NumRows())
	for i := range points {
		points[i] = ds.Features().Row(i)
	}
	values, err := m.DecisionValues(points)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, v := range values {
		if ds.classOf(v) == ds.classOf(ds.labels[i]) {
			correct++
		}
	}
	return float64(correct) / float64(len(values)), nil
}
