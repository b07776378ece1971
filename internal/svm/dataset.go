package svm

import (
	"fmt"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
)

// Dataset holds a labeled binary classification set. Labels are remapped to
// +1/-1 internally; the two original class values are kept so predictions can
// be reported in the caller's label space.
type Dataset struct {
	features *matrix.Dense
	labels   []float64
	classes  [2]int
}

// NewDataset builds a dataset from dense feature rows and integer class
// labels. The label set must contain exactly two distinct values; the first
// value encountered maps to +1, the second to -1.
func NewDataset(features [][]float64, labels []int) (*Dataset, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: data set must not be empty", kernel.ErrInvalidParameter)
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("%w: %d data points but %d labels", kernel.ErrInvalidParameter, len(features), len(labels))
	}
	numFeatures := len(features[0])
	if numFeatures == 0 {
		return nil, fmt.Errorf("%w: data points must have at least one feature", kernel.ErrInvalidParameter)
	}
	for i, row := range features {
		if len(row) != numFeatures {
			return nil, fmt.Errorf("%w: data point %d has %d features, expected %d", kernel.ErrInvalidParameter, i, len(row), numFeatures)
		}
	}

	ds := &Dataset{
		features: matrix.FromRows(features),
		labels:   make([]float64, len(labels)),
	}
	seen := 0
	for i, l := range labels {
		idx := -1
		for c := 0; c < seen; c++ {
			if ds.classes[c] == l {
				idx = c
				break
			}
		}
		if idx < 0 {
			if seen == 2 {
				return nil, fmt.Errorf("%w: more than two distinct labels", kernel.ErrInvalidParameter)
			}
			ds.classes[seen] = l
			idx = seen
			seen++
		}
		if idx == 0 {
			ds.labels[i] = 1.0
		} else {
			ds.labels[i] = -1.0
		}
	}
	if seen < 2 {
		return nil, fmt.Errorf("%w: need two distinct labels, got %d", kernel.ErrInvalidParameter, seen)
	}
	return ds, nil
}

// NumRows returns the number of data points.
func (d *Dataset) NumRows() int { return d.features.Rows() }

// NumFeatures returns the number of features per data point.
func (d *Dataset) NumFeatures() int { return d.features.Cols() }

// Features exposes the underlying feature matrix.
func (d *Dataset) Features() *matrix.Dense { return d.features }

// Labels returns the +1/-1 mapped labels.
func (d *Dataset) Labels() []float64 { return d.labels }

// Classes returns the two original class values in mapping order.
func (d *Dataset) Classes() [2]int { return d.classes }

// classOf maps a decision value back to the original label space.
func (d *Dataset) classOf(decision float64) int {
	if decision > 0 {
		return d.classes[0]
	}
	return d.classes[1]
}
