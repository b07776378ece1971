package svm

import (
	"github.com/google/uuid"

	"github.com/verge-ml/verge/internal/matrix"
)

// Model is a fitted LS-SVM classifier. All training points act as support
// vectors; the learned weights live in alpha and bias.
type Model struct {
	id      uuid.UUID
	params  Parameter
	data    *matrix.Dense
	alpha   *matrix.Dense
	bias    float64
	classes [2]int
	// w is the precomputed weight vector for the linear kernel fast path.
	w []float64
	// iterations the CG solver ran for; a quality signal, not a guarantee.
	iterations int
}

// ID returns the unique identity assigned at fit time.
func (m *Model) ID() uuid.UUID { return m.id }

// Params returns the resolved training parameters.
func (m *Model) Params() Parameter { return m.params }

// NumSupportVectors returns the number of training points the model carries.
func (m *Model) NumSupportVectors() int { return m.data.Rows() }

// NumFeatures returns the feature dimensionality the model was trained on.
func (m *Model) NumFeatures() int { return m.data.Cols() }

// Bias returns the learned bias term.
func (m *Model) Bias() float64 { return m.bias }

// Iterations returns the number of CG iterations spent during fitting.
func (m *Model) Iterations() int { return m.iterations }

// Classes returns the two class values in mapping order.
func (m *Model) Classes() [2]int { return m.classes }
