package operator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/parallel"
)

func TestAssembleUpperLinear(t *testing.T) {
	data := matrix.FromRows([][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	})
	p := kernel.Params{Kernel: kernel.Linear}
	cost := 2.0

	// Dimensional reduction against the last data point.
	q := []float64{1, 1}
	qaCost := 2.0 + 1.0/cost

	u, err := AssembleUpper(data, q, qaCost, cost, p, parallel.Config{})
	require.NoError(t, err)
	require.Equal(t, 2, u.Rows())

	// K(i,j) = qaCost - q[i] - q[j] + k(x_i, x_j), plus 1/cost on the
	// diagonal.
	assert.InDelta(t, qaCost-2*q[0]+1.0+1.0/cost, u.At(0, 0), 1e-12)
	assert.InDelta(t, qaCost-q[0]-q[1]+0.0, u.At(0, 1), 1e-12)
	assert.InDelta(t, qaCost-2*q[1]+1.0+1.0/cost, u.At(1, 1), 1e-12)
}

func TestAssembleUpperMatchesDirectEvaluation(t *testing.T) {
	data := matrix.FromRows([][]float64{
		{0.1, 0.7, -0.3},
		{1.2, -0.4, 0.5},
		{-0.9, 0.2, 0.8},
		{0.3, 0.3, 0.3},
	})
	p := kernel.Params{Kernel: kernel.RBF, Gamma: 0.5}
	cost := 4.0
	dept := data.Rows() - 1

	q := make([]float64, dept)
	for i := range q {
		q[i] = kernel.FunctionRows(data, i, data, dept, p)
	}
	qaCost := kernel.FunctionRows(data, dept, data, dept, p) + 1.0/cost

	u, err := AssembleUpper(data, q, qaCost, cost, p, parallel.DefaultConfig())
	require.NoError(t, err)

	for row := 0; row < dept; row++ {
		for col := row; col < dept; col++ {
			want := qaCost - q[row] - q[col] + kernel.FunctionRows(data, row, data, col, p)
			if row == col {
				want += 1.0 / cost
			}
			assert.InDelta(t, want, u.At(row, col), 1e-12, "entry (%d,%d)", row, col)
		}
	}
}

func TestAssembleUpperDiagonalDominates(t *testing.T) {
	// The regularization term keeps the matrix positive definite; the
	// diagonal must exceed the corresponding off-diagonal entries for an
	// RBF kernel on distinct points.
	data := matrix.FromRows([][]float64{{0}, {1}, {2}, {3}})
	p := kernel.Params{Kernel: kernel.RBF, Gamma: 1}
	q := make([]float64, 3)
	for i := range q {
		q[i] = kernel.FunctionRows(data, i, data, 3, p)
	}
	qaCost := 1.0 + 1.0

	u, err := AssembleUpper(data, q, qaCost, 1.0, p, parallel.Config{})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.Greater(t, u.At(i, i), math.Abs(u.At(0, 2)))
	}
}

func TestAssembleUpperValidation(t *testing.T) {
	data := matrix.FromRows([][]float64{{1}, {2}, {3}})

	_, err := AssembleUpper(data, []float64{1}, 1, 1, kernel.Params{Kernel: kernel.Linear}, parallel.Config{})
	assert.Error(t, err, "q length must match the reduced order")

	_, err = AssembleUpper(data, []float64{1, 2}, 1, 0, kernel.Params{Kernel: kernel.Linear}, parallel.Config{})
	assert.Error(t, err, "cost 0 must be rejected")

	_, err = AssembleUpper(data, []float64{1, 2}, 1, 1, kernel.Params{Kernel: kernel.RBF}, parallel.Config{})
	assert.ErrorIs(t, err, kernel.ErrInvalidParameter, "unset gamma must be rejected")
}

type fixedOperator struct {
	n int
}

func (f *fixedOperator) Apply(alpha float64, b *matrix.Dense, beta float64, c *matrix.Dense) error {
	return nil
}

func (f *fixedOperator) Rows() int { return f.n }

func TestRunRejectsEmptyBlocks(t *testing.T) {
	op := &fixedOperator{n: 3}
	assert.Panics(t, func() {
		_, _ = Run(op, 1, matrix.NewDense(0, 0), 0, matrix.NewDense(1, 3))
	})
}
