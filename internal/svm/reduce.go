package svm

import (
	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/parallel"
)

// reduceDimensions computes the dimensional reduction vector q and the
// QA_cost scalar. q[i] is the kernel value between data point i and the last
// data point; QA_cost is the kernel self-value of the last point plus the
// regularization term 1/cost. Together they let the solver work on a system
// of order n-1 instead of n.
func reduceDimensions(data *matrix.Dense, p kernel.Params, cost float64, cfg parallel.Config) ([]float64, float64) {
	dept := data.Rows() - 1
	q := make([]float64, dept)
	parallel.For(dept, func(i int) {
		q[i] = kernel.FunctionRows(data, i, data, dept, p)
	}, cfg)
	qaCost := kernel.FunctionRows(data, dept, data, dept, p) + 1.0/cost
	return q, qaCost
}
