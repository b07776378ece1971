package svm

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/operator"
	"github.com/verge-ml/verge/internal/parallel"
	"github.com/verge-ml/verge/internal/precond"
	"github.com/verge-ml/verge/internal/solver"
)

// Option configures a fit beyond the numeric parameters.
type Option func(*fitOptions)

type fitOptions struct {
	tracker  solver.Tracker
	parallel parallel.Config
}

// WithTracker routes solver telemetry to t.
func WithTracker(t solver.Tracker) Option {
	return func(o *fitOptions) { o.tracker = t }
}

// WithParallelism overrides the worker configuration used on the host side.
func WithParallelism(cfg parallel.Config) Option {
	return func(o *fitOptions) { o.parallel = cfg }
}

// Fit trains an LS-SVM classifier on ds. The kernel matrix operator is
// assembled by builder; builder decides where the BLAS level 3 work runs.
func Fit(ds *Dataset, param Parameter, builder operator.Builder, opts ...Option) (*Model, error) {
	o := fitOptions{
		tracker:  solver.NopTracker{},
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if ds.NumRows() < 2 {
		return nil, fmt.Errorf("%w: need at least two data points", kernel.ErrInvalidParameter)
	}
	param, err := param.resolve(ds.NumRows(), ds.NumFeatures())
	if err != nil {
		return nil, err
	}
	kp := param.kernelParams()

	start := time.Now()
	q, qaCost := reduceDimensions(ds.Features(), kp, param.Cost, o.parallel)
	o.tracker.Event("dimensional reduction done",
		"duration", time.Since(start),
		"dept", len(q))

	// Right-hand side of the reduced system: y_i - y_n per data point.
	n := ds.NumRows()
	y := ds.Labels()
	b := matrix.NewDense(1, n-1)
	for i := 0; i < n-1; i++ {
		b.Set(0, i, y[i]-y[n-1])
	}

	start = time.Now()
	op, err := builder.Assemble(ds.Features(), q, qaCost, param.Cost, kp)
	if err != nil {
		return nil, fmt.Errorf("assembling kernel matrix on %s backend: %w", builder.Name(), err)
	}
	o.tracker.Event("kernel matrix assembled",
		"backend", builder.Name(),
		"duration", time.Since(start))

	m, err := precond.Build(param.Preconditioner, op)
	if err != nil {
		return nil, err
	}

	x, iter, err := solver.Solve(op, b, solver.Config{
		Epsilon:        param.Epsilon,
		MaxIter:        param.MaxIter,
		Preconditioner: m,
		Tracker:        o.tracker,
	})
	if err != nil {
		return nil, err
	}

	// Recover the full weight vector: alpha_i = x_i for i < n-1 and
	// alpha_n = -sum(x). The bias follows from the eliminated last row.
	alpha := matrix.NewDense(1, n)
	sum, qdot := 0.0, 0.0
	for i := 0; i < n-1; i++ {
		xi := x.At(0, i)
		alpha.Set(0, i, xi)
		sum += xi
		qdot += q[i] * xi
	}
	alpha.Set(0, n-1, -sum)
	bias := y[n-1] + qaCost*sum - qdot

	model := &Model{
		id:         uuid.New(),
		params:     param,
		data:       ds.Features().Clone(),
		alpha:      alpha,
		bias:       bias,
		classes:    ds.Classes(),
		iterations: iter,
	}
	if param.Kernel == kernel.Linear {
		model.w = linearWeights(model.data, alpha)
	}
	return model, nil
}

// linearWeights folds alpha into the data once so linear predictions are a
// single dot product per point.
func linearWeights(data, alpha *matrix.Dense) []float64 {
	w := make([]float64, data.Cols())
	for i := 0; i < data.Rows(); i++ {
		a := alpha.At(0, i)
		row := data.Row(i)
		for f, v := range row {
			w[f] += a * v
		}
	}
	return w
}
