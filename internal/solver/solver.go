// Package solver implements the preconditioned conjugate gradient solver
// driving convergence over multiple right-hand sides simultaneously, with
// per-rhs convergence masking, periodic residual recomputation and
// iteration-time instrumentation.
package solver

import (
	"fmt"
	"time"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/linalg"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/operator"
	"github.com/verge-ml/verge/internal/precond"
)

// residualRefreshInterval is the number of incremental residual updates
// between exact recomputations of R = B - A*X, purging accumulated
// floating point drift.
const residualRefreshInterval = 50

// Config bundles the solver options.
type Config struct {
	// Epsilon is the relative residual tolerance: a right-hand side is
	// converged once its residual energy drops to Epsilon² times its
	// initial residual energy. Must be greater than 0.
	Epsilon float64
	// MaxIter bounds the number of CG iterations. Must be greater than 0.
	MaxIter int
	// Preconditioner is applied to the residual each iteration.
	// Nil means unpreconditioned CG.
	Preconditioner precond.Preconditioner
	// Tracker receives solver telemetry. Nil means no telemetry.
	Tracker Tracker
}

func (c Config) validate(b *matrix.Dense) error {
	if b.Empty() {
		return fmt.Errorf("%w: the right-hand sides must not be empty", kernel.ErrInvalidParameter)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be greater than 0.0, but is %g", kernel.ErrInvalidParameter, c.Epsilon)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("%w: the maximum number of iterations must be greater than 0, but is %d", kernel.ErrInvalidParameter, c.MaxIter)
	}
	return nil
}

// ConvergedMask computes the per-rhs update mask from a delta snapshot:
// 0 if the right-hand side has converged, 1 otherwise.
func ConvergedMask(delta, delta0 []float64, eps float64) []int {
	mask := make([]int, len(delta))
	for i := range mask {
		if delta[i] <= eps*eps*delta0[i] {
			mask[i] = 0
		} else {
			mask[i] = 1
		}
	}
	return mask
}

// NumConverged counts the right-hand sides whose residual energy has
// reached the convergence target.
func NumConverged(delta, delta0 []float64, eps float64) int {
	n := 0
	for i := range delta {
		if delta[i] <= eps*eps*delta0[i] {
			n++
		}
	}
	return n
}

// worstRHS returns the index of the rhs with the largest positive gap
// delta[i] - eps²*delta0[i]. The scan compares with strict > against a
// running max of 0.0, so index 0 is reported when no gap is positive.
func worstRHS(delta, delta0 []float64, eps float64) int {
	maxDifference := 0.0
	idx := 0
	for i := range delta {
		difference := delta[i] - eps*eps*delta0[i]
		if difference > maxDifference {
			idx = i
		}
	}
	return idx
}

// zeroResidualRows clears the mask for every still-active rhs whose
// residual row is exactly the zero vector: such a rhs cannot update X.
func zeroResidualRows(mask []int, r *matrix.Dense) {
	for row := 0; row < r.Rows(); row++ {
		if mask[row] != 1 {
			continue
		}
		isResidualZero := true
		for _, v := range r.Row(row) {
			if v != 0.0 {
				isResidualZero = false
				break
			}
		}
		if isResidualZero {
			mask[row] = 0
		}
	}
}

// vecDiv divides two per-rhs scalar sequences element-wise.
func vecDiv(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i] / b[i]
	}
	return out
}

// Solve runs preconditioned conjugate gradients on A*X = B, where A is the
// symmetric kernel-matrix operator and B holds one right-hand side per row.
//
// It returns the solution block and the number of iterations performed.
// Exhausting MaxIter without full convergence is not an error: the caller
// receives the best-effort X and must treat the iteration count as a
// quality signal.
func Solve(a operator.Operator, b *matrix.Dense, cfg Config) (*matrix.Dense, int, error) {
	if err := cfg.validate(b); err != nil {
		return nil, 0, err
	}
	tracker := cfg.Tracker
	if tracker == nil {
		tracker = NopTracker{}
	}
	m := cfg.Preconditioner
	eps := cfg.Epsilon

	numRows := b.Cols()
	numRHS := b.Rows()

	var totalIterationTime time.Duration
	var totalBLASLevel3Time time.Duration

	x := matrix.Full(numRHS, numRows, 1.0)

	// R = B - A * X
	r := b.Clone()
	dur, err := operator.Run(a, -1.0, x, 1.0, r)
	totalBLASLevel3Time += dur
	if err != nil {
		return nil, 0, err
	}

	// if M: D = M * R
	// else: D = R
	d := r.Clone()
	if m != nil {
		dur, err = applyTimed(m, r, d)
		totalBLASLevel3Time += dur
		if err != nil {
			return nil, 0, err
		}
	}

	// delta = R.T * D; delta0 is the frozen convergence reference.
	delta := linalg.RowwiseDot(r, d)
	delta0 := append([]float64(nil), delta...)

	iter := 0
	for iter < cfg.MaxIter && NumConverged(delta, delta0, eps) < numRHS {
		if tracker.Verbose() {
			worst := worstRHS(delta, delta0, eps)
			tracker.Event("cg iteration",
				"iteration", iter+1,
				"max_iterations", cfg.MaxIter,
				"num_converged_rhs", NumConverged(delta, delta0, eps),
				"num_rhs", numRHS,
				"max_residual", delta[worst],
				"target_residual", eps*eps*delta0[worst],
				"rhs", worst)
		}
		iterationStart := time.Now()

		// Q = A * D
		q := matrix.NewDense(numRHS, numRows)
		dur, err = operator.Run(a, 1.0, d, 0.0, q)
		totalBLASLevel3Time += dur
		if err != nil {
			return nil, iter, err
		}

		// alpha = delta / (D.T * Q)
		alpha := vecDiv(delta, linalg.RowwiseDot(d, q))

		// Only update X for right-hand sides that did not converge yet and
		// whose residual is not already exactly zero. The mask must come
		// from the same delta snapshot used for alpha.
		mask := ConvergedMask(delta, delta0, eps)
		zeroResidualRows(mask, r)

		// X = X + alpha * D
		x.AddInPlace(linalg.MaskedRowwiseScale(mask, alpha, d))

		if iter%residualRefreshInterval == residualRefreshInterval-1 {
			// Explicitly recalculate the residual to remove accumulated
			// floating point errors: R = B - A * X.
			r = b.Clone()
			dur, err = operator.Run(a, -1.0, x, 1.0, r)
			totalBLASLevel3Time += dur
			if err != nil {
				return nil, iter, err
			}
		} else {
			// R = R - alpha * Q
			r.SubInPlace(linalg.RowwiseScale(alpha, q))
		}

		deltaOld := delta

		// if M: delta = R.T * S, where S = M * R
		// else: delta = R.T * R
		s := r
		if m != nil {
			s = d.CloneShape()
			dur, err = applyTimed(m, r, s)
			totalBLASLevel3Time += dur
			if err != nil {
				return nil, iter, err
			}
		}
		delta = linalg.RowwiseDot(r, s)

		// beta = delta / delta_old
		beta := vecDiv(delta, deltaOld)

		// D = beta * D + S (S aliases R when unpreconditioned)
		next := linalg.RowwiseScale(beta, d)
		next.AddInPlace(s)
		d = next

		iterationDuration := time.Since(iterationStart)
		if tracker.Verbose() {
			tracker.Event("cg iteration done", "duration", iterationDuration)
		}
		totalIterationTime += iterationDuration

		iter++
	}

	worst := worstRHS(delta, delta0, eps)
	targets := make([]float64, len(delta0))
	for i, d0 := range delta0 {
		targets[i] = eps * eps * d0
	}
	tracker.Event("cg finished",
		"iterations", iter,
		"max_iterations", cfg.MaxIter,
		"num_converged_rhs", NumConverged(delta, delta0, eps),
		"num_rhs", numRHS,
		"max_residual", delta[worst],
		"target_residual", targets[worst],
		"rhs", worst,
		"avg_iteration_time", totalIterationTime/time.Duration(max(iter, 1)),
		"avg_blas_level_3_time", totalBLASLevel3Time/time.Duration(1+iter+iter/residualRefreshInterval),
		"residuals", delta,
		"target_residuals", targets,
		"epsilon", eps)
	tracker.Event("optimization finished", "iterations", iter)

	return x, iter, nil
}

// applyTimed wraps one preconditioner application with the same wall-clock
// accounting as the BLAS level-3 calls.
func applyTimed(m precond.Preconditioner, r, s *matrix.Dense) (time.Duration, error) {
	start := time.Now()
	err := m.Apply(r, s)
	return time.Since(start), err
}
