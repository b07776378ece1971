// Package kernel implements the kernel function evaluator shared by all
// compute backends: six kernel variants split into a per-feature reduction
// and a final scalar transform.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/verge-ml/verge/internal/matrix"
)

// ErrInvalidParameter reports a kernel or solver parameter that violates its
// precondition. It is raised before any solve work begins.
var ErrInvalidParameter = errors.New("invalid parameter")

// Type identifies a kernel function.
type Type int

// Supported kernel functions.
const (
	Linear     Type = iota // dot(a, b)
	Polynomial             // (gamma * dot(a, b) + coef0) ^ degree
	RBF                    // exp(-gamma * squared_euclidean(a, b))
	Sigmoid                // tanh(gamma * dot(a, b) + coef0)
	Laplacian              // exp(-gamma * manhattan(a, b))
	ChiSquared             // exp(-gamma * sum((a-b)^2 / (a+b)))
)

// String returns the kernel name.
func (t Type) String() string {
	switch t {
	case Linear:
		return "linear"
	case Polynomial:
		return "polynomial"
	case RBF:
		return "rbf"
	case Sigmoid:
		return "sigmoid"
	case Laplacian:
		return "laplacian"
	case ChiSquared:
		return "chi_squared"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Params bundles the kernel function parameters. Degree only applies to the
// polynomial kernel, coef0 to polynomial and sigmoid, gamma to everything
// but linear.
type Params struct {
	Kernel Type
	Degree int
	Gamma  float64
	Coef0  float64
}

// DefaultParams returns the parameter defaults: degree 3, coef0 0 and an
// unset gamma. Callers resolve gamma to 1/num_features before fitting.
func DefaultParams() Params {
	return Params{Kernel: Linear, Degree: 3}
}

// Validate checks the parameter preconditions. Gamma must be greater than
// zero for any kernel other than linear.
func (p Params) Validate() error {
	if p.Kernel < Linear || p.Kernel > ChiSquared {
		return fmt.Errorf("%w: unsupported kernel function %d", ErrInvalidParameter, int(p.Kernel))
	}
	if p.Kernel != Linear && p.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be greater than 0.0, but is %g", ErrInvalidParameter, p.Gamma)
	}
	return nil
}

// featureReduce accumulates one feature pair into the kernel-specific
// intermediate value.
func featureReduce(t Type, a, b float64) float64 {
	switch t {
	case RBF:
		d := a - b
		return d * d
	case Laplacian:
		return math.Abs(a - b)
	case ChiSquared:
		// A zero denominator marks a padding entry and contributes nothing.
		s := a + b
		if s == 0 {
			return 0
		}
		d := a - b
		return d * d / s
	default:
		return a * b
	}
}

// apply transforms the reduced value into the final kernel value.
func apply(value float64, p Params) float64 {
	switch p.Kernel {
	case Linear:
		return value
	case Polynomial:
		return math.Pow(p.Gamma*value+p.Coef0, float64(p.Degree))
	case RBF, Laplacian, ChiSquared:
		return math.Exp(-p.Gamma * value)
	case Sigmoid:
		return math.Tanh(p.Gamma*value + p.Coef0)
	default:
		panic(fmt.Sprintf("kernel: unsupported kernel function %q", p.Kernel))
	}
}

// Function computes the kernel value between two feature vectors.
// Params must have been validated.
func Function(a, b []float64, p Params) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("kernel: feature length mismatch %d vs %d", len(a), len(b)))
	}
	value := 0.0
	for i := range a {
		value += featureReduce(p.Kernel, a[i], b[i])
	}
	return apply(value, p)
}

// FunctionRows computes the kernel value between row i of A and row j of B.
func FunctionRows(a *matrix.Dense, i int, b *matrix.Dense, j int, p Params) float64 {
	return Function(a.Row(i), b.Row(j), p)
}
