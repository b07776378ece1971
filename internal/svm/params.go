package svm

import (
	"fmt"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/precond"
)

// Parameter enumerates every recognized training option with its default.
type Parameter struct {
	// Kernel selects the kernel function. Default: linear.
	Kernel kernel.Type
	// Degree of the polynomial kernel. Default: 3.
	Degree int
	// Gamma of the non-linear kernels. 0 resolves to 1/num_features at fit
	// time; any explicit value must be greater than 0.
	Gamma float64
	// Coef0 of the polynomial and sigmoid kernels. Default: 0.
	Coef0 float64
	// Cost is the regularization parameter C. Default: 1.
	Cost float64
	// Epsilon is the relative residual tolerance of the CG solver.
	// Default: 0.001.
	Epsilon float64
	// MaxIter bounds the CG iterations. 0 resolves to the number of data
	// points at fit time.
	MaxIter int
	// Preconditioner selects the CG preconditioner. Default: none.
	Preconditioner precond.Type
}

// DefaultParameter returns the documented defaults.
func DefaultParameter() Parameter {
	return Parameter{
		Kernel:  kernel.Linear,
		Degree:  3,
		Cost:    1.0,
		Epsilon: 0.001,
	}
}

// resolve fills the data-dependent defaults and validates the result.
func (p Parameter) resolve(numRows, numFeatures int) (Parameter, error) {
	if p.Gamma == 0 && p.Kernel != kernel.Linear {
		p.Gamma = 1.0 / float64(numFeatures)
	}
	if p.MaxIter == 0 {
		p.MaxIter = numRows
	}
	if err := p.kernelParams().Validate(); err != nil {
		return p, err
	}
	if p.Cost <= 0 {
		return p, fmt.Errorf("%w: cost must be greater than 0.0, but is %g", kernel.ErrInvalidParameter, p.Cost)
	}
	return p, nil
}

func (p Parameter) kernelParams() kernel.Params {
	return kernel.Params{
		Kernel: p.Kernel,
		Degree: p.Degree,
		Gamma:  p.Gamma,
		Coef0:  p.Coef0,
	}
}
