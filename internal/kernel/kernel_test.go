package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionValues(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}

	tests := []struct {
		name   string
		params Params
		want   float64
	}{
		{
			name:   "linear",
			params: Params{Kernel: Linear},
			want:   32.0,
		},
		{
			name:   "polynomial",
			params: Params{Kernel: Polynomial, Degree: 2, Gamma: 0.5, Coef0: 1},
			want:   289.0, // (0.5*32 + 1)^2
		},
		{
			name:   "rbf",
			params: Params{Kernel: RBF, Gamma: 0.1},
			want:   math.Exp(-0.1 * 27.0),
		},
		{
			name:   "sigmoid",
			params: Params{Kernel: Sigmoid, Gamma: 0.1, Coef0: -1},
			want:   math.Tanh(0.1*32.0 - 1),
		},
		{
			name:   "laplacian",
			params: Params{Kernel: Laplacian, Gamma: 0.2},
			want:   math.Exp(-0.2 * 9.0),
		},
		{
			name:   "chi_squared",
			params: Params{Kernel: ChiSquared, Gamma: 1},
			want:   math.Exp(-(9.0/5.0 + 9.0/7.0 + 1.0)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.params.Validate())
			assert.InDelta(t, tt.want, Function(a, b, tt.params), 1e-12)
		})
	}
}

func TestFunctionIsSymmetric(t *testing.T) {
	a := []float64{0.5, -1.25, 2}
	b := []float64{3, 0.75, -0.5}
	for kt := Linear; kt <= ChiSquared; kt++ {
		p := Params{Kernel: kt, Degree: 3, Gamma: 0.7, Coef0: 0.1}
		assert.InDelta(t, Function(a, b, p), Function(b, a, p), 1e-12, "kernel %s", kt)
	}
}

func TestChiSquaredZeroDenominator(t *testing.T) {
	// A feature pair summing to zero contributes nothing instead of NaN.
	a := []float64{0, 1}
	b := []float64{0, 3}
	p := Params{Kernel: ChiSquared, Gamma: 1}

	got := Function(a, b, p)
	require.False(t, math.IsNaN(got))
	assert.InDelta(t, math.Exp(-(4.0 / 4.0)), got, 1e-12)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Params{Kernel: Linear}.Validate())
	assert.NoError(t, Params{Kernel: RBF, Gamma: 0.5}.Validate())

	assert.ErrorIs(t, Params{Kernel: RBF}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, Params{Kernel: RBF, Gamma: -1}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, Params{Kernel: Type(42)}.Validate(), ErrInvalidParameter)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "linear", Linear.String())
	assert.Equal(t, "chi_squared", ChiSquared.String())
	assert.Equal(t, "unknown(42)", Type(42).String())
}
