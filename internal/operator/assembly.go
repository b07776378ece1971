package operator

import (
	"fmt"

	"github.com/verge-ml/verge/internal/kernel"
	"github.com/verge-ml/verge/internal/matrix"
	"github.com/verge-ml/verge/internal/parallel"
)

// AssembleUpper explicitly assembles the reduced kernel matrix into a packed
// upper triangular view of order data.Rows()-1. Assembly is per-element
// parallel; only the upper half is computed, the lower follows by symmetry.
func AssembleUpper(data *matrix.Dense, q []float64, qaCost, cost float64, p kernel.Params, cfg parallel.Config) (matrix.View, error) {
	if err := p.Validate(); err != nil {
		return matrix.View{}, err
	}
	dept := data.Rows() - 1
	if len(q) != dept {
		return matrix.View{}, fmt.Errorf("operator: q length %d does not match reduced order %d", len(q), dept)
	}
	if cost == 0 {
		return matrix.View{}, fmt.Errorf("operator: cost must not be 0")
	}

	u := matrix.NewSquareView(matrix.Upper, make([]float64, dept*(dept+1)/2), dept)
	parallel.ForPairs(dept, dept, func(row, col int) {
		if row > col {
			return
		}
		temp := qaCost - q[row] - q[col] + kernel.FunctionRows(data, row, data, col, p)
		if row == col {
			temp += 1.0 / cost
		}
		u.Set(row, col, temp)
	}, cfg)
	return u, nil
}
