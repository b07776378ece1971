// Package linalg implements the triangular-solve and Cholesky primitives
// behind the Cholesky preconditioner, plus the row-wise reductions used by
// the conjugate gradient solver.
package linalg

import (
	"fmt"
	"math"

	"github.com/verge-ml/verge/internal/matrix"
)

// TRSM solves A * X = B for X with multiple right-hand sides, where A is a
// triangular view of order n and B, X are n×k blocks. A lower view performs
// a forward solve, an upper view a backward solve.
func TRSM(a matrix.View, b, x *matrix.Dense) {
	if b.Rows() != x.Rows() || b.Cols() != x.Cols() {
		panic(fmt.Sprintf("linalg: trsm shape mismatch %dx%d vs %dx%d", b.Rows(), b.Cols(), x.Rows(), x.Cols()))
	}
	n, k := b.Rows(), b.Cols()

	switch a.Kind() {
	case matrix.Lower:
		for col := 0; col < k; col++ {
			for row := 0; row < n; row++ {
				dot := 0.0
				for i := 0; i < row; i++ {
					dot += a.At(row, i) * x.At(i, col)
				}
				x.Set(row, col, (b.At(row, col)-dot)/a.At(row, row))
			}
		}
	case matrix.Upper:
		for col := 0; col < k; col++ {
			for row := 0; row < n; row++ {
				r := n - 1 - row // start from the last row
				dot := 0.0
				for i := r + 1; i < n; i++ {
					dot += a.At(r, i) * x.At(i, col)
				}
				x.Set(r, col, (b.At(r, col)-dot)/a.At(r, r))
			}
		}
	default:
		panic("linalg: trsm requires a triangular view")
	}
}

// DirectCholesky computes the factorization A = Uᵀ * U element-wise, where A
// is a symmetric positive definite matrix stored as an upper triangular view
// and U is the resulting upper triangular factor.
//
// A non-positive-definite input produces NaN entries (negative square root);
// callers must check the factor before using it.
func DirectCholesky(a, u matrix.View) {
	n := a.Rows()
	for row := 0; row < n; row++ {
		for col := row; col < n; col++ {
			sum := 0.0
			for k := 0; k < row; k++ {
				sum += u.At(k, row) * u.At(k, col)
			}
			if row == col {
				u.Set(row, col, math.Sqrt(a.At(row, row)-sum))
			} else {
				u.Set(row, col, (a.At(row, col)-sum)/u.At(row, row))
			}
		}
	}
}

// RowwiseDot computes the per-row dot product of two equally shaped blocks:
// out[i] = dot(a_i, b_i).
func RowwiseDot(a, b *matrix.Dense) []float64 {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		panic(fmt.Sprintf("linalg: rowwise dot shape mismatch %dx%d vs %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols()))
	}
	out := make([]float64, a.Rows())
	for r := range out {
		arow, brow := a.Row(r), b.Row(r)
		sum := 0.0
		for c := range arow {
			sum += arow[c] * brow[c]
		}
		out[r] = sum
	}
	return out
}

// RowwiseScale returns a fresh block with each row of m multiplied by the
// corresponding scalar: out_i = s[i] * m_i.
func RowwiseScale(s []float64, m *matrix.Dense) *matrix.Dense {
	if len(s) != m.Rows() {
		panic(fmt.Sprintf("linalg: rowwise scale length mismatch %d vs %d rows", len(s), m.Rows()))
	}
	out := m.CloneShape()
	for r := 0; r < m.Rows(); r++ {
		row, orow := m.Row(r), out.Row(r)
		for c := range row {
			orow[c] = s[r] * row[c]
		}
	}
	return out
}

// MaskedRowwiseScale behaves like RowwiseScale but leaves rows whose mask
// entry is 0 zeroed: out_i = mask[i] * s[i] * m_i.
func MaskedRowwiseScale(mask []int, s []float64, m *matrix.Dense) *matrix.Dense {
	if len(mask) != m.Rows() || len(s) != m.Rows() {
		panic(fmt.Sprintf("linalg: masked rowwise scale length mismatch %d/%d vs %d rows", len(mask), len(s), m.Rows()))
	}
	out := m.CloneShape()
	for r := 0; r < m.Rows(); r++ {
		if mask[r] == 0 {
			continue
		}
		row, orow := m.Row(r), out.Row(r)
		for c := range row {
			orow[c] = s[r] * row[c]
		}
	}
	return out
}
