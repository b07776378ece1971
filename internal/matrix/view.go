package matrix

import "fmt"

// Kind selects the storage interpretation of a View.
type Kind int

// View storage kinds.
const (
	// General is a full rows×cols matrix stored row-major.
	General Kind = iota
	// Lower is a lower triangular matrix stored packed row-major.
	Lower
	// Upper is an upper triangular matrix stored packed row-major.
	Upper
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case General:
		return "general"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return "unknown"
	}
}

// View is a lightweight, non-owning 2-dimensional wrapper over a raw buffer.
//
// Triangular kinds store only the n(n+1)/2 elements of the valid half; the
// index mapping accounts for the packing and for an optional per-row padding
// used by device layouts. Accessing (row, col) outside the valid half of a
// triangular view is undefined. Views never own the underlying buffer.
type View struct {
	kind    Kind
	data    []float64
	rows    int
	cols    int
	padding int
}

// NewView wraps data as a rows×cols view with per-row padding.
func NewView(kind Kind, data []float64, rows, cols, padding int) View {
	return View{kind: kind, data: data, rows: rows, cols: cols, padding: padding}
}

// NewSquareView wraps data as an order×order view without padding.
func NewSquareView(kind Kind, data []float64, order int) View {
	return NewView(kind, data, order, order, 0)
}

// ZerosLike allocates a fresh zeroed buffer with the same shape as v.
func ZerosLike(v View) View {
	return View{kind: v.kind, data: make([]float64, len(v.data)), rows: v.rows, cols: v.cols, padding: v.padding}
}

// Kind returns the storage interpretation.
func (v View) Kind() Kind { return v.kind }

// Rows returns the number of rows.
func (v View) Rows() int { return v.rows }

// Cols returns the number of columns.
func (v View) Cols() int { return v.cols }

// Padding returns the per-row padding.
func (v View) Padding() int { return v.padding }

// Data returns the wrapped buffer.
func (v View) Data() []float64 { return v.data }

// Size returns the number of stored elements: rows*cols for general views,
// n(n+1)/2 for triangular ones.
func (v View) Size() int {
	if v.kind == General {
		return v.rows * v.cols
	}
	return v.rows * (v.rows + 1) / 2
}

func (v View) index(row, col int) int {
	switch v.kind {
	case Lower:
		return row*(row+1)/2 + col + v.padding*row
	case Upper:
		return row*(2*v.rows-row+1)/2 + (col - row) + v.padding*row
	default:
		return row*v.cols + col + v.padding*row
	}
}

// At returns the element at (row, col).
func (v View) At(row, col int) float64 {
	return v.data[v.index(row, col)]
}

// Set stores value at (row, col).
func (v View) Set(row, col int, value float64) {
	v.data[v.index(row, col)] = value
}

// SymmetricAt returns the element of the symmetric matrix represented by a
// triangular view, for any (row, col) of the full square.
func (v View) SymmetricAt(row, col int) float64 {
	switch v.kind {
	case Upper:
		if row > col {
			row, col = col, row
		}
	case Lower:
		if row < col {
			row, col = col, row
		}
	default:
		panic(fmt.Sprintf("matrix: symmetric access on %s view", v.kind))
	}
	return v.At(row, col)
}

// Transpose copies a triangular view into a fresh buffer of the opposite
// orientation: an upper view becomes lower and vice versa.
func (v View) Transpose() View {
	var out View
	switch v.kind {
	case Upper:
		out = View{kind: Lower, data: make([]float64, v.Size()), rows: v.rows, cols: v.cols}
		for row := 0; row < v.rows; row++ {
			for col := row; col < v.rows; col++ {
				out.Set(col, row, v.At(row, col))
			}
		}
	case Lower:
		out = View{kind: Upper, data: make([]float64, v.Size()), rows: v.rows, cols: v.cols}
		for row := 0; row < v.rows; row++ {
			for col := 0; col <= row; col++ {
				out.Set(col, row, v.At(row, col))
			}
		}
	default:
		panic("matrix: transpose is only defined for triangular views")
	}
	return out
}

// Diagonal copies the main diagonal of a triangular view.
func (v View) Diagonal() []float64 {
	if v.kind == General {
		panic("matrix: diagonal extraction requires a triangular view")
	}
	diag := make([]float64, v.rows)
	for i := range diag {
		diag[i] = v.At(i, i)
	}
	return diag
}
