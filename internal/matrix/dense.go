// Package matrix provides the dense blocks and packed triangular views used
// by the kernel-matrix operators and the conjugate gradient solver.
package matrix

import "fmt"

// Dense is a row-major rectangular block of float64 entries.
//
// A Dense may carry symmetric padding: extra rows and columns appended to
// each dimension so device backends can rely on aligned strides. Logical
// accessors (At, Set, Row) never expose the padding region; the padding
// entries are zero and stay zero unless a backend writes through Data.
//
// Ownership is exclusive to whichever component constructed the block.
// BLAS level-3 operations mutate it in place.
type Dense struct {
	rows, cols int
	pad        int // symmetric padding added to each dimension
	data       []float64
}

// NewDense creates a zeroed rows×cols block without padding.
func NewDense(rows, cols int) *Dense {
	return NewDensePadded(rows, cols, 0)
}

// NewDensePadded creates a zeroed rows×cols block with pad extra entries
// appended to each dimension.
func NewDensePadded(rows, cols, pad int) *Dense {
	if rows < 0 || cols < 0 || pad < 0 {
		panic(fmt.Sprintf("matrix: invalid dense shape %dx%d (pad %d)", rows, cols, pad))
	}
	return &Dense{
		rows: rows,
		cols: cols,
		pad:  pad,
		data: make([]float64, (rows+pad)*(cols+pad)),
	}
}

// Full creates a rows×cols block with every logical entry set to value.
func Full(rows, cols int, value float64) *Dense {
	m := NewDense(rows, cols)
	for i := range m.data {
		m.data[i] = value
	}
	return m
}

// FromSlice creates a rows×cols block from row-major data.
func FromSlice(data []float64, rows, cols int) (*Dense, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("matrix: slice length %d does not match shape %dx%d", len(data), rows, cols)
	}
	m := NewDense(rows, cols)
	copy(m.data, data)
	return m, nil
}

// FromRows copies a slice of equally sized rows into a new block. Rows must
// be non-empty and rectangular.
func FromRows(rows [][]float64) *Dense {
	if len(rows) == 0 || len(rows[0]) == 0 {
		panic("matrix: FromRows needs at least one non-empty row")
	}
	m := NewDense(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.cols {
			panic(fmt.Sprintf("matrix: row %d has %d entries, expected %d", i, len(row), m.cols))
		}
		copy(m.Row(i), row)
	}
	return m
}

// Rows returns the number of logical rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of logical columns.
func (m *Dense) Cols() int { return m.cols }

// Padding returns the symmetric padding size.
func (m *Dense) Padding() int { return m.pad }

// Stride returns the number of stored entries per row.
func (m *Dense) Stride() int { return m.cols + m.pad }

// Empty reports whether the block holds no logical entries.
func (m *Dense) Empty() bool { return m == nil || m.rows == 0 || m.cols == 0 }

// At returns the entry at (row, col).
func (m *Dense) At(row, col int) float64 {
	return m.data[row*m.Stride()+col]
}

// Set stores value at (row, col).
func (m *Dense) Set(row, col int, value float64) {
	m.data[row*m.Stride()+col] = value
}

// Row returns the logical row as a slice sharing the block's memory.
func (m *Dense) Row(row int) []float64 {
	start := row * m.Stride()
	return m.data[start : start+m.cols]
}

// Data returns the underlying storage including any padding region.
// Backends use it for bulk transfer; the padding entries must stay zero.
func (m *Dense) Data() []float64 { return m.data }

// Clone returns a deep copy with the same shape and padding.
func (m *Dense) Clone() *Dense {
	out := NewDensePadded(m.rows, m.cols, m.pad)
	copy(out.data, m.data)
	return out
}

// CloneShape returns a zeroed block with the same shape and padding.
func (m *Dense) CloneShape() *Dense {
	return NewDensePadded(m.rows, m.cols, m.pad)
}

// AddInPlace adds other to m entry-wise. Shapes must match.
func (m *Dense) AddInPlace(other *Dense) {
	m.checkSameShape("add", other)
	for r := 0; r < m.rows; r++ {
		row, orow := m.Row(r), other.Row(r)
		for c := range row {
			row[c] += orow[c]
		}
	}
}

// SubInPlace subtracts other from m entry-wise. Shapes must match.
func (m *Dense) SubInPlace(other *Dense) {
	m.checkSameShape("sub", other)
	for r := 0; r < m.rows; r++ {
		row, orow := m.Row(r), other.Row(r)
		for c := range row {
			row[c] -= orow[c]
		}
	}
}

// CopyFrom overwrites the logical entries of m with those of other.
func (m *Dense) CopyFrom(other *Dense) {
	m.checkSameShape("copy", other)
	for r := 0; r < m.rows; r++ {
		copy(m.Row(r), other.Row(r))
	}
}

func (m *Dense) checkSameShape(op string, other *Dense) {
	if m.rows != other.rows || m.cols != other.cols {
		panic(fmt.Sprintf("matrix: %s shape mismatch %dx%d vs %dx%d", op, m.rows, m.cols, other.rows, other.cols))
	}
}
