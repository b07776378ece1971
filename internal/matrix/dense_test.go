package matrix

import "testing"

func TestDenseAccessors(t *testing.T) {
	m := NewDense(2, 3)
	m.Set(0, 0, 1)
	m.Set(1, 2, 5)

	if got := m.At(0, 0); got != 1 {
		t.Errorf("At(0,0) = %g, want 1", got)
	}
	if got := m.At(1, 2); got != 5 {
		t.Errorf("At(1,2) = %g, want 5", got)
	}
	if got := m.At(0, 1); got != 0 {
		t.Errorf("At(0,1) = %g, want 0", got)
	}
}

func TestDensePaddedStride(t *testing.T) {
	m := NewDensePadded(2, 3, 2)
	if m.Stride() != 5 {
		t.Fatalf("stride = %d, want 5", m.Stride())
	}
	m.Set(1, 0, 7)
	if m.Data()[5] != 7 {
		t.Errorf("padded row 1 starts at offset 5, got data %v", m.Data())
	}
	if len(m.Row(1)) != 3 {
		t.Errorf("Row returns logical width, got %d", len(m.Row(1)))
	}
}

func TestFromRows(t *testing.T) {
	m := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	if m.Rows() != 3 || m.Cols() != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", m.Rows(), m.Cols())
	}
	if m.At(2, 1) != 6 {
		t.Errorf("At(2,1) = %g, want 6", m.At(2, 1))
	}
}

func TestFromSliceShapeMismatch(t *testing.T) {
	if _, err := FromSlice([]float64{1, 2, 3}, 2, 2); err == nil {
		t.Error("expected error for mismatched slice length")
	}
}

func TestAddSubInPlace(t *testing.T) {
	a := FromRows([][]float64{{1, 2}, {3, 4}})
	b := FromRows([][]float64{{10, 20}, {30, 40}})

	a.AddInPlace(b)
	if a.At(1, 1) != 44 {
		t.Errorf("after add At(1,1) = %g, want 44", a.At(1, 1))
	}
	a.SubInPlace(b)
	if a.At(1, 1) != 4 {
		t.Errorf("after sub At(1,1) = %g, want 4", a.At(1, 1))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := Full(2, 2, 3)
	c := a.Clone()
	c.Set(0, 0, -1)
	if a.At(0, 0) != 3 {
		t.Errorf("clone mutation leaked into the original")
	}
}

func TestShapeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on shape mismatch")
		}
	}()
	NewDense(2, 2).AddInPlace(NewDense(2, 3))
}
