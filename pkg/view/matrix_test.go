package view

import (
	"errors"
	"testing"
)

func TestMatrixSetGetRoundTrip(t *testing.T) {
	m := NewMatrix(5, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			b := NewButton("cell").WithState(StateActive)
			if err := m.Set(x, y, b); err != nil {
				t.Fatalf("Set(%d,%d): %v", x, y, err)
			}
			got, err := m.Get(x, y)
			if err != nil {
				t.Fatalf("Get(%d,%d): %v", x, y, err)
			}
			if got.Text != "cell" || got.State != StateActive {
				t.Errorf("expected set cell back at (%d,%d), got %+v", x, y, got)
			}
		}
	}
}

func TestMatrixBoundsErrors(t *testing.T) {
	m := NewMatrix(5, 3)
	cases := []struct{ x, y int }{
		{5, 0}, {0, 3}, {5, 3}, {-1, 0}, {0, -1}, {100, 100},
	}
	for _, c := range cases {
		if err := m.Set(c.x, c.y, Button{}); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%d,%d): expected ErrOutOfBounds, got %v", c.x, c.y, err)
		}
		if _, err := m.Get(c.x, c.y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Get(%d,%d): expected ErrOutOfBounds, got %v", c.x, c.y, err)
		}
	}
}

func TestMatrixIndexBounds(t *testing.T) {
	m := NewMatrix(5, 3)
	for _, i := range []int{-1, 15, 1000} {
		if err := m.SetIndex(i, Button{}); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetIndex(%d): expected ErrOutOfBounds, got %v", i, err)
		}
		if _, err := m.GetIndex(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("GetIndex(%d): expected ErrOutOfBounds, got %v", i, err)
		}
	}
}

func TestMatrixIndexCoordinateRoundTrip(t *testing.T) {
	m := NewMatrix(5, 3)
	for i := 0; i < m.Size(); i++ {
		x, y := i%m.Width(), i/m.Width()
		if y*m.Width()+x != i {
			t.Fatalf("coordinate round-trip broken for index %d", i)
		}
		if err := m.SetIndex(i, NewButton("i")); err != nil {
			t.Fatalf("SetIndex(%d): %v", i, err)
		}
		got, err := m.Get(x, y)
		if err != nil {
			t.Fatalf("Get(%d,%d): %v", x, y, err)
		}
		if got.Text != "i" {
			t.Errorf("expected flat index %d to address (%d,%d)", i, x, y)
		}
	}
}

func TestMatrixShapeQueries(t *testing.T) {
	m := NewMatrix(5, 3)
	if m.Width() != 5 || m.Height() != 3 || m.Size() != 15 {
		t.Errorf("expected 5x3 (15), got %dx%d (%d)", m.Width(), m.Height(), m.Size())
	}
}

func TestNewMatrixPanicsOnBadShape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-positive dimensions")
		}
	}()
	NewMatrix(0, 3)
}
