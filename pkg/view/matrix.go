package view

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds reports a coordinate or flat index outside a grid's fixed
// shape. All grid access in this package is bounds-checked; coordinates are
// never clamped silently.
var ErrOutOfBounds = errors.New("view: coordinate out of bounds")

// Matrix is a fixed-shape 2-D grid of Button cells. The shape is set at
// construction and never changes; every coordinate always holds exactly one
// cell (the zero Button when unset). Flat indices are row-major:
// i = y*cols + x.
type Matrix struct {
	cols, rows int
	cells      []Button
}

// NewMatrix creates a matrix of empty cells. Dimensions are a build-time
// property of the application; non-positive values are a programming error
// and panic.
func NewMatrix(cols, rows int) Matrix {
	if cols <= 0 || rows <= 0 {
		panic(fmt.Sprintf("view: matrix dimensions must be positive, got %dx%d", cols, rows))
	}
	return Matrix{
		cols:  cols,
		rows:  rows,
		cells: make([]Button, cols*rows),
	}
}

// Width returns the number of columns.
func (m *Matrix) Width() int { return m.cols }

// Height returns the number of rows.
func (m *Matrix) Height() int { return m.rows }

// Size returns the total number of cells.
func (m *Matrix) Size() int { return m.cols * m.rows }

// Get returns the cell at (x, y).
func (m *Matrix) Get(x, y int) (Button, error) {
	if err := m.check(x, y); err != nil {
		return Button{}, err
	}
	return m.cells[y*m.cols+x], nil
}

// Set replaces the cell at (x, y).
func (m *Matrix) Set(x, y int, b Button) error {
	if err := m.check(x, y); err != nil {
		return err
	}
	m.cells[y*m.cols+x] = b
	return nil
}

// GetIndex returns the cell at the flat index i = y*cols + x.
func (m *Matrix) GetIndex(i int) (Button, error) {
	if i < 0 || i >= len(m.cells) {
		return Button{}, fmt.Errorf("%w: index %d (size %d)", ErrOutOfBounds, i, len(m.cells))
	}
	return m.cells[i], nil
}

// SetIndex replaces the cell at the flat index i = y*cols + x.
func (m *Matrix) SetIndex(i int, b Button) error {
	if i < 0 || i >= len(m.cells) {
		return fmt.Errorf("%w: index %d (size %d)", ErrOutOfBounds, i, len(m.cells))
	}
	m.cells[i] = b
	return nil
}

// check validates a coordinate pair against the fixed shape.
func (m *Matrix) check(x, y int) error {
	if x < 0 || x >= m.cols || y < 0 || y >= m.rows {
		return fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrOutOfBounds, x, y, m.cols, m.rows)
	}
	return nil
}
