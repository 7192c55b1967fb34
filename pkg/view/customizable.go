package view

import (
	"context"
	"fmt"
)

// cell is one occupied slot of a CustomizableView: either a navigation link
// (entry + static display) or a widget. Exactly one of entry/widget is set.
type cell[C any] struct {
	entry  Entry[C]
	button Button

	widget Widget[C]
}

// CustomizableView is a sparse fixed-shape screen assembled cell by cell.
// Coordinates are validated at assignment time, not at render time;
// unoccupied cells render as empty Buttons.
//
// Views are assembled before being handed to the manager and are not safe
// for concurrent mutation afterwards.
type CustomizableView[C any] struct {
	cols, rows int
	cells      []*cell[C]
}

// NewCustomizable creates an empty cols x rows view.
func NewCustomizable[C any](cols, rows int) *CustomizableView[C] {
	if cols <= 0 || rows <= 0 {
		panic(fmt.Sprintf("view: view dimensions must be positive, got %dx%d", cols, rows))
	}
	return &CustomizableView[C]{
		cols:  cols,
		rows:  rows,
		cells: make([]*cell[C], cols*rows),
	}
}

// SetWidget places a widget at (x, y), replacing any previous occupant. The
// view takes exclusive ownership of the widget.
func (v *CustomizableView[C]) SetWidget(x, y int, w Widget[C]) error {
	if err := v.check(x, y); err != nil {
		return err
	}
	v.cells[y*v.cols+x] = &cell[C]{widget: w}
	return nil
}

// SetNavigation places a navigation link at (x, y): clicking the cell
// requests a switch to entry, and b is its static display.
func (v *CustomizableView[C]) SetNavigation(x, y int, entry Entry[C], b Button) error {
	if err := v.check(x, y); err != nil {
		return err
	}
	v.cells[y*v.cols+x] = &cell[C]{entry: entry, button: b}
	return nil
}

// Remove clears the cell at (x, y).
func (v *CustomizableView[C]) Remove(x, y int) error {
	if err := v.check(x, y); err != nil {
		return err
	}
	v.cells[y*v.cols+x] = nil
	return nil
}

func (v *CustomizableView[C]) check(x, y int) error {
	if x < 0 || x >= v.cols || y < 0 || y >= v.rows {
		return fmt.Errorf("%w: (%d,%d) in %dx%d view", ErrOutOfBounds, x, y, v.cols, v.rows)
	}
	return nil
}

// Render snapshots the view into a Matrix. Navigation cells contribute their
// static display, widgets their current State; no widget I/O happens here.
func (v *CustomizableView[C]) Render() (Matrix, error) {
	m := NewMatrix(v.cols, v.rows)
	for x := 0; x < v.cols; x++ {
		for y := 0; y < v.rows; y++ {
			c := v.cells[y*v.cols+x]
			if c == nil {
				continue
			}
			b := c.button
			if c.widget != nil {
				b = c.widget.State()
			}
			if err := m.Set(x, y, b); err != nil {
				return Matrix{}, err
			}
		}
	}
	return m, nil
}

// FetchAll refreshes every widget in column-major order (x outer, y inner),
// skipping navigation cells. The scan aborts on the first error.
func (v *CustomizableView[C]) FetchAll(ctx context.Context, app C) error {
	for x := 0; x < v.cols; x++ {
		for y := 0; y < v.rows; y++ {
			c := v.cells[y*v.cols+x]
			if c == nil || c.widget == nil {
				continue
			}
			if err := c.widget.Fetch(ctx, app); err != nil {
				return fmt.Errorf("view: fetch widget (%d,%d): %w", x, y, err)
			}
		}
	}
	return nil
}

// HandleClick routes a button release at a flat index. Navigation cells send
// their entry on nav (blocking until the event loop drains the channel or
// ctx is canceled); widget cells invoke Click; empty cells do nothing.
func (v *CustomizableView[C]) HandleClick(ctx context.Context, app C, index int, nav chan<- Entry[C]) error {
	if index < 0 || index >= v.cols*v.rows {
		return fmt.Errorf("%w: index %d (size %d)", ErrOutOfBounds, index, v.cols*v.rows)
	}
	c := v.cells[index]
	if c == nil {
		return nil
	}
	if c.widget != nil {
		return c.widget.Click(ctx, app)
	}
	select {
	case nav <- c.entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
