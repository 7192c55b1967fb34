package view

import (
	"context"
	"sync/atomic"
)

// Widget is the capability contract for one interactive grid cell.
// ToggleButton and ClickButton cover the common cases; applications supply
// their own implementations for anything richer.
type Widget[C any] interface {
	// State returns the cell to display right now. It is called on every
	// render pass and must be cheap, synchronous, and infallible.
	State() Button

	// Fetch refreshes internal state from the application context or the
	// external world.
	Fetch(ctx context.Context, app C) error

	// Click performs the widget's effect in response to a button release.
	Click(ctx context.Context, app C) error
}

// FetchFunc reads the current boolean value a toggle mirrors.
type FetchFunc[C any] func(ctx context.Context, app C) (bool, error)

// PushFunc writes a new boolean value for a toggle.
type PushFunc[C any] func(ctx context.Context, app C, active bool) error

// ActionFunc performs a click button's effect.
type ActionFunc[C any] func(ctx context.Context, app C) error

// ToggleButton is a stateful two-display widget mirroring a remote boolean.
// The active flag is the only widget state mutated outside the event loop's
// direct control path (State may observe it while Fetch or Click is in
// flight), so it is an atomic with last-writer-wins semantics.
type ToggleButton[C any] struct {
	fetch FetchFunc[C]
	push  PushFunc[C]

	inactive Button
	active   Button

	on atomic.Bool
}

// NewToggle builds a toggle widget. b is the inactive display; the active
// display defaults to the same cell in the Active visual state and can be
// replaced with WhenActive. fetch reads the current value, push writes a new
// one.
func NewToggle[C any](b Button, fetch FetchFunc[C], push PushFunc[C]) *ToggleButton[C] {
	return &ToggleButton[C]{
		fetch:    fetch,
		push:     push,
		inactive: b,
		active:   b.WithState(StateActive),
	}
}

// WhenActive replaces the display used while the toggle is on. The cell is
// forced into the Active visual state.
func (t *ToggleButton[C]) WhenActive(b Button) *ToggleButton[C] {
	t.active = b.WithState(StateActive)
	return t
}

// State returns the active or inactive display depending on the flag.
func (t *ToggleButton[C]) State() Button {
	if t.on.Load() {
		return t.active
	}
	return t.inactive
}

// Fetch overwrites the flag with the fetch callback's result. A concurrent
// Click that flipped the flag meanwhile is overwritten: last writer wins,
// no merge. On callback error the flag is left untouched.
func (t *ToggleButton[C]) Fetch(ctx context.Context, app C) error {
	v, err := t.fetch(ctx, app)
	if err != nil {
		return err
	}
	t.on.Store(v)
	return nil
}

// Click pushes the negated flag and stores the negation only after the push
// succeeds. On push failure the visible state is unchanged and the error
// propagates to the caller.
func (t *ToggleButton[C]) Click(ctx context.Context, app C) error {
	next := !t.on.Load()
	if err := t.push(ctx, app, next); err != nil {
		return err
	}
	t.on.Store(next)
	return nil
}

// ClickButton is a stateless widget with a single display and a single
// action.
type ClickButton[C any] struct {
	button Button
	action ActionFunc[C]
}

// NewClick builds a click widget displaying b and invoking action on click.
func NewClick[C any](b Button, action ActionFunc[C]) *ClickButton[C] {
	return &ClickButton[C]{button: b, action: action}
}

// State returns the fixed display cell.
func (c *ClickButton[C]) State() Button { return c.button }

// Fetch is a no-op: click buttons hold no refreshable state.
func (c *ClickButton[C]) Fetch(ctx context.Context, app C) error { return nil }

// Click invokes the action, propagating its error without changing any
// widget state.
func (c *ClickButton[C]) Click(ctx context.Context, app C) error {
	return c.action(ctx, app)
}
