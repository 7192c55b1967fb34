package view

import "context"

// Entry identifies one screen of the application. Implementations are
// value-like: constructed by application code, compared when an external
// trigger arrives, never mutated in place. Navigating always builds a fresh
// View.
//
// Go has no Default mechanism, so the home screen is passed explicitly to
// NewManager and the run entry points.
type Entry[C any] interface {
	// View builds the screen for "now" given the application context.
	// Construction may perform I/O and should honor ctx.
	View(ctx context.Context, app C) (View[C], error)

	// Equal reports whether other identifies the same screen.
	Equal(other Entry[C]) bool
}

// Trigger is an out-of-band request to switch screens, produced by
// caller-supplied background tasks and consumed exactly once by the event
// loop.
//
// A trigger is applied when Force is set or when Entry equals the current
// navigation entry. That gating mirrors the reference implementation
// literally; see DESIGN.md for the open-question record and the pinning
// tests in pkg/app.
type Trigger[C any] struct {
	Entry Entry[C]
	Force bool
}

// View is one renderable, clickable screen.
type View[C any] interface {
	// Render returns a display snapshot of the whole grid. It must not
	// perform widget I/O; cells come from static navigation buttons and
	// widget State() calls only.
	Render() (Matrix, error)

	// FetchAll refreshes every widget in the view from the application
	// context, scanning cells in column-major order (x outer, y inner).
	// Navigation cells are skipped. The scan aborts on the first widget
	// error; that abort-on-first-error policy is part of the contract.
	FetchAll(ctx context.Context, app C) error

	// HandleClick routes a release at a flat index: navigation cells send
	// their Entry on nav (a capacity-1 channel; the send may block until
	// the event loop drains it), widget cells invoke Click, empty cells
	// do nothing. An out-of-range index is an error.
	HandleClick(ctx context.Context, app C, index int, nav chan<- Entry[C]) error
}
