// Package view implements the deckflow view system: the Button/Matrix data
// model, widget variants, the CustomizableView screen builder, navigation
// entries, and the DisplayManager that ties them to a device.
package view

import (
	"gitlab.com/tinyland/lab/deckflow/pkg/render"
	"gitlab.com/tinyland/lab/deckflow/pkg/theme"
)

// State is the visual state of a button cell. It selects the background and
// foreground colors during rendering.
type State int

const (
	StateDefault State = iota
	StatePressed
	StateActive
	StateInactive
	StateError
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StatePressed:
		return "pressed"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	case StateError:
		return "error"
	default:
		return "default"
	}
}

// Button is a pure display snapshot for one grid cell: what the cell shows,
// never why. It carries no application state; widgets produce a fresh Button
// from State() every render pass.
type Button struct {
	Text  string
	Icon  *render.Icon
	State State

	// Theme optionally overrides the manager theme for this cell only.
	Theme *theme.Theme
}

// NewButton returns a default-state text button.
func NewButton(text string) Button {
	return Button{Text: text}
}

// WithIcon returns a copy of b displaying the given icon.
func (b Button) WithIcon(ic *render.Icon) Button {
	b.Icon = ic
	return b
}

// WithState returns a copy of b in the given visual state.
func (b Button) WithState(s State) Button {
	b.State = s
	return b
}

// WithTheme returns a copy of b using a per-cell theme override.
func (b Button) WithTheme(t *theme.Theme) Button {
	b.Theme = t
	return b
}
