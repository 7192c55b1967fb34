package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"

	"gitlab.com/tinyland/lab/deckflow/pkg/view"
)

// demoApp is the application context threaded through the demo screens.
// It stands in for whatever home-automation or desktop backend a real
// deployment would talk to.
type demoApp struct {
	cols, rows int

	mu       sync.Mutex
	switches map[string]bool
	presses  int
}

func newDemoApp(cols, rows int) *demoApp {
	return &demoApp{cols: cols, rows: rows, switches: make(map[string]bool)}
}

func (a *demoApp) switchOn(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.switches[name]
}

func (a *demoApp) setSwitch(name string, on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.switches[name] = on
}

func (a *demoApp) press() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.presses++
	return a.presses
}

func (a *demoApp) resetPresses() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.presses = 0
}

func (a *demoApp) pressCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.presses
}

// screen names the demo's navigation entries. Screens with the same
// name are the same destination.
type screen string

const (
	screenMain     screen = "main"
	screenSettings screen = "settings"
)

func (s screen) Equal(other view.Entry[*demoApp]) bool {
	o, ok := other.(screen)
	return ok && o == s
}

func (s screen) View(ctx context.Context, app *demoApp) (view.View[*demoApp], error) {
	switch s {
	case screenMain:
		return buildMain(app)
	case screenSettings:
		return buildSettings(app)
	default:
		return nil, fmt.Errorf("unknown screen %q", s)
	}
}

// toggleFor wires a named backend switch to a toggle widget.
func toggleFor(name, label string) *view.ToggleButton[*demoApp] {
	fetch := func(ctx context.Context, app *demoApp) (bool, error) {
		return app.switchOn(name), nil
	}
	push := func(ctx context.Context, app *demoApp, on bool) error {
		app.setSwitch(name, on)
		return nil
	}
	return view.NewToggle(view.NewButton(label), fetch, push)
}

func buildMain(app *demoApp) (view.View[*demoApp], error) {
	v := view.NewCustomizable[*demoApp](app.cols, app.rows)

	if err := v.SetWidget(0, 0, toggleFor("lamp", "Lamp")); err != nil {
		return nil, err
	}
	if err := v.SetWidget(1, 0, toggleFor("fan", "Fan")); err != nil {
		return nil, err
	}

	counter := view.NewClick(view.NewButton("Count"), func(ctx context.Context, app *demoApp) error {
		app.press()
		return nil
	})
	if err := v.SetWidget(2, 0, counter); err != nil {
		return nil, err
	}

	if err := v.SetWidget(0, 1, newCPUWidget()); err != nil {
		return nil, err
	}

	last := app.cols - 1
	if err := v.SetNavigation(last, app.rows-1, screenSettings, view.NewButton("Settings")); err != nil {
		return nil, err
	}
	return v, nil
}

func buildSettings(app *demoApp) (view.View[*demoApp], error) {
	v := view.NewCustomizable[*demoApp](app.cols, app.rows)

	reset := view.NewClick(view.NewButton("Reset"), func(ctx context.Context, app *demoApp) error {
		app.resetPresses()
		return nil
	})
	if err := v.SetWidget(0, 0, reset); err != nil {
		return nil, err
	}

	if err := v.SetWidget(1, 0, toggleFor("notify", "Notify")); err != nil {
		return nil, err
	}

	if err := v.SetNavigation(app.cols-1, app.rows-1, screenMain, view.NewButton("Back")); err != nil {
		return nil, err
	}
	return v, nil
}

// cpuWidget shows the instantaneous CPU load and turns red when the
// machine is saturated. Clicks are ignored.
type cpuWidget struct {
	mu      sync.Mutex
	percent float64
}

func newCPUWidget() *cpuWidget { return &cpuWidget{} }

func (w *cpuWidget) State() view.Button {
	w.mu.Lock()
	pct := w.percent
	w.mu.Unlock()

	b := view.NewButton(fmt.Sprintf("CPU %.0f%%", pct))
	switch {
	case pct >= 90:
		return b.WithState(view.StateError)
	case pct >= 60:
		return b.WithState(view.StateActive)
	default:
		return b
	}
}

func (w *cpuWidget) Fetch(ctx context.Context, app *demoApp) error {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return fmt.Errorf("cpu sample: %w", err)
	}
	if len(pcts) == 0 {
		return nil
	}
	w.mu.Lock()
	w.percent = pcts[0]
	w.mu.Unlock()
	return nil
}

func (w *cpuWidget) Click(ctx context.Context, app *demoApp) error { return nil }
