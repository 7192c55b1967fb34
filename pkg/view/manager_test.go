package view

import (
	"context"
	"errors"
	"image/color"
	"log/slog"
	"testing"

	"gitlab.com/tinyland/lab/deckflow/pkg/deck"
	"gitlab.com/tinyland/lab/deckflow/pkg/deck/decktest"
	"gitlab.com/tinyland/lab/deckflow/pkg/render"
	"gitlab.com/tinyland/lab/deckflow/pkg/theme"
)

// stubEntry is an Entry whose view is produced by a test-supplied builder.
type stubEntry struct {
	name  string
	build func(ctx context.Context, app testCtx) (View[testCtx], error)
}

func (e stubEntry) View(ctx context.Context, app testCtx) (View[testCtx], error) {
	return e.build(ctx, app)
}

func (e stubEntry) Equal(other Entry[testCtx]) bool {
	o, ok := other.(stubEntry)
	return ok && o.name == e.name
}

func emptyHome() stubEntry {
	return stubEntry{
		name: "home",
		build: func(ctx context.Context, app testCtx) (View[testCtx], error) {
			return NewCustomizable[testCtx](5, 3), nil
		},
	}
}

func newTestManager(t *testing.T, home stubEntry) (*Manager[testCtx], *decktest.Fake) {
	t.Helper()
	dev := decktest.New(5, 3)
	m, err := NewManager(context.Background(), dev, render.Config{}, theme.Dark(), testCtx{}, home, slog.Default())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, dev
}

// shownBackground samples the top-left pixel of the visible image at index.
func shownBackground(t *testing.T, dev *decktest.Fake, index int) color.NRGBA {
	t.Helper()
	img := dev.Shown(index)
	if img == nil {
		t.Fatalf("no visible image at index %d", index)
	}
	return color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
}

func TestManagerRenderPaintsFullGridWithOneFlush(t *testing.T) {
	m, dev := newTestManager(t, emptyHome())
	if err := m.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := len(dev.Uploads()); got != 15 {
		t.Errorf("expected 15 uploads for a 5x3 grid, got %d", got)
	}
	if got := dev.Flushes(); got != 1 {
		t.Errorf("expected one batched flush per pass, got %d", got)
	}
	if got := shownBackground(t, dev, 0); got != theme.Dark().Background {
		t.Errorf("expected default background, got %v", got)
	}
}

func TestManagerRenderMapsStatesToThemeColors(t *testing.T) {
	home := stubEntry{name: "home", build: func(ctx context.Context, app testCtx) (View[testCtx], error) {
		v := NewCustomizable[testCtx](5, 3)
		v.SetWidget(0, 0, &countingWidget{button: NewButton("a").WithState(StateActive)})
		v.SetWidget(1, 0, &countingWidget{button: NewButton("i").WithState(StateInactive)})
		v.SetWidget(2, 0, &countingWidget{button: NewButton("e").WithState(StateError)})
		return v, nil
	}}
	m, dev := newTestManager(t, home)
	if err := m.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	th := theme.Dark()
	if got := shownBackground(t, dev, 0); got != th.ActiveBackground {
		t.Errorf("active cell: expected %v, got %v", th.ActiveBackground, got)
	}
	if got := shownBackground(t, dev, 1); got != th.InactiveBackground {
		t.Errorf("inactive cell: expected %v, got %v", th.InactiveBackground, got)
	}
	if got := shownBackground(t, dev, 2); got != th.ErrorBackground {
		t.Errorf("error cell: expected %v, got %v", th.ErrorBackground, got)
	}
}

func TestManagerRenderHonorsCellThemeOverride(t *testing.T) {
	override := theme.Light()
	home := stubEntry{name: "home", build: func(ctx context.Context, app testCtx) (View[testCtx], error) {
		v := NewCustomizable[testCtx](5, 3)
		v.SetWidget(0, 0, &countingWidget{button: NewButton("o").WithTheme(&override)})
		return v, nil
	}}
	m, dev := newTestManager(t, home)
	if err := m.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := shownBackground(t, dev, 0); got != override.Background {
		t.Errorf("expected override background %v, got %v", override.Background, got)
	}
	if got := shownBackground(t, dev, 1); got != theme.Dark().Background {
		t.Errorf("expected manager background %v on plain cell, got %v", theme.Dark().Background, got)
	}
}

func TestManagerOnPressForcesPressedVisualOnly(t *testing.T) {
	w := &countingWidget{button: NewButton("w")}
	home := stubEntry{name: "home", build: func(ctx context.Context, app testCtx) (View[testCtx], error) {
		v := NewCustomizable[testCtx](5, 3)
		v.SetWidget(0, 0, w)
		return v, nil
	}}
	m, dev := newTestManager(t, home)
	if err := m.OnPress(context.Background(), 0); err != nil {
		t.Fatalf("OnPress: %v", err)
	}
	th := theme.Dark()
	if got := shownBackground(t, dev, 0); got != th.PressedBackground {
		t.Errorf("expected pressed background, got %v", got)
	}
	if got := shownBackground(t, dev, 1); got != th.Background {
		t.Errorf("expected other cells unchanged, got %v", got)
	}
	if w.clicks != 0 {
		t.Errorf("expected press to invoke no handlers, got %d clicks", w.clicks)
	}
}

func TestManagerOnPressOutOfRange(t *testing.T) {
	m, _ := newTestManager(t, emptyHome())
	if err := m.OnPress(context.Background(), 99); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestManagerOnReleaseSwallowsHandlerErrorAndRepaints(t *testing.T) {
	w := &countingWidget{button: NewButton("w"), clickErr: errors.New("handler exploded")}
	home := stubEntry{name: "home", build: func(ctx context.Context, app testCtx) (View[testCtx], error) {
		v := NewCustomizable[testCtx](5, 3)
		v.SetWidget(0, 0, w)
		return v, nil
	}}
	m, dev := newTestManager(t, home)
	if err := m.OnRelease(context.Background(), 0); err != nil {
		t.Fatalf("expected handler error to be swallowed, got %v", err)
	}
	if w.clicks != 1 {
		t.Errorf("expected handler invoked once, got %d", w.clicks)
	}
	if dev.Flushes() != 1 {
		t.Errorf("expected a full repaint after release, got %d flushes", dev.Flushes())
	}
	// The repaint reflects the pre-click state since the handler failed.
	if got := shownBackground(t, dev, 0); got != theme.Dark().Background {
		t.Errorf("expected pre-click visual state, got %v", got)
	}
}

func TestManagerNavigateToReplacesViewAndEntry(t *testing.T) {
	settings := stubEntry{name: "settings", build: func(ctx context.Context, app testCtx) (View[testCtx], error) {
		v := NewCustomizable[testCtx](5, 3)
		v.SetWidget(0, 0, &countingWidget{button: NewButton("s").WithState(StateActive)})
		return v, nil
	}}
	m, dev := newTestManager(t, emptyHome())
	if !m.Current().Equal(emptyHome()) {
		t.Fatal("expected home entry before navigation")
	}
	if err := m.NavigateTo(context.Background(), settings); err != nil {
		t.Fatalf("NavigateTo: %v", err)
	}
	if !m.Current().Equal(settings) {
		t.Error("expected current entry to mirror the new screen")
	}
	if err := m.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := shownBackground(t, dev, 0); got != theme.Dark().ActiveBackground {
		t.Errorf("expected new view rendered, got %v", got)
	}
}

func TestManagerNavigateToConstructionFailure(t *testing.T) {
	broken := stubEntry{name: "broken", build: func(ctx context.Context, app testCtx) (View[testCtx], error) {
		return nil, errors.New("cannot build")
	}}
	m, _ := newTestManager(t, emptyHome())
	if err := m.NavigateTo(context.Background(), broken); err == nil {
		t.Fatal("expected construction error, got nil")
	}
	// The old screen survives a failed navigation.
	if !m.Current().Equal(emptyHome()) {
		t.Error("expected current entry unchanged after failed navigation")
	}
}

func TestManagerFetchAllFailureIsNonFatal(t *testing.T) {
	home := stubEntry{name: "home", build: func(ctx context.Context, app testCtx) (View[testCtx], error) {
		v := NewCustomizable[testCtx](5, 3)
		v.SetWidget(0, 0, &countingWidget{fetchErr: errors.New("backend down")})
		return v, nil
	}}
	m, _ := newTestManager(t, home)
	if err := m.FetchAll(context.Background()); err != nil {
		t.Errorf("expected fetch failure to be swallowed, got %v", err)
	}
}

func TestManagerRenderDeviceFailureIsDeviceError(t *testing.T) {
	m, dev := newTestManager(t, emptyHome())
	dev.SetErr = errors.New("usb gone")
	err := m.Render(context.Background())
	if err == nil {
		t.Fatal("expected upload failure, got nil")
	}
	if !deck.IsDeviceError(err) {
		t.Errorf("expected a device error, got %v", err)
	}
}
