package view

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/deckflow/pkg/deck"
	"gitlab.com/tinyland/lab/deckflow/pkg/render"
	"gitlab.com/tinyland/lab/deckflow/pkg/theme"
)

// Manager owns the current view and navigation entry, and drives the
// render/fetch/press/release/navigate lifecycle against one device.
//
// The view and mirrored entry sit behind an RWMutex so a render snapshot is
// never observed mid-replacement; no lock is ever held across device I/O or
// widget callbacks.
type Manager[C any] struct {
	dev  deck.Device
	rend *render.Renderer
	th   theme.Theme
	app  C
	log  *slog.Logger

	mu      sync.RWMutex
	view    View[C]
	current Entry[C]

	nav chan Entry[C]
}

// NewManager builds the home entry's view and prepares the manager. The
// returned manager's Navigation channel (capacity 1) receives screen-switch
// requests produced by navigation cells; the event loop drains it.
//
// logger may be nil, in which case slog.Default is used.
func NewManager[C any](
	ctx context.Context,
	dev deck.Device,
	cfg render.Config,
	th theme.Theme,
	app C,
	home Entry[C],
	logger *slog.Logger,
) (*Manager[C], error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = dev.ButtonSize()
	}
	rend, err := render.NewRenderer(cfg)
	if err != nil {
		return nil, err
	}
	v, err := home.View(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("view: build home view: %w", err)
	}
	return &Manager[C]{
		dev:     dev,
		rend:    rend,
		th:      th,
		app:     app,
		log:     logger,
		view:    v,
		current: home,
		nav:     make(chan Entry[C], 1),
	}, nil
}

// Navigation returns the channel on which navigation cells request screen
// switches. The event loop is its only consumer.
func (m *Manager[C]) Navigation() <-chan Entry[C] { return m.nav }

// Current returns the entry of the screen currently shown.
func (m *Manager[C]) Current() Entry[C] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// NavigateTo replaces the owned view and mirrored entry with the given
// screen. The new view is constructed before any lock is taken, so a slow
// construction never blocks renders of the outgoing screen. Callers follow
// up with FetchAll and Render; NavigateTo itself paints nothing.
func (m *Manager[C]) NavigateTo(ctx context.Context, entry Entry[C]) error {
	v, err := entry.View(ctx, m.app)
	if err != nil {
		return fmt.Errorf("view: build view: %w", err)
	}
	m.mu.Lock()
	m.view = v
	m.current = entry
	m.mu.Unlock()
	return nil
}

// FetchAll refreshes every widget in the current view. Widget failures are
// reported here and swallowed: a stale cell is preferable to a dead loop.
// Context cancellation still propagates.
func (m *Manager[C]) FetchAll(ctx context.Context) error {
	v := m.snapshot()
	if err := v.FetchAll(ctx, m.app); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.log.Warn("fetching view state failed", "error", err)
	}
	return nil
}

// Render snapshots the current view and paints it to the device. Bitmap
// composition failures propagate as render errors; device upload and flush
// failures are wrapped in *deck.OpError and are fatal to the caller's loop.
func (m *Manager[C]) Render(ctx context.Context) error {
	v := m.snapshot()
	matrix, err := v.Render()
	if err != nil {
		return fmt.Errorf("view: render snapshot: %w", err)
	}
	return m.paint(&matrix)
}

// OnPress repaints the current snapshot with only the pressed cell forced
// into the Pressed visual state. This is a pure visual affordance: no click
// handler runs until the release.
func (m *Manager[C]) OnPress(ctx context.Context, index int) error {
	v := m.snapshot()
	matrix, err := v.Render()
	if err != nil {
		return fmt.Errorf("view: render snapshot: %w", err)
	}
	b, err := matrix.GetIndex(index)
	if err != nil {
		return err
	}
	if err := matrix.SetIndex(index, b.WithState(StatePressed)); err != nil {
		return err
	}
	return m.paint(&matrix)
}

// OnRelease routes the release through the current view's click handler and
// then repaints the full view regardless of the handler's outcome. Handler
// errors are logged and swallowed to keep the loop alive.
func (m *Manager[C]) OnRelease(ctx context.Context, index int) error {
	v := m.snapshot()
	if err := v.HandleClick(ctx, m.app, index, m.nav); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.log.Warn("button click handler failed", "index", index, "error", err)
	}
	return m.Render(ctx)
}

// snapshot returns the current view under a short read lock.
func (m *Manager[C]) snapshot() View[C] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view
}

// paint composes and uploads every cell of the matrix, then issues one
// batched flush for the full pass.
func (m *Manager[C]) paint(matrix *Matrix) error {
	for x := 0; x < matrix.Width(); x++ {
		for y := 0; y < matrix.Height(); y++ {
			b, err := matrix.Get(x, y)
			if err != nil {
				return err
			}
			img, err := m.compose(b)
			if err != nil {
				return fmt.Errorf("view: compose cell (%d,%d): %w", x, y, err)
			}
			index := y*matrix.Width() + x
			if err := m.dev.SetButtonImage(index, img); err != nil {
				return &deck.OpError{Op: "set_button_image", Err: err}
			}
		}
	}
	if err := m.dev.Flush(); err != nil {
		return &deck.OpError{Op: "flush", Err: err}
	}
	return nil
}

// compose maps a cell's visual state to theme colors and rasterizes it.
func (m *Manager[C]) compose(b Button) (*image.NRGBA, error) {
	th := m.th
	if b.Theme != nil {
		th = *b.Theme
	}
	bg, fg := stateColors(th, b.State)
	if b.Icon != nil {
		return m.rend.IconWithText(b.Icon, b.Text, fg, bg)
	}
	return m.rend.Text(b.Text, fg, bg)
}

// stateColors selects the background/foreground pair for a visual state.
func stateColors(th theme.Theme, s State) (bg, fg color.NRGBA) {
	switch s {
	case StateActive:
		return th.ActiveBackground, th.ActiveForeground
	case StateInactive:
		return th.InactiveBackground, th.Foreground
	case StatePressed:
		return th.PressedBackground, th.ActiveForeground
	case StateError:
		return th.ErrorBackground, th.Foreground
	default:
		return th.Background, th.Foreground
	}
}
