// Package app provides the deckflow entry points: a single cooperative event
// loop that merges device input, click-driven navigation, and externally
// injected screen triggers, serializing all mutation of the display manager.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/deckflow/pkg/deck"
	"gitlab.com/tinyland/lab/deckflow/pkg/render"
	"gitlab.com/tinyland/lab/deckflow/pkg/theme"
	"gitlab.com/tinyland/lab/deckflow/pkg/view"
)

// pollTimeout bounds each device poll so the loop stays responsive to
// navigation and triggers. It is not an application-visible cancellation
// mechanism.
const pollTimeout = 250 * time.Millisecond

// Options carries the cross-cutting knobs shared by the entry points.
type Options struct {
	// Logger receives non-fatal loop diagnostics. Nil means slog.Default.
	Logger *slog.Logger
}

// Run drives a deckflow application until ctx is canceled or a device error
// occurs. home identifies the initial screen.
func Run[C any](ctx context.Context, dev deck.Device, cfg render.Config, th theme.Theme, appCtx C, home view.Entry[C], opts Options) error {
	return RunWithTriggers[C](ctx, dev, cfg, th, appCtx, home, nil, opts)
}

// RunWithTriggers is Run with an additional externally-owned channel of
// screen-switch triggers, produced by caller-supplied background tasks.
//
// A trigger is applied when Force is set or when its entry equals the
// current one; unforced triggers for other screens are dropped. Applied
// triggers behave exactly like click-driven navigation: rebuild the view,
// fetch all widgets, repaint.
func RunWithTriggers[C any](
	ctx context.Context,
	dev deck.Device,
	cfg render.Config,
	th theme.Theme,
	appCtx C,
	home view.Entry[C],
	triggers <-chan view.Trigger[C],
	opts Options,
) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	mgr, err := view.NewManager(ctx, dev, cfg, th, appCtx, home, log)
	if err != nil {
		return fmt.Errorf("app: initialize display manager: %w", err)
	}

	if err := mgr.FetchAll(ctx); err != nil {
		return err
	}
	if err := sift(log, mgr.Render(ctx)); err != nil {
		return err
	}

	events := make(chan deck.Event)
	g, ctx := errgroup.WithContext(ctx)

	// Poller: drains the device into the events channel, preserving
	// arrival order. Poll errors are device errors and end the loop.
	g.Go(func() error {
		for {
			evs, err := dev.Poll(pollTimeout)
			if err != nil {
				return &deck.OpError{Op: "poll", Err: err}
			}
			for _, ev := range evs {
				select {
				case events <- ev:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	})

	// Dispatcher: the single cooperative scheduler. Device events,
	// internal navigation, and external triggers are serialized here;
	// whichever source is ready first wins, with no fairness guarantee
	// beyond that.
	g.Go(func() error {
		nav := mgr.Navigation()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()

			case ev := <-events:
				switch ev.Kind {
				case deck.EventButtonDown:
					if err := sift(log, mgr.OnPress(ctx, ev.Index)); err != nil {
						return err
					}
				case deck.EventButtonUp:
					if err := sift(log, mgr.OnRelease(ctx, ev.Index)); err != nil {
						return err
					}
				default:
					// Dials, touch strips, disconnect chatter:
					// ignored. A disconnect surfaces as a poll
					// or upload failure soon enough.
				}

			case entry := <-nav:
				if err := navigate(ctx, log, mgr, entry); err != nil {
					return err
				}

			case trig, ok := <-triggers:
				if !ok {
					// The producer closed its channel; stop
					// selecting on it.
					triggers = nil
					continue
				}
				if !trig.Force && !trig.Entry.Equal(mgr.Current()) {
					log.Debug("external trigger skipped", "force", trig.Force)
					continue
				}
				if err := navigate(ctx, log, mgr, trig.Entry); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}

// navigate performs the full screen switch: rebuild, refetch, repaint.
// View-construction failures are logged and skipped — the current screen
// stays up; device failures propagate.
func navigate[C any](ctx context.Context, log *slog.Logger, mgr *view.Manager[C], entry view.Entry[C]) error {
	if err := mgr.NavigateTo(ctx, entry); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("navigation failed", "error", err)
		return nil
	}
	if err := mgr.FetchAll(ctx); err != nil {
		return err
	}
	return sift(log, mgr.Render(ctx))
}

// sift separates fatal device errors from recoverable render errors: the
// former propagate, the latter are logged and dropped so the next driving
// event can retry with a fresh attempt.
func sift(log *slog.Logger, err error) error {
	if err == nil {
		return nil
	}
	if deck.IsDeviceError(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Warn("render pass failed", "error", err)
	return nil
}
