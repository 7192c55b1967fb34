// Package decktest provides an in-memory deck.Device for tests and headless
// use. The fake records every upload and flush, and replays scripted input
// events through Poll.
package decktest

import (
	"fmt"
	"image"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/deckflow/pkg/deck"
)

// Upload records one SetButtonImage call.
type Upload struct {
	Index int
	Image image.Image
}

// Fake implements deck.Device. The zero value is not usable; construct with
// New. All methods are safe for concurrent use so tests can push events
// while the engine polls.
type Fake struct {
	cols, rows int
	btnW, btnH int

	mu      sync.Mutex
	staged  map[int]image.Image
	shown   map[int]image.Image
	uploads []Upload
	flushes int
	closed  bool

	events chan deck.Event

	// Error injection. When set, the corresponding operation fails with
	// the given error.
	SetErr   error
	FlushErr error
	PollErr  error
}

// New creates a fake controller with the given grid shape and 72x72 button
// displays.
func New(cols, rows int) *Fake {
	return &Fake{
		cols:   cols,
		rows:   rows,
		btnW:   72,
		btnH:   72,
		staged: make(map[int]image.Image),
		shown:  make(map[int]image.Image),
		events: make(chan deck.Event, 64),
	}
}

// Layout implements deck.Device.
func (f *Fake) Layout() (cols, rows int) { return f.cols, f.rows }

// ButtonSize implements deck.Device.
func (f *Fake) ButtonSize() (w, h int) { return f.btnW, f.btnH }

// SetButtonImage stages an image and records the upload.
func (f *Fake) SetButtonImage(index int, img image.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	if index < 0 || index >= f.cols*f.rows {
		return fmt.Errorf("decktest: button index %d out of range", index)
	}
	f.staged[index] = img
	f.uploads = append(f.uploads, Upload{Index: index, Image: img})
	return nil
}

// Flush commits staged images to the visible set.
func (f *Fake) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FlushErr != nil {
		return f.FlushErr
	}
	for i, img := range f.staged {
		f.shown[i] = img
	}
	f.staged = make(map[int]image.Image)
	f.flushes++
	return nil
}

// Poll waits up to timeout for the first scripted event, then drains any
// others already queued, preserving push order.
func (f *Fake) Poll(timeout time.Duration) ([]deck.Event, error) {
	f.mu.Lock()
	err := f.PollErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var events []deck.Event
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-f.events:
		events = append(events, ev)
	case <-timer.C:
		return nil, nil
	}
	for {
		select {
		case ev := <-f.events:
			events = append(events, ev)
		default:
			return events, nil
		}
	}
}

// Close implements deck.Device.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Push queues an input event for a later Poll.
func (f *Fake) Push(ev deck.Event) {
	f.events <- ev
}

// PushButton queues a down/up pair for the given flat index.
func (f *Fake) PushButton(index int) {
	f.Push(deck.Event{Kind: deck.EventButtonDown, Index: index})
	f.Push(deck.Event{Kind: deck.EventButtonUp, Index: index})
}

// Shown returns the visible (flushed) image for a button index, or nil.
func (f *Fake) Shown(index int) image.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shown[index]
}

// Uploads returns a copy of all recorded SetButtonImage calls in order.
func (f *Fake) Uploads() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Upload, len(f.uploads))
	copy(out, f.uploads)
	return out
}

// Flushes returns the number of Flush calls.
func (f *Fake) Flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
