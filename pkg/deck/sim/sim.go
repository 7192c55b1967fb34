// Package sim provides an in-process simulated button-grid controller.
// It implements the deck.Device contract against an in-memory frame
// buffer so the engine can run without hardware, and exposes committed
// frames to terminal front ends.
package sim

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/tinyland/lab/deckflow/pkg/deck"
)

// Config describes the simulated controller's shape. Zero values fall
// back to a 5x3 grid of 72x72 buttons, the common hardware layout.
type Config struct {
	Cols         int
	Rows         int
	ButtonWidth  int
	ButtonHeight int
}

func (cfg Config) normalized() Config {
	if cfg.Cols <= 0 {
		cfg.Cols = 5
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 3
	}
	if cfg.ButtonWidth <= 0 {
		cfg.ButtonWidth = 72
	}
	if cfg.ButtonHeight <= 0 {
		cfg.ButtonHeight = 72
	}
	return cfg
}

// Device is a simulated controller. Staged images become visible on
// Flush; input is injected with Press, Release, and Tap. All methods
// are safe for concurrent use.
type Device struct {
	cfg    Config
	serial string

	mu     sync.Mutex
	staged map[int]image.Image
	shown  []image.Image
	closed bool

	events chan deck.Event
	dirty  chan struct{}
	done   chan struct{}
}

// New creates a simulated controller with a random serial.
func New(cfg Config) *Device {
	cfg = cfg.normalized()
	return &Device{
		cfg:    cfg,
		serial: uuid.NewString(),
		staged: make(map[int]image.Image),
		shown:  make([]image.Image, cfg.Cols*cfg.Rows),
		events: make(chan deck.Event, 64),
		dirty:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Serial returns the simulated device serial.
func (d *Device) Serial() string { return d.serial }

func (d *Device) Layout() (cols, rows int) { return d.cfg.Cols, d.cfg.Rows }

func (d *Device) ButtonSize() (w, h int) { return d.cfg.ButtonWidth, d.cfg.ButtonHeight }

func (d *Device) SetButtonImage(index int, img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("sim: device closed")
	}
	if index < 0 || index >= len(d.shown) {
		return fmt.Errorf("sim: button index %d out of range [0,%d)", index, len(d.shown))
	}
	d.staged[index] = img
	return nil
}

// Flush commits staged images and notifies any front end waiting on
// Frames.
func (d *Device) Flush() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return fmt.Errorf("sim: device closed")
	}
	for i, img := range d.staged {
		d.shown[i] = img
	}
	d.staged = make(map[int]image.Image)
	d.mu.Unlock()

	select {
	case d.dirty <- struct{}{}:
	default:
	}
	return nil
}

func (d *Device) Poll(timeout time.Duration) ([]deck.Event, error) {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("sim: device closed")
	}

	// The events channel is never closed, so the drain below cannot spin
	// on zero-value receives; done wakes a blocked wait on Close.
	var evs []deck.Event
	select {
	case ev := <-d.events:
		evs = append(evs, ev)
	case <-d.done:
		return nil, fmt.Errorf("sim: device closed")
	case <-time.After(timeout):
		return nil, nil
	}
	for {
		select {
		case ev := <-d.events:
			evs = append(evs, ev)
		default:
			return evs, nil
		}
	}
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	close(d.done)
	return nil
}

// Press injects a button-down event for the flat index.
func (d *Device) Press(index int) {
	d.inject(deck.Event{Kind: deck.EventButtonDown, Index: index})
}

// Release injects a button-up event for the flat index.
func (d *Device) Release(index int) {
	d.inject(deck.Event{Kind: deck.EventButtonUp, Index: index})
}

// Tap injects a press immediately followed by a release.
func (d *Device) Tap(index int) {
	d.Press(index)
	d.Release(index)
}

func (d *Device) inject(ev deck.Event) {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return
	}
	select {
	case d.events <- ev:
	default:
	}
}

// Frames returns a channel that receives a signal after each Flush.
// Signals are coalesced; read Snapshot for the current frame.
func (d *Device) Frames() <-chan struct{} { return d.dirty }

// Snapshot returns a copy of the committed frame, one entry per button
// in flat row-major order. Entries for never-painted buttons are nil.
func (d *Device) Snapshot() []image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]image.Image, len(d.shown))
	copy(out, d.shown)
	return out
}

// Transport exposes simulated devices through the discovery contract.
type Transport struct {
	mu   sync.Mutex
	devs []*Device
}

// NewTransport creates a Transport serving the given devices.
func NewTransport(devs ...*Device) *Transport {
	return &Transport{devs: devs}
}

// Add registers an additional device with the transport.
func (t *Transport) Add(d *Device) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.devs = append(t.devs, d)
}

func (t *Transport) List() ([]deck.Info, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	infos := make([]deck.Info, 0, len(t.devs))
	for _, d := range t.devs {
		infos = append(infos, deck.Info{Kind: "sim", Serial: d.serial})
	}
	return infos, nil
}

func (t *Transport) Connect(info deck.Info) (deck.Device, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, d := range t.devs {
		if d.serial == info.Serial {
			return d, nil
		}
	}
	return nil, deck.ErrNotFound
}
