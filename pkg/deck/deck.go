// Package deck defines the capability contract between the deckflow engine
// and a physical (or virtual) button-grid controller. The engine consumes a
// controller exclusively through the Device interface: upload a bitmap for a
// flat button index, flush the batch, and poll for press/release events.
//
// Transport implementations (USB/HID, simulators, fakes) live outside the
// engine; pkg/deck/decktest provides an in-memory fake and pkg/deck/sim a
// terminal-backed simulator.
package deck

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// EventKind discriminates the events a controller can report.
type EventKind int

const (
	// EventUnknown covers device events the engine does not handle
	// (dials, touch strips, firmware chatter). The event loop ignores them.
	EventUnknown EventKind = iota

	// EventButtonDown reports a button press at Event.Index.
	EventButtonDown

	// EventButtonUp reports a button release at Event.Index.
	EventButtonUp

	// EventDisconnect reports that the controller went away. Follow-up I/O
	// is expected to fail with an *OpError.
	EventDisconnect
)

// String returns the lowercase name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventButtonDown:
		return "button_down"
	case EventButtonUp:
		return "button_up"
	case EventDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Event is a single input event reported by a controller. Index is the flat
// button index (row-major, y*cols+x) for button events and undefined
// otherwise.
type Event struct {
	Kind  EventKind
	Index int
}

// Info identifies a discoverable controller.
type Info struct {
	Kind   string // model identifier, e.g. "mk2", "sim"
	Serial string
}

// Device is the narrow controller contract the engine renders to and reads
// from. Implementations must be safe for use from a single goroutine; the
// engine serializes all calls through its event loop.
type Device interface {
	// Layout returns the button grid shape in columns and rows.
	Layout() (cols, rows int)

	// ButtonSize returns the pixel dimensions of a single button display.
	ButtonSize() (w, h int)

	// SetButtonImage stages a bitmap for the button at the flat index.
	// The image becomes visible after the next Flush.
	SetButtonImage(index int, img image.Image) error

	// Flush commits all staged button images to the controller.
	Flush() error

	// Poll blocks up to timeout waiting for input events and returns the
	// events accumulated so far, in arrival order. An empty slice with a
	// nil error means the timeout elapsed quietly.
	Poll(timeout time.Duration) ([]Event, error)

	// Close releases the controller.
	Close() error
}

// Transport discovers and opens controllers.
type Transport interface {
	List() ([]Info, error)
	Connect(info Info) (Device, error)
}

// ErrNotFound is returned by Transport implementations when no matching
// controller is available.
var ErrNotFound = errors.New("deck: device not found")

// OpError wraps a device I/O failure with the operation that caused it.
// The event loop treats any error carrying an *OpError in its chain as
// fatal: a disconnected controller has no in-scope recovery path.
type OpError struct {
	Op  string // "set_button_image", "flush", "poll", ...
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("deck: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// IsDeviceError reports whether err originates from device I/O.
func IsDeviceError(err error) bool {
	var oe *OpError
	return errors.As(err, &oe)
}
