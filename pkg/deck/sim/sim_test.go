package sim

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/deckflow/pkg/deck"
)

var _ deck.Device = (*Device)(nil)
var _ deck.Transport = (*Transport)(nil)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func TestConfigDefaults(t *testing.T) {
	d := New(Config{})
	cols, rows := d.Layout()
	if cols != 5 || rows != 3 {
		t.Errorf("expected default 5x3 layout, got %dx%d", cols, rows)
	}
	w, h := d.ButtonSize()
	if w != 72 || h != 72 {
		t.Errorf("expected default 72x72 buttons, got %dx%d", w, h)
	}
	if d.Serial() == "" {
		t.Error("expected a generated serial")
	}
}

func TestFlushCommitsStagedImages(t *testing.T) {
	d := New(Config{Cols: 2, Rows: 2})
	img := solid(72, 72, color.NRGBA{R: 255, A: 255})

	if err := d.SetButtonImage(1, img); err != nil {
		t.Fatalf("stage image: %v", err)
	}
	if got := d.Snapshot()[1]; got != nil {
		t.Error("staged image visible before flush")
	}

	if err := d.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := d.Snapshot()[1]; got != img {
		t.Error("expected flushed image in snapshot")
	}

	select {
	case <-d.Frames():
	default:
		t.Error("expected a frame signal after flush")
	}
}

func TestSetButtonImageBounds(t *testing.T) {
	d := New(Config{Cols: 2, Rows: 2})
	img := solid(1, 1, color.NRGBA{A: 255})
	for _, idx := range []int{-1, 4, 99} {
		if err := d.SetButtonImage(idx, img); err == nil {
			t.Errorf("expected error for index %d", idx)
		}
	}
}

func TestPollReturnsInjectedEvents(t *testing.T) {
	d := New(Config{})
	d.Tap(7)

	evs, err := d.Poll(time.Second)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Kind != deck.EventButtonDown || evs[0].Index != 7 {
		t.Errorf("expected down on 7, got %+v", evs[0])
	}
	if evs[1].Kind != deck.EventButtonUp || evs[1].Index != 7 {
		t.Errorf("expected up on 7, got %+v", evs[1])
	}
}

func TestPollTimesOutQuietly(t *testing.T) {
	d := New(Config{})
	evs, err := d.Poll(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(evs) != 0 {
		t.Errorf("expected no events, got %d", len(evs))
	}
}

func TestClosedDeviceRejectsUse(t *testing.T) {
	d := New(Config{})
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if err := d.SetButtonImage(0, solid(1, 1, color.NRGBA{})); err == nil {
		t.Error("expected error staging to a closed device")
	}
	if err := d.Flush(); err == nil {
		t.Error("expected error flushing a closed device")
	}
	if _, err := d.Poll(time.Second); err == nil {
		t.Error("expected error polling a closed device")
	}
}

func TestPollAfterCloseWithQueuedEvents(t *testing.T) {
	d := New(Config{})
	d.Tap(0)
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	type result struct {
		evs []deck.Event
		err error
	}
	done := make(chan result, 1)
	go func() {
		evs, err := d.Poll(time.Second)
		done <- result{evs, err}
	}()

	select {
	case res := <-done:
		if res.err == nil {
			t.Errorf("expected error polling a closed device, got events %v", res.evs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Poll did not return after Close with queued events")
	}
}

func TestPollWakesOnConcurrentClose(t *testing.T) {
	d := New(Config{})

	done := make(chan error, 1)
	go func() {
		_, err := d.Poll(10 * time.Second)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected error when the device closes mid-poll")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Poll did not wake on Close")
	}
}

func TestTransportDiscovery(t *testing.T) {
	a := New(Config{})
	b := New(Config{})
	tr := NewTransport(a)
	tr.Add(b)

	infos, err := tr.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(infos))
	}
	for _, info := range infos {
		if info.Kind != "sim" {
			t.Errorf("expected kind sim, got %q", info.Kind)
		}
	}

	dev, err := tr.Connect(deck.Info{Kind: "sim", Serial: b.Serial()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if dev != b {
		t.Error("expected connect to return the matching device")
	}

	if _, err := tr.Connect(deck.Info{Serial: "missing"}); !errors.Is(err, deck.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
