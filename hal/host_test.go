package hal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func drainTicks(ch <-chan uint64) (n int, last uint64) {
	for {
		select {
		case v := <-ch:
			n++
			last = v
		default:
			return n, last
		}
	}
}

func TestHostTimeStepFollowsClock(t *testing.T) {
	now := time.Unix(0, 0)
	ht := newHostTime()
	ht.now = func() time.Time { return now }

	ht.step(1)
	if n, last := drainTicks(ht.Ticks()); n != 1 || last != 1 {
		t.Fatalf("first step: n=%d last=%d; want 1,1", n, last)
	}

	now = now.Add(16*time.Millisecond + 500*time.Microsecond)
	ht.step(1)
	if n, last := drainTicks(ht.Ticks()); n != 16 || last != 17 {
		t.Fatalf("second step: n=%d last=%d; want 16,17", n, last)
	}

	// The leftover half millisecond carries into the next step.
	now = now.Add(500 * time.Microsecond)
	ht.step(1)
	if n, _ := drainTicks(ht.Ticks()); n != 1 {
		t.Fatalf("carry step: n=%d; want 1", n)
	}
}

func TestHostTimeAdvance(t *testing.T) {
	ht := newHostTime()
	ht.advance(50 * time.Millisecond)
	if n, last := drainTicks(ht.Ticks()); n != 50 || last != 50 {
		t.Fatalf("advance: n=%d last=%d; want 50,50", n, last)
	}
}

func TestViewportEmitsOnlyOnChange(t *testing.T) {
	vp := newHostViewport(1024, 600)
	vp.set(1024, 700)
	select {
	case w := <-vp.Widths():
		t.Fatalf("unexpected width event %d for a height-only change", w)
	default:
	}

	vp.set(480, 700)
	select {
	case w := <-vp.Widths():
		if w != 480 {
			t.Fatalf("width event = %d; want 480", w)
		}
	default:
		t.Fatal("expected a width event")
	}
	if w, h := vp.Size(); w != 480 || h != 700 {
		t.Fatalf("Size = %dx%d; want 480x700", w, h)
	}
}

func TestViewportKeepsLatestWhenFull(t *testing.T) {
	vp := newHostViewport(100, 100)
	for w := 101; w <= 120; w++ {
		vp.set(w, 100)
	}
	var last int
	for {
		select {
		case w := <-vp.Widths():
			last = w
			continue
		default:
		}
		break
	}
	if last != 120 {
		t.Fatalf("last width = %d; want 120", last)
	}
}

func TestFramebufferClearAndPresent(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	fb.ClearRGB(0xFF, 0xFF, 0xFF)
	for i, b := range fb.Buffer() {
		if b != 0xFF {
			t.Fatalf("byte %d = %#x; want 0xff", i, b)
		}
	}
	_ = fb.Present()
	_ = fb.Present()
	dst := make([]byte, len(fb.buf))
	if n := fb.snapshotRGB565(dst); n != 2 {
		t.Fatalf("presents = %d; want 2", n)
	}

	rgba := make([]byte, 4*2*4)
	RGB565ToRGBA(rgba, dst)
	if rgba[0] != 0xFF || rgba[1] != 0xFF || rgba[2] != 0xFF || rgba[3] != 0xFF {
		t.Fatalf("first RGBA pixel = %v", rgba[:4])
	}
}

func TestSetPixel565(t *testing.T) {
	fb := newHostFramebuffer(3, 2)
	SetPixel565(fb, 2, 1, 0xFF, 0x00, 0xFF)
	SetPixel565(fb, 3, 0, 0xFF, 0xFF, 0xFF)
	SetPixel565(fb, -1, 1, 0xFF, 0xFF, 0xFF)

	buf := fb.Buffer()
	off := 1*fb.StrideBytes() + 2*2
	if got := uint16(buf[off]) | uint16(buf[off+1])<<8; got != 0xF81F {
		t.Fatalf("pixel = %#04x; want 0xf81f", got)
	}
	for i, b := range buf {
		if (i < off || i > off+1) && b != 0 {
			t.Fatalf("byte %d = %#x; out-of-range writes must be dropped", i, b)
		}
	}
	if r, g, b := RGB888(RGB565(0xFF, 0x80, 0x00)); r != 0xFF || g < 0x7C || g > 0x84 || b != 0 {
		t.Fatalf("round trip = %d,%d,%d", r, g, b)
	}
}

func TestParseResizes(t *testing.T) {
	got, err := ParseResizes("120:480, 30:1024")
	if err != nil {
		t.Fatalf("ParseResizes: %v", err)
	}
	if len(got) != 2 || got[0] != (Resize{AtTick: 30, Width: 1024}) || got[1] != (Resize{AtTick: 120, Width: 480}) {
		t.Fatalf("ParseResizes = %+v", got)
	}
	for _, bad := range []string{"120", "x:480", "10:-3", "10:abc"} {
		if _, err := ParseResizes(bad); err == nil {
			t.Fatalf("ParseResizes(%q): expected error", bad)
		}
	}
	if got, err := ParseResizes(" "); err != nil || got != nil {
		t.Fatalf("ParseResizes(blank) = %v, %v", got, err)
	}
}

type countingApp struct {
	h      HAL
	steps  int
	widths []int
	ticks  uint64
	closed bool
}

func (a *countingApp) Step() error {
	a.steps++
	for {
		select {
		case w := <-a.h.Viewport().Widths():
			a.widths = append(a.widths, w)
			continue
		default:
		}
		break
	}
	_, last := drainTicks(a.h.Time().Ticks())
	if last > 0 {
		a.ticks = last
	}
	return nil
}

func (a *countingApp) Close() { a.closed = true }

func TestRunHeadless(t *testing.T) {
	var app *countingApp
	var logs bytes.Buffer
	err := RunHeadless(context.Background(),
		HostConfig{Width: 8, Height: 8, LayoutWidth: 1024, LayoutHeight: 768, Log: &logs},
		HeadlessConfig{Hz: 1000, Ticks: 5, Resizes: []Resize{{AtTick: 3, Width: 480}}},
		func(h HAL) (App, error) {
			h.Logger().WriteLineString("hello")
			app = &countingApp{h: h}
			return app, nil
		})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if app.steps != 5 {
		t.Fatalf("steps = %d; want 5", app.steps)
	}
	if len(app.widths) != 1 || app.widths[0] != 480 {
		t.Fatalf("widths = %v; want [480]", app.widths)
	}
	if app.ticks != 5 {
		t.Fatalf("last tick = %d; want 5 (1ms per step at 1000Hz)", app.ticks)
	}
	if !app.closed {
		t.Fatal("app was not closed")
	}
	if !strings.Contains(logs.String(), "hello") {
		t.Fatalf("log output = %q", logs.String())
	}
}

func TestRunHeadlessCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunHeadless(ctx, HostConfig{}, HeadlessConfig{Hz: 1000}, func(h HAL) (App, error) {
		return &countingApp{h: h}, nil
	})
	if err != context.Canceled {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
}
