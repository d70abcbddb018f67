package app

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"heroscene/hal"
	"heroscene/scene"
)

type memFB struct {
	w, h     int
	buf      []byte
	presents int
}

func (f *memFB) Width() int              { return f.w }
func (f *memFB) Height() int             { return f.h }
func (f *memFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *memFB) StrideBytes() int        { return f.w * 2 }
func (f *memFB) Buffer() []byte          { return f.buf }
func (f *memFB) Present() error          { f.presents++; return nil }
func (f *memFB) ClearRGB(r, g, b uint8) {
	p := hal.RGB565(r, g, b)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i], f.buf[i+1] = byte(p), byte(p>>8)
	}
}

func (f *memFB) pixel(x, y int) uint16 {
	off := y*f.w*2 + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

type fakeHAL struct {
	log   *recLogger
	fb    hal.Framebuffer
	ticks chan uint64
	keys  chan hal.KeyEvent

	widths chan int
	w, h   int

	px, py int
	pok    bool
}

func newFakeHAL(w, h int) *fakeHAL {
	return &fakeHAL{
		log:    &recLogger{},
		fb:     &memFB{w: 64, h: 48, buf: make([]byte, 64*48*2)},
		ticks:  make(chan uint64, 64),
		keys:   make(chan hal.KeyEvent, 8),
		widths: make(chan int, 8),
		w:      w,
		h:      h,
	}
}

func (f *fakeHAL) Logger() hal.Logger     { return f.log }
func (f *fakeHAL) Display() hal.Display   { return f }
func (f *fakeHAL) Input() hal.Input       { return f }
func (f *fakeHAL) Time() hal.Time         { return f }
func (f *fakeHAL) Viewport() hal.Viewport { return f }

func (f *fakeHAL) Framebuffer() hal.Framebuffer  { return f.fb }
func (f *fakeHAL) Keyboard() hal.Keyboard        { return f }
func (f *fakeHAL) Pointer() hal.Pointer          { return f }
func (f *fakeHAL) Events() <-chan hal.KeyEvent   { return f.keys }
func (f *fakeHAL) Position() (x, y int, ok bool) { return f.px, f.py, f.pok }
func (f *fakeHAL) Ticks() <-chan uint64          { return f.ticks }
func (f *fakeHAL) Size() (w, h int)              { return f.w, f.h }
func (f *fakeHAL) Widths() <-chan int            { return f.widths }

func (f *fakeHAL) resize(w int) {
	f.w = w
	f.widths <- w
}

type recLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *recLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func newTestApp(t *testing.T, h *fakeHAL, cfg Config) *App {
	t.Helper()
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	a, err := New(h, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestStepDrawsOnlyForNewTicks(t *testing.T) {
	h := newFakeHAL(480, 320)
	a := newTestApp(t, h, Config{})
	fb := h.fb.(*memFB)

	if err := a.Step(); err != nil || fb.presents != 0 {
		t.Fatalf("no ticks: err=%v presents=%d", err, fb.presents)
	}
	h.ticks <- 999
	h.ticks <- 1000
	if err := a.Step(); err != nil || fb.presents != 1 {
		t.Fatalf("first tick: err=%v presents=%d", err, fb.presents)
	}
	h.ticks <- 1033
	_ = a.Step()
	if got := a.Driver().Snapshot().Tick; got != 0.033 {
		t.Fatalf("tick = %v; want 0.033", got)
	}
	h.ticks <- 1020
	_ = a.Step()
	if fb.presents != 2 {
		t.Fatalf("stale tick drew a frame: presents=%d", fb.presents)
	}
}

func TestStepFollowsBreakpoint(t *testing.T) {
	h := newFakeHAL(1024, 600)
	a := newTestApp(t, h, Config{})
	if c := a.Driver().Snapshot().Class; c != scene.Full {
		t.Fatalf("class = %v; want full", c)
	}

	h.resize(900)
	h.ticks <- 1
	_ = a.Step()
	if s := a.Driver().Snapshot(); s.Class != scene.Full || s.Particles != 5000 {
		t.Fatalf("after 900: %+v", s)
	}

	h.resize(480)
	h.ticks <- 2
	_ = a.Step()
	if s := a.Driver().Snapshot(); s.Class != scene.Compact || s.Particles != 1000 || s.Label {
		t.Fatalf("after 480: %+v", s)
	}
}

func TestF1TogglesHUD(t *testing.T) {
	h := newFakeHAL(480, 320)
	a := newTestApp(t, h, Config{})
	fb := h.fb.(*memFB)
	bg := hal.RGB565(hudBG.R, hudBG.G, hudBG.B)

	h.ticks <- 1
	_ = a.Step()
	if fb.pixel(1, 1) == bg {
		t.Fatal("HUD drawn while hidden")
	}

	h.keys <- hal.KeyEvent{Code: hal.KeyF1, Press: true}
	h.keys <- hal.KeyEvent{Code: hal.KeyF1, Press: false}
	h.ticks <- 2
	_ = a.Step()
	if !a.hud {
		t.Fatal("F1 did not enable the HUD")
	}
	if fb.pixel(1, 1) != bg {
		t.Fatalf("HUD background missing: %#04x", fb.pixel(1, 1))
	}
}

func TestHUDLine(t *testing.T) {
	var h hudText
	s := scene.Snapshot{State: scene.StateActive, Class: scene.Compact, Degraded: true, Particles: 1000, Shapes: 2}
	line := h.format(s)
	for _, want := range []string{"compact", "active", "no model", "1000p", "2s"} {
		if !strings.Contains(line, want) {
			t.Fatalf("HUD line %q missing %q", line, want)
		}
	}
	s.Frames = 99
	if h.format(s) != line {
		t.Fatal("frame count must not change the line")
	}
}

func TestCloseTearsDown(t *testing.T) {
	h := newFakeHAL(480, 320)
	a, err := New(h, Config{})
	if err != nil {
		t.Fatal(err)
	}
	a.Close()
	a.Close()
	if s := a.Driver().Snapshot(); s.State != scene.StateTornDown {
		t.Fatalf("state = %v; want torn-down", s.State)
	}
}

func TestNewWithoutFramebuffer(t *testing.T) {
	h := newFakeHAL(480, 320)
	h.fb = nil
	if _, err := New(h, Config{}); !errors.Is(err, scene.ErrUnsupportedContext) {
		t.Fatalf("err = %v; want ErrUnsupportedContext", err)
	}
}

func TestModelFailureIsLoggedNotFatal(t *testing.T) {
	h := newFakeHAL(1024, 600)
	a := newTestApp(t, h, Config{Model: "testdata/does-not-exist.glb"})
	<-a.Driver().Loaded()
	for seq := uint64(1); seq <= 3; seq++ {
		h.ticks <- seq
		if err := a.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if s := a.Driver().Snapshot(); s.State != scene.StateActive || !s.Degraded {
		t.Fatalf("snapshot = %+v", s)
	}
	n := 0
	for _, l := range h.log.lines {
		if strings.Contains(l, "model load failed") {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("failure logged %d times; want 1 (%v)", n, h.log.lines)
	}
}

func TestRecoverStep(t *testing.T) {
	l := &recLogger{}
	step := func() (err error) {
		defer recoverStep(l, &err)
		panic("boom")
	}
	err := step()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v", err)
	}
	if len(l.lines) < 2 || !strings.Contains(l.lines[0], "boom") {
		t.Fatalf("log = %v", l.lines)
	}
}
