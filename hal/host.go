package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// HostConfig sizes the host render surface and the initial layout box.
type HostConfig struct {
	// Framebuffer resolution the scene renders at.
	Width, Height int
	// Layout size in logical pixels (what a page would report for the canvas).
	LayoutWidth, LayoutHeight int
	// Log receives logger lines; nil means stdout.
	Log io.Writer
}

func (c HostConfig) withDefaults() HostConfig {
	if c.Width <= 0 {
		c.Width = 480
	}
	if c.Height <= 0 {
		c.Height = 270
	}
	if c.LayoutWidth <= 0 {
		c.LayoutWidth = c.Width * 2
	}
	if c.LayoutHeight <= 0 {
		c.LayoutHeight = c.Height * 2
	}
	if c.Log == nil {
		c.Log = os.Stdout
	}
	return c
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer
	t      *hostTime
	vp     *hostViewport
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	cfg = cfg.withDefaults()
	return &hostHAL{
		logger: &hostLogger{w: cfg.Log},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:    newHostKeyboard(),
		ptr:    &hostPointer{},
		t:      newHostTime(),
		vp:     newHostViewport(cfg.LayoutWidth, cfg.LayoutHeight),
	}
}

func (h *hostHAL) Logger() Logger     { return h.logger }
func (h *hostHAL) Display() Display   { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input       { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Time() Time         { return h.t }
func (h *hostHAL) Viewport() Viewport { return h.vp }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostPointer struct {
	mu    sync.Mutex
	x, y  int
	valid bool
}

func (p *hostPointer) Position() (x, y int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y, p.valid
}

func (p *hostPointer) set(x, y int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.x, p.y, p.valid = x, y, ok
}
