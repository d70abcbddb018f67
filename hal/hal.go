package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEscape
	KeyF1
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Pointer reports the last known cursor position in layout pixels.
type Pointer interface {
	Position() (x, y int, ok bool)
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Viewport describes the host layout box the canvas is placed in.
//
// Widths delivers the layout width whenever it changes; it is not polled.
type Viewport interface {
	Size() (w, h int)
	Widths() <-chan int
}

// Time provides a base tick stream.
//
// Host ticks are milliseconds; higher-level clocks live in the scene.
type Time interface {
	Ticks() <-chan uint64
}

// HAL is the only contact point between the scene and the host.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
	Viewport() Viewport
}

// App is driven by a host runner once per frame.
type App interface {
	Step() error
	Close()
}
