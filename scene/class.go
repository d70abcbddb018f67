package scene

// Class is the coarse device bucket derived from the layout width.
type Class uint8

const (
	Compact Class = iota + 1
	Full
)

// Breakpoint is the widest layout width, in logical pixels, that is still Compact.
const Breakpoint = 768

// ClassForWidth maps a layout width to its class.
func ClassForWidth(w int) Class {
	if w <= Breakpoint {
		return Compact
	}
	return Full
}

func (c Class) valid() bool { return c == Compact || c == Full }

func (c Class) String() string {
	switch c {
	case Compact:
		return "compact"
	case Full:
		return "full"
	default:
		return "invalid"
	}
}

// ViewportWatcher turns width events into class transitions.
//
// It is fed from breakpoint events, not polled per frame.
type ViewportWatcher struct {
	class Class
}

// Observe records a new layout width. changed is true on the first
// observation and whenever the width crosses Breakpoint.
func (w *ViewportWatcher) Observe(width int) (c Class, changed bool) {
	c = ClassForWidth(width)
	if c == w.class {
		return c, false
	}
	w.class = c
	return c, true
}

// Class returns the last observed class, or 0 before any observation.
func (w *ViewportWatcher) Class() Class { return w.class }
