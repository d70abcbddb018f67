package scene

// Tick is elapsed scene time in seconds.
type Tick float64

// Seconds returns t as float64.
func (t Tick) Seconds() float64 { return float64(t) }

// Clock converts the host millisecond tick sequence into scene time.
//
// The first accepted sequence is t=0. Sequences that are not newer than the
// last accepted one are rejected.
type Clock struct {
	origin  uint64
	last    uint64
	started bool
}

// Advance accepts seq and returns the scene time it stands for.
func (c *Clock) Advance(seq uint64) (Tick, bool) {
	if !c.started {
		c.origin, c.last, c.started = seq, seq, true
		return 0, true
	}
	if seq <= c.last {
		return 0, false
	}
	c.last = seq
	return Tick(float64(seq-c.origin) / 1000), true
}

// Now returns the time of the last accepted sequence.
func (c *Clock) Now() Tick {
	if !c.started {
		return 0
	}
	return Tick(float64(c.last-c.origin) / 1000)
}

// Pointer is the last known cursor position in layout pixels.
type Pointer struct {
	X, Y  float64
	Valid bool
}

// Frame carries everything one OnFrame call reads from the host.
type Frame struct {
	Tick    Tick
	Pointer Pointer

	// Layout size the pointer is measured in. Zero means the framebuffer size.
	Width, Height int
}
