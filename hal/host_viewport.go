package hal

import "sync"

type hostViewport struct {
	mu   sync.Mutex
	w, h int
	ch   chan int
}

func newHostViewport(w, h int) *hostViewport {
	return &hostViewport{w: w, h: h, ch: make(chan int, 8)}
}

func (v *hostViewport) Size() (w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.w, v.h
}

func (v *hostViewport) Widths() <-chan int { return v.ch }

// set records a new layout size and emits the width if it changed. When the
// queue is full the oldest width is dropped; only the latest one matters.
func (v *hostViewport) set(w, h int) {
	v.mu.Lock()
	changed := w != v.w
	v.w, v.h = w, h
	v.mu.Unlock()
	if !changed {
		return
	}
	for {
		select {
		case v.ch <- w:
			return
		default:
		}
		select {
		case <-v.ch:
		default:
		}
	}
}
