package hal

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Resize changes the headless layout width before the given tick is stepped.
type Resize struct {
	AtTick uint64
	Width  int
}

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Resizes []Resize
}

// ParseResizes parses "tick:width[,tick:width...]".
func ParseResizes(s string) ([]Resize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []Resize
	for _, part := range strings.Split(s, ",") {
		tick, width, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("resize %q: want tick:width", part)
		}
		at, err := strconv.ParseUint(tick, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("resize %q: tick: %w", part, err)
		}
		w, err := strconv.Atoi(width)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("resize %q: width must be a positive integer", part)
		}
		out = append(out, Resize{AtTick: at, Width: w})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AtTick < out[j].AtTick })
	return out, nil
}

// RunHeadless drives the app at a fixed rate without opening a window. Time
// advances by exactly 1/Hz per step, so runs are reproducible.
func RunHeadless(ctx context.Context, host HostConfig, cfg HeadlessConfig, newApp func(HAL) (App, error)) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost(host)
	app, err := newApp(h)
	if err != nil {
		return err
	}
	defer app.Close()

	t := time.NewTicker(d)
	defer t.Stop()

	resizes := cfg.Resizes
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			tick++
			for len(resizes) > 0 && resizes[0].AtTick <= tick {
				_, lh := h.vp.Size()
				h.vp.set(resizes[0].Width, lh)
				resizes = resizes[1:]
			}
			h.t.advance(d)
			if err := app.Step(); err != nil {
				return err
			}
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
