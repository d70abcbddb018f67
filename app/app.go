package app

import (
	"context"
	"fmt"

	"heroscene/asset"
	"heroscene/hal"
	"heroscene/internal/buildinfo"
	"heroscene/scene"
)

// Config selects the model and tunes the scene.
type Config struct {
	// Model is a file path or http(s) URL; empty runs without a model.
	Model   string
	Seed    uint64
	Workers int
	// HUD starts with the status line visible. F1 toggles it.
	HUD bool
}

// App feeds host events into the scene driver once per Step.
type App struct {
	h   hal.HAL
	cfg Config

	d       *scene.Driver
	watcher scene.ViewportWatcher
	clock   scene.Clock
	keys    <-chan hal.KeyEvent

	hud     bool
	hudText hudText
}

// New initializes the scene for the current viewport width.
func New(h hal.HAL, cfg Config) (*App, error) {
	a := &App{h: h, cfg: cfg, hud: cfg.HUD}
	if in := h.Input(); in != nil && in.Keyboard() != nil {
		a.keys = in.Keyboard().Events()
	}

	opts := scene.Options{
		Logger:  h.Logger(),
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
		Overlay: a.drawHUD,
	}
	if cfg.Model != "" {
		opts.Model = asset.Source{Ref: cfg.Model}
	}
	a.d = scene.NewDriver(h.Display(), opts)

	w, _ := h.Viewport().Size()
	class, _ := a.watcher.Observe(w)
	if err := a.d.Initialize(context.Background(), class); err != nil {
		return nil, err
	}
	a.logf("heroscene %s: %s class, width %d", buildinfo.Short(), class, w)
	return a, nil
}

// Driver exposes the scene driver, mostly for tools and tests.
func (a *App) Driver() *scene.Driver { return a.d }

// Step handles pending viewport and key events, then draws a frame for the
// newest tick. Without a new tick nothing is drawn.
func (a *App) Step() (err error) {
	defer recoverStep(a.h.Logger(), &err)

	a.pollViewport()
	a.pollKeys()

	seq, ok := latestTick(a.h.Time())
	if !ok {
		return nil
	}
	tick, ok := a.clock.Advance(seq)
	if !ok {
		return nil
	}

	f := scene.Frame{Tick: tick}
	f.Width, f.Height = a.h.Viewport().Size()
	if in := a.h.Input(); in != nil && in.Pointer() != nil {
		x, y, valid := in.Pointer().Position()
		f.Pointer = scene.Pointer{X: float64(x), Y: float64(y), Valid: valid}
	}
	a.d.OnFrame(f)
	return nil
}

// Close tears the scene down.
func (a *App) Close() {
	a.d.Teardown()
}

func (a *App) pollViewport() {
	ch := a.h.Viewport().Widths()
	for {
		select {
		case w := <-ch:
			if c, changed := a.watcher.Observe(w); changed {
				a.logf("heroscene: width %d, switching to %s", w, c)
				a.d.OnViewportClassChange(c)
			}
		default:
			return
		}
	}
}

func (a *App) pollKeys() {
	if a.keys == nil {
		return
	}
	for {
		select {
		case ev := <-a.keys:
			if ev.Press && ev.Code == hal.KeyF1 {
				a.hud = !a.hud
			}
		default:
			return
		}
	}
}

// latestTick drains the tick stream and returns the newest sequence.
func latestTick(t hal.Time) (uint64, bool) {
	if t == nil {
		return 0, false
	}
	ch := t.Ticks()
	var last uint64
	got := false
	for {
		select {
		case seq := <-ch:
			last, got = seq, true
		default:
			return last, got
		}
	}
}

func (a *App) logf(format string, args ...any) {
	if l := a.h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf(format, args...))
	}
}
