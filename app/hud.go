package app

import (
	"fmt"
	"image/color"

	"heroscene/hal"
	"heroscene/internal/buildinfo"
	"heroscene/scene"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var hudFont = &proggy.TinySZ8pt7b

var (
	hudFG = color.RGBA{R: 0xE0, G: 0xE8, B: 0xFF, A: 0xFF}
	hudBG = color.RGBA{R: 0x05, G: 0x08, B: 0x12, A: 0xFF}
)

// hudText caches the last status line so it is only formatted on change.
type hudText struct {
	key  hudKey
	line string
}

type hudKey struct {
	class     scene.Class
	state     scene.State
	degraded  bool
	particles int
	shapes    int
}

func (h *hudText) format(s scene.Snapshot) string {
	key := hudKey{s.Class, s.State, s.Degraded, s.Particles, s.Shapes}
	if h.line != "" && key == h.key {
		return h.line
	}
	h.key = key
	state := s.State.String()
	if s.Degraded {
		state += " (no model)"
	}
	h.line = fmt.Sprintf("%s  %s  %s  %dp %ds", buildinfo.Short(), s.Class, state, s.Particles, s.Shapes)
	return h.line
}

// drawHUD is the scene overlay hook. It runs while the driver is locked.
func (a *App) drawHUD(fb hal.Framebuffer, s scene.Snapshot) {
	if !a.hud || fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	var d drivers.Displayer = &fbDisplayer{fb: fb}
	line := a.hudText.format(s)
	_, w := tinyfont.LineWidth(hudFont, line)
	fillRect(d, 0, 0, int16(w)+6, int16(hudFont.YAdvance)+4, hudBG)
	tinyfont.WriteLine(d, hudFont, 3, int16(hudFont.YAdvance), line, hudFG)
}

func fillRect(d drivers.Displayer, x, y, w, h int16, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			d.SetPixel(xx, yy, c)
		}
	}
}

type fbDisplayer struct {
	fb hal.Framebuffer
}

func (d *fbDisplayer) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	hal.SetPixel565(d.fb, int(x), int(y), c.R, c.G, c.B)
}

func (d *fbDisplayer) Display() error { return nil }
