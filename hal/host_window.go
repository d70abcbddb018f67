//go:build cgo

package hal

import (
	"heroscene/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a resizable desktop window that displays the framebuffer
// and forwards the layout width, cursor and keys. It blocks until the window
// closes or the app returns an error. Esc closes the window.
func RunWindow(host HostConfig, newApp func(HAL) (App, error)) error {
	h := newHost(host)
	app, err := newApp(h)
	if err != nil {
		return err
	}
	defer app.Close()

	lw, lh := h.vp.Size()
	g := &hostGame{h: h, app: app, outW: lw, outH: lh}
	ebiten.SetWindowTitle("heroscene (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(lw, lh)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	app     App
	rgba    []byte
	fbImg   *ebiten.Image
	scratch []byte

	outW, outH int
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.pollPointer()
	g.h.t.step(1)
	return g.app.Step()
}

// pollPointer converts the cursor from framebuffer to layout pixels.
func (g *hostGame) pollPointer() {
	fb := g.h.fb
	cx, cy := ebiten.CursorPosition()
	if fb.width <= 0 || fb.height <= 0 || g.outW <= 0 || g.outH <= 0 {
		g.h.ptr.set(0, 0, false)
		return
	}
	inside := cx >= 0 && cy >= 0 && cx < fb.width && cy < fb.height
	g.h.ptr.set(cx*g.outW/fb.width, cy*g.outH/fb.height, inside)
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != fb.width || g.fbImg.Bounds().Dy() != fb.height {
		g.rgba = make([]byte, fb.width*fb.height*4)
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)
	RGB565ToRGBA(g.rgba, g.scratch)
	g.fbImg.WritePixels(g.rgba)
	screen.DrawImage(g.fbImg, nil)
}

// Layout reports the outside size as the page layout box and keeps the
// framebuffer resolution as the logical screen.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.outW, g.outH = outsideWidth, outsideHeight
		g.h.vp.set(outsideWidth, outsideHeight)
	}
	return g.h.fb.width, g.h.fb.height
}
