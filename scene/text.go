package scene

import (
	"image/color"

	"heroscene/hal"
	"heroscene/quarkgl"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var labelFont = &proggy.TinySZ8pt7b

var _ drivers.Displayer = (*textMask)(nil)

// textMask is an offscreen 1-bit canvas that tinyfont renders into, so text
// can be scaled before it reaches the framebuffer.
type textMask struct {
	w, h int16
	bits []bool

	minX, minY int16
	maxX, maxY int16
}

func newTextMask(s string) *textMask {
	_, outbox := tinyfont.LineWidth(labelFont, s)
	lh := int16(labelFont.YAdvance)
	m := &textMask{
		w:    int16(outbox) + 2,
		h:    lh * 2,
		minX: 1<<15 - 1,
		minY: 1<<15 - 1,
		maxX: -1,
		maxY: -1,
	}
	m.bits = make([]bool, int(m.w)*int(m.h))
	tinyfont.WriteLine(m, labelFont, 1, lh, s, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	return m
}

func (m *textMask) Size() (x, y int16) { return m.w, m.h }

func (m *textMask) SetPixel(x, y int16, _ color.RGBA) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	m.bits[int(y)*int(m.w)+int(x)] = true
	m.minX = min(m.minX, x)
	m.minY = min(m.minY, y)
	m.maxX = max(m.maxX, x)
	m.maxY = max(m.maxY, y)
}

func (m *textMask) Display() error { return nil }

func (m *textMask) empty() bool { return m.maxX < m.minX }

// height is the inked height in mask pixels.
func (m *textMask) height() int { return int(m.maxY-m.minY) + 1 }

// blit draws the inked part of m scaled by sx, sy and centered on (cx, cy).
func (m *textMask) blit(fb hal.Framebuffer, cx, cy int, sx, sy float32, c quarkgl.Color) {
	if m.empty() || sx <= 0 || sy <= 0 {
		return
	}
	fw, fh := fb.Width(), fb.Height()
	bw := int(m.maxX-m.minX) + 1
	bh := m.height()
	dw := int(float32(bw)*sx + 0.5)
	dh := int(float32(bh)*sy + 0.5)
	if dw <= 0 || dh <= 0 || dw > 4*fw || dh > 4*fh {
		return
	}
	x0 := cx - dw/2
	y0 := cy - dh/2
	for dy := 0; dy < dh; dy++ {
		y := y0 + dy
		if y < 0 || y >= fh {
			continue
		}
		srcY := int(m.minY) + min(int(float32(dy)/sy), bh-1)
		row := srcY * int(m.w)
		for dx := 0; dx < dw; dx++ {
			x := x0 + dx
			if x < 0 || x >= fw {
				continue
			}
			srcX := int(m.minX) + min(int(float32(dx)/sx), bw-1)
			if m.bits[row+srcX] {
				hal.SetPixel565(fb, x, y, c.R, c.G, c.B)
			}
		}
	}
}
