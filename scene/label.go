package scene

import (
	"math"

	"heroscene/hal"
	"heroscene/quarkgl"
)

// FloatingLabel is billboard text that sways and bobs.
type FloatingLabel struct {
	Base
	Text string

	mask *textMask
}

func newLabel(spec LabelSpec) *FloatingLabel {
	return &FloatingLabel{
		Base: Base{Position: spec.Position, Scale: spec.Size, Color: spec.Color},
		Text: spec.Text,
	}
}

func (l *FloatingLabel) Kind() Kind { return KindLabel }

func (l *FloatingLabel) Pose(t Tick) Pose {
	p := l.Position
	p.Y += wave(2, t) * 0.1
	return Pose{
		Position: p,
		Rotation: quarkgl.V3(0, wave(0.5, t)*0.2, 0),
		Scale:    l.Scale,
	}
}

// The label is an overlay; it takes no scene slots.
func (l *FloatingLabel) attach(*quarkgl.Scene) error {
	if l.mask == nil {
		l.mask = newTextMask(l.Text)
	}
	return nil
}

func (l *FloatingLabel) update(*quarkgl.Scene, Tick) {}
func (l *FloatingLabel) detach(*quarkgl.Scene)      {}

// drawOverlay renders the text with Scale world units of glyph height; the
// yaw shows up as a horizontal squeeze.
func (l *FloatingLabel) drawOverlay(fb hal.Framebuffer, p quarkgl.Projector, t Tick) {
	if l.mask == nil || l.mask.empty() {
		return
	}
	pose := l.Pose(t)
	x, y, w, ok := p.Project(pose.Position)
	if !ok {
		return
	}
	px := pose.Scale * p.PixelsPerUnit(w)
	sy := px / float32(l.mask.height())
	sx := sy * float32(math.Abs(math.Cos(float64(pose.Rotation.Y))))
	l.mask.blit(fb, x, y, sx, sy, l.Color)
}
