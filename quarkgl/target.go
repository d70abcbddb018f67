package quarkgl

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// Blender is implemented by targets that can read back pixels.
//
// Without it, translucent materials and additive points fall back to SetPixel.
type Blender interface {
	Pixel(x, y int) Color
}

// RenderMode selects the rasterization mode.
type RenderMode uint8

const (
	RenderWireframe RenderMode = iota
	RenderSolidFlat
	RenderSolidVertexColor
)

// BlendMode selects how a fragment combines with the target.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendAdditive
)

func writePixel(t Target, b Blender, x, y int, c Color, mode BlendMode) {
	if b == nil {
		t.SetPixel(x, y, c)
		return
	}
	switch {
	case mode == BlendAdditive:
		t.SetPixel(x, y, c.AddTo(b.Pixel(x, y)))
	case c.A < 0xFF:
		t.SetPixel(x, y, c.Over(b.Pixel(x, y)))
	default:
		t.SetPixel(x, y, c)
	}
}
