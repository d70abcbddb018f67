package quarkgl

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// RGBF builds an opaque color from 0..1 channels.
func RGBF(r, g, b Scalar) Color {
	return RGB(unit8(r), unit8(g), unit8(b))
}

// Hex parses "#RRGGBB" (the leading '#' is optional).
func Hex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("quarkgl: bad hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("quarkgl: bad hex color %q: %w", s, err)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// MustHex is Hex for compile-time palette constants.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) MulScalar(s Scalar) Color {
	t := uint32(Clamp01(s) * 255)
	mul := func(ch uint8) uint8 {
		return uint8((uint32(ch) * t) / 255)
	}
	return Color{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: c.A}
}

func (c Color) WithAlpha(a uint8) Color { c.A = a; return c }

// Over blends c over dst using c.A as coverage.
func (c Color) Over(dst Color) Color {
	a := uint32(c.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255)
	}
	return Color{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: 0xFF}
}

// AddTo adds c (scaled by c.A) onto dst, saturating each channel.
func (c Color) AddTo(dst Color) Color {
	a := uint32(c.A)
	add := func(s, d uint8) uint8 {
		v := uint32(d) + uint32(s)*a/255
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return Color{R: add(c.R, dst.R), G: add(c.G, dst.G), B: add(c.B, dst.B), A: 0xFF}
}

func unit8(v Scalar) uint8 {
	return uint8(Clamp01(v)*255 + 0.5)
}
