package scene

import (
	"errors"
	"math"

	"heroscene/hal"
	"heroscene/quarkgl"
)

// Kind identifies an element variant.
type Kind uint8

const (
	KindShape Kind = iota + 1
	KindSphere
	KindModel
	KindParticles
	KindLabel
	KindStars
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindSphere:
		return "sphere"
	case KindModel:
		return "model"
	case KindParticles:
		return "particles"
	case KindLabel:
		return "label"
	case KindStars:
		return "stars"
	default:
		return "unknown"
	}
}

// Base holds the attributes every element is placed from.
type Base struct {
	Position quarkgl.Vec3
	Scale    float32
	Color    quarkgl.Color
}

// Pose is an element transform at one tick.
type Pose struct {
	Position quarkgl.Vec3
	Rotation quarkgl.Vec3 // euler XYZ, radians
	Scale    float32
}

// Matrix returns the object transform for p.
func (p Pose) Matrix() quarkgl.Mat4 {
	return quarkgl.Mat4TRS(p.Position, p.Rotation, p.Scale)
}

// Element is one animated object of the scene.
//
// Pose must be a pure function of t and the element's base attributes.
// attach/update/detach bind the element to scene slots; only the driver
// calls them.
type Element interface {
	Kind() Kind
	Pose(t Tick) Pose

	attach(s *quarkgl.Scene) error
	update(s *quarkgl.Scene, t Tick)
	detach(s *quarkgl.Scene)
}

// overlay is implemented by elements drawn straight into the framebuffer
// after the 3D pass.
type overlay interface {
	drawOverlay(fb hal.Framebuffer, p quarkgl.Projector, t Tick)
}

var errSceneFull = errors.New("no free scene slot")

const twoPi = 2 * math.Pi

// angle returns rate*t wrapped to [0, 2π). The wrap runs in float64 so long
// sessions keep full precision.
func angle(rate float64, t Tick) float32 {
	a := math.Mod(rate*float64(t), twoPi)
	if a < 0 {
		a += twoPi
	}
	return float32(a)
}

func wave(freq float64, t Tick) float32 {
	return float32(math.Sin(math.Mod(freq*float64(t), twoPi)))
}
