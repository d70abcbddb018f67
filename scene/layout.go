package scene

import "heroscene/quarkgl"

// ShapeSpec places one orbiting shape.
type ShapeSpec struct {
	Position quarkgl.Vec3
	Scale    float32
	Color    quarkgl.Color
}

type SphereSpec struct {
	Position       quarkgl.Vec3
	Scale          float32
	Color          quarkgl.Color
	Opacity        uint8
	Distort        float32
	Speed          float32
	WidthSegments  int
	HeightSegments int
}

type ModelSpec struct {
	Position quarkgl.Vec3
	Rotation quarkgl.Vec3
	Scale    float32
}

type ParticleSpec struct {
	Count int
	Edge  float32 // cube edge the field is sampled in
	Size  float32 // world units
}

type LabelSpec struct {
	Text     string
	Position quarkgl.Vec3
	Size     float32 // glyph height in world units
	Color    quarkgl.Color
}

// StarSpec is a camera-centred backdrop cloud in a cube of edge Edge.
type StarSpec struct {
	Count   int
	Edge    float32
	Color   quarkgl.Color
	Opacity uint8
	Size    float32 // pixels
	Rate    float32 // rad/s about x and y
}

type CameraSpec struct {
	Position   quarkgl.Vec3
	FOV        float32 // degrees
	AutoRotate float32 // turns per minute
	Damping    float32
}

type LightSpec struct {
	Ambient float32
	Key     float32
	Fill    float32 // 0 disables the fill light
}

// Layout is the full element and rig configuration for one class.
type Layout struct {
	Shapes []ShapeSpec
	// ShapeAmplitude is the vertical bob of every shape.
	ShapeAmplitude float32
	// ShapeScale multiplies every shape's scale.
	ShapeScale float32
	// MinShapeScale culls shapes whose layout scale is below it.
	MinShapeScale float32
	SolidShapes   bool

	Sphere    SphereSpec
	Model     ModelSpec
	Particles ParticleSpec
	Label     *LabelSpec // nil: no label
	Stars     StarSpec
	Dust      StarSpec
	Camera    CameraSpec
	Light     LightSpec
	Clear     quarkgl.Color
}

var (
	accent = quarkgl.MustHex("#915EFF")
	coral  = quarkgl.MustHex("#FF6B6B")
	teal   = quarkgl.MustHex("#4ECDC4")
	sky    = quarkgl.MustHex("#45B7D1")
	sage   = quarkgl.MustHex("#96CEB4")
	white  = quarkgl.RGB(0xFF, 0xFF, 0xFF)
)

// DefaultLayout returns the stock layout for c.
func DefaultLayout(c Class) Layout {
	if c == Compact {
		return Layout{
			Shapes: []ShapeSpec{
				{Position: quarkgl.V3(-3, 1, -4), Scale: 0.5, Color: coral},
				{Position: quarkgl.V3(3, -1, -5), Scale: 0.6, Color: teal},
			},
			ShapeAmplitude: 0.25,
			ShapeScale:     0.7,
			MinShapeScale:  0.3,
			SolidShapes:    true,
			Sphere: SphereSpec{
				Position: quarkgl.V3(2, 0, -5), Scale: 1.5, Color: accent, Opacity: 0x99,
				Distort: 0.3, Speed: 2, WidthSegments: 64, HeightSegments: 32,
			},
			Model: ModelSpec{
				Position: quarkgl.V3(0, -3, -2.2),
				Rotation: quarkgl.V3(-0.01, -0.2, -0.1),
				Scale:    0.7,
			},
			Particles: ParticleSpec{Count: 1000, Edge: 20, Size: 0.15},
			Stars:     StarSpec{Count: 4000, Edge: 2000, Color: white, Opacity: 0xFF, Size: 1, Rate: 0.03},
			Dust:      StarSpec{Count: 1000, Edge: 1000, Color: accent, Opacity: 0xCC, Size: 1, Rate: 0.06},
			Camera:    CameraSpec{Position: quarkgl.V3(10, 3, 10), FOV: 30, AutoRotate: 0.3, Damping: 0.05},
			Light:     LightSpec{Ambient: 0.2, Key: 0.8},
			Clear:     quarkgl.RGB(0x14, 0x10, 0x1C),
		}
	}
	return Layout{
		Shapes: []ShapeSpec{
			{Position: quarkgl.V3(-6, 1, -3), Scale: 0.5, Color: coral},
			{Position: quarkgl.V3(6, -1, -4), Scale: 0.7, Color: teal},
			{Position: quarkgl.V3(2, 3, -2), Scale: 0.4, Color: sky},
			{Position: quarkgl.V3(-3, -2, -5), Scale: 0.6, Color: sage},
		},
		ShapeAmplitude: 0.5,
		ShapeScale:     1,
		Sphere: SphereSpec{
			Position: quarkgl.V3(4, 0, 0), Scale: 2, Color: accent, Opacity: 0x99,
			Distort: 0.5, Speed: 2, WidthSegments: 200, HeightSegments: 100,
		},
		Model: ModelSpec{
			Position: quarkgl.V3(0, -3.25, -1.5),
			Rotation: quarkgl.V3(-0.01, -0.2, -0.1),
			Scale:    0.75,
		},
		Particles: ParticleSpec{Count: 5000, Edge: 50, Size: 0.1},
		Label: &LabelSpec{
			Text:     "DEVELOPER",
			Position: quarkgl.V3(-4, 2, 0),
			Size:     0.5,
			Color:    accent,
		},
		Stars:  StarSpec{Count: 10000, Edge: 2000, Color: white, Opacity: 0xFF, Size: 1, Rate: 0.03},
		Dust:   StarSpec{Count: 1000, Edge: 1000, Color: accent, Opacity: 0xCC, Size: 2, Rate: 0.06},
		Camera: CameraSpec{Position: quarkgl.V3(20, 3, 5), FOV: 25, AutoRotate: 0.5, Damping: 0.05},
		Light:  LightSpec{Ambient: 0.15, Key: 1, Fill: 0.5},
		Clear:  quarkgl.RGB(0x05, 0x08, 0x12),
	}
}
