package scene

import "heroscene/quarkgl"

// shapeGeometry is shared by every shape; it is never deformed.
var shapeGeometry = quarkgl.Icosahedron(1, 1)

// OrbitingShape is a small icosahedron that spins and bobs in place.
type OrbitingShape struct {
	Base
	Amplitude float32
	Solid     bool

	id int
}

func newShape(spec ShapeSpec, l Layout) *OrbitingShape {
	scale := l.ShapeScale
	if scale == 0 {
		scale = 1
	}
	return &OrbitingShape{
		Base:      Base{Position: spec.Position, Scale: spec.Scale * scale, Color: spec.Color},
		Amplitude: l.ShapeAmplitude,
		Solid:     l.SolidShapes,
		id:        -1,
	}
}

// visibleShapes applies the minimum-scale cull of l.
func visibleShapes(l Layout) []ShapeSpec {
	out := make([]ShapeSpec, 0, len(l.Shapes))
	for _, s := range l.Shapes {
		if s.Scale < l.MinShapeScale {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (s *OrbitingShape) Kind() Kind { return KindShape }

func (s *OrbitingShape) Pose(t Tick) Pose {
	p := s.Position
	p.Y += wave(1, t) * s.Amplitude
	return Pose{
		Position: p,
		Rotation: quarkgl.V3(angle(0.2, t), angle(0.3, t), 0),
		Scale:    s.Scale,
	}
}

func (s *OrbitingShape) attach(sc *quarkgl.Scene) error {
	m := shapeGeometry
	m.Material = quarkgl.Material{
		BaseColor: s.Color,
		Opacity:   0xCC,
		Wireframe: !s.Solid,
		Emissive:  0.2,
	}
	m.Transform = s.Pose(0).Matrix()
	s.id = sc.AddMesh(m)
	if s.id < 0 {
		return errSceneFull
	}
	return nil
}

func (s *OrbitingShape) update(sc *quarkgl.Scene, t Tick) {
	sc.UpdateMeshTransform(s.id, s.Pose(t).Matrix())
}

func (s *OrbitingShape) detach(sc *quarkgl.Scene) {
	if s.id >= 0 {
		sc.RemoveMesh(s.id)
		s.id = -1
	}
}
