package scene

import (
	"math"

	"heroscene/quarkgl"
)

// DistortingSphere is a translucent sphere whose surface wobbles over time.
type DistortingSphere struct {
	Base
	Opacity uint8
	Distort float32
	Speed   float32

	unit  []quarkgl.Vec3 // undeformed unit-sphere positions
	verts []quarkgl.Vertex
	mesh  quarkgl.Mesh
	id    int
}

func newSphere(spec SphereSpec) *DistortingSphere {
	mesh := quarkgl.UVSphere(1, spec.WidthSegments, spec.HeightSegments)
	unit := make([]quarkgl.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		unit[i] = v.Pos
	}
	return &DistortingSphere{
		Base:    Base{Position: spec.Position, Scale: spec.Scale, Color: spec.Color},
		Opacity: spec.Opacity,
		Distort: spec.Distort,
		Speed:   spec.Speed,
		unit:    unit,
		verts:   mesh.Vertices,
		mesh:    mesh,
		id:      -1,
	}
}

func (s *DistortingSphere) Kind() Kind { return KindSphere }

func (s *DistortingSphere) Pose(t Tick) Pose {
	return Pose{
		Position: s.Position,
		Rotation: quarkgl.V3(angle(0.1, t), angle(0.2, t), 0),
		Scale:    s.Scale,
	}
}

// Triangles reports the sphere's mesh resolution.
func (s *DistortingSphere) Triangles() int { return len(s.mesh.Indices) / 3 }

// Radius returns the deformed radius along unit direction n at t.
func (s *DistortingSphere) Radius(n quarkgl.Vec3, t Tick) float32 {
	return 1 + s.Distort*surfaceNoise(n, float64(s.Speed)*float64(t))*0.5
}

// surfaceNoise is a smooth value in [-1, 1] built from three sine waves.
func surfaceNoise(n quarkgl.Vec3, phase float64) float32 {
	phase = math.Mod(phase, 10*twoPi) // common period of all three terms
	x, y, z := float64(n.X), float64(n.Y), float64(n.Z)
	v := math.Sin(x*3+phase) + math.Sin(y*4+phase*1.3) + math.Sin(z*5+phase*0.7)
	return float32(v / 3)
}

func (s *DistortingSphere) attach(sc *quarkgl.Scene) error {
	m := s.mesh
	m.Material = quarkgl.Material{BaseColor: s.Color, Opacity: s.Opacity, Emissive: 0.1}
	m.Transform = s.Pose(0).Matrix()
	s.id = sc.AddMesh(m)
	if s.id < 0 {
		return errSceneFull
	}
	return nil
}

// update deforms the shared vertex slice in place; the scene mesh sees it.
func (s *DistortingSphere) update(sc *quarkgl.Scene, t Tick) {
	for i, n := range s.unit {
		s.verts[i].Pos = n.Mul(s.Radius(n, t))
	}
	sc.UpdateMeshTransform(s.id, s.Pose(t).Matrix())
}

func (s *DistortingSphere) detach(sc *quarkgl.Scene) {
	if s.id >= 0 {
		sc.RemoveMesh(s.id)
		s.id = -1
	}
}
