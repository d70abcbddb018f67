package scene

import (
	"heroscene/asset"
	"heroscene/quarkgl"
)

// modelExtent is the world radius of a model at scale 1. Loaded models are
// normalized to a unit radius.
const modelExtent = 3

// StaticModel is the loaded model, bobbing and swaying around a preset pose.
type StaticModel struct {
	Base
	Rotation quarkgl.Vec3

	meshes []quarkgl.Mesh
	ids    []int
}

func newStaticModel(spec ModelSpec, m *asset.Model) *StaticModel {
	return &StaticModel{
		Base:     Base{Position: spec.Position, Scale: spec.Scale},
		Rotation: spec.Rotation,
		meshes:   m.Meshes,
	}
}

func (m *StaticModel) Kind() Kind { return KindModel }

func (m *StaticModel) Pose(t Tick) Pose {
	p := m.Position
	p.Y += wave(1, t) * 0.1
	r := m.Rotation
	r.Y += wave(0.5, t) * 0.1
	return Pose{Position: p, Rotation: r, Scale: m.Scale * modelExtent}
}

func (m *StaticModel) attach(s *quarkgl.Scene) error {
	tr := m.Pose(0).Matrix()
	m.ids = m.ids[:0]
	for _, mesh := range m.meshes {
		mesh.Transform = tr
		id := s.AddMesh(mesh)
		if id < 0 {
			m.detach(s)
			return errSceneFull
		}
		m.ids = append(m.ids, id)
	}
	return nil
}

func (m *StaticModel) update(s *quarkgl.Scene, t Tick) {
	tr := m.Pose(t).Matrix()
	for _, id := range m.ids {
		s.UpdateMeshTransform(id, tr)
	}
}

func (m *StaticModel) detach(s *quarkgl.Scene) {
	for _, id := range m.ids {
		s.RemoveMesh(id)
	}
	m.ids = m.ids[:0]
}
