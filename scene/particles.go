package scene

import (
	"math/rand/v2"

	"heroscene/quarkgl"
)

// ParticleField is a fixed set of points that rotates as one rigid body.
//
// The point buffer is sized once at construction and never resampled.
type ParticleField struct {
	Base
	Size float32

	points []quarkgl.Point
	id     int
}

// Field rotation rates in radians per second.
const (
	fieldRateX = 0.05
	fieldRateY = 0.02
)

func newParticleField(spec ParticleSpec, rng *rand.Rand) *ParticleField {
	half := float64(spec.Edge) / 2
	pts := make([]quarkgl.Point, spec.Count)
	for i := range pts {
		pts[i] = quarkgl.Point{
			Pos: quarkgl.V3(
				float32((rng.Float64()*2-1)*half),
				float32((rng.Float64()*2-1)*half),
				float32((rng.Float64()*2-1)*half),
			),
			Color: quarkgl.RGBF(
				float32(rng.Float64()),
				float32(0.3+0.7*rng.Float64()),
				1,
			),
		}
	}
	return &ParticleField{
		Base:   Base{Scale: 1, Color: quarkgl.RGB(0xFF, 0xFF, 0xFF)},
		Size:   spec.Size,
		points: pts,
		id:     -1,
	}
}

// Len returns the number of particles.
func (f *ParticleField) Len() int { return len(f.points) }

// At returns particle i in field space.
func (f *ParticleField) At(i int) quarkgl.Point { return f.points[i] }

func (f *ParticleField) Kind() Kind { return KindParticles }

func (f *ParticleField) Pose(t Tick) Pose {
	return Pose{
		Position: f.Position,
		Rotation: quarkgl.V3(angle(fieldRateX, t), angle(fieldRateY, t), 0),
		Scale:    1,
	}
}

func (f *ParticleField) attach(s *quarkgl.Scene) error {
	f.id = s.AddPoints(quarkgl.PointCloud{
		Points:    f.points,
		Transform: f.Pose(0).Matrix(),
		Size:      f.Size,
		Attenuate: true,
		Opacity:   0xCC,
		Blend:     quarkgl.BlendAdditive,
	})
	if f.id < 0 {
		return errSceneFull
	}
	return nil
}

func (f *ParticleField) update(s *quarkgl.Scene, t Tick) {
	s.UpdatePointsTransform(f.id, f.Pose(t).Matrix())
}

func (f *ParticleField) detach(s *quarkgl.Scene) {
	if f.id >= 0 {
		s.RemovePoints(f.id)
		f.id = -1
	}
}
