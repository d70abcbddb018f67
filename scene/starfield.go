package scene

import (
	"math/rand/v2"

	"heroscene/quarkgl"
)

// Starfield is a distant backdrop cloud: the white stars or the purple dust
// layer. It is centered on the camera, so only its slow rotation is visible.
type Starfield struct {
	Base

	points  []quarkgl.Point
	size    float32
	opacity uint8
	rate    float64
	id      int
}

func newStarfield(spec StarSpec, rng *rand.Rand) *Starfield {
	half := float64(spec.Edge) / 2
	pts := make([]quarkgl.Point, spec.Count)
	for i := range pts {
		pts[i] = quarkgl.Point{
			Pos: quarkgl.V3(
				float32((rng.Float64()*2-1)*half),
				float32((rng.Float64()*2-1)*half),
				float32((rng.Float64()*2-1)*half),
			),
			Color: spec.Color,
		}
	}
	return &Starfield{
		Base:    Base{Scale: 1, Color: spec.Color},
		points:  pts,
		size:    spec.Size,
		opacity: spec.Opacity,
		rate:    float64(spec.Rate),
		id:      -1,
	}
}

func (s *Starfield) Len() int   { return len(s.points) }
func (s *Starfield) Kind() Kind { return KindStars }

func (s *Starfield) Pose(t Tick) Pose {
	return Pose{
		Position: s.Position,
		Rotation: quarkgl.V3(angle(s.rate, t), angle(s.rate, t), 0),
		Scale:    1,
	}
}

func (s *Starfield) attach(sc *quarkgl.Scene) error {
	s.id = sc.AddPoints(quarkgl.PointCloud{
		Points:    s.points,
		Transform: s.Pose(0).Matrix(),
		Size:      s.size,
		Opacity:   s.opacity,
	})
	if s.id < 0 {
		return errSceneFull
	}
	return nil
}

func (s *Starfield) update(sc *quarkgl.Scene, t Tick) {
	m := quarkgl.Mat4Mul(quarkgl.Mat4Translate(sc.Camera.Position), s.Pose(t).Matrix())
	sc.UpdatePointsTransform(s.id, m)
}

func (s *Starfield) detach(sc *quarkgl.Scene) {
	if s.id >= 0 {
		sc.RemovePoints(s.id)
		s.id = -1
	}
}
