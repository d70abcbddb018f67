package scene

import (
	"math"

	"heroscene/quarkgl"
)

// parallaxDiv converts pointer offset in layout pixels to world units.
const parallaxDiv = 100

// CameraRig eases the camera toward a pointer-driven target and keeps it
// aimed at the origin.
type CameraRig struct {
	Preset     quarkgl.Vec3
	FOV        float32 // degrees
	AutoRotate float32 // turns per minute
	Damping    float32

	Position quarkgl.Vec3
}

func newCameraRig(spec CameraSpec) CameraRig {
	return CameraRig{
		Preset:     spec.Position,
		FOV:        spec.FOV,
		AutoRotate: spec.AutoRotate,
		Damping:    spec.Damping,
		Position:   spec.Position,
	}
}

// Target is the position the rig eases toward at t: the preset orbited about
// the Y axis by the auto-rotate angle, shifted by pointer parallax.
func (r *CameraRig) Target(t Tick, p Pointer, w, h int) quarkgl.Vec3 {
	target := r.Preset
	if r.AutoRotate != 0 {
		orbit := quarkgl.OrbitFrom(r.Preset, quarkgl.Vec3{})
		orbit.Rotate(angle(twoPi/60*float64(r.AutoRotate), t), 0)
		target = orbit.Position()
	}
	if p.Valid && w > 0 && h > 0 {
		target = target.Add(quarkgl.V3(
			float32((p.X-float64(w)/2)/parallaxDiv),
			float32(-(p.Y-float64(h)/2)/parallaxDiv),
			0,
		))
	}
	return target
}

// Step moves the rig one frame toward target. Damping 1 or more snaps.
func (r *CameraRig) Step(target quarkgl.Vec3) {
	if r.Damping >= 1 {
		r.Position = target
		return
	}
	r.Position = r.Position.Add(target.Sub(r.Position).Mul(r.Damping))
}

// Apply writes the rig into cam, looking at the origin.
func (r *CameraRig) Apply(cam *quarkgl.Camera) {
	cam.Type = quarkgl.CameraPerspective
	cam.Position = r.Position
	cam.Target = quarkgl.Vec3{}
	cam.Up = quarkgl.V3(0, 1, 0)
	cam.FOVYRad = quarkgl.Deg(r.FOV)
}

// Distance returns how far the rig is from p.
func (r *CameraRig) Distance(p quarkgl.Vec3) float64 {
	d := r.Position.Sub(p)
	return math.Sqrt(float64(d.X)*float64(d.X) + float64(d.Y)*float64(d.Y) + float64(d.Z)*float64(d.Z))
}
