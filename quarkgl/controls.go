package quarkgl

import "math"

// OrbitController places a camera on a sphere around a target.
//
// It does not depend on any input system; callers feed yaw/pitch/radius.
type OrbitController struct {
	Target Vec3
	Yaw    Scalar
	Pitch  Scalar
	Radius Scalar

	MinRadius Scalar
	MaxRadius Scalar
}

// OrbitFrom returns the controller that reproduces eye when looking at target.
func OrbitFrom(eye, target Vec3) OrbitController {
	d := eye.Sub(target)
	r := Len(d)
	if r == 0 {
		return OrbitController{Target: target}
	}
	return OrbitController{
		Target: target,
		Yaw:    Scalar(math.Atan2(float64(d.X), float64(d.Z))),
		Pitch:  Scalar(-math.Asin(float64(d.Y / r))),
		Radius: r,
	}
}

// Position returns the eye position for the current yaw/pitch/radius.
func (c *OrbitController) Position() Vec3 {
	r := c.Radius
	if r == 0 {
		r = Scalar(3)
	}
	if c.MinRadius != 0 && r < c.MinRadius {
		r = c.MinRadius
	}
	if c.MaxRadius != 0 && r > c.MaxRadius {
		r = c.MaxRadius
	}
	m := Mat4Mul(Mat4RotateY(c.Yaw), Mat4RotateX(c.Pitch))
	p := Mat4MulV4(m, Vec4{X: 0, Y: 0, Z: r, W: 1})
	return c.Target.Add(V3(p.X, p.Y, p.Z))
}

func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	cam.Position = c.Position()
	cam.Target = c.Target
	if cam.Up == (Vec3{}) {
		cam.Up = V3(0, 1, 0)
	}
}

func (c *OrbitController) Rotate(deltaYaw, deltaPitch Scalar) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
}

func (c *OrbitController) Zoom(delta Scalar) {
	c.Radius += delta
	if c.MinRadius != 0 && c.Radius < c.MinRadius {
		c.Radius = c.MinRadius
	}
	if c.MaxRadius != 0 && c.Radius > c.MaxRadius {
		c.Radius = c.MaxRadius
	}
}
