package quarkgl

// Projector maps world points to target pixels for one camera and target size.
type Projector struct {
	vp   Mat4
	w, h int
}

// NewProjector captures the camera's view-projection for a w x h target.
func NewProjector(c Camera, w, h int) Projector {
	aspect := Scalar(1)
	if h > 0 {
		aspect = Scalar(w) / Scalar(h)
	}
	return Projector{vp: Mat4Mul(c.Projection(aspect), c.View()), w: w, h: h}
}

// Project returns the pixel position of p and its clip-space w (eye distance
// for perspective cameras). ok is false for points behind the camera.
func (p Projector) Project(pt Vec3) (x, y int, clipW Scalar, ok bool) {
	if p.w <= 0 || p.h <= 0 {
		return 0, 0, 0, false
	}
	v := Mat4MulV4(p.vp, Vec4{X: pt.X, Y: pt.Y, Z: pt.Z, W: 1})
	if v.W <= minClipW {
		return 0, 0, 0, false
	}
	x, y = ndcToScreen(clipToNDC(v), p.w, p.h)
	return x, y, v.W, true
}

// PixelsPerUnit returns how many pixels one world unit spans at clip depth w.
func (p Projector) PixelsPerUnit(clipW Scalar) Scalar {
	if clipW <= minClipW {
		return 0
	}
	return p.focalY() * Scalar(p.h) * 0.5 / clipW
}

// focalY is the length of the projection's second row (the focal term times
// the unit up axis of the view), so it does not depend on view rotation.
func (p Projector) focalY() Scalar {
	return Len(V3(p.vp[1], p.vp[5], p.vp[9]))
}
