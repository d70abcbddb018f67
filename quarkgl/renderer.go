package quarkgl

import "golang.org/x/sync/errgroup"

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	Mode       RenderMode
	Depth      bool
	ClearColor Color

	depthBuf []float32

	workers  int
	projBuf  []projectedPoint
	maxPoint int
}

// minClipW drops geometry at or behind the eye.
const minClipW = 1e-4

// NewRenderer creates a renderer for a given maximum target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{
		Mode:       RenderSolidFlat,
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
		workers:    1,
		maxPoint:   16,
	}
	if enableDepth && w > 0 && h > 0 {
		r.depthBuf = make([]float32, w*h)
	}
	return r
}

func (r *Renderer) SetRenderMode(m RenderMode) { r.Mode = m }

// SetWorkers sets how many goroutines project point clouds. Values below 1 mean 1.
func (r *Renderer) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	r.workers = n
}

// Workers returns the configured point projection parallelism.
func (r *Renderer) Workers() int { return r.workers }

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on {
		r.depthBuf = nil
		return
	}
	if w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

// Release drops the renderer's buffers. The renderer can be reused; buffers are
// reallocated on the next Render.
func (r *Renderer) Release() {
	if r == nil {
		return
	}
	r.depthBuf = nil
	r.projBuf = nil
}

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = 1e9
	}
}

// Render renders a scene into the target.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)

	if r.Depth {
		r.EnableDepth(true, w, h)
		r.clearDepth()
	}

	aspect := Scalar(1)
	if h != 0 {
		aspect = Scalar(w) / Scalar(h)
	}
	view := s.Camera.View()
	proj := s.Camera.Projection(aspect)
	blender, _ := t.(Blender)

	// Opaque first so translucent surfaces blend over finished depth.
	s.eachMesh(func(m *Mesh) {
		if m.Enabled && m.Material.Opacity == 0xFF {
			r.renderMesh(t, blender, w, h, proj, view, m, s.Light)
		}
	})
	s.eachMesh(func(m *Mesh) {
		if m.Enabled && m.Material.Opacity < 0xFF {
			r.renderMesh(t, blender, w, h, proj, view, m, s.Light)
		}
	})
	s.eachCloud(func(pc *PointCloud) {
		if pc.Enabled {
			r.renderPoints(t, blender, w, h, proj, view, pc)
		}
	})
}

func (r *Renderer) renderMesh(t Target, b Blender, w, h int, proj, view Mat4, m *Mesh, light Light) {
	if len(m.Vertices) == 0 || len(m.Indices) < 3 {
		return
	}
	model := m.Transform
	if model == (Mat4{}) {
		model = Mat4Identity()
	}

	mvp := Mat4Mul(proj, Mat4Mul(view, model))
	wire := m.Material.Wireframe || r.Mode == RenderWireframe
	writeDepth := m.Material.Opacity == 0xFF

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0 := int(m.Indices[i+0])
		i1 := int(m.Indices[i+1])
		i2 := int(m.Indices[i+2])
		if i0 >= len(m.Vertices) || i1 >= len(m.Vertices) || i2 >= len(m.Vertices) {
			continue
		}

		v0 := m.Vertices[i0]
		v1 := m.Vertices[i1]
		v2 := m.Vertices[i2]

		p0 := Mat4MulV4(mvp, Vec4{X: v0.Pos.X, Y: v0.Pos.Y, Z: v0.Pos.Z, W: 1})
		p1 := Mat4MulV4(mvp, Vec4{X: v1.Pos.X, Y: v1.Pos.Y, Z: v1.Pos.Z, W: 1})
		p2 := Mat4MulV4(mvp, Vec4{X: v2.Pos.X, Y: v2.Pos.Y, Z: v2.Pos.Z, W: 1})

		// Trivial clip: drop triangles touching the eye plane.
		if p0.W <= minClipW || p1.W <= minClipW || p2.W <= minClipW {
			continue
		}

		ndc0 := clipToNDC(p0)
		ndc1 := clipToNDC(p1)
		ndc2 := clipToNDC(p2)

		x0, y0 := ndcToScreen(ndc0, w, h)
		x1, y1 := ndcToScreen(ndc1, w, h)
		x2, y2 := ndcToScreen(ndc2, w, h)

		shade := Scalar(1)
		if light.Mode == LightAmbientDirectional {
			n := Normalize(Mat4MulV4(model, Vec4{}.withXYZ(triangleNormal(v0.Pos, v1.Pos, v2.Pos))).xyz())
			shade = lightIntensity(light, n, m.Material.Emissive)
		}
		base := m.Material.BaseColor.MulScalar(shade)
		base.A = m.Material.Opacity

		switch {
		case wire:
			r.drawLine(t, b, x0, y0, x1, y1, base)
			r.drawLine(t, b, x1, y1, x2, y2, base)
			r.drawLine(t, b, x2, y2, x0, y0, base)
		case r.Mode == RenderSolidVertexColor || m.Material.VertexColor:
			r.fillTriangle(t, b, w, h, writeDepth,
				x0, y0, ndc0.Z, v0.Color.MulScalar(shade),
				x1, y1, ndc1.Z, v1.Color.MulScalar(shade),
				x2, y2, ndc2.Z, v2.Color.MulScalar(shade),
				m.Material.Opacity)
		default:
			r.fillTriangleFlat(t, b, w, h, writeDepth, x0, y0, ndc0.Z, x1, y1, ndc1.Z, x2, y2, ndc2.Z, base)
		}
	}
}

type ndcPoint struct {
	X, Y, Z float32
}

func (v Vec4) withXYZ(p Vec3) Vec4 { return Vec4{X: p.X, Y: p.Y, Z: p.Z, W: v.W} }
func (v Vec4) xyz() Vec3           { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func clipToNDC(p Vec4) ndcPoint {
	invW := 1.0 / p.W
	return ndcPoint{X: p.X * invW, Y: p.Y * invW, Z: p.Z * invW}
}

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	sx := (p.X*0.5 + 0.5) * float32(w-1)
	sy := (1 - (p.Y*0.5 + 0.5)) * float32(h-1)
	return int(sx + 0.5), int(sy + 0.5)
}

func triangleNormal(a, b, c Vec3) Vec3 {
	return Normalize(Cross(b.Sub(a), c.Sub(a)))
}

func lightIntensity(l Light, n Vec3, emissive Scalar) Scalar {
	amb := Clamp01(l.Ambient) + Clamp01(emissive)
	total := amb
	if ld := Normalize(l.Dir); ld != (Vec3{}) {
		if d := Dot(n, ld.Mul(-1)); d > 0 {
			total += d * Clamp01(l.DirAmount)
		}
	}
	if l.FillAmount > 0 {
		if fd := Normalize(l.FillDir); fd != (Vec3{}) {
			if d := Dot(n, fd.Mul(-1)); d > 0 {
				total += d * Clamp01(l.FillAmount)
			}
		}
	}
	return Clamp01(total)
}

func (r *Renderer) depthTest(w int, x, y int, z float32, write bool) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	if x < 0 || y < 0 || x >= w {
		return false
	}
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return false
	}
	// NDC z is typically in [-1,1]. Map to [0,1].
	d := (z*0.5 + 0.5)
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	if d >= r.depthBuf[idx] {
		return false
	}
	if write {
		r.depthBuf[idx] = d
	}
	return true
}

func (r *Renderer) drawLine(t Target, b Blender, x0, y0, x1, y1 int, c Color) {
	w, h := t.Size()
	// Reject lines fully outside the target before walking them.
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) || (x0 >= w && x1 >= w) || (y0 >= h && y1 >= h) {
		return
	}
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if x0 >= 0 && y0 >= 0 && x0 < w && y0 < h {
			writePixel(t, b, x0, y0, c, BlendNormal)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

type triBounds struct {
	minX, maxX, minY, maxY int
	invArea                float32
	// Edge biases for the top-left fill rule, one per edge function.
	bias0, bias1, bias2 int
}

// bounds clips the triangle box to the target. Triangles with non-positive
// screen area face away from the camera and are culled.
func bounds(w, h, x0, y0, x1, y1, x2, y2 int) (triBounds, bool) {
	bb := triBounds{
		minX: max(min3(x0, x1, x2), 0),
		maxX: min(max3(x0, x1, x2), w-1),
		minY: max(min3(y0, y1, y2), 0),
		maxY: min(max3(y0, y1, y2), h-1),
	}
	if bb.minX > bb.maxX || bb.minY > bb.maxY {
		return bb, false
	}
	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area <= 0 {
		return bb, false
	}
	bb.invArea = 1.0 / float32(area)
	bb.bias0 = edgeBias(x1, y1, x2, y2)
	bb.bias1 = edgeBias(x2, y2, x0, y0)
	bb.bias2 = edgeBias(x0, y0, x1, y1)
	return bb, true
}

// edgeBias is 0 for top and left edges and -1 otherwise, so a pixel centre
// lying exactly on an edge shared by two triangles is filled by one of them.
func edgeBias(ax, ay, bx, by int) int {
	dx, dy := bx-ax, by-ay
	if dy > 0 || (dy == 0 && dx < 0) {
		return 0
	}
	return -1
}

func (r *Renderer) fillTriangleFlat(t Target, b Blender, w, h int, writeDepth bool, x0, y0 int, z0 float32, x1, y1 int, z1 float32, x2, y2 int, z2 float32, c Color) {
	bb, ok := bounds(w, h, x0, y0, x1, y1, x2, y2)
	if !ok {
		return
	}
	for y := bb.minY; y <= bb.maxY; y++ {
		for x := bb.minX; x <= bb.maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if (w0+bb.bias0)|(w1+bb.bias1)|(w2+bb.bias2) < 0 {
				continue
			}
			a0 := float32(w0) * bb.invArea
			a1 := float32(w1) * bb.invArea
			a2 := float32(w2) * bb.invArea
			z := a0*z0 + a1*z1 + a2*z2
			if !r.depthTest(w, x, y, z, writeDepth) {
				continue
			}
			writePixel(t, b, x, y, c, BlendNormal)
		}
	}
}

func (r *Renderer) fillTriangle(t Target, b Blender, w, h int, writeDepth bool, x0, y0 int, z0 float32, c0 Color, x1, y1 int, z1 float32, c1 Color, x2, y2 int, z2 float32, c2 Color, alpha uint8) {
	bb, ok := bounds(w, h, x0, y0, x1, y1, x2, y2)
	if !ok {
		return
	}

	r0, g0, b0 := float32(c0.R), float32(c0.G), float32(c0.B)
	r1, g1, b1 := float32(c1.R), float32(c1.G), float32(c1.B)
	r2, g2, b2 := float32(c2.R), float32(c2.G), float32(c2.B)

	for y := bb.minY; y <= bb.maxY; y++ {
		for x := bb.minX; x <= bb.maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if (w0+bb.bias0)|(w1+bb.bias1)|(w2+bb.bias2) < 0 {
				continue
			}
			a0 := float32(w0) * bb.invArea
			a1 := float32(w1) * bb.invArea
			a2 := float32(w2) * bb.invArea
			z := a0*z0 + a1*z1 + a2*z2
			if !r.depthTest(w, x, y, z, writeDepth) {
				continue
			}
			rr := uint8(clampF32(a0*r0+a1*r1+a2*r2, 0, 255))
			gg := uint8(clampF32(a0*g0+a1*g1+a2*g2, 0, 255))
			bbv := uint8(clampF32(a0*b0+a1*b1+a2*b2, 0, 255))
			writePixel(t, b, x, y, Color{R: rr, G: gg, B: bbv, A: alpha}, BlendNormal)
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int { return min(a, b, c) }
func max3(a, b, c int) int { return max(a, b, c) }

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type projectedPoint struct {
	x, y int32
	size int32
	z    float32
	ok   bool
}

func (r *Renderer) renderPoints(t Target, b Blender, w, h int, proj, view Mat4, pc *PointCloud) {
	n := len(pc.Points)
	if n == 0 {
		return
	}
	if cap(r.projBuf) < n {
		r.projBuf = make([]projectedPoint, n)
	}
	out := r.projBuf[:n]
	mvp := Mat4Mul(proj, Mat4Mul(view, pc.Transform))

	workers := r.workers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 || n < 2*workers {
		r.projectPoints(mvp, pc, pc.Points, out, w, h)
	} else {
		chunk := (n + workers - 1) / workers
		var g errgroup.Group
		g.SetLimit(workers)
		for start := 0; start < n; start += chunk {
			end := min(start+chunk, n)
			g.Go(func() error {
				r.projectPoints(mvp, pc, pc.Points[start:end], out[start:end], w, h)
				return nil
			})
		}
		_ = g.Wait()
	}

	for i := range out {
		p := out[i]
		if !p.ok {
			continue
		}
		c := pc.Points[i].Color
		c.A = pc.Opacity
		half := p.size / 2
		for yy := p.y - half; yy < p.y-half+p.size; yy++ {
			for xx := p.x - half; xx < p.x-half+p.size; xx++ {
				x, y := int(xx), int(yy)
				if x < 0 || y < 0 || x >= w || y >= h {
					continue
				}
				if !r.depthTest(w, x, y, p.z, false) {
					continue
				}
				writePixel(t, b, x, y, c, pc.Blend)
			}
		}
	}
}

// projectPoints fills dst for src; it only reads shared state.
func (r *Renderer) projectPoints(mvp Mat4, pc *PointCloud, src []Point, dst []projectedPoint, w, h int) {
	for i := range src {
		p := Mat4MulV4(mvp, Vec4{X: src[i].Pos.X, Y: src[i].Pos.Y, Z: src[i].Pos.Z, W: 1})
		if p.W <= minClipW {
			dst[i] = projectedPoint{}
			continue
		}
		ndc := clipToNDC(p)
		if ndc.X < -1.1 || ndc.X > 1.1 || ndc.Y < -1.1 || ndc.Y > 1.1 || ndc.Z < -1 || ndc.Z > 1 {
			dst[i] = projectedPoint{}
			continue
		}
		x, y := ndcToScreen(ndc, w, h)
		size := pc.Size
		if pc.Attenuate {
			size = pc.Size * Scalar(h) * 0.5 / p.W
		}
		px := int32(size + 0.5)
		if px < 1 {
			px = 1
		}
		if px > int32(r.maxPoint) {
			px = int32(r.maxPoint)
		}
		dst[i] = projectedPoint{x: int32(x), y: int32(y), size: px, z: ndc.Z, ok: true}
	}
}
