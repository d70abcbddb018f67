package quarkgl

import (
	"bytes"
	"math/rand/v2"
	"testing"
)

func newTarget(w, h int) *RGB565Target {
	return &RGB565Target{Buf: make([]byte, w*h*2), Stride: w * 2, W: w, H: h}
}

func cloudScene(n int) *Scene {
	rng := rand.New(rand.NewPCG(1, 2))
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			Pos:   V3(Scalar(rng.Float64()-0.5)*4, Scalar(rng.Float64()-0.5)*4, Scalar(rng.Float64()-0.5)*4),
			Color: RGB(uint8(rng.IntN(256)), 0x80, 0xFF),
		}
	}
	s := CreateScene(0, 1)
	s.Camera.Position = V3(0, 0, 8)
	s.AddPoints(PointCloud{Points: pts, Size: 0.1, Attenuate: true, Opacity: 0xCC, Blend: BlendAdditive})
	return s
}

func TestRenderPointsWorkersMatchSerial(t *testing.T) {
	s := cloudScene(3000)

	serial := newTarget(96, 64)
	r1 := NewRenderer(96, 64, true)
	r1.Render(serial, s)

	parallel := newTarget(96, 64)
	r4 := NewRenderer(96, 64, true)
	r4.SetWorkers(4)
	r4.Render(parallel, s)

	if !bytes.Equal(serial.Buf, parallel.Buf) {
		t.Fatal("parallel point projection changed the image")
	}
	if bytes.Equal(serial.Buf, newTarget(96, 64).Buf) {
		t.Fatal("expected some points to be drawn")
	}
}

func TestRenderMeshDrawsCenter(t *testing.T) {
	s := CreateScene(1, 0)
	m := Icosahedron(1, 1)
	m.Material.BaseColor = RGB(0xFF, 0x40, 0x40)
	if id := s.AddMesh(m); id != 0 {
		t.Fatalf("AddMesh id = %d", id)
	}
	tgt := newTarget(64, 64)
	r := NewRenderer(64, 64, true)
	r.ClearColor = RGB(0, 0, 0)
	r.Render(tgt, s)
	if c := tgt.Pixel(32, 32); c == RGB(0, 0, 0) {
		t.Fatal("expected the sphere to cover the center pixel")
	}
	if c := tgt.Pixel(0, 0); c != RGB(0, 0, 0) {
		t.Fatalf("corner pixel = %+v; want clear color", c)
	}
}

func TestTranslucentMeshBlends(t *testing.T) {
	s := CreateScene(1, 0)
	s.Light.Mode = LightOff
	m := Icosahedron(1, 1)
	m.Material = Material{BaseColor: RGB(0xFF, 0xFF, 0xFF), Opacity: 0x80}
	s.AddMesh(m)
	tgt := newTarget(32, 32)
	r := NewRenderer(32, 32, true)
	r.ClearColor = RGB(0, 0, 0)
	r.Render(tgt, s)
	c := tgt.Pixel(16, 16)
	if c.R < 0x60 || c.R > 0xA0 {
		t.Fatalf("blended center = %+v; want roughly half white", c)
	}
}

type countingTarget struct {
	*RGB565Target
	writes map[[2]int]int
}

func (c *countingTarget) SetPixel(x, y int, col Color) {
	c.writes[[2]int{x, y}]++
	c.RGB565Target.SetPixel(x, y, col)
}

func TestSharedEdgesFilledOnce(t *testing.T) {
	s := CreateScene(1, 0)
	s.Light.Mode = LightOff
	m := Icosahedron(1, 1)
	m.Material = Material{BaseColor: RGB(0xFF, 0xFF, 0xFF), Opacity: 0x80}
	s.AddMesh(m)
	tgt := &countingTarget{RGB565Target: newTarget(48, 48), writes: map[[2]int]int{}}
	NewRenderer(48, 48, true).Render(tgt, s)

	if len(tgt.writes) == 0 {
		t.Fatal("expected the mesh to cover some pixels")
	}
	for p, n := range tgt.writes {
		if n != 1 {
			t.Fatalf("pixel %v written %d times; want 1", p, n)
		}
	}
}

func TestEdgeBiasTopLeft(t *testing.T) {
	// Front-facing triangles run down their left edge and leftwards along a top edge.
	if edgeBias(0, 0, 0, 10) != 0 {
		t.Fatal("left edge should own its pixels")
	}
	if edgeBias(10, 0, 0, 0) != 0 {
		t.Fatal("top edge should own its pixels")
	}
	if edgeBias(0, 10, 10, 0) != -1 || edgeBias(0, 10, 10, 10) != -1 {
		t.Fatal("right and bottom edges should not own their pixels")
	}
}

func TestSceneSlots(t *testing.T) {
	s := CreateScene(2, 1)
	a := s.AddMesh(Mesh{})
	b := s.AddMesh(Mesh{})
	if a < 0 || b < 0 || s.AddMesh(Mesh{}) != -1 {
		t.Fatal("expected exactly two mesh slots")
	}
	if s.AddPoints(PointCloud{}) != 0 || s.AddPoints(PointCloud{}) != -1 {
		t.Fatal("expected exactly one point-cloud slot")
	}
	s.RemoveMesh(a)
	if got := s.MeshCount(); got != 1 {
		t.Fatalf("MeshCount = %d; want 1", got)
	}
	s.Clear()
	if s.MeshCount() != 0 || s.PointCloudCount() != 0 {
		t.Fatal("Clear left live slots")
	}
}

func TestProjectorCenter(t *testing.T) {
	cam := CreateScene(0, 0).Camera
	cam.Position = V3(0, 0, 5)
	p := NewProjector(cam, 101, 101)
	x, y, w, ok := p.Project(Vec3{})
	if !ok || x != 50 || y != 50 {
		t.Fatalf("Project(origin) = %d,%d ok=%v; want 50,50", x, y, ok)
	}
	if !near(w, 5) {
		t.Fatalf("clip w = %v; want 5", w)
	}
	if _, _, _, ok := p.Project(V3(0, 0, 10)); ok {
		t.Fatal("point behind the camera should not project")
	}
	if p.PixelsPerUnit(w) <= 0 {
		t.Fatal("expected positive pixels per unit")
	}
}

func TestRGB565TargetPixel(t *testing.T) {
	tgt := newTarget(4, 4)
	tgt.SetPixel(1, 2, RGB(0xFF, 0x00, 0xFF))
	if got := tgt.Pixel(1, 2); got != RGB(0xFF, 0x00, 0xFF) {
		t.Fatalf("Pixel = %+v", got)
	}
	tgt.SetPixel(-1, 9, RGB(1, 2, 3))
	if got := tgt.Pixel(-1, 9); got != (Color{}) {
		t.Fatalf("out-of-bounds Pixel = %+v", got)
	}
}
