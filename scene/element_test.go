package scene

import (
	"math"
	"math/rand/v2"
	"testing"

	"heroscene/quarkgl"
)

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestParticleRotationIsPureFunctionOfTick(t *testing.T) {
	f := newParticleField(ParticleSpec{Count: 10, Edge: 20, Size: 0.1}, rand.New(rand.NewPCG(1, 1)))
	for _, tick := range []Tick{0, 0.016, 1, 37.5, 1000, 123456.789} {
		p := f.Pose(tick)
		wantX := math.Mod(fieldRateX*float64(tick), 2*math.Pi)
		wantY := math.Mod(fieldRateY*float64(tick), 2*math.Pi)
		if !near(float64(p.Rotation.X), wantX, 1e-5) || !near(float64(p.Rotation.Y), wantY, 1e-5) {
			t.Fatalf("t=%v rotation = %+v; want (%v, %v)", tick, p.Rotation, wantX, wantY)
		}
		if again := f.Pose(tick); again != p {
			t.Fatalf("t=%v: pose changed on re-evaluation: %+v vs %+v", tick, again, p)
		}
	}
}

func TestParticleFieldSampling(t *testing.T) {
	spec := ParticleSpec{Count: 1000, Edge: 20, Size: 0.15}
	f := newParticleField(spec, rand.New(rand.NewPCG(7, uint64(Compact))))
	if f.Len() != 1000 {
		t.Fatalf("Len = %d; want 1000", f.Len())
	}
	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		for _, c := range []float32{p.Pos.X, p.Pos.Y, p.Pos.Z} {
			if c < -10 || c > 10 {
				t.Fatalf("particle %d outside the cube: %+v", i, p.Pos)
			}
		}
		if p.Color.B != 0xFF || p.Color.G < 76 {
			t.Fatalf("particle %d color = %+v; want b=255, g>=0.3", i, p.Color)
		}
	}

	g := newParticleField(spec, rand.New(rand.NewPCG(7, uint64(Compact))))
	if g.At(500) != f.At(500) {
		t.Fatal("same seed must give the same field")
	}
}

func TestBackdropLayers(t *testing.T) {
	l := DefaultLayout(Full)
	rng := rand.New(rand.NewPCG(3, 3))
	stars := newStarfield(l.Stars, rng)
	dust := newStarfield(l.Dust, rng)
	if stars.Len() != 10000 || dust.Len() != 1000 {
		t.Fatalf("stars=%d dust=%d; want 10000,1000", stars.Len(), dust.Len())
	}
	for i, p := range dust.points {
		if p.Color != accent {
			t.Fatalf("dust %d color = %+v; want accent", i, p.Color)
		}
		for _, c := range []float32{p.Pos.X, p.Pos.Y, p.Pos.Z} {
			if c < -500 || c > 500 {
				t.Fatalf("dust %d outside the cube: %+v", i, p.Pos)
			}
		}
	}
	if dust.opacity == 0xFF {
		t.Fatal("dust layer should be translucent")
	}
	// Dust turns twice as fast as the stars.
	const tick = 10
	if got, want := float64(dust.Pose(tick).Rotation.X), 2*float64(stars.Pose(tick).Rotation.X); !near(got, want, 1e-5) {
		t.Fatalf("dust rotation = %v; want %v", got, want)
	}
}

func TestShapeAmplitudeHalvedInCompact(t *testing.T) {
	full := DefaultLayout(Full)
	compact := DefaultLayout(Compact)
	if compact.ShapeAmplitude*2 != full.ShapeAmplitude {
		t.Fatalf("amplitudes full=%v compact=%v; want compact = full/2", full.ShapeAmplitude, compact.ShapeAmplitude)
	}

	s := newShape(ShapeSpec{Position: quarkgl.V3(1, 2, 3), Scale: 0.5}, full)
	top := s.Pose(math.Pi / 2)
	if !near(float64(top.Position.Y), 2.5, 1e-5) {
		t.Fatalf("peak y = %v; want 2.5", top.Position.Y)
	}
	if !near(float64(top.Rotation.X), 0.2*math.Pi/2, 1e-5) || !near(float64(top.Rotation.Y), 0.3*math.Pi/2, 1e-5) {
		t.Fatalf("rotation = %+v", top.Rotation)
	}

	c := newShape(ShapeSpec{Position: quarkgl.V3(1, 2, 3), Scale: 0.5}, compact)
	if !near(float64(c.Scale), 0.35, 1e-6) {
		t.Fatalf("compact scale = %v; want 0.35", c.Scale)
	}
	if !c.Solid || s.Solid {
		t.Fatal("shapes are wireframe in full and solid in compact")
	}
}

func TestVisibleShapesCullsSmallOnes(t *testing.T) {
	l := DefaultLayout(Compact)
	l.Shapes = append(l.Shapes, ShapeSpec{Position: quarkgl.V3(0, 0, -3), Scale: 0.2})
	if got := len(visibleShapes(l)); got != 2 {
		t.Fatalf("visible compact shapes = %d; want 2", got)
	}

	f := DefaultLayout(Full)
	f.Shapes = append(f.Shapes, ShapeSpec{Position: quarkgl.V3(0, 0, -3), Scale: 0.2})
	if got := len(visibleShapes(f)); got != 5 {
		t.Fatalf("visible full shapes = %d; want 5", got)
	}
}

func TestSphereDistortion(t *testing.T) {
	s := newSphere(DefaultLayout(Compact).Sphere)
	if s.Triangles() != 64*(2*32-2) {
		t.Fatalf("compact sphere triangles = %d", s.Triangles())
	}
	full := newSphere(DefaultLayout(Full).Sphere)
	if full.Triangles() <= s.Triangles() || full.Distort <= s.Distort {
		t.Fatal("full sphere must be finer and distort more")
	}

	n := quarkgl.V3(0, 1, 0)
	for _, tick := range []Tick{0, 0.5, 3, 1e5} {
		r := s.Radius(n, tick)
		if r < 1-s.Distort/2-1e-6 || r > 1+s.Distort/2+1e-6 {
			t.Fatalf("radius %v at t=%v outside 1±distort/2", r, tick)
		}
		if s.Radius(n, tick) != r {
			t.Fatal("radius must be a pure function of t")
		}
	}
	if s.Radius(n, 0.5) == s.Radius(n, 1.5) {
		t.Fatal("surface does not move")
	}
}

func TestLabelAndModelMotion(t *testing.T) {
	l := newLabel(*DefaultLayout(Full).Label)
	p := l.Pose(math.Pi / 4) // sin(2t) = 1
	if !near(float64(p.Position.Y), 2.1, 1e-5) {
		t.Fatalf("label y = %v; want 2.1", p.Position.Y)
	}
	if !near(float64(p.Rotation.Y), math.Sin(math.Pi/8)*0.2, 1e-5) {
		t.Fatalf("label yaw = %v", p.Rotation.Y)
	}

	spec := DefaultLayout(Full).Model
	m := &StaticModel{Base: Base{Position: spec.Position, Scale: spec.Scale}, Rotation: spec.Rotation}
	mp := m.Pose(math.Pi / 2)
	if !near(float64(mp.Position.Y), -3.15, 1e-5) {
		t.Fatalf("model y = %v; want -3.15", mp.Position.Y)
	}
	if !near(float64(mp.Rotation.Y), -0.2+math.Sin(math.Pi/4)*0.1, 1e-5) {
		t.Fatalf("model yaw = %v", mp.Rotation.Y)
	}
	if mp.Rotation.X != spec.Rotation.X || mp.Rotation.Z != spec.Rotation.Z {
		t.Fatal("model only sways about Y")
	}
}

func TestCameraRigConverges(t *testing.T) {
	rig := newCameraRig(CameraSpec{Position: quarkgl.V3(20, 3, 5), FOV: 25, Damping: 0.05})
	target := quarkgl.V3(22, 1, 5)
	d0 := rig.Distance(target)
	for i := 0; i < 50; i++ {
		rig.Step(target)
	}
	bound := math.Pow(0.95, 50) * d0
	if got := rig.Distance(target); got > bound*(1+1e-3) {
		t.Fatalf("distance after 50 frames = %v; want <= %v", got, bound)
	}
}

func TestCameraTargetParallax(t *testing.T) {
	rig := newCameraRig(CameraSpec{Position: quarkgl.V3(10, 3, 10), FOV: 30})
	got := rig.Target(0, Pointer{X: 612, Y: 284, Valid: true}, 1024, 768)
	want := quarkgl.V3(11, 4, 10)
	if quarkgl.Dist(got, want) > 1e-5 {
		t.Fatalf("target = %+v; want %+v", got, want)
	}
	if got := rig.Target(0, Pointer{X: 612, Y: 284}, 1024, 768); got != rig.Preset {
		t.Fatalf("invalid pointer must not shift the target: %+v", got)
	}

	rig.AutoRotate = 0.5
	a := rig.Target(10, Pointer{}, 1024, 768)
	if !near(float64(quarkgl.Len(a)), float64(quarkgl.Len(rig.Preset)), 1e-4) {
		t.Fatal("auto-rotate must keep the orbit radius")
	}
	if !near(float64(a.Y), 3, 1e-4) {
		t.Fatalf("auto-rotate changed height: %v", a.Y)
	}
}
