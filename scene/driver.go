package scene

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"heroscene/asset"
	"heroscene/hal"
	"heroscene/quarkgl"
)

// State is the driver lifecycle state.
type State uint8

const (
	StateUninitialized State = iota
	StateLoading
	StateActive
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateTornDown:
		return "torn-down"
	default:
		return "unknown"
	}
}

// Scene slot capacity. Three clouds: stars, dust and particles.
const (
	maxMeshes = 64
	maxClouds = 3
)

// Options configures a Driver.
type Options struct {
	Logger hal.Logger
	// Model is fetched once in the background. Nil means no model.
	Model asset.Loader
	// Seed makes particle and star placement reproducible.
	Seed uint64
	// Workers is the point projection parallelism.
	Workers int
	// Layout overrides DefaultLayout.
	Layout func(Class) Layout
	// Overlay draws on top of each frame before it is presented. It runs
	// with the driver locked and must not call back into the driver.
	Overlay func(fb hal.Framebuffer, s Snapshot)
}

// Snapshot is a point-in-time view of the driver.
type Snapshot struct {
	State    State
	Class    Class
	Degraded bool

	Particles int
	Stars     int
	Dust      int
	Shapes    int
	Sphere    bool
	Label     bool
	Model     bool

	// Live scene slots.
	Meshes int
	Clouds int

	Frames uint64
	Tick   Tick
	Camera quarkgl.Vec3
}

type loadResult struct {
	model *asset.Model
	err   error
}

// Driver owns the render surface and drives one composed frame per tick.
//
// All methods are safe for concurrent use; a mutex serializes them, so a
// frame either completes or observes the torn-down state.
type Driver struct {
	mu sync.Mutex

	disp hal.Display
	opts Options

	state    State
	class    Class
	degraded bool

	fb     hal.Framebuffer
	target quarkgl.RGB565Target
	r      *quarkgl.Renderer
	s      *quarkgl.Scene
	rig    CameraRig

	elements  []Element
	particles *ParticleField
	stars     *Starfield
	dust      *Starfield
	sphere    *DistortingSphere
	model     *StaticModel
	label     *FloatingLabel
	shapes    int

	modelData *asset.Model
	results   chan loadResult
	loaded    chan struct{}
	cancel    context.CancelFunc

	lastTick Tick
	ticked   bool
	frames   uint64
}

// NewDriver returns an uninitialized driver drawing into disp.
func NewDriver(disp hal.Display, opts Options) *Driver {
	return &Driver{
		disp:    disp,
		opts:    opts,
		results: make(chan loadResult, 1),
		loaded:  make(chan struct{}),
	}
}

// Loaded is closed once the model load attempt has finished, right away
// when no model is configured, or by a Teardown that precedes Initialize.
func (d *Driver) Loaded() <-chan struct{} { return d.loaded }

// Initialize allocates the renderer, camera, lights and the element set for
// class, then starts the model fetch.
func (d *Driver) Initialize(ctx context.Context, class Class) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateUninitialized:
	case StateTornDown:
		return ErrTornDown
	default:
		return ErrAlreadyInitialized
	}
	if !class.valid() {
		return fmt.Errorf("scene: invalid viewport class %d", class)
	}

	fb, err := surface(d.disp)
	if err != nil {
		return err
	}

	d.fb = fb
	d.target = quarkgl.RGB565Target{
		Buf:    fb.Buffer(),
		Stride: fb.StrideBytes(),
		W:      fb.Width(),
		H:      fb.Height(),
	}
	d.r = quarkgl.NewRenderer(fb.Width(), fb.Height(), true)
	d.r.SetWorkers(d.opts.Workers)
	d.s = quarkgl.CreateScene(maxMeshes, maxClouds)
	d.build(class)

	if d.opts.Model == nil {
		d.state = StateActive
		close(d.loaded)
		return nil
	}

	ctx, d.cancel = context.WithCancel(ctx)
	d.state = StateLoading
	go d.load(ctx, d.opts.Model)
	return nil
}

func surface(disp hal.Display) (hal.Framebuffer, error) {
	if disp == nil {
		return nil, fmt.Errorf("%w: no display", ErrUnsupportedContext)
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return nil, fmt.Errorf("%w: no framebuffer", ErrUnsupportedContext)
	}
	if fb.Format() != hal.PixelFormatRGB565 {
		return nil, fmt.Errorf("%w: pixel format %d", ErrUnsupportedContext, fb.Format())
	}
	w, h := fb.Width(), fb.Height()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d surface", ErrUnsupportedContext, w, h)
	}
	if fb.StrideBytes() < w*2 || len(fb.Buffer()) < fb.StrideBytes()*h {
		return nil, fmt.Errorf("%w: short framebuffer", ErrUnsupportedContext)
	}
	return fb, nil
}

func (d *Driver) load(ctx context.Context, l asset.Loader) {
	defer close(d.loaded)
	m, err := l.Load(ctx)
	if err == nil && (m == nil || len(m.Meshes) == 0) {
		err = asset.ErrEmptyModel
	}
	d.results <- loadResult{model: m, err: err}
}

// OnFrame renders and presents one frame. It returns false when nothing was
// drawn: the driver is not running or f.Tick is older than the last frame.
func (d *Driver) OnFrame(f Frame) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateLoading && d.state != StateActive {
		return false
	}
	if d.ticked && f.Tick < d.lastTick {
		return false
	}
	d.lastTick, d.ticked = f.Tick, true

	if d.state == StateLoading {
		d.pollLoad()
	}

	w, h := f.Width, f.Height
	if w <= 0 || h <= 0 {
		w, h = d.target.W, d.target.H
	}
	d.rig.Step(d.rig.Target(f.Tick, f.Pointer, w, h))
	d.rig.Apply(&d.s.Camera)

	for _, e := range d.elements {
		e.update(d.s, f.Tick)
	}
	d.r.Render(&d.target, d.s)

	proj := quarkgl.NewProjector(d.s.Camera, d.target.W, d.target.H)
	for _, e := range d.elements {
		if o, ok := e.(overlay); ok {
			o.drawOverlay(d.fb, proj, f.Tick)
		}
	}
	d.frames++
	if d.opts.Overlay != nil {
		d.opts.Overlay(d.fb, d.snapshotLocked())
	}
	_ = d.fb.Present()
	return true
}

// pollLoad moves Loading to Active once the fetch has reported.
func (d *Driver) pollLoad() {
	select {
	case res := <-d.results:
		d.state = StateActive
		if res.err != nil {
			d.degraded = true
			d.logf("scene: model load failed: %v", res.err)
			return
		}
		d.modelData = res.model
		d.attachModel()
	default:
	}
}

// OnViewportClassChange rebuilds the element set, camera and lights for c.
// The loaded model is kept and re-posed for c.
func (d *Driver) OnViewportClassChange(c Class) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateLoading && d.state != StateActive {
		return
	}
	if !c.valid() || c == d.class {
		return
	}
	d.detachAll()
	d.build(c)
}

// Teardown cancels the model fetch, releases every scene slot and renderer
// buffer, and blanks the surface. Later calls are no-ops.
func (d *Driver) Teardown() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateTornDown {
		return
	}
	wasRunning := d.state != StateUninitialized
	d.state = StateTornDown
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if !wasRunning {
		// No load was started, so nobody else closes it.
		close(d.loaded)
		return
	}
	d.detachAll()
	d.s.Clear()
	d.r.Release()
	d.modelData = nil
	d.fb.ClearRGB(0, 0, 0)
	_ = d.fb.Present()
}

// Snapshot returns the current driver state.
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Driver) snapshotLocked() Snapshot {
	s := Snapshot{
		State:    d.state,
		Class:    d.class,
		Degraded: d.degraded,
		Shapes:   d.shapes,
		Sphere:   d.sphere != nil,
		Label:    d.label != nil,
		Model:    d.model != nil,
		Meshes:   d.s.MeshCount(),
		Clouds:   d.s.PointCloudCount(),
		Frames:   d.frames,
		Tick:     d.lastTick,
		Camera:   d.rig.Position,
	}
	if d.particles != nil {
		s.Particles = d.particles.Len()
	}
	if d.stars != nil {
		s.Stars = d.stars.Len()
	}
	if d.dust != nil {
		s.Dust = d.dust.Len()
	}
	return s
}

func (d *Driver) layoutFor(c Class) Layout {
	if d.opts.Layout != nil {
		return d.opts.Layout(c)
	}
	return DefaultLayout(c)
}

// build creates and attaches the element set for c. The scene must be empty.
func (d *Driver) build(c Class) {
	l := d.layoutFor(c)
	d.class = c

	d.rig = newCameraRig(l.Camera)
	d.s.Camera.Near = 0.1
	d.s.Camera.Far = 2500
	d.rig.Apply(&d.s.Camera)
	d.s.Light = quarkgl.Light{
		Mode:      quarkgl.LightAmbientDirectional,
		Ambient:   l.Light.Ambient,
		Dir:       quarkgl.Normalize(quarkgl.V3(-10, -10, -10)),
		DirAmount: l.Light.Key,
	}
	if l.Light.Fill > 0 {
		d.s.Light.FillDir = quarkgl.Normalize(quarkgl.V3(0, -50, -10))
		d.s.Light.FillAmount = l.Light.Fill
	}
	d.r.ClearColor = l.Clear

	rng := rand.New(rand.NewPCG(d.opts.Seed, uint64(c)))

	d.stars = newStarfield(l.Stars, rng)
	d.add(d.stars)
	d.dust = newStarfield(l.Dust, rng)
	d.add(d.dust)
	d.particles = newParticleField(l.Particles, rng)
	d.add(d.particles)
	d.sphere = newSphere(l.Sphere)
	d.add(d.sphere)
	for _, spec := range visibleShapes(l) {
		if d.add(newShape(spec, l)) {
			d.shapes++
		}
	}
	if l.Label != nil {
		d.label = newLabel(*l.Label)
		d.add(d.label)
	}
	if d.modelData != nil {
		d.attachModel()
	}
}

// attachModel adds the loaded model. A model that does not fit the free
// slots is dropped for good and the driver becomes degraded.
func (d *Driver) attachModel() {
	m := newStaticModel(d.layoutFor(d.class).Model, d.modelData)
	if err := m.attach(d.s); err != nil {
		d.degraded = true
		d.logf("scene: model load failed: %d meshes: %v", len(d.modelData.Meshes), err)
		d.modelData = nil
		return
	}
	d.elements = append(d.elements, m)
	d.model = m
}

func (d *Driver) add(e Element) bool {
	if err := e.attach(d.s); err != nil {
		d.logf("scene: %s not attached: %v", e.Kind(), err)
		return false
	}
	d.elements = append(d.elements, e)
	return true
}

func (d *Driver) detachAll() {
	for _, e := range d.elements {
		e.detach(d.s)
	}
	d.elements = d.elements[:0]
	d.particles, d.stars, d.dust, d.sphere, d.model, d.label = nil, nil, nil, nil, nil, nil
	d.shapes = 0
}

func (d *Driver) logf(format string, args ...any) {
	if d.opts.Logger == nil {
		return
	}
	d.opts.Logger.WriteLineString(fmt.Sprintf(format, args...))
}
