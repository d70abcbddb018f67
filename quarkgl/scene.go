package quarkgl

// Material is a minimal surface description.
type Material struct {
	BaseColor Color
	Opacity   uint8 // 0..255. 255 means opaque.

	// Wireframe draws triangle edges instead of filling.
	Wireframe bool
	// Emissive is a light floor (0..1) added before the directional terms.
	Emissive Scalar
	// VertexColor fills with interpolated vertex colors instead of BaseColor.
	VertexColor bool
}

// LightMode defines minimal lighting options.
type LightMode uint8

const (
	LightOff LightMode = iota
	LightAmbientDirectional
)

// Light is a minimal light setup: ambient plus a key and an optional fill.
type Light struct {
	Mode      LightMode
	Ambient   Scalar // 0..1
	Dir       Vec3   // direction *towards* the scene
	DirAmount Scalar // 0..1

	FillDir    Vec3
	FillAmount Scalar // 0 disables the fill light
}

// CameraType selects camera projection.
type CameraType uint8

const (
	CameraPerspective CameraType = iota
	CameraOrtho
)

// Camera describes the viewing transform.
type Camera struct {
	Type CameraType

	Position Vec3
	Target   Vec3
	Up       Vec3

	// Perspective.
	FOVYRad Scalar

	// Orthographic (half-height).
	OrthoSize Scalar

	Near Scalar
	Far  Scalar
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return Mat4LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect Scalar) Mat4 {
	switch c.Type {
	case CameraOrtho:
		size := c.OrthoSize
		if size == 0 {
			size = 1
		}
		top := size
		bottom := -size
		right := size * aspect
		left := -right
		return Mat4Ortho(left, right, bottom, top, c.Near, c.Far)
	default:
		fov := c.FOVYRad
		if fov == 0 {
			fov = Scalar(1.0)
		}
		return Mat4Perspective(fov, aspect, c.Near, c.Far)
	}
}

// Vertex is a mesh vertex.
type Vertex struct {
	Pos    Vec3
	Normal Vec3
	Color  Color
}

// Mesh is a triangle mesh with an object transform.
//
// The scene keeps the Vertices slice by reference, so callers may deform
// vertices in place between frames.
type Mesh struct {
	Enabled bool

	Vertices []Vertex
	Indices  []uint16 // triangle list

	Transform Mat4
	Material  Material
}

// Point is one entry of a point cloud.
type Point struct {
	Pos   Vec3
	Color Color
}

// PointCloud is a set of points sharing one rigid transform.
type PointCloud struct {
	Enabled bool

	Points    []Point
	Transform Mat4

	// Size is the point edge in world units when Attenuate is set, in pixels otherwise.
	Size      Scalar
	Attenuate bool
	Opacity   uint8
	Blend     BlendMode
}

// Scene is a collection of objects to render.
type Scene struct {
	Camera Camera
	Light  Light

	meshes []Mesh
	alive  []bool

	clouds     []PointCloud
	cloudAlive []bool
}

// CreateScene allocates a scene with a fixed mesh and point-cloud capacity.
func CreateScene(maxMeshes, maxClouds int) *Scene {
	if maxMeshes < 0 {
		maxMeshes = 0
	}
	if maxClouds < 0 {
		maxClouds = 0
	}
	return &Scene{
		Camera: Camera{
			Type:      CameraPerspective,
			Position:  V3(0, 0, 3),
			Target:    V3(0, 0, 0),
			Up:        V3(0, 1, 0),
			FOVYRad:   Scalar(1.0),
			Near:      Scalar(0.05),
			Far:       Scalar(100),
			OrthoSize: Scalar(1),
		},
		Light: Light{
			Mode:      LightAmbientDirectional,
			Ambient:   Scalar(0.25),
			Dir:       Normalize(V3(1, 1, 1)),
			DirAmount: Scalar(0.75),
		},
		meshes:     make([]Mesh, maxMeshes),
		alive:      make([]bool, maxMeshes),
		clouds:     make([]PointCloud, maxClouds),
		cloudAlive: make([]bool, maxClouds),
	}
}

// AddMesh adds a mesh to the scene and returns its id or -1 if full.
func (s *Scene) AddMesh(m Mesh) int {
	if s == nil {
		return -1
	}
	for i := range s.meshes {
		if s.alive[i] {
			continue
		}
		if m.Transform == (Mat4{}) {
			m.Transform = Mat4Identity()
		}
		if m.Material.Opacity == 0 {
			m.Material.Opacity = 0xFF
		}
		if m.Material.BaseColor == (Color{}) {
			m.Material.BaseColor = RGB(0xCC, 0xCC, 0xCC)
		}
		m.Enabled = true
		s.meshes[i] = m
		s.alive[i] = true
		return i
	}
	return -1
}

// RemoveMesh removes a mesh by id.
func (s *Scene) RemoveMesh(id int) {
	if s == nil || id < 0 || id >= len(s.meshes) {
		return
	}
	s.alive[id] = false
	s.meshes[id] = Mesh{}
}

// SetMeshEnabled enables/disables a mesh by id.
func (s *Scene) SetMeshEnabled(id int, enabled bool) {
	if s == nil || id < 0 || id >= len(s.meshes) || !s.alive[id] {
		return
	}
	s.meshes[id].Enabled = enabled
}

// UpdateMeshTransform updates a mesh transform by id.
func (s *Scene) UpdateMeshTransform(id int, m Mat4) {
	if s == nil || id < 0 || id >= len(s.meshes) || !s.alive[id] {
		return
	}
	s.meshes[id].Transform = m
}

// AddPoints adds a point cloud and returns its id or -1 if full.
func (s *Scene) AddPoints(pc PointCloud) int {
	if s == nil {
		return -1
	}
	for i := range s.clouds {
		if s.cloudAlive[i] {
			continue
		}
		if pc.Transform == (Mat4{}) {
			pc.Transform = Mat4Identity()
		}
		if pc.Opacity == 0 {
			pc.Opacity = 0xFF
		}
		if pc.Size <= 0 {
			pc.Size = 1
		}
		pc.Enabled = true
		s.clouds[i] = pc
		s.cloudAlive[i] = true
		return i
	}
	return -1
}

// RemovePoints removes a point cloud by id.
func (s *Scene) RemovePoints(id int) {
	if s == nil || id < 0 || id >= len(s.clouds) {
		return
	}
	s.cloudAlive[id] = false
	s.clouds[id] = PointCloud{}
}

// UpdatePointsTransform updates a point cloud transform by id.
func (s *Scene) UpdatePointsTransform(id int, m Mat4) {
	if s == nil || id < 0 || id >= len(s.clouds) || !s.cloudAlive[id] {
		return
	}
	s.clouds[id].Transform = m
}

// MeshCount returns the number of live mesh slots.
func (s *Scene) MeshCount() int { return countAlive(s, func(s *Scene) []bool { return s.alive }) }

// PointCloudCount returns the number of live point-cloud slots.
func (s *Scene) PointCloudCount() int {
	return countAlive(s, func(s *Scene) []bool { return s.cloudAlive })
}

// Clear removes every mesh and point cloud, keeping capacity.
func (s *Scene) Clear() {
	if s == nil {
		return
	}
	for i := range s.meshes {
		s.RemoveMesh(i)
	}
	for i := range s.clouds {
		s.RemovePoints(i)
	}
}

func countAlive(s *Scene, slots func(*Scene) []bool) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, a := range slots(s) {
		if a {
			n++
		}
	}
	return n
}

func (s *Scene) eachMesh(fn func(m *Mesh)) {
	for i := range s.meshes {
		if !s.alive[i] {
			continue
		}
		fn(&s.meshes[i])
	}
}

func (s *Scene) eachCloud(fn func(pc *PointCloud)) {
	for i := range s.clouds {
		if !s.cloudAlive[i] {
			continue
		}
		fn(&s.clouds[i])
	}
}
