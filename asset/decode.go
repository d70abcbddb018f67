package asset

import (
	"fmt"
	"io"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"heroscene/quarkgl"
)

// maxMeshVerts is the vertex limit of one quarkgl mesh (uint16 indices).
const maxMeshVerts = 65535

// Decode reads a GLB or a self-contained glTF (data-URI buffers) from r.
func Decode(r io.Reader) (*Model, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return FromDocument(&doc)
}

// FromDocument flattens the default scene of doc into normalized meshes.
func FromDocument(doc *gltf.Document) (*Model, error) {
	b := builder{doc: doc}
	for _, root := range sceneRoots(doc) {
		if err := b.walk(root, quarkgl.Mat4Identity(), 0); err != nil {
			return nil, err
		}
	}
	if b.triangles == 0 {
		return nil, ErrEmptyModel
	}
	b.normalize()

	m := &Model{Triangles: b.triangles}
	for _, c := range b.chunks {
		m.Vertices += len(c.Vertices)
		m.Meshes = append(m.Meshes, c)
	}
	return m, nil
}

// sceneRoots returns the root nodes of the default scene. Documents without
// scenes fall back to every node that is nobody's child.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			si = int(*doc.Scene)
		}
		var out []int
		for _, n := range doc.Scenes[si].Nodes {
			out = append(out, int(n))
		}
		return out
	}
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(child) {
				child[int(c)] = true
			}
		}
	}
	var out []int
	for i := range doc.Nodes {
		if !child[i] {
			out = append(out, i)
		}
	}
	return out
}

// maxDepth guards against cyclic node graphs.
const maxDepth = 64

type builder struct {
	doc *gltf.Document

	chunks    []quarkgl.Mesh
	triangles int
}

func (b *builder) walk(idx int, parent quarkgl.Mat4, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: node hierarchy deeper than %d", ErrDecode, maxDepth)
	}
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return fmt.Errorf("%w: node %d out of range", ErrDecode, idx)
	}
	n := b.doc.Nodes[idx]
	world := quarkgl.Mat4Mul(parent, nodeMatrix(n))
	if n.Mesh != nil {
		if err := b.addMesh(int(*n.Mesh), world); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := b.walk(int(c), world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func nodeMatrix(n *gltf.Node) quarkgl.Mat4 {
	if m := mat4From(n.MatrixOrDefault()); m != quarkgl.Mat4Identity() {
		return m
	}
	t := quarkgl.Mat4Translate(vec3From(n.TranslationOrDefault()))
	r := quatMatrix(n.RotationOrDefault())
	s := quarkgl.Mat4Scale(vec3From(n.ScaleOrDefault()))
	return quarkgl.Mat4Mul(t, quarkgl.Mat4Mul(r, s))
}

func (b *builder) addMesh(mi int, world quarkgl.Mat4) error {
	if mi < 0 || mi >= len(b.doc.Meshes) {
		return fmt.Errorf("%w: mesh %d out of range", ErrDecode, mi)
	}
	flip := det3(world) < 0
	for pi, p := range b.doc.Meshes[mi].Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		ai, ok := p.Attributes[gltf.POSITION]
		if !ok || int(ai) >= len(b.doc.Accessors) {
			continue
		}
		pos, err := modeler.ReadPosition(b.doc, b.doc.Accessors[ai], nil)
		if err != nil {
			return fmt.Errorf("%w: mesh %d primitive %d: %w", ErrDecode, mi, pi, err)
		}
		var idx []uint32
		if p.Indices != nil {
			if int(*p.Indices) >= len(b.doc.Accessors) {
				return fmt.Errorf("%w: mesh %d primitive %d: indices out of range", ErrDecode, mi, pi)
			}
			idx, err = modeler.ReadIndices(b.doc, b.doc.Accessors[*p.Indices], nil)
			if err != nil {
				return fmt.Errorf("%w: mesh %d primitive %d: %w", ErrDecode, mi, pi, err)
			}
		} else {
			idx = make([]uint32, len(pos))
			for i := range idx {
				idx[i] = uint32(i)
			}
		}
		b.addTriangles(world, flip, pos, idx, b.primitiveColor(p))
	}
	return nil
}

// primitiveColor resolves the flat color of p: the material base color, else
// the mean of COLOR_0, else light grey.
func (b *builder) primitiveColor(p *gltf.Primitive) quarkgl.Color {
	if p.Material != nil && int(*p.Material) < len(b.doc.Materials) {
		mat := b.doc.Materials[*p.Material]
		if mat != nil && mat.PBRMetallicRoughness != nil && mat.PBRMetallicRoughness.BaseColorFactor != nil {
			return colorFrom(*mat.PBRMetallicRoughness.BaseColorFactor)
		}
	}
	if ci, ok := p.Attributes[gltf.COLOR_0]; ok && int(ci) < len(b.doc.Accessors) {
		cols, err := modeler.ReadColor(b.doc, b.doc.Accessors[ci], nil)
		if err == nil && len(cols) > 0 {
			var r, g, bl int
			for _, c := range cols {
				r += int(c[0])
				g += int(c[1])
				bl += int(c[2])
			}
			n := len(cols)
			return quarkgl.RGB(uint8(r/n), uint8(g/n), uint8(bl/n))
		}
	}
	return quarkgl.RGB(0xCC, 0xCC, 0xCC)
}

// addTriangles appends a transformed triangle list to the open chunk,
// starting a new one whenever it would pass maxMeshVerts. Primitives share
// chunks and keep their color per vertex.
func (b *builder) addTriangles(world quarkgl.Mat4, flip bool, pos [][3]float32, idx []uint32, c quarkgl.Color) {
	remap := map[uint32]uint16{}
	next := func() {
		b.chunks = append(b.chunks, quarkgl.Mesh{
			Material: quarkgl.Material{BaseColor: c, Opacity: 0xFF, VertexColor: true},
		})
		clear(remap)
	}
	vertex := func(cur *quarkgl.Mesh, i uint32) uint16 {
		if v, ok := remap[i]; ok {
			return v
		}
		p := quarkgl.Mat4MulPoint(world, quarkgl.V3(pos[i][0], pos[i][1], pos[i][2]))
		cur.Vertices = append(cur.Vertices, quarkgl.Vertex{Pos: p, Color: c})
		v := uint16(len(cur.Vertices) - 1)
		remap[i] = v
		return v
	}

	for t := 0; t+2 < len(idx); t += 3 {
		i0, i1, i2 := idx[t], idx[t+1], idx[t+2]
		if int(i0) >= len(pos) || int(i1) >= len(pos) || int(i2) >= len(pos) {
			continue
		}
		if i0 == i1 || i1 == i2 || i0 == i2 {
			continue
		}
		if len(b.chunks) == 0 || len(b.chunks[len(b.chunks)-1].Vertices)+3 > maxMeshVerts {
			next()
		}
		if flip {
			i1, i2 = i2, i1
		}
		cur := &b.chunks[len(b.chunks)-1]
		a0 := vertex(cur, i0)
		a1 := vertex(cur, i1)
		a2 := vertex(cur, i2)
		cur.Indices = append(cur.Indices, a0, a1, a2)
		b.triangles++
	}
}

// normalize centers all chunks on their joint bounds and scales them to a
// unit bounding radius.
func (b *builder) normalize() {
	inf := float32(math.Inf(1))
	lo := quarkgl.V3(inf, inf, inf)
	hi := lo.Mul(-1)
	for _, c := range b.chunks {
		for _, v := range c.Vertices {
			lo = quarkgl.V3(min(lo.X, v.Pos.X), min(lo.Y, v.Pos.Y), min(lo.Z, v.Pos.Z))
			hi = quarkgl.V3(max(hi.X, v.Pos.X), max(hi.Y, v.Pos.Y), max(hi.Z, v.Pos.Z))
		}
	}
	center := lo.Add(hi).Mul(0.5)
	var radius float32
	for _, c := range b.chunks {
		for _, v := range c.Vertices {
			radius = max(radius, quarkgl.Dist(v.Pos, center))
		}
	}
	inv := float32(1)
	if radius > 0 {
		inv = 1 / radius
	}
	for ci := range b.chunks {
		vs := b.chunks[ci].Vertices
		for i := range vs {
			vs[i].Pos = vs[i].Pos.Sub(center).Mul(inv)
			vs[i].Normal = quarkgl.Normalize(vs[i].Pos)
		}
	}
}

type float interface{ ~float32 | ~float64 }

func vec3From[T float](v [3]T) quarkgl.Vec3 {
	return quarkgl.V3(float32(v[0]), float32(v[1]), float32(v[2]))
}

func mat4From[T float](m [16]T) quarkgl.Mat4 {
	var out quarkgl.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

func colorFrom[T float](c [4]T) quarkgl.Color {
	return quarkgl.RGBF(float32(c[0]), float32(c[1]), float32(c[2]))
}

// quatMatrix converts an x, y, z, w unit quaternion to a column-major matrix.
func quatMatrix[T float](q [4]T) quarkgl.Mat4 {
	x, y, z, w := float32(q[0]), float32(q[1]), float32(q[2]), float32(q[3])
	return quarkgl.Mat4{
		1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w), 0,
		2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w), 0,
		2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}

func det3(m quarkgl.Mat4) float32 {
	return m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
}
