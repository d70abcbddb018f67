package quarkgl

import "math"

// meshBuilder collects triangles and keeps them facing away from the origin.
type meshBuilder struct {
	verts   []Vertex
	indices []uint16
}

func (b *meshBuilder) vertex(p Vec3) uint16 {
	b.verts = append(b.verts, Vertex{Pos: p, Normal: Normalize(p)})
	return uint16(len(b.verts) - 1)
}

// tri appends a triangle, flipping it when it faces the origin. Only valid for
// shapes that are star-convex around the origin.
func (b *meshBuilder) tri(i0, i1, i2 uint16) {
	a, c1, c2 := b.verts[i0].Pos, b.verts[i1].Pos, b.verts[i2].Pos
	n := Cross(c1.Sub(a), c2.Sub(a))
	if Dot(n, a.Add(c1).Add(c2)) < 0 {
		i1, i2 = i2, i1
	}
	b.indices = append(b.indices, i0, i1, i2)
}

func (b *meshBuilder) mesh() Mesh {
	return Mesh{Vertices: b.verts, Indices: b.indices}
}

var icoBase = func() [12]Vec3 {
	t := Scalar((1 + math.Sqrt(5)) / 2)
	return [12]Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
}()

var icoFaces = [20][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// Icosahedron builds an icosphere of the given radius. Each face edge is split
// into detail+1 segments, so detail 0 has 20 faces and detail 1 has 80.
func Icosahedron(radius Scalar, detail int) Mesh {
	if detail < 0 {
		detail = 0
	}
	seg := detail + 1
	var b meshBuilder
	for _, f := range icoFaces {
		a, bb, c := icoBase[f[0]], icoBase[f[1]], icoBase[f[2]]
		// rows[i][j] is the point at (i/seg) along a→c and j/seg across.
		rows := make([][]uint16, seg+1)
		for i := 0; i <= seg; i++ {
			ai := a.Lerp(c, Scalar(i)/Scalar(seg))
			bi := bb.Lerp(c, Scalar(i)/Scalar(seg))
			cols := seg - i
			rows[i] = make([]uint16, cols+1)
			for j := 0; j <= cols; j++ {
				p := ai
				if cols > 0 {
					p = ai.Lerp(bi, Scalar(j)/Scalar(cols))
				}
				rows[i][j] = b.vertex(Normalize(p).Mul(radius))
			}
		}
		for i := 0; i < seg; i++ {
			for j := 0; j < 2*(seg-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					b.tri(rows[i][k+1], rows[i+1][k], rows[i][k])
				} else {
					b.tri(rows[i][k+1], rows[i+1][k+1], rows[i+1][k])
				}
			}
		}
	}
	return b.mesh()
}

// UVSphere builds a latitude/longitude sphere. Vertex count is
// (widthSegments+1)*(heightSegments+1) and must stay below 65536.
func UVSphere(radius Scalar, widthSegments, heightSegments int) Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	var b meshBuilder
	grid := make([][]uint16, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		grid[iy] = make([]uint16, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			p := V3(
				Scalar(-math.Cos(u*2*math.Pi)*math.Sin(v*math.Pi)),
				Scalar(math.Cos(v*math.Pi)),
				Scalar(math.Sin(u*2*math.Pi)*math.Sin(v*math.Pi)),
			)
			grid[iy][ix] = b.vertex(p.Mul(radius))
		}
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			bb := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				b.tri(a, bb, d)
			}
			if iy != heightSegments-1 {
				b.tri(bb, c, d)
			}
		}
	}
	return b.mesh()
}
