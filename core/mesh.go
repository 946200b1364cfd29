package core

import "github.com/go-gl/mathgl/mgl32"

// MeshVertex matches WGSL layout in mesh.wgsl
// struct VertexInput { vec4 position; vec4 normal; vec2 texcoord; }
type MeshVertex struct {
	Position [4]float32
	Normal   [4]float32
	TexCoord [2]float32
}

// Mesh is static triangle geometry. The gpu package uploads it once; the
// slices are never mutated after construction.
type Mesh struct {
	Vertices []MeshVertex
	Indices  []uint16
}

func (m *Mesh) TriCount() int { return len(m.Indices) / 3 }

// NewQuadMesh builds a quad in the XZ plane facing +Y, centred at the
// origin, size world units across. Useful as a ground patch.
func NewQuadMesh(size float32) *Mesh {
	h := size * 0.5
	up := [4]float32{0, 1, 0, 0}
	return &Mesh{
		Vertices: []MeshVertex{
			{Position: [4]float32{-h, 0, -h, 1}, Normal: up, TexCoord: [2]float32{0, 0}},
			{Position: [4]float32{-h, 0, h, 1}, Normal: up, TexCoord: [2]float32{0, 1}},
			{Position: [4]float32{h, 0, h, 1}, Normal: up, TexCoord: [2]float32{1, 1}},
			{Position: [4]float32{h, 0, -h, 1}, Normal: up, TexCoord: [2]float32{1, 0}},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

// NewBoxMesh builds an axis-aligned box with the given half extents, four
// vertices per face so normals stay hard.
func NewBoxMesh(halfExtents mgl32.Vec3) *Mesh {
	faces := []struct {
		n, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	mesh := &Mesh{
		Vertices: make([]MeshVertex, 0, 24),
		Indices:  make([]uint16, 0, 36),
	}
	scale := func(axis mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{axis.X() * halfExtents.X(), axis.Y() * halfExtents.Y(), axis.Z() * halfExtents.Z()}
	}
	for _, f := range faces {
		base := uint16(len(mesh.Vertices))
		n, u, v := scale(f.n), scale(f.u), scale(f.v)
		for c := 0; c < 4; c++ {
			pos := n.Add(u.Mul(corners[c][0])).Add(v.Mul(corners[c][1]))
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: [4]float32{pos.X(), pos.Y(), pos.Z(), 1},
				Normal:   [4]float32{f.n.X(), f.n.Y(), f.n.Z(), 0},
				TexCoord: uvs[c],
			})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return mesh
}
