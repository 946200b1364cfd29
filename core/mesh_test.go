package core

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuadMesh(t *testing.T) {
	m := NewQuadMesh(4)

	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Fatalf("Quad should have 4 vertices and 6 indices, got %d/%d", len(m.Vertices), len(m.Indices))
	}
	if m.TriCount() != 2 {
		t.Errorf("Quad should be 2 triangles, got %d", m.TriCount())
	}
	for i, v := range m.Vertices {
		if v.Normal != [4]float32{0, 1, 0, 0} {
			t.Errorf("Vertex %d normal should face +Y, got %v", i, v.Normal)
		}
		if v.Position[1] != 0 {
			t.Errorf("Vertex %d should lie in the XZ plane, got %v", i, v.Position)
		}
		if !closeEnough(v.Position[0], 2, 1e-6) && !closeEnough(v.Position[0], -2, 1e-6) {
			t.Errorf("Vertex %d X should be at the half size, got %v", i, v.Position)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Errorf("Index %d out of range", idx)
		}
	}
}

func TestBoxMesh(t *testing.T) {
	he := mgl32.Vec3{1, 2, 3}
	m := NewBoxMesh(he)

	if len(m.Vertices) != 24 || len(m.Indices) != 36 {
		t.Fatalf("Box should have 24 vertices and 36 indices, got %d/%d", len(m.Vertices), len(m.Indices))
	}
	if m.TriCount() != 12 {
		t.Errorf("Box should be 12 triangles, got %d", m.TriCount())
	}

	for i, v := range m.Vertices {
		n := mgl32.Vec3{v.Normal[0], v.Normal[1], v.Normal[2]}
		if !closeEnough(n.Len(), 1, 1e-5) {
			t.Errorf("Vertex %d normal should be unit, got %v", i, v.Normal)
		}
		// Every vertex sits on the face its normal names.
		p := mgl32.Vec3{v.Position[0], v.Position[1], v.Position[2]}
		onFace := p.X()*n.X()+p.Y()*n.Y()+p.Z()*n.Z() > 0
		if !onFace {
			t.Errorf("Vertex %d should lie on its face, pos %v normal %v", i, v.Position, v.Normal)
		}
		if abs32(p.X()) > he.X()+1e-5 || abs32(p.Y()) > he.Y()+1e-5 || abs32(p.Z()) > he.Z()+1e-5 {
			t.Errorf("Vertex %d outside the half extents: %v", i, v.Position)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Errorf("Index %d out of range", idx)
		}
	}
}

func TestMeshVertexLayout(t *testing.T) {
	// The mesh pipeline declares a 40 byte stride: vec4, vec4, vec2.
	if s := unsafe.Sizeof(MeshVertex{}); s != 40 {
		t.Errorf("MeshVertex should be 40 bytes, got %d", s)
	}
	if o := unsafe.Offsetof(MeshVertex{}.Normal); o != 16 {
		t.Errorf("Normal should sit at offset 16, got %d", o)
	}
	if o := unsafe.Offsetof(MeshVertex{}.TexCoord); o != 32 {
		t.Errorf("TexCoord should sit at offset 32, got %d", o)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
