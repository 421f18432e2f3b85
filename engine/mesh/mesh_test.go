package mesh

import (
	"encoding/binary"
	"testing"
)

func decodeIndices(t *testing.T, data []byte) []uint32 {
	t.Helper()
	if len(data)%4 != 0 {
		t.Fatalf("index data length %d is not a multiple of 4", len(data))
	}
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}

func TestCube(t *testing.T) {
	m := Cube()

	if got := len(m.VertexData); got != 8*12 {
		t.Errorf("vertex data = %d bytes, want %d", got, 8*12)
	}
	if m.IndexCount != 36 {
		t.Errorf("index count = %d, want 36", m.IndexCount)
	}

	indices := decodeIndices(t, m.IndexData)
	if len(indices) != m.IndexCount {
		t.Fatalf("decoded %d indices, IndexCount says %d", len(indices), m.IndexCount)
	}

	// Every index must address one of the 8 shared corners, and every corner
	// must be used.
	used := make(map[uint32]bool)
	for _, idx := range indices {
		if idx >= 8 {
			t.Fatalf("index %d out of range", idx)
		}
		used[idx] = true
	}
	if len(used) != 8 {
		t.Errorf("cube uses %d distinct corners, want 8", len(used))
	}
}

func TestCubeEdges(t *testing.T) {
	m := CubeEdges()

	if m.IndexCount != 24 {
		t.Errorf("index count = %d, want 24 (12 edges)", m.IndexCount)
	}

	indices := decodeIndices(t, m.IndexData)

	// Each line segment must join two corners differing in exactly one axis
	// bit, and all 12 cube edges must appear exactly once.
	seen := make(map[[2]uint32]bool)
	for i := 0; i < len(indices); i += 2 {
		a, b := indices[i], indices[i+1]
		if a >= 8 || b >= 8 {
			t.Fatalf("edge (%d, %d) out of corner range", a, b)
		}
		diff := a ^ b
		if diff != 1 && diff != 2 && diff != 4 {
			t.Errorf("edge (%d, %d) does not join adjacent corners", a, b)
		}
		key := [2]uint32{min(a, b), max(a, b)}
		if seen[key] {
			t.Errorf("edge (%d, %d) appears more than once", a, b)
		}
		seen[key] = true
	}
	if len(seen) != 12 {
		t.Errorf("found %d distinct edges, want 12", len(seen))
	}
}

func TestCubeAndEdgesShareCorners(t *testing.T) {
	cube := Cube()
	edges := CubeEdges()

	if string(cube.VertexData) != string(edges.VertexData) {
		t.Error("cube and edge meshes should share the same corner vertices")
	}
}
