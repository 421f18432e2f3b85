// Package mesh provides the fixed geometry used by the hero grid: a unit cube
// triangle mesh for the cell body and a line-list edge mesh for its wireframe
// outline. Both are centered at the origin so a cell's transform applies to
// the body and the outline identically.
package mesh

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/herogrid/common"
)

// Mesh holds GPU-ready vertex and index data for a single pipeline.
// VertexData is tightly packed [3]float32 positions (12-byte stride);
// IndexData is little-endian uint32.
type Mesh struct {
	// VertexData is the raw vertex bytes to upload to the GPU.
	VertexData []byte

	// IndexData is the raw index bytes to upload to the GPU.
	IndexData []byte

	// IndexCount is the number of indices represented in IndexData.
	IndexCount int
}

// corner positions of the unit cube, indexed by (x<<2)|(y<<1)|z bit pattern
// with 0 mapping to -0.5 and 1 to +0.5 on each axis.
var cubeCorners = [8][3]float32{
	{-0.5, -0.5, -0.5},
	{-0.5, -0.5, 0.5},
	{-0.5, 0.5, -0.5},
	{-0.5, 0.5, 0.5},
	{0.5, -0.5, -0.5},
	{0.5, -0.5, 0.5},
	{0.5, 0.5, -0.5},
	{0.5, 0.5, 0.5},
}

// Cube returns the unit cube triangle mesh: 6 faces, 2 triangles each,
// 36 indices over the 8 shared corner vertices. Face shading is flat color
// from the instance data, so per-face normals are not needed and corners
// can be shared.
//
// Returns:
//   - Mesh: the cube triangle mesh
func Cube() Mesh {
	// Each face as a quad of corner indices, counter-clockwise when viewed
	// from outside the cube.
	faces := [6][4]uint32{
		{4, 6, 7, 5}, // +X
		{1, 3, 2, 0}, // -X
		{2, 3, 7, 6}, // +Y
		{1, 0, 4, 5}, // -Y
		{1, 5, 7, 3}, // +Z
		{4, 0, 2, 6}, // -Z
	}

	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		indices = append(indices,
			f[0], f[1], f[2],
			f[0], f[2], f[3],
		)
	}

	return Mesh{
		VertexData: common.SliceToBytes(cubeCorners[:]),
		IndexData:  indexBytes(indices),
		IndexCount: len(indices),
	}
}

// CubeEdges returns the cube's 12 edges as a line-list mesh (24 indices)
// over the same 8 corner vertices as Cube. Rendered with the wireframe
// pipeline this draws the cell outline.
//
// Returns:
//   - Mesh: the cube edge line mesh
func CubeEdges() Mesh {
	// Pairs of corner indices differing in exactly one axis bit.
	edges := []uint32{
		0, 1, 2, 3, 4, 5, 6, 7, // Z-axis edges
		0, 2, 1, 3, 4, 6, 5, 7, // Y-axis edges
		0, 4, 1, 5, 2, 6, 3, 7, // X-axis edges
	}

	return Mesh{
		VertexData: common.SliceToBytes(cubeCorners[:]),
		IndexData:  indexBytes(edges),
		IndexCount: len(edges),
	}
}

// indexBytes encodes uint32 indices as little-endian bytes for GPU upload.
func indexBytes(indices []uint32) []byte {
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}
