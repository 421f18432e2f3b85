package common

import (
	"github.com/chewxy/math32"
)

// Ray is a world-space half-line used for pointer picking.
type Ray struct {
	// Origin is the ray's starting point.
	Origin [3]float32

	// Dir is the ray's direction. Must be normalized.
	Dir [3]float32
}

// IntersectAABB tests the ray against an axis-aligned box using the slab
// method. Only hits in front of the origin count.
//
// Parameters:
//   - center: box center in world space
//   - halfExtents: half the box size along each axis
//
// Returns:
//   - float32: distance along the ray to the entry point (0 if the origin is inside)
//   - bool: true if the ray hits the box
func (r Ray) IntersectAABB(center, halfExtents [3]float32) (float32, bool) {
	tMin := float32(math32.Inf(-1))
	tMax := float32(math32.Inf(1))

	for axis := 0; axis < 3; axis++ {
		lo := center[axis] - halfExtents[axis]
		hi := center[axis] + halfExtents[axis]

		if r.Dir[axis] == 0 {
			// Ray parallel to this slab — miss unless the origin lies within it.
			if r.Origin[axis] < lo || r.Origin[axis] > hi {
				return 0, false
			}
			continue
		}

		inv := 1.0 / r.Dir[axis]
		t0 := (lo - r.Origin[axis]) * inv
		t1 := (hi - r.Origin[axis]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		// Box is entirely behind the origin.
		return 0, false
	}
	if tMin < 0 {
		return 0, true
	}
	return tMin, true
}

// Normalize scales a 3-vector to unit length in place.
// Zero vectors are left unchanged.
//
// Parameters:
//   - v: the vector to normalize
func Normalize(v *[3]float32) {
	lenSq := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	if lenSq == 0 {
		return
	}
	inv := 1.0 / math32.Sqrt(lenSq)
	v[0] *= inv
	v[1] *= inv
	v[2] *= inv
}
