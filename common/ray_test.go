package common

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestRayIntersectAABB(t *testing.T) {
	tests := []struct {
		name        string
		ray         Ray
		center      [3]float32
		halfExtents [3]float32
		wantHit     bool
		wantDist    float32
	}{
		{
			name:        "head-on hit",
			ray:         Ray{Origin: [3]float32{0, 0, 10}, Dir: [3]float32{0, 0, -1}},
			center:      [3]float32{0, 0, 0},
			halfExtents: [3]float32{0.5, 0.5, 0.5},
			wantHit:     true,
			wantDist:    9.5,
		},
		{
			name:        "offset hit within half extents",
			ray:         Ray{Origin: [3]float32{0.4, 0.4, 10}, Dir: [3]float32{0, 0, -1}},
			center:      [3]float32{0, 0, 0},
			halfExtents: [3]float32{0.5, 0.5, 0.5},
			wantHit:     true,
			wantDist:    9.5,
		},
		{
			name:        "miss to the side",
			ray:         Ray{Origin: [3]float32{2, 0, 10}, Dir: [3]float32{0, 0, -1}},
			center:      [3]float32{0, 0, 0},
			halfExtents: [3]float32{0.5, 0.5, 0.5},
			wantHit:     false,
		},
		{
			name:        "box behind origin",
			ray:         Ray{Origin: [3]float32{0, 0, 10}, Dir: [3]float32{0, 0, 1}},
			center:      [3]float32{0, 0, 0},
			halfExtents: [3]float32{0.5, 0.5, 0.5},
			wantHit:     false,
		},
		{
			name:        "origin inside box",
			ray:         Ray{Origin: [3]float32{0, 0, 0}, Dir: [3]float32{0, 0, -1}},
			center:      [3]float32{0, 0, 0},
			halfExtents: [3]float32{1, 1, 1},
			wantHit:     true,
			wantDist:    0,
		},
		{
			name:        "parallel slab inside",
			ray:         Ray{Origin: [3]float32{0, 0, 10}, Dir: [3]float32{0, 0, -1}},
			center:      [3]float32{0, 0, 0},
			halfExtents: [3]float32{0.5, 0.5, 0.5},
			wantHit:     true,
			wantDist:    9.5,
		},
		{
			name:        "parallel slab outside",
			ray:         Ray{Origin: [3]float32{0, 3, 10}, Dir: [3]float32{0, 0, -1}},
			center:      [3]float32{0, 0, 0},
			halfExtents: [3]float32{0.5, 0.5, 0.5},
			wantHit:     false,
		},
		{
			name:        "tall box hit from diagonal",
			ray:         Ray{Origin: [3]float32{0, 0, 10}, Dir: [3]float32{0, 0.0995, -0.995}},
			center:      [3]float32{0, 1, 0},
			halfExtents: [3]float32{0.5, 3, 0.5},
			wantHit:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, hit := tt.ray.IntersectAABB(tt.center, tt.halfExtents)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && tt.wantDist > 0 && math32.Abs(dist-tt.wantDist) > 1e-4 {
				t.Errorf("dist = %v, want %v", dist, tt.wantDist)
			}
		})
	}
}

func TestRayNearestOfTwoBoxes(t *testing.T) {
	ray := Ray{Origin: [3]float32{0, 0, 10}, Dir: [3]float32{0, 0, -1}}

	nearDist, nearHit := ray.IntersectAABB([3]float32{0, 0, 2}, [3]float32{0.5, 0.5, 0.5})
	farDist, farHit := ray.IntersectAABB([3]float32{0, 0, -2}, [3]float32{0.5, 0.5, 0.5})

	if !nearHit || !farHit {
		t.Fatalf("both boxes should be hit, got near=%v far=%v", nearHit, farHit)
	}
	if nearDist >= farDist {
		t.Errorf("near box at dist %v should be closer than far box at %v", nearDist, farDist)
	}
}

func TestNormalize(t *testing.T) {
	v := [3]float32{3, 0, 4}
	Normalize(&v)

	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if math32.Abs(length-1) > 1e-5 {
		t.Errorf("normalized length = %v, want 1", length)
	}
	if math32.Abs(v[0]-0.6) > 1e-5 || math32.Abs(v[2]-0.8) > 1e-5 {
		t.Errorf("normalized = %v, want [0.6 0 0.8]", v)
	}

	zero := [3]float32{}
	Normalize(&zero)
	if zero != [3]float32{} {
		t.Errorf("zero vector changed to %v", zero)
	}
}
