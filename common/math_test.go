package common

import (
	"testing"

	"github.com/chewxy/math32"
)

const epsilon = 1e-4

func matricesClose(a, b []float32) bool {
	for i := range 16 {
		if math32.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = 7
	}
	Identity(m)

	want := []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if !matricesClose(m, want) {
		t.Fatalf("Identity() = %v, want %v", m, want)
	}
}

func TestMul4Identity(t *testing.T) {
	identity := make([]float32, 16)
	Identity(identity)

	m := []float32{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 4, 0,
		5, 6, 7, 1,
	}

	out := make([]float32, 16)
	Mul4(out, identity, m)
	if !matricesClose(out, m) {
		t.Errorf("I * M = %v, want %v", out, m)
	}

	Mul4(out, m, identity)
	if !matricesClose(out, m) {
		t.Errorf("M * I = %v, want %v", out, m)
	}
}

func TestMul4InPlace(t *testing.T) {
	// Mul4 must tolerate out aliasing one of its operands.
	a := make([]float32, 16)
	ComposeTransform(a, 1, 2, 3, 1, 1, 1)
	b := make([]float32, 16)
	ComposeTransform(b, 4, 5, 6, 1, 1, 1)

	want := make([]float32, 16)
	Mul4(want, a, b)

	Mul4(a, a, b)
	if !matricesClose(a, want) {
		t.Errorf("aliased Mul4 = %v, want %v", a, want)
	}
}

func TestComposeTransform(t *testing.T) {
	tests := []struct {
		name             string
		posX, posY, posZ float32
		sclX, sclY, sclZ float32
		point            [3]float32
		want             [3]float32
	}{
		{
			name: "pure translation",
			posX: 1, posY: 2, posZ: 3,
			sclX: 1, sclY: 1, sclZ: 1,
			point: [3]float32{0, 0, 0},
			want:  [3]float32{1, 2, 3},
		},
		{
			name: "pure scale",
			sclX: 2, sclY: 3, sclZ: 4,
			point: [3]float32{1, 1, 1},
			want:  [3]float32{2, 3, 4},
		},
		{
			name: "scale then translate",
			posX: 10, posY: 0, posZ: -10,
			sclX: 1, sclY: 5, sclZ: 1,
			point: [3]float32{0.5, 0.5, 0.5},
			want:  [3]float32{10.5, 2.5, -9.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := make([]float32, 16)
			ComposeTransform(m, tt.posX, tt.posY, tt.posZ, tt.sclX, tt.sclY, tt.sclZ)

			// Column-major: transformed = M * (p, 1)
			var got [3]float32
			for row := range 3 {
				got[row] = m[0*4+row]*tt.point[0] +
					m[1*4+row]*tt.point[1] +
					m[2*4+row]*tt.point[2] +
					m[3*4+row]
			}

			for i := range 3 {
				if math32.Abs(got[i]-tt.want[i]) > epsilon {
					t.Fatalf("transformed point = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	m := make([]float32, 16)
	Perspective(m, math32.Pi/4, 16.0/9.0, 0.1, 100)

	// A point on the near plane maps to depth 0 after the perspective divide,
	// a point on the far plane to depth 1 (WebGPU convention).
	project := func(z float32) float32 {
		clipZ := m[10]*z + m[14]
		clipW := m[11] * z
		return clipZ / clipW
	}

	if d := project(-0.1); math32.Abs(d) > epsilon {
		t.Errorf("near plane depth = %v, want 0", d)
	}
	if d := project(-100); math32.Abs(d-1) > epsilon {
		t.Errorf("far plane depth = %v, want 1", d)
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	m := make([]float32, 16)
	ComposeTransform(m, 3, -2, 7, 2, 5, 0.5)

	inv := make([]float32, 16)
	if !Invert4(inv, m) {
		t.Fatal("Invert4 reported a singular matrix for an invertible transform")
	}

	product := make([]float32, 16)
	Mul4(product, m, inv)

	identity := make([]float32, 16)
	Identity(identity)
	if !matricesClose(product, identity) {
		t.Errorf("M * M⁻¹ = %v, want identity", product)
	}
}

func TestInvert4Singular(t *testing.T) {
	m := make([]float32, 16) // all zeros, det = 0
	out := make([]float32, 16)
	out[3] = 42

	if Invert4(out, m) {
		t.Fatal("Invert4 inverted a singular matrix")
	}
	if out[3] != 42 {
		t.Error("Invert4 modified the output for a singular input")
	}
}

func TestLookAtTransformsEyeToOrigin(t *testing.T) {
	m := make([]float32, 16)
	LookAt(m, 4, 4, 6, 0, 0, 0, 0, 1, 0)

	// The eye position must map to the view-space origin.
	eye := [3]float32{4, 4, 6}
	for row := range 3 {
		got := m[0*4+row]*eye[0] + m[1*4+row]*eye[1] + m[2*4+row]*eye[2] + m[3*4+row]
		if math32.Abs(got) > epsilon {
			t.Fatalf("view * eye, component %d = %v, want 0", row, got)
		}
	}

	// The target (world origin) must land in front of the camera, on the
	// negative z axis in view space.
	if gotZ := m[3*4+2]; gotZ >= 0 {
		t.Errorf("target view-space z = %v, want negative", gotZ)
	}
}

func TestSliceToBytes(t *testing.T) {
	if got := SliceToBytes([]float32(nil)); got != nil {
		t.Errorf("SliceToBytes(nil) = %v, want nil", got)
	}

	data := []float32{1.0}
	b := SliceToBytes(data)
	if len(b) != 4 {
		t.Fatalf("len = %d, want 4", len(b))
	}
	// 1.0 as IEEE-754 little-endian is 0x3f800000.
	if b[0] != 0 || b[1] != 0 || b[2] != 0x80 || b[3] != 0x3f {
		t.Errorf("bytes = %v, want [0 0 128 63]", b)
	}
}
