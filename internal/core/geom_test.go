package core

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func vecNear(a, b Vec2) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(-1, 2)

	if got := a.Add(b); !vecNear(got, V(2, 6)) {
		t.Errorf("Add = %v, expected (2, 6)", got)
	}
	if got := a.Sub(b); !vecNear(got, V(4, 2)) {
		t.Errorf("Sub = %v, expected (4, 2)", got)
	}
	if got := a.Scale(2); !vecNear(got, V(6, 8)) {
		t.Errorf("Scale = %v, expected (6, 8)", got)
	}
	if got := a.Dot(b); math.Abs(got-5) > epsilon {
		t.Errorf("Dot = %f, expected 5", got)
	}
}

func TestVec2Length(t *testing.T) {
	if got := V(3, 4).Length(); math.Abs(got-5) > epsilon {
		t.Errorf("Length = %f, expected 5", got)
	}
	if got := V(0, 0).Length(); got != 0 {
		t.Errorf("Length of zero vector = %f, expected 0", got)
	}
}

func TestVec2Normalize(t *testing.T) {
	n := V(10, 0).Normalize()
	if !vecNear(n, V(1, 0)) {
		t.Errorf("Normalize = %v, expected (1, 0)", n)
	}

	n = V(3, 4).Normalize()
	if math.Abs(n.Length()-1) > epsilon {
		t.Errorf("Normalized length = %f, expected 1", n.Length())
	}
}

func TestVec2Perp(t *testing.T) {
	p := V(1, 0).Perp()
	if !vecNear(p, V(0, 1)) {
		t.Errorf("Perp = %v, expected (0, 1)", p)
	}

	// Perpendicular is orthogonal to the original
	v := V(3, -7)
	if dot := v.Dot(v.Perp()); math.Abs(dot) > epsilon {
		t.Errorf("Dot with perp = %f, expected 0", dot)
	}
}

func TestVec2Rotated(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec2
		angle    float64
		expected Vec2
	}{
		{"quarter turn", V(1, 0), math.Pi / 2, V(0, 1)},
		{"half turn", V(1, 0), math.Pi, V(-1, 0)},
		{"full turn", V(2, 3), 2 * math.Pi, V(2, 3)},
		{"zero angle", V(2, 3), 0, V(2, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.v.Rotated(tc.angle)
			if !vecNear(got, tc.expected) {
				t.Errorf("Rotated(%f) = %v, expected %v", tc.angle, got, tc.expected)
			}
		})
	}
}

func TestVec2RotationPreservesLength(t *testing.T) {
	v := V(7, -2)
	for _, angle := range []float64{0.1, 1.0, -2.5, math.Pi / 3} {
		got := v.Rotated(angle)
		if math.Abs(got.Length()-v.Length()) > epsilon {
			t.Errorf("Rotated(%f) changed length: %f vs %f", angle, got.Length(), v.Length())
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}
