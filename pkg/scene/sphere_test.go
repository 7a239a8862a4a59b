package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSphereIntersect(t *testing.T) {
	tests := []struct {
		name   string
		sphere Sphere
		ray    Ray
		wantOK bool
		wantT  float64
	}{
		{
			name:   "head on",
			sphere: Sphere{Radius: 1},
			ray:    Ray{Origin: mgl64.Vec3{0, 0, 10}, Direction: mgl64.Vec3{0, 0, -1}},
			wantOK: true,
			wantT:  9,
		},
		{
			name:   "radius two",
			sphere: Sphere{Radius: 2},
			ray:    Ray{Origin: mgl64.Vec3{0, 0, 10}, Direction: mgl64.Vec3{0, 0, -1}},
			wantOK: true,
			wantT:  8,
		},
		{
			name:   "offset center",
			sphere: Sphere{Position: mgl64.Vec3{3, 0, 0}, Radius: 1},
			ray:    Ray{Origin: mgl64.Vec3{3, 0, 10}, Direction: mgl64.Vec3{0, 0, -1}},
			wantOK: true,
			wantT:  9,
		},
		{
			name:   "passes beside",
			sphere: Sphere{Radius: 1},
			ray:    Ray{Origin: mgl64.Vec3{0, 2, 10}, Direction: mgl64.Vec3{0, 0, -1}},
			wantOK: false,
		},
		{
			name:   "tangent",
			sphere: Sphere{Radius: 1},
			ray:    Ray{Origin: mgl64.Vec3{0, 1, 10}, Direction: mgl64.Vec3{0, 0, -1}},
			wantOK: true,
			wantT:  10,
		},
		{
			name:   "unnormalized direction",
			sphere: Sphere{Radius: 1},
			ray:    Ray{Origin: mgl64.Vec3{0, 0, 10}, Direction: mgl64.Vec3{0, 0, -2}},
			wantOK: true,
			wantT:  4.5,
		},
		{
			name:   "degenerate direction",
			sphere: Sphere{Radius: 1},
			ray:    Ray{Origin: mgl64.Vec3{0, 0, 10}},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.sphere.Intersect(tc.ray)
			if ok != tc.wantOK {
				t.Fatalf("Intersect ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && math.Abs(got-tc.wantT) > 1e-9 {
				t.Errorf("Intersect t = %v, want %v", got, tc.wantT)
			}
		})
	}
}

func TestSphereBehindOrigin(t *testing.T) {
	// Pointing away from the sphere: both roots are negative
	s := Sphere{Radius: 1}
	ray := Ray{Origin: mgl64.Vec3{0, 0, 10}, Direction: mgl64.Vec3{0, 0, 1}}

	got, ok := s.Intersect(ray)
	if ok && got > 0 {
		t.Errorf("ray pointing away reported positive hit at %v", got)
	}
}

func TestSphereNormalAt(t *testing.T) {
	s := Sphere{Position: mgl64.Vec3{1, 1, 1}, Radius: 2}

	tests := []struct {
		point mgl64.Vec3
		want  mgl64.Vec3
	}{
		{mgl64.Vec3{3, 1, 1}, mgl64.Vec3{1, 0, 0}},
		{mgl64.Vec3{1, -1, 1}, mgl64.Vec3{0, -1, 0}},
		{mgl64.Vec3{1, 1, 3}, mgl64.Vec3{0, 0, 1}},
	}

	for _, tc := range tests {
		got := s.NormalAt(tc.point)
		if !got.ApproxEqualThreshold(tc.want, 1e-9) {
			t.Errorf("NormalAt(%v) = %v, want %v", tc.point, got, tc.want)
		}
	}

	// The center has no defined normal but must not produce NaN
	n := s.NormalAt(s.Position)
	if math.IsNaN(n.X()) || math.IsNaN(n.Y()) || math.IsNaN(n.Z()) {
		t.Errorf("NormalAt(center) = %v, want a finite vector", n)
	}
}

func BenchmarkSphereIntersect(b *testing.B) {
	s := NewSphere(mgl64.Vec3{0, 0, 0}, 1, 0)
	ray := Ray{Origin: mgl64.Vec3{0, 0.3, 10}, Direction: mgl64.Vec3{0, 0, -1}}

	for b.Loop() {
		_, _ = s.Intersect(ray)
	}
}
