package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Object is anything a ray can be tested against.
type Object interface {
	// Intersect returns the distance to the nearest root of the ray/shape
	// equation. The distance may be negative (behind the origin); callers
	// reject non-positive distances. ok is false when there is no root.
	Intersect(ray Ray) (t float64, ok bool)

	// NormalAt returns the unit surface normal at a point on the surface.
	NormalAt(point mgl64.Vec3) mgl64.Vec3

	// MaterialIndex returns the index into Scene.Materials.
	MaterialIndex() int
}

// Sphere is a sphere in world space.
type Sphere struct {
	Position mgl64.Vec3
	Radius   float64
	Material int
}

// NewSphere creates a sphere.
func NewSphere(position mgl64.Vec3, radius float64, material int) *Sphere {
	return &Sphere{
		Position: position,
		Radius:   radius,
		Material: material,
	}
}

// Intersect solves t²(d·d) + 2t(o·d) + (o·o - r²) = 0 and returns the
// smaller root.
func (s *Sphere) Intersect(ray Ray) (float64, bool) {
	origin := ray.Origin.Sub(s.Position)

	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return 0, false
	}
	b := 2 * origin.Dot(ray.Direction)
	c := origin.Dot(origin) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	return (-b - math.Sqrt(discriminant)) / (2 * a), true
}

// NormalAt returns the outward normal at point.
func (s *Sphere) NormalAt(point mgl64.Vec3) mgl64.Vec3 {
	n := point.Sub(s.Position)
	if n.LenSqr() == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

// MaterialIndex implements Object.
func (s *Sphere) MaterialIndex() int {
	return s.Material
}

// SetMaterialIndex reassigns the sphere's material.
func (s *Sphere) SetMaterialIndex(i int) {
	s.Material = i
}

// Translate moves the sphere by delta.
func (s *Sphere) Translate(delta mgl64.Vec3) {
	s.Position = s.Position.Add(delta)
}

// Grow changes the radius by delta without going below minRadius.
func (s *Sphere) Grow(delta, minRadius float64) {
	s.Radius = max(s.Radius+delta, minRadius)
}
