package scene

import "github.com/go-gl/mathgl/mgl64"

// Material describes how a surface reflects and emits light.
//
// Roughness and Metallic are part of the material schema but the diffuse
// shading model does not read them yet.
type Material struct {
	Name          string
	Albedo        mgl64.Vec3 // Linear RGB base color
	Roughness     float64    // [0, 1]
	Metallic      float64    // [0, 1]
	EmissionColor mgl64.Vec3 // Linear RGB
	EmissionPower float64    // Unbounded, non-negative
}

// DefaultMaterial returns a white, fully rough, non-emissive material.
func DefaultMaterial() Material {
	return Material{
		Albedo:    mgl64.Vec3{1, 1, 1},
		Roughness: 1,
	}
}

// Emission returns the radiance emitted by the surface.
func (m Material) Emission() mgl64.Vec3 {
	return m.EmissionColor.Mul(m.EmissionPower)
}

// Emissive reports whether the material emits any light.
func (m Material) Emissive() bool {
	return m.EmissionPower > 0 && m.EmissionColor.LenSqr() > 0
}
