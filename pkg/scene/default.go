package scene

import "github.com/go-gl/mathgl/mgl64"

// Default returns the demo scene: a pink sphere, an orange light sphere next
// to it, and a large blue sphere acting as the ground.
func Default() *Scene {
	pink := DefaultMaterial()
	pink.Name = "pink"
	pink.Albedo = mgl64.Vec3{1, 0, 1}
	pink.Roughness = 0

	blue := DefaultMaterial()
	blue.Name = "blue"
	blue.Albedo = mgl64.Vec3{0.2, 0.3, 1}
	blue.Roughness = 0.1

	orange := DefaultMaterial()
	orange.Name = "orange"
	orange.Albedo = mgl64.Vec3{0.8, 0.5, 0.2}
	orange.Roughness = 0.1
	orange.EmissionColor = orange.Albedo
	orange.EmissionPower = 2

	return &Scene{
		Materials: []Material{pink, blue, orange},
		Objects: []Object{
			NewSphere(mgl64.Vec3{0, 0, 0}, 1, 0),
			NewSphere(mgl64.Vec3{2, 0, 0}, 1, 2),
			NewSphere(mgl64.Vec3{0, -101, 0}, 100, 1),
		},
	}
}
