package scene

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half-line with an origin and a (normally unit length) direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// HitPayload is the result of tracing a ray through a scene.
type HitPayload struct {
	HitDistance   float64 // Negative when the ray missed everything
	WorldPosition mgl64.Vec3
	WorldNormal   mgl64.Vec3
	ObjectIndex   int // Index into Scene.Objects, -1 on a miss
}

// Missed reports whether the trace hit nothing.
func (h HitPayload) Missed() bool {
	return h.HitDistance < 0
}

func miss() HitPayload {
	return HitPayload{HitDistance: -1, ObjectIndex: -1}
}
