package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

// Default camera placement and controls.
const (
	DefaultMoveSpeed       = 5.0
	DefaultRotationSpeed   = 0.3
	DefaultLookSensitivity = 0.002

	// Spring parameters for velocity smoothing. Damping 1.0 is critically
	// damped (no overshoot).
	DefaultSmoothingFPS       = 60
	DefaultSmoothingFrequency = 6.0
	DefaultSmoothingDamping   = 1.0
)

// minPoleAngle keeps the forward vector this far (radians) from world up/down.
var minPoleAngle = mgl64.DegToRad(5)

// velocityEpsilon is the speed below which a decaying axis snaps to rest.
const velocityEpsilon = 1e-3

// velocityAxis eases one movement axis toward its target speed.
type velocityAxis struct {
	value  float64
	accel  float64 // internal spring velocity
	spring harmonica.Spring
}

func newVelocityAxis(fps int, frequency, damping float64) velocityAxis {
	return velocityAxis{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// update moves the axis toward target and returns the new speed.
func (a *velocityAxis) update(target float64, smooth bool) float64 {
	if !smooth {
		a.value, a.accel = target, 0
		return a.value
	}
	a.value, a.accel = a.spring.Update(a.value, a.accel, target)
	if target == 0 && math.Abs(a.value) < velocityEpsilon {
		a.value, a.accel = 0, 0
	}
	return a.value
}

// Camera is a perspective camera that caches one world-space ray direction
// per viewport pixel.
type Camera struct {
	MoveSpeed       float64 // Units per second
	RotationSpeed   float64
	LookSensitivity float64 // Radians per mouse unit, before RotationSpeed

	position mgl64.Vec3
	forward  mgl64.Vec3
	worldUp  mgl64.Vec3

	fov  float64 // Vertical field of view in degrees
	near float64
	far  float64

	width, height int

	projection        mgl64.Mat4
	inverseProjection mgl64.Mat4
	view              mgl64.Mat4
	inverseView       mgl64.Mat4

	rayDirections []mgl64.Vec3

	input     Input
	looking   bool
	lastMouse mgl64.Vec2

	smooth bool
	axes   [3]velocityAxis // forward, right, up
}

// NewCamera creates a camera at (0, 0, 6) looking down -Z.
// verticalFOV is in degrees.
func NewCamera(verticalFOV, nearClip, farClip float64) *Camera {
	c := &Camera{
		MoveSpeed:       DefaultMoveSpeed,
		RotationSpeed:   DefaultRotationSpeed,
		LookSensitivity: DefaultLookSensitivity,
		position:        mgl64.Vec3{0, 0, 6},
		forward:         mgl64.Vec3{0, 0, -1},
		worldUp:         mgl64.Vec3{0, 1, 0},
		fov:             verticalFOV,
		near:            nearClip,
		far:             farClip,
	}
	c.projection, c.inverseProjection = mgl64.Ident4(), mgl64.Ident4()
	c.SetSmoothing(DefaultSmoothingFPS, DefaultSmoothingFrequency, DefaultSmoothingDamping)
	c.recalculateView()
	return c
}

// SetInput attaches the input source polled by OnUpdate.
func (c *Camera) SetInput(in Input) {
	c.input = in
	c.looking = false
}

// SetSmoothing enables spring-smoothed movement. fps is the update rate
// the spring is tuned for.
func (c *Camera) SetSmoothing(fps int, frequency, damping float64) {
	if fps <= 0 {
		fps = DefaultSmoothingFPS
	}
	for i := range c.axes {
		c.axes[i] = newVelocityAxis(fps, frequency, damping)
	}
	c.smooth = true
}

// DisableSmoothing makes movement start and stop instantly.
func (c *Camera) DisableSmoothing() {
	c.smooth = false
	for i := range c.axes {
		c.axes[i].value, c.axes[i].accel = 0, 0
	}
}

// OnUpdate polls the input and moves or rotates the camera.
// It returns true if the position or orientation changed.
func (c *Camera) OnUpdate(deltaTime float64) bool {
	if c.input == nil {
		return false
	}

	moved := false
	right := c.Right()

	// Mouse look
	if c.input.Looking() {
		mouse := c.input.Mouse()
		if !c.looking {
			c.looking = true
		} else if delta := mouse.Sub(c.lastMouse); delta != (mgl64.Vec2{}) {
			if c.rotate(delta, right) {
				moved = true
				right = c.Right()
			}
		}
		c.lastMouse = mouse
	} else {
		c.looking = false
	}

	// Movement
	targets := [3]float64{
		c.axisTarget(MoveForward, MoveBackward),
		c.axisTarget(MoveRight, MoveLeft),
		c.axisTarget(MoveUp, MoveDown),
	}
	directions := [3]mgl64.Vec3{c.forward, right, c.worldUp}
	for i := range c.axes {
		speed := c.axes[i].update(targets[i], c.smooth)
		if speed == 0 || deltaTime <= 0 {
			continue
		}
		c.position = c.position.Add(directions[i].Mul(speed * deltaTime))
		moved = true
	}

	if moved {
		c.recalculateView()
		c.recalculateRayDirections()
	}
	return moved
}

func (c *Camera) axisTarget(positive, negative Action) float64 {
	v := 0.0
	if c.input.Active(positive) {
		v++
	}
	if c.input.Active(negative) {
		v--
	}
	return v * c.MoveSpeed
}

// rotate applies a mouse delta as pitch about right and yaw about world up.
// The pitch component is dropped if it would bring forward too close to
// the poles.
func (c *Camera) rotate(delta mgl64.Vec2, right mgl64.Vec3) bool {
	scale := c.LookSensitivity * c.RotationSpeed
	pitch := delta.Y() * scale
	yaw := delta.X() * scale

	q := mgl64.QuatRotate(-pitch, right).Mul(mgl64.QuatRotate(-yaw, c.worldUp)).Normalize()
	forward := q.Rotate(c.forward).Normalize()
	if math.Abs(forward.Dot(c.worldUp)) > math.Cos(minPoleAngle) {
		forward = mgl64.QuatRotate(-yaw, c.worldUp).Rotate(c.forward).Normalize()
	}
	if forward.ApproxEqualThreshold(c.forward, 1e-12) {
		return false
	}
	c.forward = forward
	return true
}

// OnResize updates the viewport. It is a no-op if the size is unchanged.
func (c *Camera) OnResize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.recalculateProjection()
	c.recalculateRayDirections()
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(pos mgl64.Vec3) {
	c.position = pos
	c.recalculateView()
	c.recalculateRayDirections()
}

// LookAt points the camera at target. It does nothing if target is the
// camera position or lies straight above or below it.
func (c *Camera) LookAt(target mgl64.Vec3) {
	dir := target.Sub(c.position)
	if dir.LenSqr() == 0 {
		return
	}
	dir = dir.Normalize()
	if math.Abs(dir.Dot(c.worldUp)) > math.Cos(minPoleAngle) {
		return
	}
	c.forward = dir
	c.recalculateView()
	c.recalculateRayDirections()
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(degrees float64) {
	c.fov = degrees
	c.recalculateProjection()
	c.recalculateRayDirections()
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.near, c.far = near, far
	c.recalculateProjection()
	c.recalculateRayDirections()
}

// Position returns the camera position.
func (c *Camera) Position() mgl64.Vec3 { return c.position }

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 { return c.forward }

// Right returns the unit right vector.
func (c *Camera) Right() mgl64.Vec3 {
	return c.forward.Cross(c.worldUp).Normalize()
}

// Up returns the camera's unit up vector.
func (c *Camera) Up() mgl64.Vec3 {
	return c.Right().Cross(c.forward)
}

// FOV returns the vertical field of view in degrees.
func (c *Camera) FOV() float64 { return c.fov }

// ViewportSize returns the viewport dimensions in pixels.
func (c *Camera) ViewportSize() (width, height int) { return c.width, c.height }

// Projection returns the projection matrix.
func (c *Camera) Projection() mgl64.Mat4 { return c.projection }

// View returns the view matrix.
func (c *Camera) View() mgl64.Mat4 { return c.view }

// RayDirections returns the cached world-space ray direction of every
// pixel, row-major with row 0 at the top. The slice is owned by the camera
// and must not be modified.
func (c *Camera) RayDirections() []mgl64.Vec3 { return c.rayDirections }

func (c *Camera) recalculateProjection() {
	if c.width <= 0 || c.height <= 0 {
		return
	}
	aspect := float64(c.width) / float64(c.height)
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.fov), aspect, c.near, c.far)
	c.inverseProjection = c.projection.Inv()
}

func (c *Camera) recalculateView() {
	c.view = mgl64.LookAtV(c.position, c.position.Add(c.forward), c.worldUp)
	c.inverseView = c.view.Inv()
}

func (c *Camera) recalculateRayDirections() {
	if c.width <= 0 || c.height <= 0 {
		c.rayDirections = c.rayDirections[:0]
		return
	}

	n := c.width * c.height
	if cap(c.rayDirections) < n {
		c.rayDirections = make([]mgl64.Vec3, n)
	}
	c.rayDirections = c.rayDirections[:n]

	w, h := float64(c.width), float64(c.height)
	for y := 0; y < c.height; y++ {
		ndcY := 1 - (float64(y)+0.5)/h*2
		for x := 0; x < c.width; x++ {
			ndcX := (float64(x)+0.5)/w*2 - 1

			target := c.inverseProjection.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})
			local := target.Vec3().Mul(1 / target.W()).Normalize()
			dir := c.inverseView.Mul4x1(local.Vec4(0)).Vec3().Normalize()

			c.rayDirections[y*c.width+x] = dir
		}
	}
}
