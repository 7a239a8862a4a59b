package render

import "github.com/go-gl/mathgl/mgl64"

// Action is a camera movement the host can request.
type Action int

const (
	MoveForward Action = iota
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case MoveForward:
		return "forward"
	case MoveBackward:
		return "backward"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	default:
		return "unknown"
	}
}

// Input is the input state the camera polls once per update.
type Input interface {
	// Active reports whether the action is currently held.
	Active(a Action) bool

	// Mouse returns the pointer position in cells or pixels. Only deltas
	// between updates are used.
	Mouse() mgl64.Vec2

	// Looking reports whether mouse-look is engaged (e.g. a button is held).
	Looking() bool
}
