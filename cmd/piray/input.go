package main

import (
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/piray/pkg/render"
)

// Most terminals only report key presses, so a key counts as held until a
// short while after its last press. The first press waits out the
// terminal's auto-repeat delay; repeats only need to bridge the repeat rate.
const (
	initialHold = 550 * time.Millisecond
	repeatHold  = 120 * time.Millisecond
)

// mouseScale converts cell coordinates into the finer units the camera's
// look sensitivity is tuned for.
const mouseScale = 8.0

// terminalInput adapts terminal events to render.Input. It is only touched
// from the main loop.
type terminalInput struct {
	now     func() time.Time
	held    map[render.Action]time.Time // action -> hold deadline
	mouse   mgl64.Vec2
	looking bool
}

func newTerminalInput() *terminalInput {
	return &terminalInput{
		now:  time.Now,
		held: make(map[render.Action]time.Time),
	}
}

// actionForKey maps movement keys. Q and E sink and rise.
func actionForKey(k interface{ MatchString(...string) bool }) (render.Action, bool) {
	switch {
	case k.MatchString("w", "up"):
		return render.MoveForward, true
	case k.MatchString("s", "down"):
		return render.MoveBackward, true
	case k.MatchString("a", "left"):
		return render.MoveLeft, true
	case k.MatchString("d", "right"):
		return render.MoveRight, true
	case k.MatchString("e", "pgup"):
		return render.MoveUp, true
	case k.MatchString("q", "pgdown"):
		return render.MoveDown, true
	}
	return 0, false
}

// Press marks an action as held.
func (in *terminalInput) Press(a render.Action) {
	now := in.now()
	hold := initialHold
	if deadline, ok := in.held[a]; ok && now.Before(deadline) {
		hold = repeatHold
	}
	in.held[a] = now.Add(hold)
}

// Release ends a hold immediately, for terminals that report releases.
func (in *terminalInput) Release(a render.Action) {
	delete(in.held, a)
}

// Clear drops all held actions and ends any look gesture.
func (in *terminalInput) Clear() {
	clear(in.held)
	in.looking = false
}

// Active implements render.Input.
func (in *terminalInput) Active(a render.Action) bool {
	deadline, ok := in.held[a]
	return ok && in.now().Before(deadline)
}

// Mouse implements render.Input.
func (in *terminalInput) Mouse() mgl64.Vec2 {
	return in.mouse
}

// Looking implements render.Input.
func (in *terminalInput) Looking() bool {
	return in.looking
}

// HandleMouse updates pointer state. It reports whether the event was a
// mouse event.
func (in *terminalInput) HandleMouse(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.MouseClickEvent:
		if ev.Button == uv.MouseLeft || ev.Button == uv.MouseRight {
			in.looking = true
		}
		in.setMouse(ev.X, ev.Y)
	case uv.MouseReleaseEvent:
		in.looking = false
		in.setMouse(ev.X, ev.Y)
	case uv.MouseMotionEvent:
		in.setMouse(ev.X, ev.Y)
	default:
		return false
	}
	return true
}

func (in *terminalInput) setMouse(x, y int) {
	// Rows hold two pixels, so vertical motion is scaled twice as much
	in.mouse = mgl64.Vec2{float64(x) * mouseScale, float64(y) * mouseScale * 2}
}
