package main

import (
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// ANSI styling for HUD text
const (
	reset    = "\x1b[0m"
	bold     = "\x1b[1m"
	dim      = "\x1b[2m"
	bgBlack  = "\x1b[40m"
	fgWhite  = "\x1b[97m"
	fgGreen  = "\x1b[92m"
	fgYellow = "\x1b[93m"
	fgCyan   = "\x1b[96m"
)

// statusDuration is how long a status message stays on screen.
const statusDuration = 3 * time.Second

// hudState is what the overlay shows for one frame.
type hudState struct {
	RenderTime time.Duration
	Frame      int
	Accumulate bool
	Bounces    int
	Object     int
	Objects    int
	Material   string
	Emission   float64
}

// HUD renders an overlay with render stats and the current selection.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	status      string
	statusUntil time.Time
}

// NewHUD creates a new HUD.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// SetStatus shows a short message on the bottom line.
func (h *HUD) SetStatus(format string, args ...any) {
	h.status = fmt.Sprintf(format, args...)
	h.statusUntil = time.Now().Add(statusDuration)
}

// Draw writes the top and bottom HUD lines into area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, st hudState) {
	if area.Dy() < 2 {
		return
	}

	check := "[ ]"
	if st.Accumulate {
		check = "[✓]"
	}

	top := fmt.Sprintf("%s%s %.0f FPS %s%s%s %.1f ms %s%s%s frame %d %s%s%s %s accumulate  %d bounces %s",
		bgBlack, fgGreen, h.fps, reset,
		bgBlack, fgWhite, float64(st.RenderTime.Microseconds())/1000, reset,
		bgBlack, fgCyan, st.Frame, reset,
		bgBlack, fgWhite, check, st.Bounces, reset)
	drawLine(scr, area, area.Min.Y, top)

	var bottom string
	if h.status != "" && time.Now().Before(h.statusUntil) {
		bottom = fmt.Sprintf("%s%s%s %s %s", bgBlack, bold, fgYellow, h.status, reset)
	} else {
		bottom = fmt.Sprintf("%s%s%s object %d/%d %s%s%s %s  emission %.1f %s%s%s  tab m +/- ijkluo [] space r p ? %s",
			bgBlack, bold, fgWhite, st.Object+1, st.Objects, reset,
			bgBlack, fgCyan, st.Material, st.Emission, reset,
			bgBlack, dim, reset)
	}
	drawLine(scr, area, area.Max.Y-1, bottom)
}

func drawLine(scr uv.Screen, area uv.Rectangle, y int, s string) {
	uv.NewStyledString(s).Draw(scr, uv.Rect(area.Min.X, y, area.Dx(), 1))
}
