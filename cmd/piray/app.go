package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/piray/internal/config"
	"github.com/taigrr/piray/internal/logger"
	"github.com/taigrr/piray/pkg/render"
	"github.com/taigrr/piray/pkg/scene"
	"go.uber.org/zap"
)

const (
	emissionStep = 0.5
	moveStep     = 0.25
	radiusStep   = 0.1
	fovStep      = 5.0
	minFOV       = 10.0
	maxFOV       = 120.0
)

// app is the interactive viewer state. Everything runs on the main loop.
type app struct {
	cfg   *config.Config
	scene *scene.Scene
	cam   *render.Camera
	r     *render.Renderer
	input *terminalInput
	hud   *HUD
	log   *zap.Logger

	width, height int // terminal cells
	showHUD       bool
	selected      int
	lastRender    time.Duration
}

func newApp(cfg *config.Config, s *scene.Scene, cam *render.Camera, r *render.Renderer) *app {
	a := &app{
		cfg:     cfg,
		scene:   s,
		cam:     cam,
		r:       r,
		input:   newTerminalInput(),
		hud:     NewHUD(),
		log:     logger.Named("app"),
		showHUD: cfg.Display.ShowHUD,
	}
	cam.SetInput(a.input)
	return a
}

// viewport returns the render size for the terminal: one pixel per column
// and two per row.
func (a *app) viewport() (width, height int) {
	return a.width, a.height * 2
}

func runInteractive(cfg *config.Config, s *scene.Scene, cam *render.Camera, r *render.Renderer) error {
	term := uv.DefaultTerminal()
	term.SetLogger(logger.StdLog("terminal"))

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Warn("terminal shutdown", zap.Error(err))
		}
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, s, cam, r)
	a.width, a.height = width, height
	a.log.Info("interactive session started", zap.Int("cols", width), zap.Int("rows", height))

	return a.loop(ctx, term)
}

// loop drains terminal events, updates the camera, renders and displays one
// frame per iteration.
func (a *app) loop(ctx context.Context, term *uv.Terminal) error {
	events := term.Events()
	targetDuration := time.Second / time.Duration(a.cfg.Display.FPS)
	lastFrame := time.Now()

	for {
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if a.handleEvent(term, ev) {
					return nil
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		if a.cam.OnUpdate(dt) {
			a.r.ResetFrameIndex()
		}

		w, h := a.viewport()
		a.r.OnResize(w, h)
		a.cam.OnResize(w, h)

		start := time.Now()
		a.r.Render(a.scene, a.cam)
		a.lastRender = time.Since(start)

		a.hud.UpdateFPS()
		term.Draw(uv.DrawableFunc(a.draw))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func (a *app) draw(scr uv.Screen, area uv.Rectangle) {
	a.r.FinalImage().Draw(scr, area)
	if !a.showHUD {
		return
	}

	st := hudState{
		RenderTime: a.lastRender,
		Frame:      a.r.SampleCount(),
		Accumulate: a.r.Settings().Accumulate,
		Bounces:    a.r.Settings().Bounces,
		Object:     a.selected,
		Objects:    a.scene.ObjectCount(),
	}
	if obj := a.selectedObject(); obj != nil {
		if m, ok := a.scene.Material(obj.MaterialIndex()); ok {
			st.Material = m.Name
			st.Emission = m.EmissionPower
		}
	}
	a.hud.Draw(scr, area, st)
}

func (a *app) selectedObject() scene.Object {
	if a.selected < 0 || a.selected >= a.scene.ObjectCount() {
		return nil
	}
	return a.scene.Objects[a.selected]
}

// handleEvent applies one terminal event. It returns true to quit.
func (a *app) handleEvent(term *uv.Terminal, ev uv.Event) bool {
	if a.input.HandleMouse(ev) {
		return false
	}

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		a.width, a.height = ev.Width, ev.Height
		term.Erase()
		if err := term.Resize(ev.Width, ev.Height); err != nil {
			a.log.Warn("resize terminal", zap.Error(err))
		}
		a.log.Debug("terminal resized", zap.Int("cols", ev.Width), zap.Int("rows", ev.Height))

	case uv.KeyPressEvent:
		if action, ok := actionForKey(ev); ok {
			a.input.Press(action)
			return false
		}
		return a.handleKey(ev)

	case uv.KeyReleaseEvent:
		if action, ok := actionForKey(ev); ok {
			a.input.Release(action)
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			a.zoom(-fovStep)
		case uv.MouseWheelDown:
			a.zoom(fovStep)
		}
	}
	return false
}

func (a *app) handleKey(ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("escape", "ctrl+c"):
		return true
	case ev.MatchString("space"):
		settings := a.r.Settings()
		settings.Accumulate = !settings.Accumulate
		a.r.ResetFrameIndex()
		a.hud.SetStatus("accumulation %s", onOff(settings.Accumulate))
	case ev.MatchString("r"):
		a.r.ResetFrameIndex()
	case ev.MatchString("c"):
		a.input.Clear()
		a.cam.SetPosition(a.cfg.CameraPosition())
		a.cam.LookAt(a.cfg.CameraPosition().Add(mgl64.Vec3{0, 0, -1}))
		a.cam.SetFOV(a.cfg.Camera.FOV)
		a.r.ResetFrameIndex()
	case ev.MatchString("tab"):
		if n := a.scene.ObjectCount(); n > 0 {
			a.selected = (a.selected + 1) % n
		}
	case ev.MatchString("m"):
		a.cycleMaterial()
	case ev.Text == "+" || ev.MatchString("="):
		a.adjustEmission(emissionStep)
	case ev.MatchString("-", "_"):
		a.adjustEmission(-emissionStep)
	case ev.MatchString("j"):
		a.moveSelected(mgl64.Vec3{-moveStep, 0, 0})
	case ev.MatchString("l"):
		a.moveSelected(mgl64.Vec3{moveStep, 0, 0})
	case ev.MatchString("u"):
		a.moveSelected(mgl64.Vec3{0, -moveStep, 0})
	case ev.MatchString("o"):
		a.moveSelected(mgl64.Vec3{0, moveStep, 0})
	case ev.MatchString("i"):
		a.moveSelected(mgl64.Vec3{0, 0, -moveStep})
	case ev.MatchString("k"):
		a.moveSelected(mgl64.Vec3{0, 0, moveStep})
	case ev.MatchString("["):
		a.resizeSelected(-radiusStep)
	case ev.MatchString("]"):
		a.resizeSelected(radiusStep)
	case ev.MatchString("p"):
		a.snapshot()
	case ev.MatchString("?", "shift+/"):
		a.showHUD = !a.showHUD
	}
	return false
}

func (a *app) zoom(delta float64) {
	fov := mgl64.Clamp(a.cam.FOV()+delta, minFOV, maxFOV)
	if fov == a.cam.FOV() {
		return
	}
	a.cam.SetFOV(fov)
	a.r.ResetFrameIndex()
}

func (a *app) cycleMaterial() {
	obj := a.selectedObject()
	if obj == nil || a.scene.MaterialCount() == 0 {
		return
	}
	next := (obj.MaterialIndex() + 1) % a.scene.MaterialCount()
	if err := a.scene.SetObjectMaterial(a.selected, next); err != nil {
		a.hud.SetStatus("%v", err)
		return
	}
	a.r.ResetFrameIndex()
}

func (a *app) adjustEmission(delta float64) {
	obj := a.selectedObject()
	if obj == nil {
		return
	}
	idx := obj.MaterialIndex()
	m, ok := a.scene.Material(idx)
	if !ok {
		return
	}
	if err := a.scene.SetEmissionPower(idx, m.EmissionPower+delta); err != nil {
		a.hud.SetStatus("%v", err)
		return
	}
	a.r.ResetFrameIndex()
}

// moveSelected nudges the selected object in world space.
func (a *app) moveSelected(delta mgl64.Vec3) {
	if a.selectedObject() == nil {
		return
	}
	if err := a.scene.MoveObject(a.selected, delta); err != nil {
		a.hud.SetStatus("%v", err)
		return
	}
	a.r.ResetFrameIndex()
}

func (a *app) resizeSelected(delta float64) {
	if a.selectedObject() == nil {
		return
	}
	if err := a.scene.ResizeObject(a.selected, delta); err != nil {
		a.hud.SetStatus("%v", err)
		return
	}
	a.r.ResetFrameIndex()
}

func (a *app) snapshot() {
	name := fmt.Sprintf("piray-%s.png", time.Now().Format("20060102-150405"))
	path := filepath.Join(a.cfg.Display.SnapshotDir, name)
	if err := a.r.FinalImage().SavePNG(path); err != nil {
		a.log.Error("snapshot failed", zap.Error(err))
		a.hud.SetStatus("snapshot failed: %v", err)
		return
	}
	a.log.Info("snapshot saved", zap.String("path", path), zap.Int("samples", a.r.SampleCount()))
	a.hud.SetStatus("saved %s", path)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
