// Package viewer implements the interactive model viewer: the window, the
// frame loop and the keyboard and mouse controls around a Viewport.
package viewer

import (
	"context"
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/config"
	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/debug"
	"github.com/Faultbox/modelview/internal/engine/input"
	"github.com/Faultbox/modelview/internal/engine/material"
	"github.com/Faultbox/modelview/internal/engine/renderer"
	"github.com/Faultbox/modelview/internal/engine/window"
	"github.com/Faultbox/modelview/internal/logger"
	"github.com/Faultbox/modelview/internal/store"
	"github.com/Faultbox/modelview/internal/viewport"
	"github.com/Faultbox/modelview/pkg/math"
)

const title = "modelview"

var (
	background  = material.Color{R: 0.1, G: 0.1, B: 0.15}
	boundsColor = material.Color{R: 1, G: 0.85, B: 0.2}
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	store    store.Store
	viewport *viewport.Viewport
	catalog  *store.Catalog
	camera   *camera.OrbitCamera
	shots    *debug.ScreenshotCapture

	fov        float32
	palette    []material.Color
	paletteIdx int
	showBounds bool
	opened     chan string
	unsub      func()
}

// New creates the window and renderer and a viewport over st.
func New(cfg *config.Config, st store.Store) (*Viewer, error) {
	v := &Viewer{
		cfg:        cfg,
		log:        logger.Named("viewer"),
		store:      st,
		catalog:    store.NewCatalog(),
		camera:     camera.NewOrbitCamera(),
		fov:        projectionFOV(cfg.Viewer.Framer().FOV),
		palette:    cfg.Viewer.Colors(),
		showBounds: cfg.Viewer.ShowBounds,
		opened:     make(chan string, 1),
	}

	shots, err := debug.NewScreenshotCapture(cfg.Viewer.ScreenshotDir, title, cfg.Viewer.ScreenshotFormat)
	if err != nil {
		return nil, err
	}
	v.shots = shots

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: background,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()

	v.viewport = viewport.New(viewport.Config{
		Store:    st,
		Framer:   cfg.Viewer.Framer(),
		Settings: cfg.Viewer.Settings(),
	})
	v.unsub = v.viewport.Subscribe(v.onState)

	v.log.Info("viewer initialized")
	return v, nil
}

// Open requests id as the displayed model.
func (v *Viewer) Open(id store.ID) {
	v.catalog.Seek(id)
	v.viewport.Request(id)
}

// Next opens the next listed model.
func (v *Viewer) Next() {
	v.step(v.catalog.Next)
}

// RefreshCatalog reloads the model listing used by next and previous.
func (v *Viewer) RefreshCatalog(ctx context.Context) error {
	lister, ok := v.store.(store.Lister)
	if !ok {
		return nil
	}
	if err := v.catalog.Refresh(ctx, lister); err != nil {
		return err
	}
	v.log.Debug("catalog refreshed", zap.Int("models", v.catalog.Len()))
	return nil
}

// Run starts the main loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}
		v.pollDialog()

		// 2. Apply finished loads
		v.viewport.Update()

		// 3. Animate
		settings := v.viewport.Settings()
		if settings.AutoRotate {
			v.camera.AutoRotate(float32(dt), v.cfg.Viewer.RotateSpeed)
		}

		// 4. Render
		v.render(settings)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			res := v.viewport.Resources()
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
				zap.Int("live_handles", res.Live()),
				zap.Int("live_bytes", res.LiveBytes()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.viewport != nil {
		v.viewport.Close()
		v.unsub()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

// onState runs on the main goroutine from Request or Update, so GL calls
// are safe here.
func (v *Viewer) onState(s viewport.LoadState) {
	switch s.Status {
	case viewport.Loaded:
		v.renderer.Upload(s.Model)
		v.camera.SetPose(s.Camera)
	case viewport.Idle, viewport.Failed:
		v.renderer.Unload()
	}
	v.window.SetTitle(title + " - " + s.Summary())
}

func (v *Viewer) render(settings viewport.Settings) {
	v.renderer.Begin()
	defer v.renderer.End()

	if !v.renderer.HasMesh() {
		return
	}

	view := v.camera.ViewMatrix()
	proj := math.Perspective(v.fov, v.renderer.Aspect(), 0.01, 1000)
	eye := v.camera.Position()

	v.renderer.DrawModel(view, proj, eye, material.For(settings.ViewMode, settings.Color))
	if v.showBounds {
		v.renderer.DrawBounds(view, proj, boundsColor)
	}
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	name, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}

// projectionFOV matches the fallback camera.Frame applies, so the projection
// and the framing distance agree.
func projectionFOV(fov float64) float32 {
	if !(fov > 0 && fov < gomath.Pi) {
		fov = camera.DefaultFOV
	}
	return float32(fov)
}
