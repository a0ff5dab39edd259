package viewer

import (
	"context"
	"errors"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/input"
	"github.com/Faultbox/modelview/internal/engine/material"
	"github.com/Faultbox/modelview/internal/store"
)

const listTimeout = 10 * time.Second

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		// Event sizes are in screen coordinates; GL wants pixels.
		w, h := v.window.DrawableSize()
		v.renderer.Resize(w, h)

	case input.EventMouseMove:
		if v.input.IsButtonDown(sdl.BUTTON_LEFT) {
			v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
		}

	case input.EventMouseWheel:
		v.camera.HandleZoom(float32(event.DeltaY))

	case input.EventDropFile:
		v.log.Info("file dropped", zap.String("path", event.Path))
		v.Open(v.localID(event.Path))

	case input.EventKeyDown:
		v.handleKey(event.Key)
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false

	case sdl.SCANCODE_1:
		v.viewport.SetViewMode(material.Normal)
	case sdl.SCANCODE_2:
		v.viewport.SetViewMode(material.Wireframe)
	case sdl.SCANCODE_3:
		v.viewport.SetViewMode(material.XRay)
	case sdl.SCANCODE_V:
		v.viewport.SetViewMode(v.viewport.Settings().ViewMode.Next())

	case sdl.SCANCODE_C:
		if len(v.palette) > 0 {
			v.paletteIdx = (v.paletteIdx + 1) % len(v.palette)
			v.viewport.SetObjectColor(v.palette[v.paletteIdx])
		}

	case sdl.SCANCODE_R:
		v.viewport.SetAutoRotate(!v.viewport.Settings().AutoRotate)

	case sdl.SCANCODE_B:
		v.showBounds = !v.showBounds

	case sdl.SCANCODE_F:
		// Reframe the current model.
		if s := v.viewport.State(); s.Model != nil {
			v.camera.SetPose(s.Camera)
		}

	case sdl.SCANCODE_O:
		v.openFileDialog()

	case sdl.SCANCODE_N:
		v.step(v.catalog.Next)
	case sdl.SCANCODE_P:
		v.step(v.catalog.Prev)

	case sdl.SCANCODE_DELETE, sdl.SCANCODE_BACKSPACE:
		v.viewport.Clear()

	case sdl.SCANCODE_F11:
		v.window.ToggleFullscreen()

	case sdl.SCANCODE_F12:
		v.screenshot()
	}
}

func (v *Viewer) step(move func() (store.Metadata, bool)) {
	if v.catalog.Len() == 0 {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		err := v.RefreshCatalog(ctx)
		cancel()
		if err != nil {
			v.log.Warn("could not list models", zap.Error(err))
			return
		}
	}
	if m, ok := move(); ok {
		v.viewport.Request(m.ID)
	}
}

// localID returns the id a local path loads under with the configured store.
func (v *Viewer) localID(path string) store.ID {
	if _, ok := v.store.(*store.Files); ok {
		return store.ID(path)
	}
	return store.LocalID(path)
}

// openFileDialog shows a native file dialog. The dialog blocks, so it runs
// on its own goroutine and the chosen path is picked up by pollDialog.
func (v *Viewer) openFileDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("3D models", "stl", "obj").
			Filter("All Files", "*").
			Title("Open model").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				v.log.Warn("file dialog error", zap.Error(err))
			}
			return
		}

		select {
		case v.opened <- filename:
		default:
		}
	}()
}

func (v *Viewer) pollDialog() {
	select {
	case path := <-v.opened:
		v.Open(v.localID(path))
	default:
	}
}
