package viewport

import "github.com/Faultbox/modelview/internal/engine/material"

// Settings are the display preferences. Changing them never reloads the model.
type Settings struct {
	ViewMode   material.ViewMode
	Color      material.Color
	AutoRotate bool
}

// DefaultSettings returns normal shading in the default color.
func DefaultSettings() Settings {
	return Settings{
		ViewMode: material.Normal,
		Color:    material.DefaultColor,
	}
}

// SetViewMode changes the shading style.
func (v *Viewport) SetViewMode(mode material.ViewMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.settings.ViewMode = mode
}

// SetObjectColor changes the surface color.
func (v *Viewport) SetObjectColor(c material.Color) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.settings.Color = c
}

// SetAutoRotate toggles the orbit animation.
func (v *Viewport) SetAutoRotate(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.settings.AutoRotate = on
}

// Settings returns the current display preferences.
func (v *Viewport) Settings() Settings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settings
}

// Material returns the material for the current view mode and color.
func (v *Viewport) Material() material.Spec {
	s := v.Settings()
	return material.For(s.ViewMode, s.Color)
}
