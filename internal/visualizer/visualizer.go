// Package visualizer rasterizes bridge meshes into colored braille text.
package visualizer

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/olivier-w/audiovis/internal/config"
	"github.com/olivier-w/audiovis/internal/mesh"
)

// Renderer owns the camera, the canvas and the palette of one view.
type Renderer struct {
	orbit   *Orbit
	canvas  *Canvas
	palette Palette
	profile colorProfile
	output  string
}

// New creates a renderer from the visual settings, animating the camera at
// fps frames per second. An unknown texture falls back to the default
// gradient with a log notice.
func New(v config.Visual, fps int) *Renderer {
	palette, ok := lookupPalette(v.Texture)
	if !ok {
		slog.Warn("visualizer: texture not available in a terminal, using fallback",
			"texture", v.Texture, "fallback", DefaultTexture)
		palette = palettes[DefaultTexture]
	}

	base := Camera{
		Position: mgl32.Vec3(v.CameraPos),
		Target:   mgl32.Vec3(v.CameraFacing),
		FOV:      v.FOV,
	}
	return &Renderer{
		orbit:   NewOrbit(base, fps),
		canvas:  NewCanvas(1, 1),
		palette: palette,
		profile: currentColorProfile(),
	}
}

// Orbit exposes the camera controls.
func (r *Renderer) Orbit() *Orbit {
	return r.orbit
}

// Update advances the camera by one frame and draws m into a canvas of
// cols x rows cells.
func (r *Renderer) Update(m mesh.Mesh, cols, rows int) {
	r.orbit.Step()

	r.canvas.Resize(cols, rows)
	w, h := r.canvas.Dots()
	// braille dots are close to square, so the dot grid gives the aspect
	vp := r.orbit.Camera().ViewProjection(float32(w) / float32(h))
	if !m.Empty() {
		r.canvas.DrawMesh(m, vp)
	}
	r.output = r.canvas.Render(r.palette, r.profile)
}

// View returns the last rendered frame.
func (r *Renderer) View() string {
	return r.output
}
