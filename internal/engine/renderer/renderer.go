// Package renderer draws a single model mesh and its debug overlays with
// OpenGL 4.1.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/debug"
	"github.com/Faultbox/modelview/internal/engine/lighting"
	"github.com/Faultbox/modelview/internal/engine/material"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/engine/renderer/shaders"
	"github.com/Faultbox/modelview/internal/engine/shader"
	"github.com/Faultbox/modelview/internal/logger"
	"github.com/Faultbox/modelview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background material.Color
}

var lightDir = lighting.IncidentDirection(lighting.DefaultAzimuth, lighting.DefaultElevation)

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	meshProgram uint32
	locModel    int32
	locView     int32
	locProj     int32
	locColor    int32
	locOpacity  int32
	locEye      int32
	locLightDir int32

	lineProgram  uint32
	locViewProj  int32
	locLineColor int32

	mesh  *gpuMesh
	lines gpuLines
}

// gpuMesh is an uploaded model.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	modelMatrix   math.Mat4
}

// gpuLines holds the bounding box wireframe.
type gpuLines struct {
	vao, vbo    uint32
	vertexCount int32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	bg := cfg.Background
	gl.ClearColor(bg.R, bg.G, bg.B, 1.0)

	var err error
	r.meshProgram, err = shader.CompileProgram(shaders.ModelVertexShader, shaders.ModelFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.locModel = shader.GetUniform(r.meshProgram, "uModel")
	r.locView = shader.GetUniform(r.meshProgram, "uView")
	r.locProj = shader.GetUniform(r.meshProgram, "uProjection")
	r.locColor = shader.GetUniform(r.meshProgram, "uColor")
	r.locOpacity = shader.GetUniform(r.meshProgram, "uOpacity")
	r.locEye = shader.GetUniform(r.meshProgram, "uEye")
	r.locLightDir = shader.GetUniform(r.meshProgram, "uLightDir")

	r.lineProgram, err = shader.CompileProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		gl.DeleteProgram(r.meshProgram)
		return nil, fmt.Errorf("line shader: %w", err)
	}
	r.locViewProj = shader.GetUniform(r.lineProgram, "uViewProj")
	r.locLineColor = shader.GetUniform(r.lineProgram, "uColor")

	r.createLines()

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.Unload()
	if r.lines.vao != 0 {
		gl.DeleteVertexArrays(1, &r.lines.vao)
		gl.DeleteBuffers(1, &r.lines.vbo)
	}
	if r.meshProgram != 0 {
		gl.DeleteProgram(r.meshProgram)
	}
	if r.lineProgram != 0 {
		gl.DeleteProgram(r.lineProgram)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Upload replaces the current mesh with n. The previous GPU buffers are
// freed first.
func (r *Renderer) Upload(n *model.Normalized) {
	r.Unload()

	m := model.BuildMesh(n)
	g := &gpuMesh{
		indexCount:  int32(len(m.Indices)),
		modelMatrix: n.Transform.Matrix(),
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	stride := int32(unsafe.Sizeof(model.Vertex{}))

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if len(m.Vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(stride), unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)
	}

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, uintptr(unsafe.Offsetof(model.Vertex{}.Normal)))
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(m.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.uploadBounds(n.NormalizedBounds())
	r.mesh = g

	logger.Debug("mesh uploaded",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("indices", len(m.Indices)),
		zap.Uint32("vao", g.vao),
	)
}

// Unload frees the current mesh, if any.
func (r *Renderer) Unload() {
	if r.mesh == nil {
		return
	}
	gl.DeleteVertexArrays(1, &r.mesh.vao)
	gl.DeleteBuffers(1, &r.mesh.vbo)
	gl.DeleteBuffers(1, &r.mesh.ebo)
	r.mesh = nil
	r.lines.vertexCount = 0
}

// HasMesh reports whether a mesh is uploaded.
func (r *Renderer) HasMesh() bool {
	return r.mesh != nil
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawModel draws the uploaded mesh with the given material.
func (r *Renderer) DrawModel(view, proj math.Mat4, eye math.Vec3, spec material.Spec) {
	if r.mesh == nil || r.mesh.indexCount == 0 {
		return
	}

	applyMaterial(spec)
	defer resetState()

	gl.UseProgram(r.meshProgram)
	gl.UniformMatrix4fv(r.locModel, 1, false, r.mesh.modelMatrix.Ptr())
	gl.UniformMatrix4fv(r.locView, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.locProj, 1, false, proj.Ptr())
	gl.Uniform3f(r.locColor, spec.Color.R, spec.Color.G, spec.Color.B)
	gl.Uniform1f(r.locOpacity, spec.Opacity)
	gl.Uniform3f(r.locEye, eye.X, eye.Y, eye.Z)
	gl.Uniform3f(r.locLightDir, lightDir.X, lightDir.Y, lightDir.Z)

	gl.BindVertexArray(r.mesh.vao)
	gl.DrawElements(gl.TRIANGLES, r.mesh.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawBounds draws the normalized bounding box of the uploaded mesh.
func (r *Renderer) DrawBounds(view, proj math.Mat4, color material.Color) {
	if r.mesh == nil || r.lines.vertexCount == 0 {
		return
	}

	viewProj := proj.Mul(view)
	gl.UseProgram(r.lineProgram)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.locLineColor, color.R, color.G, color.B)

	gl.BindVertexArray(r.lines.vao)
	gl.DrawArrays(gl.LINES, 0, r.lines.vertexCount)
	gl.BindVertexArray(0)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// ReadPixels returns the framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

func (r *Renderer) createLines() {
	gl.GenVertexArrays(1, &r.lines.vao)
	gl.BindVertexArray(r.lines.vao)

	gl.GenBuffers(1, &r.lines.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lines.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, debug.BoundsVertexCount*3*4, nil, gl.DYNAMIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (r *Renderer) uploadBounds(b model.Bounds) {
	vertices := debug.BoundsLines(b, debug.DefaultBoundsPadding)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lines.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, unsafe.Pointer(&vertices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.lines.vertexCount = int32(len(vertices) / 3)
}

// applyMaterial sets the GL state a material needs. Wireframe draws edges
// only; transparent surfaces blend without writing depth so the far side
// stays visible.
func applyMaterial(spec material.Spec) {
	if spec.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	if spec.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
	if spec.Transparent() {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	}
}

func resetState() {
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)
	gl.DepthMask(true)
}
