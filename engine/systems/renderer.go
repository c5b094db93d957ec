package systems

import (
	"fmt"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/platform"
	"github.com/spaghettifunk/nabla/engine/renderer"
	"github.com/spaghettifunk/nabla/engine/renderer/components"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

type RendererSystemConfig struct {
	ApplicationName string
	Width           uint32
	Height          uint32
	ClearColor      math.Vec4
}

/**
 * @brief The rendering front door. Owns the frame lifecycle on top of a
 * backend and a platform window, and routes resource calls to the data,
 * shader and texture systems.
 */
type RendererSystem struct {
	Config   *RendererSystemConfig
	backend  renderer.RendererBackend
	platform platform.Platform

	dataSystem    *DataSystem
	shaderSystem  *ShaderSystem
	textureSystem *TextureSystem

	// The current window framebuffer width.
	FramebufferWidth uint32
	// The current window framebuffer height.
	FramebufferHeight uint32
	FrameNumber       uint64

	initialized bool
}

func NewRendererSystem(config *RendererSystemConfig, backend renderer.RendererBackend, p platform.Platform, ds *DataSystem, ss *ShaderSystem, ts *TextureSystem) (*RendererSystem, error) {
	if backend == nil || p == nil {
		err := fmt.Errorf("func NewRendererSystem - backend and platform are required")
		core.LogError(err.Error())
		return nil, err
	}
	if ds == nil || ss == nil || ts == nil {
		err := fmt.Errorf("func NewRendererSystem - data, shader and texture systems are required")
		core.LogError(err.Error())
		return nil, err
	}
	return &RendererSystem{
		Config:            config,
		backend:           backend,
		platform:          p,
		dataSystem:        ds,
		shaderSystem:      ss,
		textureSystem:     ts,
		FramebufferWidth:  config.Width,
		FramebufferHeight: config.Height,
	}, nil
}

/**
 * @brief Initializes the backend against the platform's current framebuffer.
 * The platform must have been started, so a graphics context exists.
 */
func (r *RendererSystem) Initialize() error {
	if width, height := r.platform.GetFramebufferSize(); width > 0 && height > 0 {
		r.FramebufferWidth, r.FramebufferHeight = width, height
	}
	rbc := &metadata.RendererBackendConfig{
		ApplicationName: r.Config.ApplicationName,
		Width:           r.FramebufferWidth,
		Height:          r.FramebufferHeight,
		ClearColor:      r.Config.ClearColor,
	}
	if err := r.backend.Initialize(rbc); err != nil {
		core.LogError(err.Error())
		return err
	}
	r.initialized = true
	core.LogInfo("Renderer initialized: %s", r.backend.GetRendererInfo())
	return nil
}

/**
 * @brief Releases every resource still alive, then the backend.
 */
func (r *RendererSystem) Shutdown() error {
	if !r.initialized {
		return nil
	}
	if err := r.dataSystem.Shutdown(); err != nil {
		return err
	}
	if err := r.shaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := r.textureSystem.Shutdown(); err != nil {
		return err
	}
	r.initialized = false
	return r.backend.Shutdown()
}

/** @brief Starts a frame, clearing colour and depth with the configured clear colour. */
func (r *RendererSystem) Clear() error {
	return r.backend.BeginFrame(r.Config.ClearColor)
}

/** @brief Finishes the frame and shows it. */
func (r *RendererSystem) Present() error {
	if err := r.backend.EndFrame(); err != nil {
		return err
	}
	r.platform.SwapBuffers()
	r.FrameNumber++
	return nil
}

/** @brief Pumps window events into input. Returns false once the window should close. */
func (r *RendererSystem) PollWindowEvents(input *core.InputState) bool {
	return r.platform.PumpMessages(input)
}

func (r *RendererSystem) SetMouseCapture(capture bool) {
	r.platform.SetMouseCapture(capture)
}

/**
 * @brief Reports whether the framebuffer changed size since the last call.
 * A change is applied to the backend viewport before returning.
 */
func (r *RendererSystem) HasBeenResized() bool {
	if !r.platform.HasBeenResized() {
		return false
	}
	width, height := r.platform.GetFramebufferSize()
	if err := r.OnResized(width, height); err != nil {
		core.LogError(err.Error())
	}
	return true
}

func (r *RendererSystem) OnResized(width, height uint32) error {
	if width == r.FramebufferWidth && height == r.FramebufferHeight {
		return nil
	}
	r.FramebufferWidth = width
	r.FramebufferHeight = height
	core.LogDebug("Renderer resized to %dx%d", width, height)
	return r.backend.Resized(width, height)
}

func (r *RendererSystem) GetWidth() uint32 {
	return r.FramebufferWidth
}

func (r *RendererSystem) GetHeight() uint32 {
	return r.FramebufferHeight
}

// GetAspectRatio returns width over height, or 1 for a minimised window.
func (r *RendererSystem) GetAspectRatio() float32 {
	if r.FramebufferHeight == 0 {
		return 1
	}
	return float32(r.FramebufferWidth) / float32(r.FramebufferHeight)
}

func (r *RendererSystem) GetRendererInfo() metadata.RendererInfo {
	return r.backend.GetRendererInfo()
}

func (r *RendererSystem) LoadData(vertices []float32, indices []uint32, mode metadata.DrawMode, usage metadata.DataUsage) metadata.DataHandle {
	return r.dataSystem.Load(vertices, indices, mode, usage)
}

func (r *RendererSystem) UpdateData(handle metadata.DataHandle, vertices []float32, indices []uint32) {
	r.dataSystem.Update(handle, vertices, indices)
}

func (r *RendererSystem) DeleteData(handle metadata.DataHandle) {
	r.dataSystem.Delete(handle)
}

func (r *RendererSystem) GetDataInfo(handle metadata.DataHandle) metadata.DataInfo {
	return r.dataSystem.GetDataInfo(handle)
}

func (r *RendererSystem) LoadShader(vertexSource, fragmentSource string) metadata.ShaderHandle {
	return r.shaderSystem.LoadShader(vertexSource, fragmentSource)
}

func (r *RendererSystem) LoadShaderFiles(vertexPath, fragmentPath string) metadata.ShaderHandle {
	return r.shaderSystem.LoadShaderFiles(vertexPath, fragmentPath)
}

func (r *RendererSystem) UseShader(handle metadata.ShaderHandle) {
	r.shaderSystem.Use(handle)
}

func (r *RendererSystem) DeleteShader(handle metadata.ShaderHandle) {
	r.shaderSystem.Delete(handle)
}

func (r *RendererSystem) LoadTexture(path string, filter metadata.TextureFilter) metadata.TextureHandle {
	return r.textureSystem.LoadTexture(path, filter)
}

func (r *RendererSystem) LoadTextures(paths []string, filter metadata.TextureFilter) []metadata.TextureHandle {
	return r.textureSystem.LoadTextures(paths, filter)
}

func (r *RendererSystem) CreateTexture(name string, width, height uint32, channels uint8, pixels []uint8, filter metadata.TextureFilter) metadata.TextureHandle {
	return r.textureSystem.Create(name, width, height, channels, pixels, filter)
}

func (r *RendererSystem) UseTexture(handle metadata.TextureHandle) {
	r.textureSystem.Use(handle)
}

func (r *RendererSystem) DeleteTexture(handle metadata.TextureHandle) {
	r.textureSystem.Delete(handle)
}

func (r *RendererSystem) GetTextureInfo(handle metadata.TextureHandle) metadata.TextureInfo {
	return r.textureSystem.GetTextureInfo(handle)
}

/**
 * @brief Draws a data resource with the current shader and texture.
 *
 * @param handle The data to draw.
 * @param camera Supplies the projection-view matrix. Call its Update first.
 * @param model The model matrix, MVP is camera PV * model.
 * @param params Atlas, colour and line width. Zero values mean not set.
 */
func (r *RendererSystem) DrawData(handle metadata.DataHandle, camera *components.Camera, model math.Mat4, params metadata.DrawParameters) {
	data, ok := r.dataSystem.Get(handle)
	if !ok {
		core.LogWarn("Tried to draw data #%d, which does not exist", handle)
		return
	}
	shader := r.shaderSystem.Current()
	if shader == nil {
		core.LogWarn("Tried to draw data #%d, but no shader is set", handle)
		return
	}
	if camera == nil {
		core.LogWarn("Tried to draw data #%d without a camera", handle)
		return
	}
	mvp := camera.GetProjectionViewMatrix().Mul(model)
	if err := r.backend.DrawData(data, shader, r.textureSystem.Current(), mvp, params); err != nil {
		core.LogError("Failed to draw data #%d: %s", handle, err.Error())
	}
}
