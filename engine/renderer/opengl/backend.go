package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

/**
 * @brief OpenGL 4.1 core backend. All calls must happen on the thread that
 * owns the context the platform made current before Initialize.
 */
type Backend struct {
	config metadata.RendererBackendConfig
	info   metadata.RendererInfo

	width  uint32
	height uint32

	lineWidthMin float32
	lineWidthMax float32

	initialized bool
}

func New() *Backend {
	return &Backend{lineWidthMin: 1, lineWidthMax: 1}
}

func (b *Backend) Initialize(config *metadata.RendererBackendConfig) error {
	if config == nil {
		return fmt.Errorf("opengl backend: nil config: %w", core.ErrBackendInitialization)
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl backend: %v: %w", err, core.ErrBackendInitialization)
	}
	b.config = *config
	b.width = config.Width
	b.height = config.Height

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.Viewport(0, 0, int32(b.width), int32(b.height))

	var lineWidthRange [2]float32
	gl.GetFloatv(gl.ALIASED_LINE_WIDTH_RANGE, &lineWidthRange[0])
	b.lineWidthMin = lineWidthRange[0]
	b.lineWidthMax = lineWidthRange[1]

	b.info = metadata.RendererInfo{
		Name:            "OpenGL",
		Version:         gl.GoStr(gl.GetString(gl.VERSION)),
		Vendor:          gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:        gl.GoStr(gl.GetString(gl.RENDERER)),
		ShadingLanguage: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	b.initialized = true

	core.LogInfo("OpenGL renderer backend initialized")
	core.LogInfo("OpenGL version: %s", b.info.Version)
	core.LogInfo("OpenGL vendor: %s", b.info.Vendor)
	core.LogInfo("OpenGL renderer: %s", b.info.Renderer)
	core.LogInfo("OpenGL GLSL version: %s", b.info.ShadingLanguage)
	core.LogDebug("OpenGL line width range: [%.1f, %.1f]", b.lineWidthMin, b.lineWidthMax)
	return nil
}

func (b *Backend) Shutdown() error {
	if !b.initialized {
		return nil
	}
	gl.UseProgram(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
	b.initialized = false
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	b.width = width
	b.height = height
	return nil
}

func (b *Backend) BeginFrame(clearColor math.Vec4) error {
	gl.Viewport(0, 0, int32(b.width), int32(b.height))
	gl.ClearColor(clearColor.X, clearColor.Y, clearColor.Z, clearColor.W)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (b *Backend) EndFrame() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl backend: error 0x%x during frame", code)
	}
	return nil
}

func (b *Backend) GetRendererInfo() metadata.RendererInfo {
	return b.info
}

func (b *Backend) LineWidthRange() (float32, float32) {
	return b.lineWidthMin, b.lineWidthMax
}

func (b *Backend) DrawData(data *metadata.Data, shader *metadata.Shader, texture *metadata.Texture, mvp math.Mat4, params metadata.DrawParameters) error {
	buf, err := bufferOf(data)
	if err != nil {
		return err
	}
	prog, err := programOf(shader)
	if err != nil {
		return err
	}

	gl.BindVertexArray(buf.vao)
	gl.UseProgram(prog.id)

	loc := shader.Locations
	if loc.ModelViewProjection != metadata.UniformLocationNone {
		gl.UniformMatrix4fv(loc.ModelViewProjection, 1, false, &mvp.Data[0])
	}
	if texture != nil {
		if tex, err := textureOf(texture); err == nil {
			gl.ActiveTexture(gl.TEXTURE0)
			gl.BindTexture(gl.TEXTURE_2D, tex.id)
			if loc.Texture != metadata.UniformLocationNone {
				gl.Uniform1i(loc.Texture, 0)
			}
			if loc.AtlasInfo != metadata.UniformLocationNone {
				atlas := params.ResolveAtlas()
				gl.Uniform4f(loc.AtlasInfo, atlas.X, atlas.Y, atlas.Z, atlas.W)
			}
		}
	}
	if loc.Color != metadata.UniformLocationNone {
		color := params.ResolveColor()
		gl.Uniform4f(loc.Color, color.X, color.Y, color.Z, color.W)
	}

	mode := uint32(gl.TRIANGLES)
	if data.Mode == metadata.DrawModeLines {
		mode = gl.LINES
		gl.Enable(gl.LINE_SMOOTH)
		if width, ok := params.ResolveLineWidth(b.lineWidthMin, b.lineWidthMax); ok {
			gl.LineWidth(width)
		}
	}

	if data.IsIndexed() {
		gl.DrawElements(mode, int32(data.IndexCount), gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(mode, 0, int32(data.VertexCount))
	}

	if data.Mode == metadata.DrawModeLines {
		gl.Disable(gl.LINE_SMOOTH)
		gl.LineWidth(1)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
	return nil
}
