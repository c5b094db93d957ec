package memory

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

/** @brief A recorded draw submission. */
type DrawCall struct {
	Data      metadata.DataHandle
	Shader    metadata.ShaderHandle
	Texture   metadata.TextureHandle
	Mode      metadata.DrawMode
	Indexed   bool
	Count     uint32
	MVP       math.Mat4
	Atlas     math.Vec4
	Color     math.Vec4
	LineWidth float32
	// LineSmooth reports whether line smoothing was on while the draw ran.
	LineSmooth bool
}

/** @brief CPU copy of a data resource's buffers. */
type buffer struct {
	vertices []float32
	indices  []uint32
	// allocations counts BufferCreate plus every BufferResize.
	allocations int
}

type program struct {
	vertexSource   string
	fragmentSource string
}

type image struct {
	pixels    []uint8
	mipmapped bool
}

/**
 * @brief Backend keeps every GPU object in plain slices and records each draw.
 * It needs no window or context, so it backs the unit tests and headless runs.
 */
type Backend struct {
	config      metadata.RendererBackendConfig
	initialized bool

	width  uint32
	height uint32

	lineWidthMin float32
	lineWidthMax float32
	lineSmooth   bool
	lineWidth    float32

	frames     uint64
	clearColor math.Vec4
	inFrame    bool

	boundShader  *metadata.Shader
	boundTexture *metadata.Texture

	draws []DrawCall
}

func New() *Backend {
	return &Backend{
		lineWidthMin: 1,
		lineWidthMax: 10,
		lineWidth:    1,
	}
}

func (b *Backend) Initialize(config *metadata.RendererBackendConfig) error {
	if config == nil {
		return fmt.Errorf("memory backend: nil config: %w", core.ErrBackendInitialization)
	}
	b.config = *config
	b.width = config.Width
	b.height = config.Height
	b.initialized = true
	core.LogInfo("Memory renderer backend initialized (%dx%d)", b.width, b.height)
	return nil
}

func (b *Backend) Shutdown() error {
	b.initialized = false
	b.boundShader = nil
	b.boundTexture = nil
	b.draws = nil
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	b.width = width
	b.height = height
	return nil
}

func (b *Backend) BeginFrame(clearColor math.Vec4) error {
	if !b.initialized {
		return fmt.Errorf("memory backend: begin frame before initialize: %w", core.ErrBackendInitialization)
	}
	b.clearColor = clearColor
	b.inFrame = true
	return nil
}

func (b *Backend) EndFrame() error {
	if !b.inFrame {
		return fmt.Errorf("memory backend: end frame without begin frame")
	}
	b.inFrame = false
	b.frames++
	return nil
}

func (b *Backend) GetRendererInfo() metadata.RendererInfo {
	return metadata.RendererInfo{Name: "Memory"}
}

func (b *Backend) LineWidthRange() (float32, float32) {
	return b.lineWidthMin, b.lineWidthMax
}

// SetLineWidthRange overrides the range reported to callers and used for clamping.
func (b *Backend) SetLineWidthRange(min, max float32) {
	b.lineWidthMin = min
	b.lineWidthMax = max
}

func (b *Backend) BufferCreate(data *metadata.Data, vertices []float32, indices []uint32) error {
	buf := &buffer{}
	b.allocate(buf, data)
	copy(buf.vertices, vertices)
	copy(buf.indices, indices)
	data.InternalData = buf
	return nil
}

func (b *Backend) BufferResize(data *metadata.Data, vertices []float32, indices []uint32) error {
	buf, err := bufferOf(data)
	if err != nil {
		return err
	}
	b.allocate(buf, data)
	copy(buf.vertices, vertices)
	copy(buf.indices, indices)
	return nil
}

func (b *Backend) BufferWrite(data *metadata.Data, vertices []float32, indices []uint32) error {
	buf, err := bufferOf(data)
	if err != nil {
		return err
	}
	if len(vertices) > len(buf.vertices) || len(indices) > len(buf.indices) {
		return fmt.Errorf("memory backend: write of %d floats, %d indices exceeds buffer (%d, %d)",
			len(vertices), len(indices), len(buf.vertices), len(buf.indices))
	}
	copy(buf.vertices, vertices)
	copy(buf.indices, indices)
	return nil
}

func (b *Backend) BufferDestroy(data *metadata.Data) {
	data.InternalData = nil
}

func (b *Backend) allocate(buf *buffer, data *metadata.Data) {
	buf.vertices = make([]float32, data.VertexCapacity*data.Mode.Stride())
	buf.indices = make([]uint32, data.IndexCapacity)
	buf.allocations++
}

func bufferOf(data *metadata.Data) (*buffer, error) {
	buf, ok := data.InternalData.(*buffer)
	if !ok || buf == nil {
		return nil, fmt.Errorf("memory backend: data %d has no buffer: %w", data.Handle, core.ErrInvalidHandle)
	}
	return buf, nil
}

/**
 * @brief Accepts any non-empty pair of sources that declares a main function.
 * Uniform locations are assigned in declaration order for the names present.
 */
func (b *Backend) ShaderCreate(shader *metadata.Shader, vertexSource, fragmentSource string) error {
	stages := []struct {
		stage  metadata.ShaderStage
		source string
	}{
		{metadata.ShaderStageVertex, vertexSource},
		{metadata.ShaderStageFragment, fragmentSource},
	}
	for _, s := range stages {
		if strings.TrimSpace(s.source) == "" {
			return fmt.Errorf("%s: 0:1: empty shader source: %w", s.stage, core.ErrShaderCompile)
		}
		if !strings.Contains(s.source, "main") {
			return fmt.Errorf("%s shader: missing entry point 'main': %w", s.stage, core.ErrShaderLink)
		}
	}

	combined := vertexSource + "\n" + fragmentSource
	next := int32(0)
	locate := func(name string) int32 {
		if !strings.Contains(combined, name) {
			return metadata.UniformLocationNone
		}
		loc := next
		next++
		return loc
	}
	shader.Locations = metadata.ShaderUniformLocations{
		ModelViewProjection: locate(metadata.UniformModelViewProjection),
		Texture:             locate(metadata.UniformTexture),
		AtlasInfo:           locate(metadata.UniformAtlasInfo),
		Color:               locate(metadata.UniformColor),
	}
	shader.InternalData = &program{vertexSource: vertexSource, fragmentSource: fragmentSource}
	return nil
}

func (b *Backend) ShaderDestroy(shader *metadata.Shader) {
	if b.boundShader == shader {
		b.boundShader = nil
	}
	shader.InternalData = nil
}

func (b *Backend) ShaderUse(shader *metadata.Shader) {
	b.boundShader = shader
}

func (b *Backend) TextureCreate(texture *metadata.Texture, pixels []uint8) error {
	expected := int(texture.Width) * int(texture.Height) * int(texture.ChannelCount)
	if len(pixels) != expected {
		return fmt.Errorf("memory backend: texture %q has %d bytes, want %d: %w", texture.Name, len(pixels), expected, core.ErrTextureDecode)
	}
	img := &image{pixels: make([]uint8, len(pixels)), mipmapped: texture.Filter.IsMipmap()}
	copy(img.pixels, pixels)
	texture.InternalData = img
	return nil
}

func (b *Backend) TextureDestroy(texture *metadata.Texture) {
	if b.boundTexture == texture {
		b.boundTexture = nil
	}
	texture.InternalData = nil
}

func (b *Backend) TextureUse(texture *metadata.Texture) {
	b.boundTexture = texture
}

func (b *Backend) DrawData(data *metadata.Data, shader *metadata.Shader, texture *metadata.Texture, mvp math.Mat4, params metadata.DrawParameters) error {
	if _, err := bufferOf(data); err != nil {
		return err
	}
	if shader == nil || shader.InternalData == nil {
		return fmt.Errorf("memory backend: draw of data %d without a program", data.Handle)
	}

	call := DrawCall{
		Data:    data.Handle,
		Shader:  shader.Handle,
		Mode:    data.Mode,
		Indexed: data.IsIndexed(),
		Count:   data.DrawCount(),
		MVP:     mvp,
		Color:   params.ResolveColor(),
	}
	if texture != nil {
		call.Texture = texture.Handle
		call.Atlas = params.ResolveAtlas()
	}

	previousWidth := b.lineWidth
	if data.Mode == metadata.DrawModeLines {
		b.lineSmooth = true
		if width, ok := params.ResolveLineWidth(b.lineWidthMin, b.lineWidthMax); ok {
			b.lineWidth = width
		}
	}
	call.LineWidth = b.lineWidth
	call.LineSmooth = b.lineSmooth
	b.draws = append(b.draws, call)

	b.lineSmooth = false
	b.lineWidth = previousWidth
	return nil
}

// Draws returns the draw calls recorded since the last ResetDraws.
func (b *Backend) Draws() []DrawCall {
	out := make([]DrawCall, len(b.draws))
	copy(out, b.draws)
	return out
}

func (b *Backend) ResetDraws() {
	b.draws = b.draws[:0]
}

// Frames returns the number of completed BeginFrame/EndFrame pairs.
func (b *Backend) Frames() uint64 {
	return b.frames
}

func (b *Backend) ClearColor() math.Vec4 {
	return b.clearColor
}

func (b *Backend) Size() (uint32, uint32) {
	return b.width, b.height
}

// LineState reports the line smoothing flag and width outside of any draw.
func (b *Backend) LineState() (bool, float32) {
	return b.lineSmooth, b.lineWidth
}

// Allocations returns how many times the buffers of data were (re)allocated.
func (b *Backend) Allocations(data *metadata.Data) int {
	buf, err := bufferOf(data)
	if err != nil {
		return 0
	}
	return buf.allocations
}

// BufferContents returns copies of the vertex and index buffers of data,
// sized to their full capacity.
func (b *Backend) BufferContents(data *metadata.Data) ([]float32, []uint32, bool) {
	buf, err := bufferOf(data)
	if err != nil {
		return nil, nil, false
	}
	vertices := make([]float32, len(buf.vertices))
	copy(vertices, buf.vertices)
	indices := make([]uint32, len(buf.indices))
	copy(indices, buf.indices)
	return vertices, indices, true
}

// TexturePixels returns the uploaded pixels of texture and whether mipmaps were generated.
func (b *Backend) TexturePixels(texture *metadata.Texture) ([]uint8, bool, bool) {
	img, ok := texture.InternalData.(*image)
	if !ok || img == nil {
		return nil, false, false
	}
	return img.pixels, img.mipmapped, true
}

func (b *Backend) BoundShader() *metadata.Shader {
	return b.boundShader
}

func (b *Backend) BoundTexture() *metadata.Texture {
	return b.boundTexture
}
