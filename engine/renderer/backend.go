package renderer

import (
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

/**
 * @brief The low-level graphics API a frontend system drives. Backends never
 * hand out their own identifiers: every object is attached to the frontend
 * struct through its InternalData field.
 */
type RendererBackend interface {
	Initialize(config *metadata.RendererBackendConfig) error
	Shutdown() error
	Resized(width, height uint32) error
	/** @brief Sets the viewport and clears colour and depth. */
	BeginFrame(clearColor math.Vec4) error
	/** @brief Finishes the frame. Buffer swapping belongs to the platform. */
	EndFrame() error
	GetRendererInfo() metadata.RendererInfo
	/** @brief Supported aliased line width range, queried at Initialize. */
	LineWidthRange() (float32, float32)

	/** @brief Allocates VertexCapacity and IndexCapacity elements and uploads the content. */
	BufferCreate(data *metadata.Data, vertices []float32, indices []uint32) error
	/** @brief Reallocates to the current capacities and uploads the content. */
	BufferResize(data *metadata.Data, vertices []float32, indices []uint32) error
	/** @brief Overwrites the start of the existing buffers. Content fits the capacities. */
	BufferWrite(data *metadata.Data, vertices []float32, indices []uint32) error
	BufferDestroy(data *metadata.Data)

	/** @brief Compiles and links, filling shader.Locations. */
	ShaderCreate(shader *metadata.Shader, vertexSource, fragmentSource string) error
	ShaderDestroy(shader *metadata.Shader)
	ShaderUse(shader *metadata.Shader)

	/** @brief Uploads tightly packed pixels of texture.ChannelCount channels. */
	TextureCreate(texture *metadata.Texture, pixels []uint8) error
	TextureDestroy(texture *metadata.Texture)
	TextureUse(texture *metadata.Texture)

	/**
	 * @brief Issues one draw with the given program. Texture may be nil. Line
	 * draws enable smoothing and the clamped width for the duration of the call.
	 */
	DrawData(data *metadata.Data, shader *metadata.Shader, texture *metadata.Texture, mvp math.Mat4, params metadata.DrawParameters) error
}
