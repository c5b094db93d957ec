package metadata

import "fmt"

/** @brief Opaque handle to a vertex data resource. */
type DataHandle uint32

/** @brief Opaque handle to a shader program. */
type ShaderHandle uint32

/** @brief Opaque handle to a texture. */
type TextureHandle uint32

/** @brief The handle value that never refers to a live resource. */
const InvalidHandle = 0

/** @brief Primitive topology of a data resource. */
type DrawMode int

const (
	/** @brief Triangle list, 5 floats per vertex: position xyz, uv. */
	DrawModeTriangles DrawMode = iota
	/** @brief Line list, 3 floats per vertex: position xyz. */
	DrawModeLines
)

/** @brief Number of floats per vertex for the mode. */
func (m DrawMode) Stride() uint32 {
	switch m {
	case DrawModeTriangles:
		return 5
	case DrawModeLines:
		return 3
	}
	return 0
}

func (m DrawMode) String() string {
	switch m {
	case DrawModeTriangles:
		return "triangles"
	case DrawModeLines:
		return "lines"
	}
	return fmt.Sprintf("DrawMode(%d)", int(m))
}

/** @brief Whether a data resource may be rewritten after creation. */
type DataUsage int

const (
	/** @brief Written once at load, sized exactly. */
	DataUsageStatic DataUsage = iota
	/** @brief Rewritable with UpdateData, allocated with headroom. */
	DataUsageDynamic
)

func (u DataUsage) String() string {
	switch u {
	case DataUsageStatic:
		return "static"
	case DataUsageDynamic:
		return "dynamic"
	}
	return fmt.Sprintf("DataUsage(%d)", int(u))
}

/**
 * @brief A vertex buffer with an optional index buffer. Counts and capacities
 * are in elements: vertices for the vertex buffer, indices for the index buffer.
 */
type Data struct {
	Handle DataHandle
	/** @brief Debug label, unique per load. */
	Name  string
	Mode  DrawMode
	Usage DataUsage

	VertexCount    uint32
	IndexCount     uint32
	VertexCapacity uint32
	IndexCapacity  uint32

	/** @brief Backend-specific buffer objects. */
	InternalData interface{}
}

/** @brief Reports whether draws use the index buffer. */
func (d *Data) IsIndexed() bool {
	return d.IndexCount > 0
}

/** @brief Number of elements a draw submits: indices when indexed, vertices otherwise. */
func (d *Data) DrawCount() uint32 {
	if d.IsIndexed() {
		return d.IndexCount
	}
	return d.VertexCount
}

/** @brief Read-only description of a data resource. */
type DataInfo struct {
	Mode           DrawMode
	Usage          DataUsage
	VertexCount    uint32
	IndexCount     uint32
	VertexCapacity uint32
	IndexCapacity  uint32
}
