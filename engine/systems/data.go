package systems

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/renderer"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

/** @brief The data system configuration. */
type DataSystemConfig struct {
	/** @brief The maximum number of data resources that can be live at once. */
	MaxDataCount uint32
}

/**
 * @brief Owns vertex data resources. Static data is sized exactly; dynamic data
 * is allocated at twice its content and regrown to twice the new content when
 * an update no longer fits.
 */
type DataSystem struct {
	Config  *DataSystemConfig
	backend renderer.RendererBackend
	ids     *core.IdentifierPool
	data    map[metadata.DataHandle]*metadata.Data
}

func NewDataSystem(config *DataSystemConfig, backend renderer.RendererBackend) (*DataSystem, error) {
	if config.MaxDataCount == 0 {
		err := fmt.Errorf("func NewDataSystem - config.MaxDataCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if backend == nil {
		err := fmt.Errorf("func NewDataSystem - backend is required")
		core.LogError(err.Error())
		return nil, err
	}
	return &DataSystem{
		Config:  config,
		backend: backend,
		ids:     core.NewIdentifierPool(int(config.MaxDataCount)),
		data:    make(map[metadata.DataHandle]*metadata.Data),
	}, nil
}

/**
 * @brief Destroys every live data resource.
 */
func (ds *DataSystem) Shutdown() error {
	for handle, data := range ds.data {
		ds.backend.BufferDestroy(data)
		ds.ids.Release(uint32(handle))
		delete(ds.data, handle)
	}
	return nil
}

/**
 * @brief Creates a data resource from packed vertices and optional indices.
 *
 * @param vertices Floats packed per the mode stride (5 for triangles, 3 for lines).
 * @param indices Optional indices into the vertices. Empty means non-indexed.
 * @return The handle of the new resource, or InvalidHandle on failure.
 */
func (ds *DataSystem) Load(vertices []float32, indices []uint32, mode metadata.DrawMode, usage metadata.DataUsage) metadata.DataHandle {
	handle, err := ds.load(vertices, indices, mode, usage)
	if err != nil {
		core.LogError("Failed to load data: %s", err.Error())
		return metadata.InvalidHandle
	}
	return handle
}

/** @brief Loads textured triangles, non-indexed. */
func (ds *DataSystem) LoadVertices(vertices []math.Vertex3D, usage metadata.DataUsage) metadata.DataHandle {
	return ds.Load(math.FlattenVertices(vertices), nil, metadata.DrawModeTriangles, usage)
}

/** @brief Loads textured triangles with an index buffer. */
func (ds *DataSystem) LoadIndexedVertices(vertices []math.Vertex3D, indices []uint32, usage metadata.DataUsage) metadata.DataHandle {
	return ds.Load(math.FlattenVertices(vertices), indices, metadata.DrawModeTriangles, usage)
}

/** @brief Loads a line list. Indices pair up points; empty means consecutive pairs. */
func (ds *DataSystem) LoadLines(points []math.Vec3, indices []uint32, usage metadata.DataUsage) metadata.DataHandle {
	return ds.Load(math.FlattenPoints(points), indices, metadata.DrawModeLines, usage)
}

func (ds *DataSystem) load(vertices []float32, indices []uint32, mode metadata.DrawMode, usage metadata.DataUsage) (metadata.DataHandle, error) {
	vertexCount, err := validateLayout(vertices, indices, mode)
	if err != nil {
		return metadata.InvalidHandle, err
	}
	if usage != metadata.DataUsageStatic && usage != metadata.DataUsageDynamic {
		return metadata.InvalidHandle, fmt.Errorf("unknown data usage %s", usage)
	}
	if ds.ids.Live() >= int(ds.Config.MaxDataCount) {
		return metadata.InvalidHandle, fmt.Errorf("data system is full (%d), adjust the configuration to allow more", ds.Config.MaxDataCount)
	}

	data := &metadata.Data{
		Name:        fmt.Sprintf("data-%s", uuid.NewString()),
		Mode:        mode,
		Usage:       usage,
		VertexCount: vertexCount,
		IndexCount:  uint32(len(indices)),
	}
	data.VertexCapacity = initialCapacity(data.VertexCount, usage)
	data.IndexCapacity = initialCapacity(data.IndexCount, usage)

	data.Handle = metadata.DataHandle(ds.ids.Acquire(data))
	if err := ds.backend.BufferCreate(data, vertices, indices); err != nil {
		ds.ids.Release(uint32(data.Handle))
		return metadata.InvalidHandle, err
	}
	ds.data[data.Handle] = data

	core.LogDebug("Loaded %s %s data #%d (%s): %d vertices, %d indices", usage, mode, data.Handle, data.Name, data.VertexCount, data.IndexCount)
	return data.Handle, nil
}

/**
 * @brief Replaces the content of a dynamic resource. The handle stays the same.
 * Missing or static handles are logged and ignored.
 */
func (ds *DataSystem) Update(handle metadata.DataHandle, vertices []float32, indices []uint32) {
	if err := ds.update(handle, vertices, indices); err != nil {
		core.LogError("Failed to update data #%d: %s", handle, err.Error())
	}
}

func (ds *DataSystem) update(handle metadata.DataHandle, vertices []float32, indices []uint32) error {
	data, ok := ds.data[handle]
	if !ok {
		return fmt.Errorf("data #%d does not exist: %w", handle, core.ErrInvalidHandle)
	}
	if data.Usage != metadata.DataUsageDynamic {
		return fmt.Errorf("data #%d: %w", handle, core.ErrStaticData)
	}
	vertexCount, err := validateLayout(vertices, indices, data.Mode)
	if err != nil {
		return err
	}
	indexCount := uint32(len(indices))

	// The backend sees the new counts, data keeps the old ones until it succeeds.
	next := *data
	next.VertexCount = vertexCount
	next.IndexCount = indexCount
	grow := false
	if vertexCount > data.VertexCapacity {
		next.VertexCapacity = vertexCount * 2
		grow = true
	}
	if indexCount > data.IndexCapacity {
		next.IndexCapacity = indexCount * 2
		grow = true
	}

	if grow {
		core.LogDebug("Growing data #%d to %d vertices, %d indices", handle, next.VertexCapacity, next.IndexCapacity)
		if err := ds.backend.BufferResize(&next, vertices, indices); err != nil {
			return err
		}
	} else if err := ds.backend.BufferWrite(&next, vertices, indices); err != nil {
		return err
	}
	*data = next
	return nil
}

/**
 * @brief Destroys a data resource. Unknown handles log a warning.
 */
func (ds *DataSystem) Delete(handle metadata.DataHandle) {
	data, ok := ds.data[handle]
	if !ok {
		core.LogWarn("Tried to delete data #%d, which does not exist", handle)
		return
	}
	ds.backend.BufferDestroy(data)
	delete(ds.data, handle)
	if err := ds.ids.Release(uint32(handle)); err != nil {
		core.LogWarn(err.Error())
	}
}

func (ds *DataSystem) Get(handle metadata.DataHandle) (*metadata.Data, bool) {
	data, ok := ds.data[handle]
	return data, ok
}

func (ds *DataSystem) GetDataInfo(handle metadata.DataHandle) metadata.DataInfo {
	data, ok := ds.data[handle]
	if !ok {
		core.LogError("Data #%d does not exist, can't get info", handle)
		return metadata.DataInfo{}
	}
	return metadata.DataInfo{
		Mode:           data.Mode,
		Usage:          data.Usage,
		VertexCount:    data.VertexCount,
		IndexCount:     data.IndexCount,
		VertexCapacity: data.VertexCapacity,
		IndexCapacity:  data.IndexCapacity,
	}
}

// Count returns the number of live data resources.
func (ds *DataSystem) Count() int {
	return len(ds.data)
}

func initialCapacity(count uint32, usage metadata.DataUsage) uint32 {
	if usage == metadata.DataUsageDynamic {
		return count * 2
	}
	return count
}

// validateLayout checks the packed vertices against the mode and returns the vertex count.
func validateLayout(vertices []float32, indices []uint32, mode metadata.DrawMode) (uint32, error) {
	stride := mode.Stride()
	if stride == 0 {
		return 0, fmt.Errorf("unknown draw mode %s: %w", mode, core.ErrInvalidVertexData)
	}
	if len(vertices) == 0 || uint32(len(vertices))%stride != 0 {
		return 0, fmt.Errorf("%d floats is not a multiple of the %s stride %d: %w", len(vertices), mode, stride, core.ErrInvalidVertexData)
	}
	vertexCount := uint32(len(vertices)) / stride
	for i, index := range indices {
		if index >= vertexCount {
			return 0, fmt.Errorf("index %d at %d exceeds %d vertices: %w", index, i, vertexCount, core.ErrIndexOutOfRange)
		}
	}
	return vertexCount, nil
}
