package systems

import (
	"fmt"

	"github.com/spaghettifunk/nabla/engine/assets"
	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/renderer"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shaders held in the system. */
	MaxShaderCount uint32
}

/**
 * @brief Owns linked shader programs and the current binding. Programs built
 * from files are rebuilt in place when the asset manager reports a change.
 */
type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig
	// A collection of created shaders.
	shaders map[metadata.ShaderHandle]*metadata.Shader
	ids     *core.IdentifierPool
	// The currently bound shader, nil when none.
	current *metadata.Shader
	// sub systems
	backend      renderer.RendererBackend
	assetManager *assets.AssetManager
}

func NewShaderSystem(config *ShaderSystemConfig, backend renderer.RendererBackend, am *assets.AssetManager) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	if backend == nil {
		err := fmt.Errorf("func NewShaderSystem - backend is required")
		core.LogError(err.Error())
		return nil, err
	}
	return &ShaderSystem{
		Config:       config,
		shaders:      make(map[metadata.ShaderHandle]*metadata.Shader),
		ids:          core.NewIdentifierPool(int(config.MaxShaderCount)),
		backend:      backend,
		assetManager: am,
	}, nil
}

/**
 * @brief Shuts down the shader system, destroying every shader still alive.
 */
func (ss *ShaderSystem) Shutdown() error {
	for handle := range ss.shaders {
		ss.Delete(handle)
	}
	ss.current = nil
	return nil
}

/**
 * @brief Compiles and links a program from in-memory sources.
 *
 * @return The shader handle, or InvalidHandle if compilation or linking failed.
 */
func (ss *ShaderSystem) LoadShader(vertexSource, fragmentSource string) metadata.ShaderHandle {
	shader := &metadata.Shader{Name: "inline"}
	if err := ss.create(shader, vertexSource, fragmentSource); err != nil {
		core.LogError("Failed to load shader: %s", err.Error())
		return metadata.InvalidHandle
	}
	return shader.Handle
}

/**
 * @brief Reads both stages through the asset manager and links them. The
 * program is rebuilt whenever either file changes on disk.
 */
func (ss *ShaderSystem) LoadShaderFiles(vertexPath, fragmentPath string) metadata.ShaderHandle {
	if ss.assetManager == nil {
		core.LogError("Failed to load shader %s/%s: no asset manager", vertexPath, fragmentPath)
		return metadata.InvalidHandle
	}
	vertexPath = ss.assetManager.Resolve(vertexPath)
	fragmentPath = ss.assetManager.Resolve(fragmentPath)

	vertexSource, fragmentSource, err := ss.readSources(vertexPath, fragmentPath)
	if err != nil {
		core.LogError("Failed to load shader: %s", err.Error())
		return metadata.InvalidHandle
	}

	shader := &metadata.Shader{
		Name:         fmt.Sprintf("%s+%s", vertexPath, fragmentPath),
		VertexPath:   vertexPath,
		FragmentPath: fragmentPath,
	}
	if err := ss.create(shader, vertexSource, fragmentSource); err != nil {
		core.LogError("Failed to load shader %s: %s", shader.Name, err.Error())
		return metadata.InvalidHandle
	}
	return shader.Handle
}

func (ss *ShaderSystem) create(shader *metadata.Shader, vertexSource, fragmentSource string) error {
	if ss.ids.Live() >= int(ss.Config.MaxShaderCount) {
		return fmt.Errorf("shader system is full (%d), adjust the configuration to allow more", ss.Config.MaxShaderCount)
	}
	shader.Locations = metadata.NoUniformLocations()
	if err := ss.backend.ShaderCreate(shader, vertexSource, fragmentSource); err != nil {
		return err
	}
	shader.Handle = metadata.ShaderHandle(ss.ids.Acquire(shader))
	ss.shaders[shader.Handle] = shader
	core.LogDebug("Created shader #%d (%s)", shader.Handle, shader.Name)
	return nil
}

func (ss *ShaderSystem) readSources(vertexPath, fragmentPath string) (string, string, error) {
	vertex, err := ss.readSource(vertexPath)
	if err != nil {
		return "", "", err
	}
	fragment, err := ss.readSource(fragmentPath)
	if err != nil {
		return "", "", err
	}
	return vertex, fragment, nil
}

func (ss *ShaderSystem) readSource(path string) (string, error) {
	res, err := ss.assetManager.LoadAsset(path, metadata.ResourceTypeShader, nil)
	if err != nil {
		return "", err
	}
	data, ok := res.Data.(*metadata.ShaderResourceData)
	if !ok {
		return "", fmt.Errorf("resource %s is not a shader source", path)
	}
	return data.Source, nil
}

/**
 * @brief Makes the shader current for subsequent draws. An unknown handle is
 * logged and the previous binding stays in place.
 */
func (ss *ShaderSystem) Use(handle metadata.ShaderHandle) {
	shader, ok := ss.shaders[handle]
	if !ok {
		core.LogError("Tried to use shader #%d, which does not exist", handle)
		return
	}
	ss.current = shader
	ss.backend.ShaderUse(shader)
}

/**
 * @brief Destroys the shader. If it was current, no shader is bound afterwards.
 */
func (ss *ShaderSystem) Delete(handle metadata.ShaderHandle) {
	shader, ok := ss.shaders[handle]
	if !ok {
		core.LogWarn("Tried to delete shader #%d, which does not exist", handle)
		return
	}
	if ss.current == shader {
		ss.current = nil
	}
	ss.backend.ShaderDestroy(shader)
	delete(ss.shaders, handle)
	if err := ss.ids.Release(uint32(handle)); err != nil {
		core.LogWarn(err.Error())
	}
}

func (ss *ShaderSystem) Get(handle metadata.ShaderHandle) (*metadata.Shader, bool) {
	shader, ok := ss.shaders[handle]
	return shader, ok
}

// Current returns the bound shader, or nil.
func (ss *ShaderSystem) Current() *metadata.Shader {
	return ss.current
}

/**
 * @brief Rebuilds every shader that reads the given file. The handle survives;
 * when the new sources fail to build the previous program is kept.
 *
 * @return The number of shaders rebuilt.
 */
func (ss *ShaderSystem) ReloadModified(path string) int {
	if ss.assetManager == nil {
		return 0
	}
	path = ss.assetManager.Resolve(path)
	reloaded := 0
	for _, shader := range ss.shaders {
		if !shader.HasSourceFiles() || (shader.VertexPath != path && shader.FragmentPath != path) {
			continue
		}
		if err := ss.rebuild(shader); err != nil {
			core.LogError("Failed to reload shader #%d, keeping the previous program: %s", shader.Handle, err.Error())
			continue
		}
		reloaded++
	}
	return reloaded
}

func (ss *ShaderSystem) rebuild(shader *metadata.Shader) error {
	vertexSource, fragmentSource, err := ss.readSources(shader.VertexPath, shader.FragmentPath)
	if err != nil {
		return err
	}
	next := &metadata.Shader{
		Handle:       shader.Handle,
		Name:         shader.Name,
		VertexPath:   shader.VertexPath,
		FragmentPath: shader.FragmentPath,
		Locations:    metadata.NoUniformLocations(),
	}
	if err := ss.backend.ShaderCreate(next, vertexSource, fragmentSource); err != nil {
		return err
	}

	ss.backend.ShaderDestroy(shader)
	shader.InternalData = next.InternalData
	shader.Locations = next.Locations
	shader.Generation++
	if ss.current == shader {
		ss.backend.ShaderUse(shader)
	}
	core.LogInfo("Reloaded shader #%d (%s), generation %d", shader.Handle, shader.Name, shader.Generation)
	return nil
}

// OnAssetModified is an event listener for EVENT_CODE_ASSET_MODIFIED.
func (ss *ShaderSystem) OnAssetModified(context core.EventContext) bool {
	event, ok := context.Data.(*core.AssetEvent)
	if !ok {
		return false
	}
	ss.ReloadModified(event.Path)
	return false
}
