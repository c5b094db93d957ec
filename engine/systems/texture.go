package systems

import (
	"fmt"

	"github.com/spaghettifunk/nabla/engine/assets"
	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/renderer"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

type TextureSystemConfig struct {
	MaxTextureCount uint32
}

/**
 * @brief Owns GPU textures and the current texture binding. Decoding can run
 * on the job system; uploads always happen on the calling goroutine.
 */
type TextureSystem struct {
	Config   *TextureSystemConfig
	textures map[metadata.TextureHandle]*metadata.Texture
	ids      *core.IdentifierPool
	current  *metadata.Texture

	backend      renderer.RendererBackend
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
}

type textureLoadParams struct {
	path string
}

type textureLoadResult struct {
	image *metadata.ImageResourceData
	err   error
}

func NewTextureSystem(config *TextureSystemConfig, backend renderer.RendererBackend, js *JobSystem, am *assets.AssetManager) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if backend == nil {
		err := fmt.Errorf("func NewTextureSystem - backend is required")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:       config,
		textures:     make(map[metadata.TextureHandle]*metadata.Texture),
		ids:          core.NewIdentifierPool(int(config.MaxTextureCount)),
		backend:      backend,
		jobSystem:    js,
		assetManager: am,
	}, nil
}

func (ts *TextureSystem) Shutdown() error {
	for handle := range ts.textures {
		ts.Delete(handle)
	}
	ts.current = nil
	return nil
}

/**
 * @brief Decodes an image file and uploads it. Rows are flipped so the first
 * row in memory is the bottom of the image.
 *
 * @return The texture handle, or InvalidHandle on failure.
 */
func (ts *TextureSystem) LoadTexture(path string, filter metadata.TextureFilter) metadata.TextureHandle {
	if !filter.IsValid() {
		core.LogError("Failed to load texture %s: %s: %s", path, filter, core.ErrUnknownTextureFilter)
		return metadata.InvalidHandle
	}
	img, err := ts.decode(path)
	if err != nil {
		core.LogError("Failed to load texture %s: %s", path, err.Error())
		return metadata.InvalidHandle
	}
	return ts.upload(path, img, filter)
}

/**
 * @brief Decodes every file on the job system, then uploads them in order.
 * The returned slice matches paths; failed entries hold InvalidHandle.
 */
func (ts *TextureSystem) LoadTextures(paths []string, filter metadata.TextureFilter) []metadata.TextureHandle {
	handles := make([]metadata.TextureHandle, len(paths))
	if !filter.IsValid() {
		core.LogError("Failed to load %d textures: %s: %s", len(paths), filter, core.ErrUnknownTextureFilter)
		return handles
	}
	if ts.jobSystem == nil {
		for i, path := range paths {
			handles[i] = ts.LoadTexture(path, filter)
		}
		return handles
	}

	results := make([]textureLoadResult, len(paths))
	jobs := make([]metadata.JobTask, len(paths))
	for i, path := range paths {
		result := &results[i]
		jobs[i] = metadata.JobTask{
			JobType:     metadata.JOB_TYPE_RESOURCE_LOAD,
			InputParams: &textureLoadParams{path: path},
			OnStart:     ts.textureLoadJobStart,
			OnComplete: func(r interface{}) {
				result.image = r.(*metadata.ImageResourceData)
			},
			OnFailure: func(err error) {
				result.err = err
			},
		}
	}
	if err := ts.jobSystem.SubmitAndWait(jobs); err != nil {
		core.LogError("Texture batch load aborted: %s", err.Error())
		return handles
	}

	for i, path := range paths {
		if results[i].err != nil {
			core.LogError("Failed to load texture %s: %s", path, results[i].err.Error())
			continue
		}
		handles[i] = ts.upload(path, results[i].image, filter)
	}
	return handles
}

func (ts *TextureSystem) textureLoadJobStart(params interface{}) (interface{}, error) {
	p, ok := params.(*textureLoadParams)
	if !ok {
		return nil, fmt.Errorf("texture load job: unexpected params %T", params)
	}
	return ts.decode(p.path)
}

func (ts *TextureSystem) decode(path string) (*metadata.ImageResourceData, error) {
	if ts.assetManager == nil {
		return nil, fmt.Errorf("no asset manager to read %s", path)
	}
	res, err := ts.assetManager.LoadAsset(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	if err != nil {
		return nil, err
	}
	img, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return nil, fmt.Errorf("resource %s is not an image", path)
	}
	if img.ChannelCount != 3 && img.ChannelCount != 4 {
		return nil, fmt.Errorf("%s has %d channels: %w", path, img.ChannelCount, core.ErrUnsupportedChannels)
	}
	return img, nil
}

/**
 * @brief Uploads raw pixels as a texture. Pixels are tightly packed rows of
 * 3 or 4 channels, bottom row first.
 */
func (ts *TextureSystem) Create(name string, width, height uint32, channels uint8, pixels []uint8, filter metadata.TextureFilter) metadata.TextureHandle {
	if !filter.IsValid() {
		core.LogError("Failed to create texture %s: %s: %s", name, filter, core.ErrUnknownTextureFilter)
		return metadata.InvalidHandle
	}
	if channels != 3 && channels != 4 {
		core.LogError("Failed to create texture %s: %d channels: %s", name, channels, core.ErrUnsupportedChannels)
		return metadata.InvalidHandle
	}
	return ts.upload(name, &metadata.ImageResourceData{
		ChannelCount: channels,
		Width:        width,
		Height:       height,
		Pixels:       pixels,
	}, filter)
}

func (ts *TextureSystem) upload(name string, img *metadata.ImageResourceData, filter metadata.TextureFilter) metadata.TextureHandle {
	if ts.ids.Live() >= int(ts.Config.MaxTextureCount) {
		core.LogError("Failed to load texture %s: texture system is full (%d)", name, ts.Config.MaxTextureCount)
		return metadata.InvalidHandle
	}
	texture := &metadata.Texture{
		Name:         name,
		Width:        img.Width,
		Height:       img.Height,
		ChannelCount: img.ChannelCount,
		Filter:       filter,
	}
	if err := ts.backend.TextureCreate(texture, img.Pixels); err != nil {
		core.LogError("Failed to upload texture %s: %s", name, err.Error())
		return metadata.InvalidHandle
	}
	texture.Handle = metadata.TextureHandle(ts.ids.Acquire(texture))
	ts.textures[texture.Handle] = texture
	core.LogDebug("Loaded texture #%d %s (%dx%d, %d channels, %s)", texture.Handle, name, texture.Width, texture.Height, texture.ChannelCount, filter)
	return texture.Handle
}

/**
 * @brief Binds the texture for subsequent draws. Unknown handles are logged
 * and the previous binding stays.
 */
func (ts *TextureSystem) Use(handle metadata.TextureHandle) {
	texture, ok := ts.textures[handle]
	if !ok {
		core.LogError("Tried to use texture #%d, which does not exist", handle)
		return
	}
	ts.current = texture
	ts.backend.TextureUse(texture)
}

func (ts *TextureSystem) Delete(handle metadata.TextureHandle) {
	texture, ok := ts.textures[handle]
	if !ok {
		core.LogWarn("Tried to delete texture #%d, which does not exist", handle)
		return
	}
	if ts.current == texture {
		ts.current = nil
	}
	ts.backend.TextureDestroy(texture)
	delete(ts.textures, handle)
	if err := ts.ids.Release(uint32(handle)); err != nil {
		core.LogWarn(err.Error())
	}
}

func (ts *TextureSystem) Get(handle metadata.TextureHandle) (*metadata.Texture, bool) {
	texture, ok := ts.textures[handle]
	return texture, ok
}

func (ts *TextureSystem) Current() *metadata.Texture {
	return ts.current
}

func (ts *TextureSystem) GetTextureInfo(handle metadata.TextureHandle) metadata.TextureInfo {
	texture, ok := ts.textures[handle]
	if !ok {
		core.LogError("Texture #%d does not exist, can't get info", handle)
		return metadata.TextureInfo{}
	}
	return metadata.TextureInfo{
		Width:    texture.Width,
		Height:   texture.Height,
		Channels: texture.ChannelCount,
	}
}
