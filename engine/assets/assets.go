package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/nabla/engine/assets/loaders"
	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

/**
 * @brief Resolves asset paths against a base directory, dispatches loads to
 * the loader registered for each resource type and, when watching is on,
 * collects the files fsnotify reports as written so the frame loop can
 * reload them on the main thread.
 */
type AssetManager struct {
	baseDir string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	watch    bool
	fsnotify *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	isClosed bool
	modified map[string]struct{}
}

func NewAssetManager(baseDir string, watch bool) (*AssetManager, error) {
	am := &AssetManager{
		baseDir:  baseDir,
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		watch:    watch,
		done:     make(chan struct{}),
		modified: make(map[string]struct{}),
	}
	if watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("func NewAssetManager - %w", err)
		}
		am.fsnotify = fsWatch
	}
	return am, nil
}

func (am *AssetManager) Initialize() error {
	// Register loaders
	am.RegisterLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.RegisterLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})

	if !am.watch {
		return nil
	}
	if am.baseDir != "" {
		if err := am.addRecursive(am.baseDir); err != nil {
			return err
		}
	}
	am.wg.Add(1)
	go am.start()
	return nil
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	if am.fsnotify == nil {
		return nil
	}
	close(am.done)
	am.wg.Wait()
	return am.fsnotify.Close()
}

// RegisterLoader sets the loader used for a resource type, replacing any previous one.
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Resolve returns the absolute path of an asset. Paths that do not exist
// relative to the working directory are looked up under the base directory.
func (am *AssetManager) Resolve(path string) string {
	resolved := path
	if !filepath.IsAbs(path) && am.baseDir != "" {
		if _, err := os.Stat(path); err != nil {
			resolved = filepath.Join(am.baseDir, path)
		}
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return filepath.Clean(resolved)
	}
	return abs
}

// LoadAsset loads a file using the loader registered for resourceType.
func (am *AssetManager) LoadAsset(path string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	resolved := am.Resolve(path)

	am.mutex.RLock()
	loader, loaderExists := am.loaders[resourceType]
	am.mutex.RUnlock()
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}

	res, err := loader.Load(resolved, resourceType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[resolved] = AssetInfo{
		Path:       resolved,
		Type:       resourceType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()

	// Files outside the watched tree are followed individually.
	if am.watch && !am.isUnderBase(resolved) {
		if err := am.add(resolved); err != nil {
			core.LogWarn("asset manager could not watch %s: %s", resolved, err.Error())
		}
	}
	return res, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	if asset == nil {
		return nil
	}
	am.mutex.Lock()
	info, ok := am.assets[asset.FullPath]
	delete(am.assets, asset.FullPath)
	am.mutex.Unlock()
	if !ok {
		return nil
	}
	if loader, exists := am.loaders[info.Type]; exists {
		return loader.Unload(asset)
	}
	return nil
}

// Loaded reports whether path was loaded and not unloaded since.
func (am *AssetManager) Loaded(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[am.Resolve(path)]
	return info, ok
}

// TakeModified returns the loaded files written since the last call, and forgets them.
func (am *AssetManager) TakeModified() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if len(am.modified) == 0 {
		return nil
	}
	paths := make([]string, 0, len(am.modified))
	for p := range am.modified {
		paths = append(paths, p)
	}
	am.modified = make(map[string]struct{})
	return paths
}

// Add starts watching the named file or directory (non-recursively).
func (am *AssetManager) add(name string) error {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	if am.isClosed {
		return errors.New("asset watcher already closed")
	}
	return am.fsnotify.Add(name)
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	if am.isClosed {
		return errors.New("asset watcher already closed")
	}
	return am.watchRecursive(name, false)
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("asset manager could not watch %s: %s", e.Name, err.Error())
					}
				}
				continue
			}
			// Editors often replace files instead of writing in place.
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-am.done:
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return nil
		}
		if unWatch {
			return am.fsnotify.Remove(walkPath)
		}
		return am.fsnotify.Add(walkPath)
	})
}

// Handle the creation or modification of a file that was loaded before.
func (am *AssetManager) handleFileEvent(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if _, loaded := am.assets[path]; !loaded {
		return
	}
	am.modified[path] = struct{}{}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	delete(am.modified, path)
}

func (am *AssetManager) isUnderBase(path string) bool {
	if am.baseDir == "" {
		return false
	}
	base, err := filepath.Abs(am.baseDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(base, abs)
	return err == nil && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
