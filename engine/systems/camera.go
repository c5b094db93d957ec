package systems

import (
	"fmt"

	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/renderer/components"
)

const invalidCameraID uint16 = 0xFFFF

type CameraSystem struct {
	Config  *CameraSystemConfig
	Lookup  map[string]uint16
	Cameras []*components.CameraLookup
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/**
	 * @brief NOTE: The maximum number of cameras that can be managed by
	 * the system, the default camera excluded.
	 */
	MaxCameraCount uint16
	/** @brief Where new cameras start, rotation in degrees. */
	Position math.Vec3
	Rotation math.Vec3
	/** @brief Projection given to new cameras. A zero FOV uses the defaults. */
	Projection components.ProjectionSettings
}

/**
 * @brief Initializes the camera system and its default camera.
 *
 * @param config The configuration for this system.
 */
func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if config.Projection.FOV == 0 {
		config.Projection = components.DefaultProjectionSettings()
	}
	cs := &CameraSystem{
		Config:  config,
		Cameras: make([]*components.CameraLookup, config.MaxCameraCount),
		Lookup:  make(map[string]uint16, config.MaxCameraCount),
	}
	// Invalidate all cameras in the array.
	for i := uint16(0); i < cs.Config.MaxCameraCount; i++ {
		cs.Cameras[i] = &components.CameraLookup{
			ID:             invalidCameraID,
			ReferenceCount: 0,
		}
	}
	// Setup default camera.
	cs.DefaultCamera = cs.newCamera()
	return cs, nil
}

func (cs *CameraSystem) newCamera() *components.Camera {
	return components.NewCamera(cs.Config.Position, cs.Config.Rotation, cs.Config.Projection)
}

/**
 * @brief Shuts down the camera system.
 */
func (cs *CameraSystem) Shutdown() error {
	cs.Lookup = make(map[string]uint16)
	return nil
}

/**
 * @brief Acquires a pointer to a camera by name.
 * If one is not found, a new one is created and retuned.
 * Internal reference counter is incremented.
 *
 * @param name The name of the camera to acquire.
 * @return A pointer to a camera if successful; nil and an error otherwise.
 */
func (cs *CameraSystem) Acquire(name string) (*components.Camera, error) {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera, nil
	}
	id, ok := cs.Lookup[name]
	if !ok {
		// Find free slot
		id = invalidCameraID
		for i := uint16(0); i < cs.Config.MaxCameraCount; i++ {
			if cs.Cameras[i].ID == invalidCameraID {
				id = i
				break
			}
		}
		if id == invalidCameraID {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot. Adjust camera system config to allow more")
			core.LogError(err.Error())
			return nil, err
		}

		// Create/register the new camera.
		core.LogDebug("Creating new camera named '%s'...", name)
		cs.Cameras[id].Camera = cs.newCamera()
		cs.Cameras[id].ID = id
		cs.Lookup[name] = id
	}
	cs.Cameras[id].ReferenceCount++
	return cs.Cameras[id].Camera, nil
}

/**
 * @brief Releases a camera with the given name. Intenral reference
 * counter is decremented. If this reaches 0, the camera is dropped
 * and the slot is usable by a new camera.
 *
 * @param name The name of the camera to release.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	id, ok := cs.Lookup[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup for '%s'. Nothing was done.", name)
		return
	}
	// Decrement the reference count, and free the slot if the counter reaches 0.
	lookup := cs.Cameras[id]
	lookup.ReferenceCount--
	if lookup.ReferenceCount < 1 {
		lookup.Camera = nil
		lookup.ID = invalidCameraID
		delete(cs.Lookup, name)
	}
}

/**
 * @brief Gets a pointer to the default camera.
 *
 * @return A pointer to the default camera.
 */
func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}

// SetAspectRatio queues the aspect ratio on every live camera, default included.
func (cs *CameraSystem) SetAspectRatio(aspectRatio float32) {
	cs.DefaultCamera.SetAspectRatio(aspectRatio)
	for _, lookup := range cs.Cameras {
		if lookup.ID != invalidCameraID && lookup.Camera != nil {
			lookup.Camera.SetAspectRatio(aspectRatio)
		}
	}
}

// Update commits pending state on every live camera.
func (cs *CameraSystem) Update() {
	cs.DefaultCamera.Update()
	for _, lookup := range cs.Cameras {
		if lookup.ID != invalidCameraID && lookup.Camera != nil {
			lookup.Camera.Update()
		}
	}
}
