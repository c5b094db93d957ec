package systems

import (
	"runtime"

	"github.com/spaghettifunk/nabla/engine/assets"
	"github.com/spaghettifunk/nabla/engine/platform"
	"github.com/spaghettifunk/nabla/engine/renderer"
)

type SystemManagerConfig struct {
	Renderer RendererSystemConfig
	Camera   CameraSystemConfig
	// Workers for the job system. Zero uses one per CPU.
	JobWorkers int
}

type SystemManager struct {
	CameraSystem   *CameraSystem
	DataSystem     *DataSystem
	JobSystem      *JobSystem
	RendererSystem *RendererSystem
	ShaderSystem   *ShaderSystem
	TextureSystem  *TextureSystem
}

func NewSystemManager(config *SystemManagerConfig, backend renderer.RendererBackend, p platform.Platform, am *assets.AssetManager) (*SystemManager, error) {
	workers := config.JobWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	js, err := NewJobSystem(workers, workers*4)
	if err != nil {
		return nil, err
	}

	cameraConfig := config.Camera
	if cameraConfig.MaxCameraCount == 0 {
		cameraConfig.MaxCameraCount = 61
	}
	cs, err := NewCameraSystem(&cameraConfig)
	if err != nil {
		return nil, err
	}
	ds, err := NewDataSystem(&DataSystemConfig{
		MaxDataCount: 4096,
	}, backend)
	if err != nil {
		return nil, err
	}
	ssys, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount: 1024,
	}, backend, am)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: 1024,
	}, backend, js, am)
	if err != nil {
		return nil, err
	}
	rendererConfig := config.Renderer
	rs, err := NewRendererSystem(&rendererConfig, backend, p, ds, ssys, ts)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		CameraSystem:   cs,
		DataSystem:     ds,
		JobSystem:      js,
		RendererSystem: rs,
		ShaderSystem:   ssys,
		TextureSystem:  ts,
	}, nil
}

func (sm *SystemManager) Shutdown() error {
	// No decode may be in flight while textures are destroyed.
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.RendererSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.CameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
