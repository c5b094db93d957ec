package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/spaghettifunk/nabla/engine/assets"
	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
	"github.com/spaghettifunk/nabla/engine/platform"
	"github.com/spaghettifunk/nabla/engine/renderer"
	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
	"github.com/spaghettifunk/nabla/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released everything
	EngineStageShutdown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *ApplicationConfig
	sessionID     string
	isRunning     atomic.Bool
	isSuspended   bool
	events        *core.EventSystem
	input         *core.InputState
	platform      platform.Platform
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	lastReport    float64
}

/**
 * @brief Builds the engine for a game. The backend and window come from the
 * configuration: "memory" runs headless for HeadlessFrames frames, anything
 * else opens a glfw window with an OpenGL context.
 */
func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	config := g.ApplicationConfig
	core.SetLogLevel(config.Level())

	kind, err := config.RendererType()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	events := core.NewEventSystem()

	var p platform.Platform
	if kind == metadata.Memory {
		p = platform.NewHeadlessPlatform(config.HeadlessFrames, events)
	} else {
		p = platform.NewGLFWPlatform(events)
	}
	backend, err := renderer.New(kind)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	assetDir, err := filepath.Abs(config.AssetDir)
	if err != nil {
		return nil, err
	}
	watch := config.WatchAssets && kind != metadata.Memory
	if _, err := os.Stat(assetDir); err != nil {
		core.LogWarn("Asset directory %s is not readable, hot reload is off: %s", assetDir, err.Error())
		watch = false
	}
	am, err := assets.NewAssetManager(assetDir, watch)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(&systems.SystemManagerConfig{
		Renderer: systems.RendererSystemConfig{
			ApplicationName: config.Name,
			Width:           config.StartWidth,
			Height:          config.StartHeight,
			ClearColor:      config.ClearColorVec(),
		},
		Camera: systems.CameraSystemConfig{
			MaxCameraCount: 16,
			Position:       math.NewVec3(config.Camera.Position[0], config.Camera.Position[1], config.Camera.Position[2]),
			Rotation:       math.NewVec3(config.Camera.Rotation[0], config.Camera.Rotation[1], config.Camera.Rotation[2]),
			Projection:     config.Projection(),
		},
	}, backend, p, am)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	g.SystemManager = sm
	g.Events = events

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		config:        config,
		sessionID:     uuid.NewString(),
		events:        events,
		input:         core.NewInputState(),
		platform:      p,
		assetManager:  am,
		systemManager: sm,
		width:         config.StartWidth,
		height:        config.StartHeight,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	core.LogInfo("Starting session %s with the %s backend", e.sessionID, e.config.Backend)

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	e.events.Register(core.EVENT_CODE_ASSET_MODIFIED, e.systemManager.ShaderSystem, e.systemManager.ShaderSystem.OnAssetModified)

	if err := e.platform.Startup(platform.Config{
		ApplicationName: e.config.Name,
		X:               e.config.StartPosX,
		Y:               e.config.StartPosY,
		Width:           e.config.StartWidth,
		Height:          e.config.StartHeight,
		VSync:           e.config.VSync,
	}); err != nil {
		return err
	}

	// initialize subsystems
	if err := e.assetManager.Initialize(); err != nil {
		return err
	}
	if err := e.systemManager.RendererSystem.Initialize(); err != nil {
		return err
	}
	e.width = e.systemManager.RendererSystem.GetWidth()
	e.height = e.systemManager.RendererSystem.GetHeight()
	e.systemManager.CameraSystem.SetAspectRatio(e.systemManager.RendererSystem.GetAspectRatio())

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

/**
 * @brief Runs frames until the window closes or a quit is requested. Each frame
 * pumps input, updates the game, commits cameras, then clears, renders and
 * presents.
 */
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before Run (stage %d)", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	rs := e.systemManager.RendererSystem
	for e.isRunning.Load() {
		if !rs.PollWindowEvents(e.input) {
			e.isRunning.Store(false)
			break
		}
		e.reloadModifiedAssets()

		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta, e.input); err != nil {
				core.LogError("Game update failed, shutting down: %s", err.Error())
				return err
			}
		}
		e.systemManager.CameraSystem.Update()

		if err := rs.Clear(); err != nil {
			core.LogError("Begin frame failed, shutting down: %s", err.Error())
			return err
		}
		// Call the game's render routine.
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(delta); err != nil {
				core.LogError("Game render failed, shutting down: %s", err.Error())
				return err
			}
		}
		if err := rs.Present(); err != nil {
			core.LogError("End frame failed, shutting down: %s", err.Error())
			return err
		}

		e.metrics.Update(e.platform.GetAbsoluteTime() - frameStartTime)
		if currentTime-e.lastReport >= 1.0 {
			fps, frameTime := e.metrics.Frame()
			core.LogDebug("FPS: %.0f, frame time: %.3fms", fps, frameTime)
			e.lastReport = currentTime
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		// As a safety, input is the last thing to be updated before
		// this frame ends.
		e.input.Update()

		// Update last time
		e.lastTime = currentTime
	}
	return nil
}

// Stop asks Run to return after the current frame. Safe from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown || e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := e.events.Shutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageShutdown
	core.LogInfo("Session %s ended after %d frames", e.sessionID, e.systemManager.RendererSystem.FrameNumber)
	return nil
}

// ApplicationGetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Platform() platform.Platform {
	return e.platform
}

func (e *Engine) SessionID() string {
	return e.sessionID
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// reloadModifiedAssets turns the files the watcher saw change into events on this thread.
func (e *Engine) reloadModifiedAssets() {
	for _, path := range e.assetManager.TakeModified() {
		core.LogDebug("Asset modified: %s", path)
		e.events.Fire(core.EventContext{
			Type: core.EVENT_CODE_ASSET_MODIFIED,
			Data: &core.AssetEvent{Path: path},
		})
	}
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT recieved, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.Key == core.KeyEscape {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	width := se.WindowWidth
	height := se.WindowHeight

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}

	rs := e.systemManager.RendererSystem
	if err := rs.OnResized(width, height); err != nil {
		core.LogError(err.Error())
	}
	e.systemManager.CameraSystem.SetAspectRatio(rs.GetAspectRatio())
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	return false
}
