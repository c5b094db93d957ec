package engine

import (
	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	// Set by the engine before FnInitialize runs.
	SystemManager *systems.SystemManager
	// Set by the engine before FnInitialize runs.
	Events       *core.EventSystem
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func() error
type Update func(deltaTime float64, input *core.InputState) error
type Render func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
