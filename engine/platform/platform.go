package platform

import (
	"github.com/spaghettifunk/nabla/engine/core"
)

/** @brief Window creation parameters. */
type Config struct {
	ApplicationName string
	X               uint32
	Y               uint32
	Width           uint32
	Height          uint32
	VSync           bool
}

/**
 * @brief The window and input source the engine renders into. Resize and quit
 * requests are fired through the event system the platform was created with.
 */
type Platform interface {
	Startup(config Config) error
	Shutdown() error
	/**
	 * @brief Processes pending window events and feeds the input state.
	 * @return false once the window was asked to close.
	 */
	PumpMessages(input *core.InputState) bool
	GetFramebufferSize() (uint32, uint32)
	/** @brief Reports whether the framebuffer changed size since the last call. */
	HasBeenResized() bool
	SetMouseCapture(capture bool)
	SwapBuffers()
	/** @brief Seconds since Startup. */
	GetAbsoluteTime() float64
}

// normalizeMouse maps a cursor position in window pixels to [-0.5, 0.5].
func normalizeMouse(x, y float64, width, height uint32) (float32, float32) {
	if width == 0 || height == 0 {
		return 0, 0
	}
	return float32(x/float64(width)) - 0.5, float32(y/float64(height)) - 0.5
}

// boolAxis turns two opposite buttons into -1, 0 or 1.
func boolAxis(positive, negative bool) float32 {
	var v float32
	if positive {
		v++
	}
	if negative {
		v--
	}
	return v
}

func fireResize(events *core.EventSystem, width, height uint32) {
	if events == nil {
		return
	}
	events.Fire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: width, WindowHeight: height},
	})
}
