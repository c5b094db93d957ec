package platform

import (
	"time"

	"github.com/spaghettifunk/nabla/engine/core"
)

// InputScript feeds synthetic input for a frame. Frame numbers start at 0.
type InputScript func(frame uint64, input *core.InputState)

/**
 * @brief A windowless platform that runs a fixed number of frames. A frame
 * limit of 0 runs until Quit is called.
 */
type HeadlessPlatform struct {
	events *core.EventSystem

	frameLimit uint64
	frame      uint64
	quit       bool

	width   uint32
	height  uint32
	resized bool

	mouseCaptured bool
	swaps         uint64
	start         time.Time

	script InputScript
}

func NewHeadlessPlatform(frameLimit uint64, events *core.EventSystem) *HeadlessPlatform {
	return &HeadlessPlatform{
		events:     events,
		frameLimit: frameLimit,
	}
}

// SetInputScript installs a callback that fills the input state on every pump.
func (p *HeadlessPlatform) SetInputScript(script InputScript) {
	p.script = script
}

func (p *HeadlessPlatform) Startup(config Config) error {
	p.width = config.Width
	p.height = config.Height
	p.start = time.Now()
	core.LogInfo("Headless platform started (%dx%d, %d frames)", p.width, p.height, p.frameLimit)
	return nil
}

func (p *HeadlessPlatform) Shutdown() error {
	return nil
}

func (p *HeadlessPlatform) PumpMessages(input *core.InputState) bool {
	if p.quit || (p.frameLimit > 0 && p.frame >= p.frameLimit) {
		return false
	}
	if p.script != nil {
		p.script(p.frame, input)
	}
	p.frame++
	return true
}

// Resize simulates the window framebuffer changing size.
func (p *HeadlessPlatform) Resize(width, height uint32) {
	p.width, p.height = width, height
	p.resized = true
	fireResize(p.events, width, height)
}

// Quit makes the next PumpMessages report that the window closed.
func (p *HeadlessPlatform) Quit() {
	p.quit = true
}

func (p *HeadlessPlatform) GetFramebufferSize() (uint32, uint32) {
	return p.width, p.height
}

func (p *HeadlessPlatform) HasBeenResized() bool {
	resized := p.resized
	p.resized = false
	return resized
}

func (p *HeadlessPlatform) SetMouseCapture(capture bool) {
	p.mouseCaptured = capture
}

func (p *HeadlessPlatform) MouseCaptured() bool {
	return p.mouseCaptured
}

func (p *HeadlessPlatform) SwapBuffers() {
	p.swaps++
}

// Swaps returns how many frames were presented.
func (p *HeadlessPlatform) Swaps() uint64 {
	return p.swaps
}

func (p *HeadlessPlatform) GetAbsoluteTime() float64 {
	return time.Since(p.start).Seconds()
}
