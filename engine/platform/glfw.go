package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/engine/math"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

var keyMap = [core.KeyCount]glfw.Key{
	core.KeyUp:        glfw.KeyUp,
	core.KeyDown:      glfw.KeyDown,
	core.KeyLeft:      glfw.KeyLeft,
	core.KeyRight:     glfw.KeyRight,
	core.KeySpace:     glfw.KeySpace,
	core.KeyEnter:     glfw.KeyEnter,
	core.KeyEscape:    glfw.KeyEscape,
	core.KeyBackspace: glfw.KeyBackspace,
	core.KeyTab:       glfw.KeyTab,
	core.KeyLCtrl:     glfw.KeyLeftControl,
	core.KeyLShift:    glfw.KeyLeftShift,
	core.KeyLAlt:      glfw.KeyLeftAlt,
}

var mouseMap = map[core.Key]glfw.MouseButton{
	core.KeyMouse0: glfw.MouseButtonLeft,
	core.KeyMouse1: glfw.MouseButtonRight,
	core.KeyMouse2: glfw.MouseButtonMiddle,
}

/**
 * @brief A GLFW window with an OpenGL 4.1 core context made current on the
 * calling thread.
 */
type GLFWPlatform struct {
	Window *glfw.Window
	events *core.EventSystem

	startTime float64
	width     uint32
	height    uint32
	resized   bool

	mouseCaptured bool
	scroll        float32
}

func NewGLFWPlatform(events *core.EventSystem) *GLFWPlatform {
	return &GLFWPlatform{events: events}
}

func (p *GLFWPlatform) Startup(config Config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(config.Width), int(config.Height), config.ApplicationName, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetScrollCallback(p.scrollCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetPos(int(config.X), int(config.Y))
	p.Window.Show()

	fbWidth, fbHeight := p.Window.GetFramebufferSize()
	p.width, p.height = uint32(fbWidth), uint32(fbHeight)
	p.startTime = glfw.GetTime()

	return nil
}

func (p *GLFWPlatform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *GLFWPlatform) PumpMessages(input *core.InputState) bool {
	p.scroll = 0
	glfw.PollEvents()
	if p.Window.ShouldClose() {
		return false
	}
	p.feedInput(input)
	return true
}

func (p *GLFWPlatform) feedInput(input *core.InputState) {
	var keys [core.KeyCount]bool
	for k, glfwKey := range keyMap {
		if glfwKey == 0 {
			continue
		}
		keys[k] = p.Window.GetKey(glfwKey) == glfw.Press
	}
	for k, button := range mouseMap {
		keys[k] = p.Window.GetMouseButton(button) == glfw.Press
	}
	input.FeedKeys(keys)

	pressed := func(k glfw.Key) bool { return p.Window.GetKey(k) == glfw.Press }
	var axes [core.AxisCount]math.Vec2
	axes[core.AxisLeft] = math.NewVec2(
		boolAxis(pressed(glfw.KeyA), pressed(glfw.KeyD)),
		boolAxis(pressed(glfw.KeyS), pressed(glfw.KeyW)),
	)
	input.FeedAxes(axes)

	input.FeedMouseScroll(p.scroll)

	winWidth, winHeight := p.Window.GetSize()
	x, y := p.Window.GetCursorPos()
	localX, localY := normalizeMouse(x, y, uint32(winWidth), uint32(winHeight))
	previous := input.GetMousePosition()
	input.FeedMousePosition(math.NewVec2(localX, localY))
	input.FeedMouseDelta(math.NewVec2(localX-previous.X, localY-previous.Y))
}

func (p *GLFWPlatform) GetFramebufferSize() (uint32, uint32) {
	return p.width, p.height
}

func (p *GLFWPlatform) HasBeenResized() bool {
	resized := p.resized
	p.resized = false
	return resized
}

func (p *GLFWPlatform) SetMouseCapture(capture bool) {
	if capture {
		p.Window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		p.Window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	p.mouseCaptured = capture
}

func (p *GLFWPlatform) SwapBuffers() {
	p.Window.SwapBuffers()
}

func (p *GLFWPlatform) GetAbsoluteTime() float64 {
	return glfw.GetTime() - p.startTime
}

func (p *GLFWPlatform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if p.events == nil || action == glfw.Repeat {
		return
	}
	for k, glfwKey := range keyMap {
		if glfwKey != key || glfwKey == 0 {
			continue
		}
		code := core.EVENT_CODE_KEY_PRESSED
		if action == glfw.Release {
			code = core.EVENT_CODE_KEY_RELEASED
		}
		p.events.Fire(core.EventContext{Type: code, Data: &core.KeyEvent{Key: core.Key(k)}})
		return
	}
}

func (p *GLFWPlatform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.scroll = float32(yoff)
	if p.events != nil {
		p.events.Fire(core.EventContext{Type: core.EVENT_CODE_MOUSE_WHEEL, Data: &core.MouseEvent{Scroll: p.scroll}})
	}
}

func (p *GLFWPlatform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.width, p.height = uint32(width), uint32(height)
	p.resized = true
	fireResize(p.events, p.width, p.height)
}

func (p *GLFWPlatform) closeCallback(w *glfw.Window) {
	if p.events != nil {
		p.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	}
}
