package core

import "github.com/spaghettifunk/nabla/engine/math"

type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyLCtrl
	KeyLShift
	KeyLAlt
	KeyMouse0
	KeyMouse1
	KeyMouse2
	KeyCount
)

type Axis int

const (
	AxisLeft Axis = iota
	AxisRight
	AxisCount
)

/**
 * @brief Per-frame input snapshot. It is owned by the frame driver, fed by the
 * platform once per PumpMessages and advanced with Update at the end of a frame.
 */
type InputState struct {
	keys         [KeyCount]bool
	previousKeys [KeyCount]bool
	axes         [AxisCount]math.Vec2

	mousePosition math.Vec2
	mouseDelta    math.Vec2
	mouseScroll   float32
}

func NewInputState() *InputState {
	return &InputState{}
}

// Update ends the frame: current keys become previous keys and the scroll resets.
func (s *InputState) Update() {
	s.previousKeys = s.keys
	s.mouseScroll = 0
}

func (s *InputState) FeedKeys(keys [KeyCount]bool) {
	s.keys = keys
}

func (s *InputState) FeedKey(key Key, pressed bool) {
	if !validKey(key) {
		return
	}
	s.keys[key] = pressed
}

func (s *InputState) FeedAxes(axes [AxisCount]math.Vec2) {
	s.axes = axes
}

// FeedMousePosition stores the cursor position, normalised to [-0.5, 0.5] of the window.
func (s *InputState) FeedMousePosition(position math.Vec2) {
	s.mousePosition = position
}

func (s *InputState) FeedMouseDelta(delta math.Vec2) {
	s.mouseDelta = delta
}

func (s *InputState) FeedMouseScroll(scroll float32) {
	s.mouseScroll = scroll
}

// KeyDown is true only on the frame the key went down.
func (s *InputState) KeyDown(key Key) bool {
	if !validKey(key) {
		LogWarn("Invalid key code: %d", key)
		return false
	}
	return s.keys[key] && !s.previousKeys[key]
}

// KeyUp is true only on the frame the key was released.
func (s *InputState) KeyUp(key Key) bool {
	if !validKey(key) {
		LogWarn("Invalid key code: %d", key)
		return false
	}
	return !s.keys[key] && s.previousKeys[key]
}

func (s *InputState) KeyHeld(key Key) bool {
	if !validKey(key) {
		LogWarn("Invalid key code: %d", key)
		return false
	}
	return s.keys[key]
}

func (s *InputState) GetAxis(axis Axis) math.Vec2 {
	if axis < 0 || axis >= AxisCount {
		LogWarn("Invalid axis: %d", axis)
		return math.NewVec2Zero()
	}
	return s.axes[axis]
}

func (s *InputState) GetMousePosition() math.Vec2 {
	return s.mousePosition
}

func (s *InputState) GetMouseDelta() math.Vec2 {
	return s.mouseDelta
}

func (s *InputState) GetMouseScroll() float32 {
	return s.mouseScroll
}

func validKey(key Key) bool {
	return key >= 0 && key < KeyCount
}
