package core

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed. Data is a *KeyEvent.
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Keyboard key released. Data is a *KeyEvent.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03

	// Mouse wheel moved. Data is a *MouseEvent.
	EVENT_CODE_MOUSE_WHEEL SystemEventCode = 0x07

	// Resized/resolution changed from the OS. Data is a *SystemEvent.
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// An asset file changed on disk. Data is a *AssetEvent.
	EVENT_CODE_ASSET_MODIFIED SystemEventCode = 0x09

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

type KeyEvent struct {
	Key Key
}

type MouseEvent struct {
	Scroll float32
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type AssetEvent struct {
	Path string
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventSystem dispatches events synchronously on the calling goroutine.
type EventSystem struct {
	registered map[SystemEventCode][]registeredEvent
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[SystemEventCode][]registeredEvent),
	}
}

func (es *EventSystem) Shutdown() error {
	es.registered = make(map[SystemEventCode][]registeredEvent)
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. A listener
 * can only be registered once per code; duplicates return false.
 * @param code The event code to listen for.
 * @param listener The listener instance, used as the registration key.
 * @param onEvent The callback invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	for _, e := range es.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	es.registered[code] = append(es.registered[code], registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code.
 * @returns true if the event is successfully unregistered; otherwise false.
 */
func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) bool {
	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			es.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func (es *EventSystem) Fire(context EventContext) bool {
	for _, e := range es.registered[context.Type] {
		if e.callback(context) {
			return true
		}
	}
	return false
}
