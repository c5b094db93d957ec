package core

import "testing"

type listener struct{ name string }

func TestEventSystemPropagation(t *testing.T) {
	es := NewEventSystem()
	var calls []string
	first, second := &listener{"first"}, &listener{"second"}

	es.Register(EVENT_CODE_RESIZED, first, func(ctx EventContext) bool {
		calls = append(calls, "first")
		return ctx.Data != nil
	})
	es.Register(EVENT_CODE_RESIZED, second, func(EventContext) bool {
		calls = append(calls, "second")
		return false
	})

	if handled := es.Fire(EventContext{Type: EVENT_CODE_RESIZED}); handled {
		t.Errorf("got handled, want unhandled")
	}
	if handled := es.Fire(EventContext{Type: EVENT_CODE_RESIZED, Data: &SystemEvent{}}); !handled {
		t.Errorf("got unhandled, want handled")
	}
	want := []string{"first", "second", "first"}
	if len(calls) != len(want) {
		t.Fatalf("got calls %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: got %s, want %s", i, calls[i], want[i])
		}
	}
}

func TestEventSystemRegistration(t *testing.T) {
	es := NewEventSystem()
	l := &listener{"l"}
	var count int
	fn := func(EventContext) bool { count++; return false }

	if !es.Register(EVENT_CODE_APPLICATION_QUIT, l, fn) {
		t.Fatalf("first Register() returned false")
	}
	if es.Register(EVENT_CODE_APPLICATION_QUIT, l, fn) {
		t.Errorf("duplicate Register() returned true")
	}
	es.Fire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT})
	if count != 1 {
		t.Errorf("got %d calls, want 1", count)
	}

	if !es.Unregister(EVENT_CODE_APPLICATION_QUIT, l) {
		t.Errorf("Unregister() returned false")
	}
	if es.Unregister(EVENT_CODE_APPLICATION_QUIT, l) {
		t.Errorf("second Unregister() returned true")
	}
	es.Fire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT})
	if count != 1 {
		t.Errorf("got %d calls after unregister, want 1", count)
	}

	es.Register(EVENT_CODE_KEY_PRESSED, l, fn)
	es.Shutdown()
	es.Fire(EventContext{Type: EVENT_CODE_KEY_PRESSED})
	if count != 1 {
		t.Errorf("got %d calls after shutdown, want 1", count)
	}
}
