package platform

import (
	"testing"

	"github.com/spaghettifunk/nabla/engine/core"
)

func TestHeadlessRunsFrameLimit(t *testing.T) {
	p := NewHeadlessPlatform(3, nil)
	if err := p.Startup(Config{Width: 640, Height: 480}); err != nil {
		t.Fatalf("Startup() error = %v", err)
	}
	input := core.NewInputState()

	frames := 0
	for p.PumpMessages(input) {
		frames++
		if frames > 10 {
			t.Fatalf("PumpMessages never stopped")
		}
	}
	if frames != 3 {
		t.Fatalf("ran %d frames, want 3", frames)
	}
}

func TestHeadlessResizeFiresEvent(t *testing.T) {
	events := core.NewEventSystem()
	var got *core.SystemEvent
	events.Register(core.EVENT_CODE_RESIZED, t, func(ctx core.EventContext) bool {
		got = ctx.Data.(*core.SystemEvent)
		return true
	})

	p := NewHeadlessPlatform(0, events)
	p.Startup(Config{Width: 640, Height: 480})
	p.Resize(800, 600)

	if got == nil || got.WindowWidth != 800 || got.WindowHeight != 600 {
		t.Fatalf("resize event = %+v, want 800x600", got)
	}
	if !p.HasBeenResized() {
		t.Fatalf("HasBeenResized() = false after Resize")
	}
	if p.HasBeenResized() {
		t.Fatalf("HasBeenResized() should clear after being read")
	}
	if w, h := p.GetFramebufferSize(); w != 800 || h != 600 {
		t.Fatalf("GetFramebufferSize() = %dx%d, want 800x600", w, h)
	}
}

func TestHeadlessInputScript(t *testing.T) {
	p := NewHeadlessPlatform(2, nil)
	p.Startup(Config{Width: 100, Height: 100})
	p.SetInputScript(func(frame uint64, input *core.InputState) {
		input.FeedKey(core.KeySpace, frame == 1)
	})
	input := core.NewInputState()

	p.PumpMessages(input)
	if input.KeyHeld(core.KeySpace) {
		t.Fatalf("space held on frame 0")
	}
	input.Update()
	p.PumpMessages(input)
	if !input.KeyDown(core.KeySpace) {
		t.Fatalf("space not down on frame 1")
	}
}

func TestNormalizeMouse(t *testing.T) {
	tests := []struct {
		x, y         float64
		wantX, wantY float32
	}{
		{0, 0, -0.5, -0.5},
		{400, 300, 0, 0},
		{800, 600, 0.5, 0.5},
	}
	for _, tt := range tests {
		gotX, gotY := normalizeMouse(tt.x, tt.y, 800, 600)
		if gotX != tt.wantX || gotY != tt.wantY {
			t.Errorf("normalizeMouse(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, gotX, gotY, tt.wantX, tt.wantY)
		}
	}
	if x, y := normalizeMouse(10, 10, 0, 0); x != 0 || y != 0 {
		t.Errorf("normalizeMouse with zero size = (%v, %v), want (0, 0)", x, y)
	}
}

func TestBoolAxis(t *testing.T) {
	if got := boolAxis(true, false); got != 1 {
		t.Errorf("boolAxis(true, false) = %v, want 1", got)
	}
	if got := boolAxis(true, true); got != 0 {
		t.Errorf("boolAxis(true, true) = %v, want 0", got)
	}
	if got := boolAxis(false, true); got != -1 {
		t.Errorf("boolAxis(false, true) = %v, want -1", got)
	}
}
