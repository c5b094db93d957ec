package core

import (
	"errors"
	"testing"
)

func TestIdentifierPoolReusesSlots(t *testing.T) {
	p := NewIdentifierPool(4)
	a := p.Acquire("a")
	b := p.Acquire("b")
	c := p.Acquire("c")
	if a != 1 || b != 2 || c != 3 {
		t.Fatalf("got ids %d, %d, %d, want 1, 2, 3", a, b, c)
	}
	if err := p.Release(b); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if got := p.Acquire("d"); got != b {
		t.Errorf("got id %d, want the released slot %d", got, b)
	}
	if got := p.Live(); got != 3 {
		t.Errorf("got %d live ids, want 3", got)
	}
	if owner, ok := p.Owner(b); !ok || owner != "d" {
		t.Errorf("got owner %v (%v), want d", owner, ok)
	}
}

func TestIdentifierPoolRelease(t *testing.T) {
	p := NewIdentifierPool(0)
	id := p.Acquire(nil)
	if id != 1 {
		t.Fatalf("got id %d, want 1", id)
	}
	if _, ok := p.Owner(id); !ok {
		t.Errorf("nil owner was not recorded")
	}
	tests := []struct {
		name string
		id   uint32
	}{
		{name: "zero", id: 0},
		{name: "out of range", id: 9},
	}
	for _, tt := range tests {
		if err := p.Release(tt.id); !errors.Is(err, ErrInvalidHandle) {
			t.Errorf("%s: got %v, want ErrInvalidHandle", tt.name, err)
		}
	}
	if err := p.Release(id); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := p.Release(id); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("double release: got %v, want ErrInvalidHandle", err)
	}
	if p.Live() != 0 {
		t.Errorf("got %d live ids, want 0", p.Live())
	}
}
