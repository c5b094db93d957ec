package components

// Pending holds a committed value and the next value that will replace it
// on Commit. Writers only ever touch the next value.
type Pending[T any] struct {
	current T
	next    T
	dirty   bool
}

func NewPending[T any](value T) Pending[T] {
	return Pending[T]{current: value, next: value, dirty: true}
}

// Current returns the committed value.
func (p *Pending[T]) Current() T {
	return p.current
}

// Next returns a pointer to the pending value and marks it dirty.
func (p *Pending[T]) Next() *T {
	p.dirty = true
	return &p.next
}

func (p *Pending[T]) Set(value T) {
	p.next = value
	p.dirty = true
}

func (p *Pending[T]) IsDirty() bool {
	return p.dirty
}

// Commit copies next into current. It reports whether anything was pending.
func (p *Pending[T]) Commit() bool {
	if !p.dirty {
		return false
	}
	p.current = p.next
	p.dirty = false
	return true
}
