package core

import "fmt"

// IdentifierPool hands out small integer ids, reusing released slots first.
// Slot 0 is never handed out so it can stay the invalid id.
type IdentifierPool struct {
	owners []interface{}
	live   int
}

func NewIdentifierPool(capacity int) *IdentifierPool {
	if capacity < 1 {
		capacity = 1
	}
	return &IdentifierPool{
		owners: make([]interface{}, 1, capacity+1),
	}
}

func (p *IdentifierPool) Acquire(owner interface{}) uint32 {
	if owner == nil {
		owner = struct{}{}
	}
	length := uint32(len(p.owners))
	for i := uint32(1); i < length; i++ {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			p.live++
			return i
		}
	}
	// No free slot, grow by one.
	p.owners = append(p.owners, owner)
	p.live++
	return uint32(len(p.owners) - 1)
}

func (p *IdentifierPool) Release(id uint32) error {
	if id == 0 || id >= uint32(len(p.owners)) {
		return fmt.Errorf("identifier pool release: id '%d' out of range (max=%d): %w", id, len(p.owners)-1, ErrInvalidHandle)
	}
	if p.owners[id] == nil {
		return fmt.Errorf("identifier pool release: id '%d' is not in use: %w", id, ErrInvalidHandle)
	}
	p.owners[id] = nil
	p.live--
	return nil
}

func (p *IdentifierPool) Owner(id uint32) (interface{}, bool) {
	if id == 0 || id >= uint32(len(p.owners)) || p.owners[id] == nil {
		return nil, false
	}
	return p.owners[id], true
}

// Live returns the number of ids currently acquired.
func (p *IdentifierPool) Live() int {
	return p.live
}
