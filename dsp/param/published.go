package param

import (
	"sync"
	"sync/atomic"
)

// Published holds an immutable snapshot of T.
//
// The zero value is not usable; construct with [NewPublished].
type Published[T any] struct {
	mu  sync.Mutex
	cur atomic.Pointer[T]
}

// NewPublished returns a Published holding a copy of initial.
func NewPublished[T any](initial T) *Published[T] {
	p := &Published[T]{}
	p.cur.Store(&initial)

	return p
}

// Load returns the current snapshot. The returned value must be treated as
// read-only.
func (p *Published[T]) Load() *T {
	return p.cur.Load()
}

// Update copies the current snapshot, lets fn modify the copy and publishes
// it. If fn returns an error nothing is published. Concurrent Update calls
// are serialized; readers never observe a partially modified value.
func (p *Published[T]) Update(fn func(*T) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := *p.cur.Load()
	if err := fn(&next); err != nil {
		return err
	}

	p.cur.Store(&next)

	return nil
}

// Store replaces the snapshot with v.
func (p *Published[T]) Store(v T) {
	p.mu.Lock()
	p.cur.Store(&v)
	p.mu.Unlock()
}
