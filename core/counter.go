package core

import "sync/atomic"

// Counter is the atomic rendezvous point a group of tasks decrements as
// each one completes. Identity, not value, is what waiters match against —
// two counters with the same value are never the same counter.
type Counter struct {
	v atomic.Int64
}

// NewCounter returns a counter initialized to initial.
func NewCounter(initial int64) *Counter {
	c := &Counter{}
	c.v.Store(initial)
	return c
}

// Load reads the current value. Acquire-ordered.
func (c *Counter) Load() int64 {
	return c.v.Load()
}

// Store sets the value.
func (c *Counter) Store(v int64) {
	c.v.Store(v)
}

// fetchSub decrements the counter by one and returns the value it had
// beforehand. Release-ordered: writes a task performed before returning
// happen-before any observer that witnesses this decrement.
func (c *Counter) fetchSub() int64 {
	return c.v.Add(-1) + 1
}
