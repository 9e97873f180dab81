// Package heap is a minimal stand-in for the tagged heap and per-fiber
// linear allocator that the C++ original threads through every task
// alongside the scheduler itself. The Non-goals explicitly scope out a
// complete allocator; what's here is just enough for a task to carve
// out scratch memory tagged by name and have it released in bulk,
// mirroring the shape of `allocator->allocate(...)` calls in the
// original rather than their full arena-recycling behavior.
package heap

import "sync"

// Heap buckets byte slices by an arbitrary caller-chosen tag. It is
// safe for concurrent use: the allocators of every fiber may Retain
// buffers into the same Heap at once. Nothing is handed to the Heap
// automatically; only Allocator.Retain adds to it.
type Heap struct {
	mu      sync.Mutex
	buckets map[string][][]byte
}

// NewHeap returns an empty tagged heap.
func NewHeap() *Heap {
	return &Heap{buckets: make(map[string][][]byte)}
}

// retain files buf under tag, keeping it alive for the lifetime of the
// Heap (or until ReleaseTag is called for that tag).
func (h *Heap) retain(tag string, buf []byte) {
	h.mu.Lock()
	h.buckets[tag] = append(h.buckets[tag], buf)
	h.mu.Unlock()
}

// ReleaseTag drops every buffer retained under tag, letting the
// garbage collector reclaim them. Callers typically tag scratch memory
// with a task or fiber identifier and release it on task completion.
func (h *Heap) ReleaseTag(tag string) {
	h.mu.Lock()
	delete(h.buckets, tag)
	h.mu.Unlock()
}

// Len reports how many buffers are currently retained under tag, for
// tests and diagnostics.
func (h *Heap) Len(tag string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.buckets[tag])
}

// Allocator is a bump allocator over a fixed-size arena, one per fiber,
// standing in for the original's per-fiber linear allocator. It is not
// safe for concurrent use — each fiber owns exactly one.
type Allocator struct {
	heap   *Heap
	tag    string
	arena  []byte
	offset int
}

// NewAllocator carves an arenaSize-byte arena for a single fiber,
// identified by tag for later bulk release via the owning Heap.
func NewAllocator(h *Heap, tag string, arenaSize int) *Allocator {
	return &Allocator{heap: h, tag: tag, arena: make([]byte, arenaSize)}
}

// Allocate returns an n-byte slice carved from the arena, or nil if the
// arena is exhausted. Unlike the original's allocator, which can grow a
// new block on exhaustion, this stand-in simply reports failure — tasks
// that need more than a fixed scratch budget should use the Heap
// directly instead.
func (a *Allocator) Allocate(n int) []byte {
	if a.offset+n > len(a.arena) {
		return nil
	}
	buf := a.arena[a.offset : a.offset+n]
	a.offset += n
	return buf
}

// Reset rewinds the arena to empty, for reuse by the next task run on
// this fiber.
func (a *Allocator) Reset() {
	a.offset = 0
}

// Retain hands buf off to the owning Heap under this allocator's tag,
// for memory that needs to outlive the arena reset.
func (a *Allocator) Retain(buf []byte) {
	a.heap.retain(a.tag, buf)
}
