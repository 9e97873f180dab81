package core

import (
	"testing"
	"time"
)

// TestFiberPool_EnqueueTryDequeue tests the non-blocking path.
// Given: an empty pool
// When: a fiber is enqueued
// Then: tryDequeue immediately returns it, and a second tryDequeue
// reports empty
func TestFiberPool_EnqueueTryDequeue(t *testing.T) {
	p := newFiberPool(4)

	if _, ok := p.tryDequeue(); ok {
		t.Fatalf("tryDequeue on empty pool: expected ok=false")
	}

	f := newFiber(1)
	p.enqueue(f)

	got, ok := p.tryDequeue()
	if !ok || got != f {
		t.Fatalf("tryDequeue: got (%v, %v), want (%v, true)", got, ok, f)
	}

	if _, ok := p.tryDequeue(); ok {
		t.Fatalf("tryDequeue after drain: expected ok=false")
	}
}

// TestFiberPool_WaitDequeueBlocksUntilEnqueue tests the blocking path
// used by WaitForCounter's slow path.
// Given: an empty pool
// When: waitDequeue is called concurrently with a delayed enqueue
// Then: waitDequeue returns the enqueued fiber rather than a stale one
func TestFiberPool_WaitDequeueBlocksUntilEnqueue(t *testing.T) {
	p := newFiberPool(1)
	f := newFiber(7)

	resultCh := make(chan *fiber, 1)
	go func() {
		resultCh <- p.waitDequeue()
	}()

	select {
	case <-resultCh:
		t.Fatalf("waitDequeue returned before any fiber was enqueued")
	case <-time.After(20 * time.Millisecond):
	}

	p.enqueue(f)

	select {
	case got := <-resultCh:
		if got != f {
			t.Fatalf("waitDequeue: got %v, want %v", got, f)
		}
	case <-time.After(time.Second):
		t.Fatalf("waitDequeue did not return after enqueue")
	}
}

// TestFiberPool_Len tests that len reflects idle depth.
func TestFiberPool_Len(t *testing.T) {
	p := newFiberPool(3)
	for i := 0; i < 3; i++ {
		p.enqueue(newFiber(uint64(i)))
	}
	if got := p.len(); got != 3 {
		t.Fatalf("len = %d, want 3", got)
	}
}
