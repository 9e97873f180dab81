package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig() SchedulerConfig {
	cfg := *DefaultSchedulerConfig()
	cfg.DisableAffinity = true
	return cfg
}

// TestScheduler_Singleton tests the simplest possible submission.
// Given: one task that sets x := 42
// When: its counter is waited on for 0
// Then: x == 42 once WaitForCounter returns
func TestScheduler_Singleton(t *testing.T) {
	s, ctx, err := Initialize(16, testConfig())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer s.Quit()

	var x atomic.Int64
	counter := s.AddTask(TaskEntry{
		Fn: func(ctx context.Context, env Env, arg any) {
			x.Store(42)
		},
	})
	s.WaitForCounter(ctx, counter, 0)

	if got := x.Load(); got != 42 {
		t.Fatalf("x = %d, want 42", got)
	}
}

// TestScheduler_FanOut tests a wide batch submission.
// Given: N=1000 tasks each incrementing a shared atomic integer
// When: the shared counter is waited on for 0
// Then: the atomic equals 1000
func TestScheduler_FanOut(t *testing.T) {
	s, ctx, err := Initialize(64, testConfig())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer s.Quit()

	const n = 1000
	var total atomic.Int64
	entries := make([]TaskEntry, n)
	for i := range entries {
		entries[i] = TaskEntry{
			Fn: func(ctx context.Context, env Env, arg any) {
				total.Add(1)
			},
		}
	}

	counter := s.AddTasks(entries)
	s.WaitForCounter(ctx, counter, 0)

	if got := total.Load(); got != n {
		t.Fatalf("total = %d, want %d", got, n)
	}
}

// TestScheduler_Chain tests a task that submits and waits on a child.
// Given: task A, which submits task B and waits on B's counter; B sets
// done := true
// When: A is waited on
// Then: A returns only after done is true
func TestScheduler_Chain(t *testing.T) {
	s, ctx, err := Initialize(32, testConfig())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer s.Quit()

	var done atomic.Bool
	counterA := s.AddTask(TaskEntry{
		Fn: func(ctx context.Context, env Env, arg any) {
			counterB := env.Scheduler.AddTask(TaskEntry{
				Fn: func(ctx context.Context, env Env, arg any) {
					done.Store(true)
				},
			})
			env.Scheduler.WaitForCounter(ctx, counterB, 0)

			if !done.Load() {
				t.Errorf("task A resumed before task B set done")
			}
		},
	})

	s.WaitForCounter(ctx, counterA, 0)

	if !done.Load() {
		t.Fatalf("done was never set")
	}
}

// TestScheduler_NoWaitFastPath tests that an already-satisfied counter
// short-circuits WaitForCounter: it must return immediately, touching
// neither the fiber pool nor the waiting set.
func TestScheduler_NoWaitFastPath(t *testing.T) {
	s, ctx, err := Initialize(4, testConfig())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer s.Quit()

	counter := NewCounter(0)
	before := s.fibers.len()

	returned := make(chan struct{})
	go func() {
		s.WaitForCounter(ctx, counter, 0)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatalf("WaitForCounter did not return immediately on the fast path")
	}

	if after := s.fibers.len(); after != before {
		t.Fatalf("fiber pool depth changed on the fast path: before=%d after=%d", before, after)
	}
	if got := s.waiting.len(); got != 0 {
		t.Fatalf("waiting set depth = %d, want 0 on the fast path", got)
	}
}

// TestScheduler_Shutdown tests that once every submitted counter has
// reached zero, Quit returns within a bounded time.
func TestScheduler_Shutdown(t *testing.T) {
	s, ctx, err := Initialize(16, testConfig())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	counter := s.AddTask(TaskEntry{Fn: func(ctx context.Context, env Env, arg any) {}})
	s.WaitForCounter(ctx, counter, 0)

	quitReturned := make(chan struct{})
	go func() {
		s.Quit()
		close(quitReturned)
	}()

	select {
	case <-quitReturned:
	case <-time.After(5 * time.Second):
		t.Fatalf("Quit did not return within the bounded time")
	}
}
