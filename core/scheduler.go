package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofibersched/fibersched/internal/heap"
)

// defaultArenaSize is the scratch budget handed to each fiber's linear
// allocator. Tasks that need more should retain memory on the Heap
// directly instead (see internal/heap).
const defaultArenaSize = 64 * 1024

// Scheduler is the lifecycle, thread/fiber creation and teardown, and
// public submit/wait API all in one: it owns the task queue, the fiber
// pool, and the waiting-task set, and drives the W pinned worker
// threads and F pooled worker fibers that run the executor loop.
type Scheduler struct {
	logger  Logger
	metrics Metrics
	heap    *heap.Heap

	queue   *taskQueue
	fibers  *fiberPool
	waiting *waitSet

	quit atomic.Bool
	wg   sync.WaitGroup // worker threads for slots [1, W)

	nextFiberID atomic.Uint64
	numWorkers  int
}

// newFiberInternal allocates a fresh fiber identity together with its
// own per-fiber allocator, carved from the scheduler's shared heap.
func (s *Scheduler) newFiberInternal() *fiber {
	id := s.nextFiberID.Add(1)
	f := newFiber(id)
	f.alloc = heap.NewAllocator(s.heap, fmt.Sprintf("fiber-%d", id), defaultArenaSize)
	return f
}

// Initialize builds the fiber pool, pins and launches the worker
// threads, and returns the scheduler together with a context.Context
// carrying the calling goroutine's own fiber identity (slot 0, which
// never itself enters the executor loop — see the notes below). The only
// error it returns is for a non-positive fiberPoolSize.
func Initialize(fiberPoolSize int, cfg SchedulerConfig) (*Scheduler, context.Context, error) {
	if fiberPoolSize <= 0 {
		return nil, nil, fmt.Errorf("core: fiber pool size must be positive, got %d", fiberPoolSize)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = NewNoOpLogger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = &NilMetrics{}
	}

	w := numLogicalCores()
	if w < 1 {
		w = 1
	}

	s := &Scheduler{
		logger:     logger,
		metrics:    metrics,
		heap:       heap.NewHeap(),
		queue:      newTaskQueue(),
		fibers:     newFiberPool(fiberPoolSize),
		waiting:    newWaitSet(),
		numWorkers: w,
	}

	baseCtx := context.Background()

	// Pre-create the worker fibers, each backed by a goroutine that
	// waits to be launched, then enqueue them all into the pool.
	for i := 0; i < fiberPoolSize; i++ {
		f := s.newFiberInternal()
		go func(f *fiber) {
			f.park()
			if s.quit.Load() {
				return
			}
			s.runExecutor(ContextWithFiber(baseCtx, f))
		}(f)
		s.fibers.enqueue(f)
	}
	metrics.RecordFiberPoolDepth(s.fibers.len())

	// Slot 0 is the calling goroutine. It is given a fiber identity but
	// deliberately never enters the executor loop — callers submit work
	// and wait on counters directly from their own goroutine, exactly
	// as the fiber pool's worker threads do from inside a task.
	if !cfg.DisableAffinity {
		runtime.LockOSThread()
		if err := pinToCore(0); err != nil {
			logger.Warn("failed to pin calling thread to core 0", F("error", err))
		}
	}
	bootstrap := s.newFiberInternal()
	rootCtx := ContextWithFiber(baseCtx, bootstrap)

	// Slots [1, W) — one pinned OS thread each, converted in-place into
	// a fiber that runs the executor loop inline.
	s.wg.Add(w - 1)
	for i := 1; i < w; i++ {
		go func(core int) {
			defer s.wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			if !cfg.DisableAffinity {
				if err := pinToCore(core); err != nil {
					logger.Warn("failed to pin worker thread to core", F("core", core), F("error", err))
				}
			}
			wf := s.newFiberInternal()
			s.runExecutor(ContextWithFiber(baseCtx, wf))
		}(i)
	}

	logger.Info("scheduler initialized", F("workers", w), F("fiber_pool_size", fiberPoolSize))
	return s, rootCtx, nil
}

// runExecutor is the main loop, run inline by the bootstrap fiber of
// every worker thread in slots [1, W) and by every pool fiber once
// launched. ctx must carry this fiber's own
// identity (see ContextWithFiber).
func (s *Scheduler) runExecutor(ctx context.Context) {
	self := fiberFromContext(ctx)
	for {
		if s.quit.Load() {
			return
		}

		// Waiters are strictly preferred over new tasks — a dependent
		// task's wakeup must never be starved by a flood of fresh
		// submissions.
		if entry, ok := s.waiting.scanAndTakeReady(); ok {
			s.metrics.RecordWaitingSetDepth(s.waiting.len())
			s.switchTo(self, entry.fiber)
			continue
		}

		// Otherwise, try a task.
		if b, ok := s.queue.tryDequeue(); ok {
			s.metrics.RecordQueueDepth(s.queue.len())
			s.runTask(ctx, b)
			continue
		}

		// Queue and waiting set both empty: yield the OS thread. This
		// is a cooperative hint, not a blocking wait.
		runtime.Gosched()
	}
}

// switchTo is the fiber-switch primitive: recycle the outgoing fiber
// into the pool, wake the target, then park. When self is later
// rewoken (by whichever worker next dequeues it from the pool), control
// returns here and the caller's loop continues from the top.
func (s *Scheduler) switchTo(self, target *fiber) {
	s.fibers.enqueue(self)
	s.metrics.RecordFiberPoolDepth(s.fibers.len())
	target.wake()
	self.park()
}

// runTask invokes one task bundle's entry point and settles its
// counter. A task panic is never recovered here: it terminates the
// process, and the counter is left un-decremented, which is the
// documented (not accidental) deadlock behavior for any dependents
// still waiting on it.
func (s *Scheduler) runTask(ctx context.Context, b bundle) {
	self := fiberFromContext(ctx)
	env := Env{Scheduler: s, Heap: s.heap, Allocator: self.alloc}

	start := time.Now()
	b.entry.Fn(ctx, env, b.entry.Arg)
	s.metrics.RecordTaskDuration(time.Since(start))

	b.counter.fetchSub()
}

// AddTask submits a single task: a counter initialized to 1, one
// bundle enqueued, the counter handed back to the caller.
func (s *Scheduler) AddTask(entry TaskEntry) *Counter {
	c := NewCounter(1)
	s.queue.enqueue(bundle{entry: entry, counter: c})
	s.metrics.RecordQueueDepth(s.queue.len())
	return c
}

// AddTasks submits a batch of tasks sharing one counter, initialized to
// len(entries): one bundle per entry, all decrementing the same
// counter as they complete.
func (s *Scheduler) AddTasks(entries []TaskEntry) *Counter {
	c := NewCounter(int64(len(entries)))
	for _, e := range entries {
		s.queue.enqueue(bundle{entry: e, counter: c})
	}
	s.metrics.RecordQueueDepth(s.queue.len())
	return c
}

// WaitForCounter blocks the calling fiber until counter reaches target.
// ctx must carry a fiber identity (see fiberFromContext): either the
// ctx a task receives or the one Initialize returns for slot 0. With
// any other ctx it panics once it reaches the slow path; an
// already-satisfied counter returns before the identity is looked up.
func (s *Scheduler) WaitForCounter(ctx context.Context, counter *Counter, target int64) {
	// Fast path: never touches the fiber pool.
	if counter.Load() == target {
		return
	}

	start := time.Now()
	self := fiberFromContext(ctx)

	// Slow path: borrow a fresh fiber to keep this thread productive,
	// park self in the waiting set, then hand off. waitDequeue may
	// block — the one place this module accepts blocking an OS
	// thread, safe as long as the pool was sized to at least
	// W + max concurrent waiters, so some worker always has a fiber to
	// return here.
	next := s.fibers.waitDequeue()
	s.waiting.insert(waitEntry{fiber: self, counter: counter, target: target})
	s.metrics.RecordWaitingSetDepth(s.waiting.len())

	next.wake()
	self.park()

	// Control resumes here only once a worker's scan has observed
	// counter.Load() == target.
	s.metrics.RecordCounterWaitLatency(time.Since(start))
}

// Quit sets the quit flag, then tears down every worker thread and
// every fiber still sitting in the pool. Calling Quit while tasks are
// still outstanding is undefined behavior — callers are expected to
// have drained every counter they care about first.
//
// A worker thread parked mid-handoff inside switchTo is blocked on its
// own resume channel and sitting in the pool at the same time; nothing
// but a pool drain can unblock it, and nobody else is going to reach
// into the pool and wake it once every other worker has also noticed
// the quit flag and stopped looking. So the pool has to be drained and
// killed concurrently with — not after — joining the worker threads,
// or the join blocks forever on exactly that worker. A background
// drain loop keeps killing whatever shows up in the pool while the
// join is in progress; once every worker thread has exited, one final
// drain mops up fibers that were never launched in the first place
// (the ones still waiting on their very first wake from Initialize).
//
// Slot 0 (the calling goroutine) was never spawned as a goroutine, so
// there is nothing to exclude from the join set: wg only ever tracked
// the pinned worker threads, never slot 0 itself.
func (s *Scheduler) Quit() {
	s.quit.Store(true)

	stopDrain := make(chan struct{})
	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		for {
			select {
			case <-stopDrain:
				return
			default:
			}
			if f, ok := s.fibers.tryDequeue(); ok {
				f.kill()
				continue
			}
			runtime.Gosched()
		}
	}()

	s.wg.Wait()
	close(stopDrain)
	<-drainDone

	for {
		f, ok := s.fibers.tryDequeue()
		if !ok {
			break
		}
		f.kill()
	}

	s.logger.Info("scheduler stopped")
}

// Stats is a point-in-time snapshot of the scheduler's internal queue
// depths, used by observability/prometheus.SnapshotPoller.
type Stats struct {
	FiberPoolDepth  int
	WaitingSetDepth int
	QueueDepth      int
}

// Stats returns a snapshot of the scheduler's current depths.
func (s *Scheduler) Stats() Stats {
	return Stats{
		FiberPoolDepth:  s.fibers.len(),
		WaitingSetDepth: s.waiting.len(),
		QueueDepth:      s.queue.len(),
	}
}

// NumWorkers reports W, the number of logical processors discovered at
// Initialize.
func (s *Scheduler) NumWorkers() int {
	return s.numWorkers
}
