package core

import (
	"context"

	"github.com/gofibersched/fibersched/internal/heap"
)

// TaskFunc is the scheduler's unit of work. It receives the environment
// handles threaded through from Initialize (scheduler, heap, allocator)
// and the opaque argument the submitter supplied; the scheduler never
// interprets arg itself.
type TaskFunc func(ctx context.Context, env Env, arg any)

// Env bundles the external collaborators a task is given a handle to.
// The scheduler only threads these pointers through; it never allocates
// from the heap or the allocator on a task's behalf.
type Env struct {
	Scheduler *Scheduler
	Heap      *heap.Heap
	Allocator *heap.Allocator
}

// TaskEntry pairs a TaskFunc with its argument, the shape AddTasks takes
// a batch of in.
type TaskEntry struct {
	Fn  TaskFunc
	Arg any
}

// bundle is a task together with a shared reference to the counter
// that tracks its completion. Ownership of counter is shared by the
// submitter and every bundle still referencing it; Go's garbage
// collector frees it once nothing does.
type bundle struct {
	entry   TaskEntry
	counter *Counter
}
