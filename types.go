package fibersched

import "github.com/gofibersched/fibersched/core"

// Re-export the core package's public types so callers need only
// import the root fibersched package for everyday use.

// TaskFunc is the scheduler's unit of work.
type TaskFunc = core.TaskFunc

// Env bundles the scheduler, heap, and allocator handles a task is
// given on every invocation.
type Env = core.Env

// TaskEntry pairs a TaskFunc with its argument.
type TaskEntry = core.TaskEntry

// Counter is the shared atomic completion rendezvous for a batch of tasks.
type Counter = core.Counter

// Scheduler is the fiber scheduler façade: lifecycle, submission, and
// the counter-wait primitive.
type Scheduler = core.Scheduler

// Stats is a point-in-time snapshot of a Scheduler's internal queue depths.
type Stats = core.Stats

// SchedulerConfig holds the optional dependencies Initialize accepts.
type SchedulerConfig = core.SchedulerConfig

// Logger and Field re-export the structured logging types used by SchedulerConfig.
type Logger = core.Logger
type Field = core.Field

// Metrics is the interface implementations provide to observe the
// scheduler's internal gauges and histograms.
type Metrics = core.Metrics

// F creates a new logging Field.
var F = core.F

// NewCounter creates a counter initialized to the given value, for
// callers that need to track completion without going through AddTask
// (e.g. a hand-rolled fan-in).
var NewCounter = core.NewCounter

// NewZerologLogger and NewNoOpLogger construct the two bundled Logger implementations.
var (
	NewZerologLogger = core.NewZerologLogger
	NewNoOpLogger    = core.NewNoOpLogger
)

// DefaultConfig returns a SchedulerConfig with default dependencies
// (no-op logger, no-op metrics, affinity enabled).
func DefaultConfig() SchedulerConfig {
	return *core.DefaultSchedulerConfig()
}

// Initialize creates the scheduler: fiberPoolSize worker fibers, W
// pinned worker threads (W = the number of logical processors), and
// returns a context.Context carrying the calling goroutine's own fiber
// identity for use with WaitForCounter.
var Initialize = core.Initialize
