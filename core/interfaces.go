package core

import "time"

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting scheduler metrics.
// Implementations can send metrics to monitoring systems (Prometheus,
// StatsD, etc.). All methods are optional; implementations should handle
// nil receivers gracefully. Methods should be non-blocking and fast —
// they are called from the executor's hot path.
type Metrics interface {
	// RecordTaskDuration records how long a task's entry point took to run.
	RecordTaskDuration(duration time.Duration)

	// RecordFiberPoolDepth records the fiber pool's current idle depth.
	RecordFiberPoolDepth(depth int)

	// RecordWaitingSetDepth records the waiting-task set's current size.
	RecordWaitingSetDepth(depth int)

	// RecordQueueDepth records the task queue's current depth.
	RecordQueueDepth(depth int)

	// RecordCounterWaitLatency records how long a call to WaitForCounter
	// spent parked before its counter reached the target value. Not
	// called on the no-wait fast path, which never parks.
	RecordCounterWaitLatency(latency time.Duration)
}

// NilMetrics is the default no-op Metrics implementation.
type NilMetrics struct{}

func (m *NilMetrics) RecordTaskDuration(duration time.Duration)      {}
func (m *NilMetrics) RecordFiberPoolDepth(depth int)                 {}
func (m *NilMetrics) RecordWaitingSetDepth(depth int)                {}
func (m *NilMetrics) RecordQueueDepth(depth int)                     {}
func (m *NilMetrics) RecordCounterWaitLatency(latency time.Duration) {}

// =============================================================================
// SchedulerConfig: Configuration for Initialize
// =============================================================================

// SchedulerConfig holds the optional dependencies Initialize accepts
// beyond the fiber pool size itself. All fields are optional; zero
// values fall back to sane defaults. There are no environment
// variables and no config files — this struct is the entire
// configuration surface.
type SchedulerConfig struct {
	// Logger receives diagnostic output from the scheduler's own
	// lifecycle (Initialize, Quit); never from inside tasks themselves.
	// Defaults to NoOpLogger.
	Logger Logger

	// Metrics records scheduler-internal gauges and histograms. Defaults
	// to NilMetrics.
	Metrics Metrics

	// DisableAffinity skips pinning worker threads to cores, useful on
	// platforms or in test environments where SchedSetaffinity is
	// unavailable or undesirable. Affinity is attempted by default.
	DisableAffinity bool
}

// DefaultSchedulerConfig returns a config with default dependencies.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Logger:  NewNoOpLogger(),
		Metrics: &NilMetrics{},
	}
}
