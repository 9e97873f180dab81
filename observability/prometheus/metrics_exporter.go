package prometheus

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofibersched/fibersched/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets    []float64
	WaitLatencyBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors: task
// duration and counter-wait latency as histograms, the three internal
// queue depths (fiber pool, waiting set, task queue) as gauges.
type MetricsExporter struct {
	taskDurationSeconds       prom.Histogram
	counterWaitLatencySeconds prom.Histogram
	fiberPoolDepth            prom.Gauge
	waitingSetDepth           prom.Gauge
	queueDepth                prom.Gauge
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "fibersched"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	durationBuckets := opts.DurationBuckets
	if len(durationBuckets) == 0 {
		durationBuckets = prom.DefBuckets
	}
	waitBuckets := opts.WaitLatencyBuckets
	if len(waitBuckets) == 0 {
		waitBuckets = prom.DefBuckets
	}

	taskDuration := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task entry point execution duration in seconds.",
		Buckets:   durationBuckets,
	})
	counterWaitLatency := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "counter_wait_latency_seconds",
		Help:      "Time a fiber spent parked in WaitForCounter before its counter reached the target value.",
		Buckets:   waitBuckets,
	})
	fiberPoolDepth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "fiber_pool_depth",
		Help:      "Current number of idle fibers in the fiber pool.",
	})
	waitingSetDepth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "waiting_set_depth",
		Help:      "Current number of fibers parked in the waiting-task set.",
	})
	queueDepth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of task bundles in the task queue.",
	})

	var err error
	if taskDuration, err = registerCollector(reg, taskDuration); err != nil {
		return nil, err
	}
	if counterWaitLatency, err = registerCollector(reg, counterWaitLatency); err != nil {
		return nil, err
	}
	if fiberPoolDepth, err = registerCollector(reg, fiberPoolDepth); err != nil {
		return nil, err
	}
	if waitingSetDepth, err = registerCollector(reg, waitingSetDepth); err != nil {
		return nil, err
	}
	if queueDepth, err = registerCollector(reg, queueDepth); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds:       taskDuration,
		counterWaitLatencySeconds: counterWaitLatency,
		fiberPoolDepth:            fiberPoolDepth,
		waitingSetDepth:           waitingSetDepth,
		queueDepth:                queueDepth,
	}, nil
}

// RecordTaskDuration records task execution duration.
func (m *MetricsExporter) RecordTaskDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.Observe(duration.Seconds())
}

// RecordCounterWaitLatency records time spent parked in WaitForCounter.
func (m *MetricsExporter) RecordCounterWaitLatency(latency time.Duration) {
	if m == nil {
		return
	}
	m.counterWaitLatencySeconds.Observe(latency.Seconds())
}

// RecordFiberPoolDepth records the fiber pool's current idle depth.
func (m *MetricsExporter) RecordFiberPoolDepth(depth int) {
	if m == nil {
		return
	}
	m.fiberPoolDepth.Set(float64(depth))
}

// RecordWaitingSetDepth records the waiting-task set's current size.
func (m *MetricsExporter) RecordWaitingSetDepth(depth int) {
	if m == nil {
		return
	}
	m.waitingSetDepth.Set(float64(depth))
}

// RecordQueueDepth records the task queue's current depth.
func (m *MetricsExporter) RecordQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
