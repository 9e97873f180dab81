package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/gofibersched/fibersched/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// SchedulerSnapshotProvider provides a point-in-time snapshot of a
// scheduler's internal queue depths.
type SchedulerSnapshotProvider interface {
	Stats() core.Stats
}

// SnapshotPoller periodically exports Scheduler.Stats() snapshots into
// Prometheus gauges. Unlike the hot-path Metrics interface (pushed by
// the executor loop as events happen), this is a pull: a ticker walks
// every registered scheduler and reads its current depths.
type SnapshotPoller struct {
	interval time.Duration

	mu         sync.RWMutex
	schedulers map[string]SchedulerSnapshotProvider

	fiberPoolDepth  *prom.GaugeVec
	waitingSetDepth *prom.GaugeVec
	queueDepth      *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	fiberPoolDepth := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "fibersched",
		Name:      "snapshot_fiber_pool_depth",
		Help:      "Polled fiber pool depth per scheduler.",
	}, []string{"scheduler"})
	waitingSetDepth := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "fibersched",
		Name:      "snapshot_waiting_set_depth",
		Help:      "Polled waiting-task set depth per scheduler.",
	}, []string{"scheduler"})
	queueDepth := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "fibersched",
		Name:      "snapshot_queue_depth",
		Help:      "Polled task queue depth per scheduler.",
	}, []string{"scheduler"})

	var err error
	if fiberPoolDepth, err = registerCollector(reg, fiberPoolDepth); err != nil {
		return nil, err
	}
	if waitingSetDepth, err = registerCollector(reg, waitingSetDepth); err != nil {
		return nil, err
	}
	if queueDepth, err = registerCollector(reg, queueDepth); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:        interval,
		schedulers:      make(map[string]SchedulerSnapshotProvider),
		fiberPoolDepth:  fiberPoolDepth,
		waitingSetDepth: waitingSetDepth,
		queueDepth:      queueDepth,
	}, nil
}

// AddScheduler adds or replaces a scheduler snapshot provider by name.
func (p *SnapshotPoller) AddScheduler(name string, provider SchedulerSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "scheduler")
	p.mu.Lock()
	p.schedulers[name] = provider
	p.mu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for name, provider := range p.schedulers {
		stats := provider.Stats()
		p.fiberPoolDepth.WithLabelValues(name).Set(float64(stats.FiberPoolDepth))
		p.waitingSetDepth.WithLabelValues(name).Set(float64(stats.WaitingSetDepth))
		p.queueDepth.WithLabelValues(name).Set(float64(stats.QueueDepth))
	}
}
