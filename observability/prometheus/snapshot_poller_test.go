package prometheus

import (
	"context"
	"testing"
	"time"

	"github.com/gofibersched/fibersched/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type schedulerStub struct {
	stats core.Stats
}

func (s schedulerStub) Stats() core.Stats { return s.stats }

// Given a scheduler snapshot provider registered under a name, When the
// poller's ticker fires, Then its gauges reflect the provider's latest
// Stats() snapshot.
func TestSnapshotPoller_CollectsSchedulerStats(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	poller.AddScheduler("scheduler-a", schedulerStub{stats: core.Stats{
		FiberPoolDepth:  6,
		WaitingSetDepth: 2,
		QueueDepth:      9,
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	assertEventually(t, 2*time.Second, func() bool {
		fiberPool := testutil.ToFloat64(poller.fiberPoolDepth.WithLabelValues("scheduler-a"))
		queue := testutil.ToFloat64(poller.queueDepth.WithLabelValues("scheduler-a"))
		return fiberPool == 6 && queue == 9
	})

	if got := testutil.ToFloat64(poller.waitingSetDepth.WithLabelValues("scheduler-a")); got != 2 {
		t.Fatalf("waiting set depth gauge = %v, want 2", got)
	}
}

func TestSnapshotPoller_StartStop_Idempotent(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller.Start(ctx)
	poller.Start(ctx)
	poller.Stop()
	poller.Stop()
}

func assertEventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}
