package core

// fiberPool is the MPMC FIFO of idle fiber handles. A Go channel is
// itself a lock-free MPMC queue, so it is the natural carrier here; it
// is sized to the fiber pool's fixed capacity so enqueue — called from
// the hot fiber-switch path — can never block.
type fiberPool struct {
	ch chan *fiber
}

func newFiberPool(capacity int) *fiberPool {
	return &fiberPool{ch: make(chan *fiber, capacity)}
}

// enqueue returns a fiber to the pool. Never blocks: capacity equals the
// configured pool size F. Initialize also creates W bootstrap fibers
// outside the pool, and W fibers are always either running or parked in
// the waiting set, so no more than F fibers are ever idle at once.
func (p *fiberPool) enqueue(f *fiber) {
	p.ch <- f
}

// tryDequeue is the non-blocking pop, available for shutdown draining
// and diagnostics; not used on the hot path.
func (p *fiberPool) tryDequeue() (*fiber, bool) {
	select {
	case f := <-p.ch:
		return f, true
	default:
		return nil, false
	}
}

// waitDequeue blocks until a fiber is available. This is the one place
// the scheduler accepts blocking a worker thread — safe because every
// waiter promotion returns the promoting fiber to the pool, so as long as the pool was sized to at least W + max concurrent
// waiters, some worker always has one to retrieve.
func (p *fiberPool) waitDequeue() *fiber {
	return <-p.ch
}

// len reports the pool's current idle depth, for observability only.
func (p *fiberPool) len() int {
	return len(p.ch)
}
