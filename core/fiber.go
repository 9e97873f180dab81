package core

import "github.com/gofibersched/fibersched/internal/heap"

// fiber is a cooperatively scheduled execution context: a goroutine
// plus one unbuffered resume channel. wake/park form a rendezvous —
// wake blocks until the target's goroutine is ready to receive, giving
// a synchronous hand-off between two fibers with no third party
// involved.
//
// alloc is this fiber's own per-fiber linear allocator, carried here
// rather than looked up elsewhere because the allocator's whole reason
// to exist is to be scoped to one fiber at a time.
type fiber struct {
	id     uint64
	resume chan struct{}
	alloc  *heap.Allocator
}

func newFiber(id uint64) *fiber {
	return &fiber{id: id, resume: make(chan struct{})}
}

// wake resumes the fiber parked on the other end of resume. It blocks
// until that fiber's goroutine reaches its matching park call.
func (f *fiber) wake() {
	f.resume <- struct{}{}
}

// park suspends the calling goroutine until some other fiber wakes it.
func (f *fiber) park() {
	<-f.resume
}

// kill unblocks a fiber parked in the pool so its goroutine can exit
// during teardown, rather than leak. A goroutine woken this way must
// check Scheduler.quit before doing any further work.
func (f *fiber) kill() {
	close(f.resume)
}
