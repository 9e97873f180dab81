// Package fibersched provides a fiber-based fork-join task scheduler for
// parallel work on multi-core hardware. Work is submitted as small
// "tasks", grouped by a shared completion counter, and a task may wait
// on that counter from inside another task without blocking an
// operating-system thread — waiting suspends the current fiber and
// resumes whatever other ready fiber exists on that worker thread, so
// a thread always has something to do as long as ready work exists
// anywhere in the system.
//
// # Quick Start
//
//	s, ctx, err := fibersched.Initialize(128, fibersched.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Quit()
//
//	counter := s.AddTask(fibersched.TaskEntry{
//		Fn: func(ctx context.Context, env fibersched.Env, arg any) {
//			fmt.Println("hello from a fiber")
//		},
//	})
//	s.WaitForCounter(ctx, counter, 0)
//
// # Key Concepts
//
// Task: an entry point plus an opaque argument, submitted with AddTask
// or AddTasks. Counter: the shared completion rendezvous every task in
// a submission batch decrements on return. Fiber: the cooperatively
// scheduled execution context a task runs on; a task may call
// WaitForCounter to suspend its own fiber until some counter reaches a
// target value, never blocking the underlying OS thread to do so.
//
// # Thread Safety
//
// Every exported operation on *Scheduler is safe for concurrent use
// from multiple fibers. WaitForCounter must be called with a
// context.Context the scheduler itself handed out — the one a task
// receives, or the one Initialize returns for the calling goroutine.
// With any other context it panics unless the counter is already at
// its target, matching the scheduler's "fiber-only" suspension model.
//
// For more details, see the package-level scheduler.go in core.
package fibersched
