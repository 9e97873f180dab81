package core

import "context"

// fiberKeyType is a private context key type so no other package can
// collide with or forge a fiber identity. Carrying fiber identity as a
// context value rather than a thread-local or a global keeps it
// explicit at every call site that needs it.
type fiberKeyType struct{}

var fiberKey fiberKeyType

// ContextWithFiber attaches a fiber identity to ctx. Initialize uses it
// to build the root context it returns and the context of every fiber
// it launches into the executor loop.
func ContextWithFiber(ctx context.Context, f *fiber) context.Context {
	return context.WithValue(ctx, fiberKey, f)
}

// fiberFromContext recovers the calling fiber's identity. Panics if ctx
// was not derived from a scheduler-issued context — calling
// WaitForCounter from a goroutine the scheduler never gave a fiber to
// is a programming error, not a recoverable runtime condition.
func fiberFromContext(ctx context.Context) *fiber {
	f, ok := ctx.Value(fiberKey).(*fiber)
	if !ok {
		panic("core: WaitForCounter called from a context with no fiber identity")
	}
	return f
}
