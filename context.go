package chatclient

import "context"

type retriedContextKey struct{}

// withRetried marks a request context as already having consumed its one
// renewal attempt. The marker is write-once: nothing ever removes it, so a
// replayed request can never become eligible again.
func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedContextKey{}, true)
}

func retriedFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	retried, _ := ctx.Value(retriedContextKey{}).(bool)
	return retried
}
