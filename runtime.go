package relay

import "context"

// Runtime is a strategy pattern interface for remote agent execution
// endpoints. Implementations issue one HTTP request per Invoke and hand
// back a Stream over the response body; they do not retry. Resilience is
// best effort: show partial output, never replay a turn.
type Runtime interface {
	Invoke(ctx context.Context, req Request) (Stream, error)
}
