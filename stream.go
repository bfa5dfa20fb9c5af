package relay

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving events.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Runtime.Invoke(). A stream is single-pass and
// non-restartable: it is created per turn, consumed once, and discarded.
// Events are produced in the order the underlying lines arrived; no
// reordering or buffering across turns occurs.
//
// State() returns the current StreamState. Callers can use it to determine
// whether Reply() will return a partial or complete reply.
//
// Reply() returns the accumulated assistant text — the ordered concatenation
// of every text delta observed so far. Behavior by stream state:
//   - StreamStateComplete: complete reply, nil error.
//   - StreamStateError: partial reply, nil error. The failure itself was
//     already reported by Next().
//   - StreamStateStreaming: partial reply, nil error.
//   - StreamStateNew: empty reply, non-nil error.
//   - StreamStateClosed: partial reply up to the point of Close().
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Reply() (string, error)
	Close() error
}
