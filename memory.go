package relay

import (
	"context"
	"time"
)

// SessionSummary describes one stored conversation session.
type SessionSummary struct {
	SessionID string
	ActorID   string
	CreatedAt time.Time
}

// Memory reads conversation history from a remote managed memory store.
// Writes happen on the runtime side; the client only reconstructs
// transcripts. Sessions and messages are partitioned by actor.
//
// Messages returns the transcript oldest-first regardless of how the store
// pages its events.
type Memory interface {
	Sessions(ctx context.Context, actorID string) ([]SessionSummary, error)
	Messages(ctx context.Context, actorID, sessionID string) ([]ChatMessage, error)
}
