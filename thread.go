package relay

import (
	"strings"
	"time"
)

// titleRunes is the maximum thread title length derived from a message.
const titleRunes = 20

// Thread represents one conversation thread. Threads map 1:1 onto memory
// store sessions; the thread ID doubles as the session ID on the wire.
type Thread struct {
	ID        string
	Title     string
	Messages  []ChatMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage is a single user or assistant message in a thread. Tool-use
// notices are presentation-only and are not recorded here.
type ChatMessage struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Append adds a message and bumps UpdatedAt.
func (t *Thread) Append(msg ChatMessage) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = msg.Timestamp
}

// RefreshTitle derives the thread title from the first user message when no
// title has been set yet. Long messages are truncated to a rune prefix with
// an ellipsis.
func (t *Thread) RefreshTitle() {
	if t.Title != "" {
		return
	}
	for _, msg := range t.Messages {
		if msg.Role != RoleUser {
			continue
		}
		t.Title = truncateTitle(msg.Content)
		return
	}
}

func truncateTitle(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= titleRunes {
		return s
	}
	return string(runes[:titleRunes]) + "..."
}
