// Package memory implements [relay.Memory] for a remote managed
// conversation store. The store partitions history by actor and session;
// listings are paginated with an opaque nextToken that the client follows
// until exhausted. Only reads happen here — the runtime writes history as a
// side effect of each turn.
package memory

import "time"

const (
	defaultBaseURLFormat = "https://bedrock-agentcore.%s.amazonaws.com"

	// defaultPageSize is the maxResults sent with session listings.
	defaultPageSize = 50
)

type listSessionsRequest struct {
	MaxResults int    `json:"maxResults"`
	NextToken  string `json:"nextToken,omitempty"`
}

type listSessionsResponse struct {
	SessionSummaries []sessionSummary `json:"sessionSummaries"`
	NextToken        string           `json:"nextToken"`
}

type sessionSummary struct {
	SessionID string    `json:"sessionId"`
	ActorID   string    `json:"actorId"`
	CreatedAt time.Time `json:"createdAt"`
}

type listEventsRequest struct {
	IncludePayloads bool   `json:"includePayloads"`
	NextToken       string `json:"nextToken,omitempty"`
}

type listEventsResponse struct {
	Events    []storedEvent `json:"events"`
	NextToken string        `json:"nextToken"`
}

type storedEvent struct {
	EventID        string        `json:"eventId"`
	EventTimestamp time.Time     `json:"eventTimestamp"`
	Payload        []payloadItem `json:"payload"`
}

type payloadItem struct {
	Conversational *conversational `json:"conversational"`
}

type conversational struct {
	Role    string         `json:"role"`
	Content payloadContent `json:"content"`
}

type payloadContent struct {
	Text string `json:"text"`
}

// textEnvelope is the nested JSON form the runtime stores for structured
// messages: {"message":{"content":[{"text": ...}, ...]}}. toolUse and
// toolResult items carry no "text" key and are skipped.
type textEnvelope struct {
	Message *struct {
		Content []struct {
			Text *string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}
