package memory_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/relay-chat/relay"
	"github.com/relay-chat/relay/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Sessions_Pagination(t *testing.T) {
	t.Parallel()

	var paths []string
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

		var req struct {
			MaxResults int    `json:"maxResults"`
			NextToken  string `json:"nextToken"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		tokens = append(tokens, req.NextToken)
		assert.Equal(t, 50, req.MaxResults)

		if req.NextToken == "" {
			fmt.Fprint(w, `{"sessionSummaries":[{"sessionId":"s-1","actorId":"alice","createdAt":"2026-08-01T10:00:00Z"}],"nextToken":"page-2"}`)
			return
		}
		fmt.Fprint(w, `{"sessionSummaries":[{"sessionId":"s-2","actorId":"alice","createdAt":"2026-08-02T10:00:00Z"}]}`)
	}))
	t.Cleanup(srv.Close)

	client := memory.New("us-east-1", "mem-1", "user-token", memory.WithBaseURL(srv.URL))
	sessions, err := client.Sessions(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, sessions, 2)
	assert.Equal(t, "s-1", sessions[0].SessionID)
	assert.Equal(t, "s-2", sessions[1].SessionID)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), sessions[0].CreatedAt)

	assert.Equal(t, []string{"", "page-2"}, tokens)
	assert.Equal(t, []string{
		"/memories/mem-1/actor/alice/sessions",
		"/memories/mem-1/actor/alice/sessions",
	}, paths)
}

func TestClient_Messages_OrderedOldestFirst(t *testing.T) {
	t.Parallel()

	// Pages arrive newest first; the transcript must still read oldest first.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/memories/mem-1/actor/alice/sessions/s-1/events", r.URL.Path)

		var req struct {
			IncludePayloads bool   `json:"includePayloads"`
			NextToken       string `json:"nextToken"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.IncludePayloads)

		if req.NextToken == "" {
			fmt.Fprint(w, `{"events":[
				{"eventTimestamp":"2026-08-01T10:02:00Z","payload":[{"conversational":{"role":"ASSISTANT","content":{"text":"Sure thing."}}}]}
			],"nextToken":"older"}`)
			return
		}
		fmt.Fprint(w, `{"events":[
			{"eventTimestamp":"2026-08-01T10:01:00Z","payload":[{"conversational":{"role":"USER","content":{"text":"Help me out?"}}}]}
		]}`)
	}))
	t.Cleanup(srv.Close)

	client := memory.New("us-east-1", "mem-1", "user-token", memory.WithBaseURL(srv.URL))
	msgs, err := client.Messages(context.Background(), "alice", "s-1")
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, relay.RoleUser, msgs[0].Role)
	assert.Equal(t, "Help me out?", msgs[0].Content)
	assert.Equal(t, relay.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Sure thing.", msgs[1].Content)
	assert.True(t, msgs[0].Timestamp.Before(msgs[1].Timestamp))
}

func TestClient_Messages_PayloadExtraction(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"events":[
			{"eventTimestamp":"2026-08-01T10:00:00Z","payload":[{"conversational":{"role":"USER","content":{"text":"plain text"}}}]},
			{"eventTimestamp":"2026-08-01T10:01:00Z","payload":[{"conversational":{"role":"ASSISTANT","content":{"text":"{\"message\":{\"content\":[{\"text\":\"unwrapped\"}]}}"}}}]},
			{"eventTimestamp":"2026-08-01T10:02:00Z","payload":[{"conversational":{"role":"ASSISTANT","content":{"text":"{\"message\":{\"content\":[{\"toolUse\":{\"name\":\"search\"}}]}}"}}}]},
			{"eventTimestamp":"2026-08-01T10:03:00Z","payload":[{"branch":{"name":"main"}}]},
			{"eventTimestamp":"2026-08-01T10:04:00Z","payload":[{"conversational":{"role":"USER","content":{"text":""}}}]}
		]}`)
	}))
	t.Cleanup(srv.Close)

	client := memory.New("us-east-1", "mem-1", "user-token", memory.WithBaseURL(srv.URL))
	msgs, err := client.Messages(context.Background(), "alice", "s-1")
	require.NoError(t, err)

	// Tool-use envelopes, non-conversational payloads, and empty text all drop.
	require.Len(t, msgs, 2)
	assert.Equal(t, "plain text", msgs[0].Content)
	assert.Equal(t, "unwrapped", msgs[1].Content)
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client := memory.New("us-east-1", "mem-1", "user-token", memory.WithBaseURL(srv.URL))

	_, err := client.Sessions(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")

	_, err = client.Messages(context.Background(), "alice", "s-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}
