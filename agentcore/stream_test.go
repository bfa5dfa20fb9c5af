package agentcore_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relay-chat/relay"
	"github.com/relay-chat/relay/agentcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionID = "7b2e9c14-3f6a-4d8b-9e21-0c5a7f4d6b38"

// lineResponse is a helper to build streaming responses for tests.
type lineResponse struct {
	lines []string
}

func (l lineResponse) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, line := range l.lines {
			fmt.Fprintf(w, "%s\n", line)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

func streamFromLines(t *testing.T, lines ...string) relay.Stream {
	t.Helper()
	srv := httptest.NewServer(lineResponse{lines: lines}.handler())
	t.Cleanup(srv.Close)
	client := agentcore.New("us-east-1", "arn:aws:test:runtime/agent", agentcore.WithBaseURL(srv.URL))
	stream, err := client.Invoke(context.Background(), relay.Request{
		Prompt:      "Hi",
		AccessToken: "test-token",
		SessionID:   testSessionID,
		ActorID:     "actor-1",
	})
	require.NoError(t, err)
	t.Cleanup(func() { stream.Close() })
	return stream
}

func collectEvents(t *testing.T, s relay.Stream) []relay.Event {
	t.Helper()
	var events []relay.Event
	for {
		evt, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		events = append(events, evt)
	}
	return events
}

func TestStream_TextDelta(t *testing.T) {
	t.Parallel()
	s := streamFromLines(t, `data: {"data": "hello"}`)

	events := collectEvents(t, s)

	require.Len(t, events, 1)
	assert.Equal(t, relay.EventTextDelta{Delta: "hello"}, events[0])
}

func TestStream_ContentBlockDelta(t *testing.T) {
	t.Parallel()

	t.Run("text emitted", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"event":{"contentBlockDelta":{"delta":{"text":"hi"}}}}`)
		events := collectEvents(t, s)
		require.Len(t, events, 1)
		assert.Equal(t, relay.EventTextDelta{Delta: "hi"}, events[0])
	})

	t.Run("empty text suppressed", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"event":{"contentBlockDelta":{"delta":{"text":""}}}}`)
		assert.Empty(t, collectEvents(t, s))
	})

	t.Run("absent text suppressed", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"event":{"contentBlockDelta":{"delta":{}}}}`)
		assert.Empty(t, collectEvents(t, s))
	})
}

func TestStream_ToolUse(t *testing.T) {
	t.Parallel()

	t.Run("named tool", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"event":{"contentBlockStart":{"start":{"toolUse":{"name":"search"}}}}}`)
		events := collectEvents(t, s)
		require.Len(t, events, 1)
		assert.Equal(t, relay.EventToolUse{Name: "search"}, events[0])
	})

	t.Run("missing name defaults to unknown", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"event":{"contentBlockStart":{"start":{"toolUse":{}}}}}`)
		events := collectEvents(t, s)
		require.Len(t, events, 1)
		assert.Equal(t, relay.EventToolUse{Name: "unknown"}, events[0])
	})

	t.Run("block start without tool use ignored", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"event":{"contentBlockStart":{"start":{}}}}`)
		assert.Empty(t, collectEvents(t, s))
	})
}

func TestStream_IgnoresNonDataLines(t *testing.T) {
	t.Parallel()
	s := streamFromLines(t,
		"",
		"event: ping",
		"not part of the stream",
		`data:{"data":"missing space after prefix"}`,
		": comment",
	)
	assert.Empty(t, collectEvents(t, s))
}

func TestStream_IgnoresQuotedScalars(t *testing.T) {
	t.Parallel()
	s := streamFromLines(t,
		`data: "a bare scalar"`,
		`data: 'single quoted'`,
		`data: ""`,
	)
	assert.Empty(t, collectEvents(t, s))
}

func TestStream_IgnoresMalformedPayloads(t *testing.T) {
	t.Parallel()
	s := streamFromLines(t,
		`data: {not json`,
		`data: 42`,
		`data: [1,2,3]`,
		`data: {"unrecognized": true}`,
		`data: {"data": 42}`,
	)
	assert.Empty(t, collectEvents(t, s))
}

func TestStream_OrderPreserved(t *testing.T) {
	t.Parallel()
	s := streamFromLines(t,
		`data: {"data": "Let me look that up. "}`,
		`data: {"event":{"contentBlockStart":{"start":{"toolUse":{"name":"search"}}}}}`,
		`data: {"event":{"contentBlockDelta":{"delta":{"text":"Found it: "}}}}`,
		`data: {"event":{"contentBlockDelta":{"delta":{"text":"42."}}}}`,
	)

	events := collectEvents(t, s)

	require.Len(t, events, 4)
	assert.Equal(t, relay.EventTextDelta{Delta: "Let me look that up. "}, events[0])
	assert.Equal(t, relay.EventToolUse{Name: "search"}, events[1])
	assert.Equal(t, relay.EventTextDelta{Delta: "Found it: "}, events[2])
	assert.Equal(t, relay.EventTextDelta{Delta: "42."}, events[3])

	reply, err := s.Reply()
	require.NoError(t, err)
	assert.Equal(t, "Let me look that up. Found it: 42.", reply)
}

// TestStream_ChunkingInvariance verifies that the accumulated reply does not
// depend on how the upstream chunked the text.
func TestStream_ChunkingInvariance(t *testing.T) {
	t.Parallel()
	const full = "The quick brown fox jumps over the lazy dog."

	chunkings := [][]string{
		{full},
		{"The quick brown fox ", "jumps over ", "the lazy dog."},
		{"T", "he quick brown fox jumps over the lazy do", "g."},
	}

	for i, chunks := range chunkings {
		lines := make([]string, len(chunks))
		for j, c := range chunks {
			payload, err := json.Marshal(map[string]string{"data": c})
			require.NoError(t, err)
			lines[j] = "data: " + string(payload)
		}

		s := streamFromLines(t, lines...)
		collectEvents(t, s)

		reply, err := s.Reply()
		require.NoError(t, err)
		assert.Equal(t, full, reply, "chunking %d", i)
	}
}

// TestStream_RoundTrip re-serializes decoded text deltas back into data
// lines and decodes again, expecting the identical delta sequence.
func TestStream_RoundTrip(t *testing.T) {
	t.Parallel()
	s := streamFromLines(t,
		`data: {"data": "one "}`,
		`data: {"event":{"contentBlockDelta":{"delta":{"text":"two "}}}}`,
		`data: {"data": "three"}`,
	)
	first := collectEvents(t, s)
	require.Len(t, first, 3)

	lines := make([]string, 0, len(first))
	for _, evt := range first {
		td, ok := evt.(relay.EventTextDelta)
		require.True(t, ok)
		payload, err := json.Marshal(map[string]string{"data": td.Delta})
		require.NoError(t, err)
		lines = append(lines, "data: "+string(payload))
	}

	second := collectEvents(t, streamFromLines(t, lines...))
	assert.Equal(t, first, second)
}

func TestStream_State(t *testing.T) {
	t.Parallel()

	t.Run("new before first next", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"data": "hi"}`)
		assert.Equal(t, relay.StreamStateNew, s.State())
	})

	t.Run("streaming after first next", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"data": "hi"}`, `data: {"data": "there"}`)
		_, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, relay.StreamStateStreaming, s.State())
	})

	t.Run("complete after EOF", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"data": "hi"}`)
		collectEvents(t, s)
		assert.Equal(t, relay.StreamStateComplete, s.State())
	})

	t.Run("closed after close mid-stream", func(t *testing.T) {
		t.Parallel()
		s := streamFromLines(t, `data: {"data": "hi"}`, `data: {"data": "there"}`)
		_, err := s.Next()
		require.NoError(t, err)
		require.NoError(t, s.Close())
		assert.Equal(t, relay.StreamStateClosed, s.State())

		_, err = s.Next()
		assert.ErrorIs(t, err, relay.ErrStreamClosed)
	})
}

func TestStream_ReplyBeforeNext(t *testing.T) {
	t.Parallel()
	s := streamFromLines(t, `data: {"data": "hi"}`)
	_, err := s.Reply()
	assert.ErrorIs(t, err, relay.ErrStreamNotReady)
}

func TestStream_PartialReplyAfterClose(t *testing.T) {
	t.Parallel()
	s := streamFromLines(t, `data: {"data": "partial "}`, `data: {"data": "rest"}`)
	_, err := s.Next()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reply, err := s.Reply()
	require.NoError(t, err)
	assert.Equal(t, "partial ", reply)
}
