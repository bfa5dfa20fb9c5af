package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/relay-chat/relay"
)

// Interface compliance check.
var _ relay.Memory = (*Client)(nil)

// Client implements [relay.Memory] for one memory store.
type Client struct {
	memoryID    string
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the regional endpoint. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a memory [Client] for the given store, authenticating with
// the user's bearer token.
func New(region, memoryID, accessToken string, opts ...Option) *Client {
	c := &Client{
		memoryID:    memoryID,
		accessToken: accessToken,
		httpClient:  http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	if c.baseURL == "" {
		c.baseURL = fmt.Sprintf(defaultBaseURLFormat, region)
	}
	return c
}

// Sessions lists all stored sessions for the actor, following pagination
// tokens until the store reports no more pages.
func (c *Client) Sessions(ctx context.Context, actorID string) ([]relay.SessionSummary, error) {
	var summaries []relay.SessionSummary
	nextToken := ""

	for {
		reqBody := listSessionsRequest{MaxResults: defaultPageSize, NextToken: nextToken}
		var page listSessionsResponse
		if err := c.post(ctx, c.sessionsPath(actorID), reqBody, &page); err != nil {
			return nil, fmt.Errorf("memory: list sessions: %w", err)
		}

		for _, s := range page.SessionSummaries {
			summaries = append(summaries, relay.SessionSummary{
				SessionID: s.SessionID,
				ActorID:   s.ActorID,
				CreatedAt: s.CreatedAt,
			})
		}

		nextToken = page.NextToken
		if nextToken == "" {
			return summaries, nil
		}
	}
}

// Messages reconstructs the transcript of one session, oldest event first.
// Events without a usable conversational text payload are dropped.
func (c *Client) Messages(ctx context.Context, actorID, sessionID string) ([]relay.ChatMessage, error) {
	var events []storedEvent
	nextToken := ""

	for {
		reqBody := listEventsRequest{IncludePayloads: true, NextToken: nextToken}
		var page listEventsResponse
		if err := c.post(ctx, c.eventsPath(actorID, sessionID), reqBody, &page); err != nil {
			return nil, fmt.Errorf("memory: list events: %w", err)
		}
		events = append(events, page.Events...)

		nextToken = page.NextToken
		if nextToken == "" {
			break
		}
	}

	// The store pages in its own order; transcripts read oldest first.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventTimestamp.Before(events[j].EventTimestamp)
	})

	var messages []relay.ChatMessage
	for _, evt := range events {
		if msg, ok := eventMessage(evt); ok {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func (c *Client) sessionsPath(actorID string) string {
	return "/memories/" + url.PathEscape(c.memoryID) + "/actor/" + url.PathEscape(actorID) + "/sessions"
}

func (c *Client) eventsPath(actorID, sessionID string) string {
	return c.sessionsPath(actorID) + "/" + url.PathEscape(sessionID) + "/events"
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, 500))
		if readErr != nil {
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return json.NewDecoder(resp.Body).Decode(respBody)
}

// eventMessage maps one stored event to a chat message: the first
// conversational payload item whose text survives extraction wins.
func eventMessage(evt storedEvent) (relay.ChatMessage, bool) {
	for _, item := range evt.Payload {
		if item.Conversational == nil {
			continue
		}

		content := extractText(item.Conversational.Content.Text)
		if content == "" {
			continue
		}

		role := relay.RoleAssistant
		if item.Conversational.Role == "USER" {
			role = relay.RoleUser
		}
		return relay.ChatMessage{
			Role:      role,
			Content:   content,
			Timestamp: evt.EventTimestamp,
		}, true
	}
	return relay.ChatMessage{}, false
}

// extractText unwraps the nested message envelope the runtime stores for
// structured turns. Plain strings pass through unchanged; envelopes whose
// first content item has no text (toolUse, toolResult) yield "".
func extractText(raw string) string {
	var env textEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		// Not JSON: plain text as stored.
		return raw
	}
	if env.Message == nil || len(env.Message.Content) == 0 {
		return ""
	}
	if text := env.Message.Content[0].Text; text != nil {
		return *text
	}
	return ""
}
