package agentcore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/relay-chat/relay"
)

// Interface compliance check.
var _ relay.Runtime = (*Client)(nil)

// Client implements [relay.Runtime] for an agent runtime invocation
// endpoint. Auth is a per-request bearer token; the client itself holds no
// credentials.
type Client struct {
	region     string
	agentARN   string
	baseURL    string
	httpClient *http.Client
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

// New creates a new runtime [Client] for the given region and agent ARN.
func New(region, agentARN string, opts ...Option) *Client {
	c := &Client{
		region:     region,
		agentARN:   agentARN,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	if c.baseURL == "" {
		c.baseURL = fmt.Sprintf(defaultBaseURLFormat, c.region)
	}
	return c
}

// Invoke sends the prompt to the runtime and returns a [relay.Stream] over
// the response. A non-success status is fatal for the turn: it is returned
// as a single error, no events are produced, and no retry is attempted.
// The caller owns the stream and must Close it on every exit path.
func (c *Client) Invoke(ctx context.Context, req relay.Request) (relay.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("agentcore: %w", err)
	}

	body, err := json.Marshal(buildPayload(req))
	if err != nil {
		return nil, fmt.Errorf("agentcore: encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.invocationURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("agentcore: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(sessionHeader, req.SessionID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("agentcore: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, httpError(resp)
	}

	// A buffered (non-streaming) turn comes back as a JSON result envelope
	// instead of an event stream.
	if mediaType(resp) == "application/json" {
		defer resp.Body.Close()
		text, err := decodeSyncResult(resp.Body)
		if err != nil {
			return nil, err
		}
		return newStaticStream(text), nil
	}

	return newStream(ctx, resp.Body), nil
}

// invocationURL builds the endpoint path. The ARN contains slashes and must
// be escaped as a single path segment.
func (c *Client) invocationURL() string {
	return c.baseURL + "/runtimes/" + url.PathEscape(c.agentARN) + "/invocations?qualifier=" + invocationQualifier
}

// reservedKeys are payload fields owned by the named Request fields.
// Colliding Extra keys are ignored.
var reservedKeys = map[string]struct{}{
	"prompt":       {},
	"access_token": {},
	"gateway_url":  {},
	"session_id":   {},
	"actor_id":     {},
}

func buildPayload(req relay.Request) map[string]any {
	payload := map[string]any{
		"prompt":       req.Prompt,
		"access_token": req.AccessToken,
		"gateway_url":  req.GatewayURL,
		"session_id":   req.SessionID,
		"actor_id":     req.ActorID,
	}
	for k, v := range req.Extra {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		payload[k] = v
	}
	return payload
}

func decodeSyncResult(r io.Reader) (string, error) {
	var result syncResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return "", fmt.Errorf("agentcore: decode result: %w", err)
	}
	var sb strings.Builder
	for _, item := range result.Result.Content {
		if item.Text != nil {
			sb.WriteString(*item.Text)
		}
	}
	return sb.String(), nil
}

func mediaType(resp *http.Response) string {
	mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

func httpError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("agentcore: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	return fmt.Errorf("agentcore: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
