package cognito

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/relay-chat/relay"
)

// Interface compliance check.
var _ relay.Identity = (*Client)(nil)

// Client implements [relay.Identity] for a hosted user pool.
type Client struct {
	clientID     string
	clientSecret string
	endpoint     string
	httpClient   *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithEndpoint overrides the regional endpoint. Useful for testing with httptest.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new identity [Client] for an app client in the given region.
// clientSecret may be empty for public app clients.
func New(region, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     fmt.Sprintf(defaultEndpointFormat, region),
		httpClient:   http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Login authenticates with username and password and returns the resulting
// credentials. The actor ID comes from the access token's claims.
func (c *Client) Login(ctx context.Context, username, password string) (relay.Credentials, error) {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	if c.clientSecret != "" {
		params["SECRET_HASH"] = secretHash(username, c.clientID, c.clientSecret)
	}

	body, err := json.Marshal(initiateAuthRequest{
		AuthFlow:       userPasswordAuthFlow,
		ClientID:       c.clientID,
		AuthParameters: params,
	})
	if err != nil {
		return relay.Credentials{}, fmt.Errorf("cognito: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return relay.Credentials{}, fmt.Errorf("cognito: %w", err)
	}
	httpReq.Header.Set("Content-Type", amzJSONContentType)
	httpReq.Header.Set("X-Amz-Target", initiateAuthTarget)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return relay.Credentials{}, fmt.Errorf("cognito: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return relay.Credentials{}, parseHTTPError(resp)
	}

	var authResp initiateAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return relay.Credentials{}, fmt.Errorf("cognito: decode response: %w", err)
	}

	token := authResp.AuthenticationResult.AccessToken
	if token == "" {
		return relay.Credentials{}, fmt.Errorf("cognito: no access token in response")
	}

	return relay.Credentials{
		DisplayName: username,
		AccessToken: token,
		ActorID:     ActorID(token),
	}, nil
}

// ClientCredentialsToken fetches a machine-to-machine access token via the
// OAuth2 client credentials grant. Gateways authenticate tool traffic with
// tokens issued this way. A nil hc uses http.DefaultClient.
func ClientCredentialsToken(ctx context.Context, hc *http.Client, tokenURL, clientID, clientSecret string) (string, error) {
	if hc == nil {
		hc = http.DefaultClient
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("cognito: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := hc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("cognito: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", parseHTTPError(resp)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("cognito: decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("cognito: no access token in response")
	}
	return tok.AccessToken, nil
}

// secretHash computes base64(HMAC-SHA256(username+clientID)) keyed with the
// app client secret, as the provider requires for confidential clients.
func secretHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cognito: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
		return fmt.Errorf("cognito: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("cognito: %s: %s", apiErr.Type, apiErr.Message)
}
