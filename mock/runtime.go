// Package mock provides test doubles for relay interfaces using function fields.
package mock

import (
	"context"

	"github.com/relay-chat/relay"
)

// Interface compliance checks.
var (
	_ relay.Runtime  = (*Runtime)(nil)
	_ relay.Identity = (*Identity)(nil)
	_ relay.Memory   = (*Memory)(nil)
)

// Runtime is a test double for relay.Runtime.
// Set InvokeFn before calling Invoke.
type Runtime struct {
	InvokeFn func(ctx context.Context, req relay.Request) (relay.Stream, error)
}

// Invoke delegates to InvokeFn.
func (r *Runtime) Invoke(ctx context.Context, req relay.Request) (relay.Stream, error) {
	return r.InvokeFn(ctx, req)
}

// Identity is a test double for relay.Identity.
// Set LoginFn before calling Login.
type Identity struct {
	LoginFn func(ctx context.Context, username, password string) (relay.Credentials, error)
}

// Login delegates to LoginFn.
func (i *Identity) Login(ctx context.Context, username, password string) (relay.Credentials, error) {
	return i.LoginFn(ctx, username, password)
}

// Memory is a test double for relay.Memory.
// Set the function fields for the methods you need.
type Memory struct {
	SessionsFn func(ctx context.Context, actorID string) ([]relay.SessionSummary, error)
	MessagesFn func(ctx context.Context, actorID, sessionID string) ([]relay.ChatMessage, error)
}

// Sessions delegates to SessionsFn.
func (m *Memory) Sessions(ctx context.Context, actorID string) ([]relay.SessionSummary, error) {
	return m.SessionsFn(ctx, actorID)
}

// Messages delegates to MessagesFn.
func (m *Memory) Messages(ctx context.Context, actorID, sessionID string) ([]relay.ChatMessage, error) {
	return m.MessagesFn(ctx, actorID, sessionID)
}
