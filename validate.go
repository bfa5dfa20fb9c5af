package relay

import "fmt"

// minSessionIDLen is the shortest session ID the memory store accepts.
// UUID strings (36 characters) satisfy it.
const minSessionIDLen = 33

// Validate checks the request-construction boundary rules. Security-relevant
// fields are never silently defaulted: a missing token, actor ID, or session
// ID is reported before any request is sent.
func (r Request) Validate() error {
	if r.AccessToken == "" {
		return fmt.Errorf("access token is required: %w", ErrValidation)
	}
	if r.ActorID == "" {
		return fmt.Errorf("actor ID is required: %w", ErrValidation)
	}
	if r.SessionID == "" {
		return fmt.Errorf("session ID is required: %w", ErrValidation)
	}
	if len(r.SessionID) < minSessionIDLen {
		return fmt.Errorf("session ID must be at least %d characters (use a UUID), got %d: %w",
			minSessionIDLen, len(r.SessionID), ErrValidation)
	}
	return nil
}
