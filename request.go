package relay

// Request carries one prompt plus the credentials and identifiers the
// remote runtime needs to resume the right conversation. All fields except
// GatewayURL and Extra are required; see Validate.
type Request struct {
	Prompt      string
	AccessToken string // bearer credential from the identity provider
	GatewayURL  string // tool gateway the runtime connects to, if any
	SessionID   string // conversation thread identifier (UUID recommended)
	ActorID     string // user identifier for history partitioning

	// Extra is merged into the request payload verbatim. Keys that collide
	// with the named fields above are ignored.
	Extra map[string]any
}
