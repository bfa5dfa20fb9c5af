package relay

import "context"

// Credentials is what the identity provider hands back after a successful
// login. AccessToken is an opaque bearer credential; ActorID partitions
// conversation history in the memory store.
type Credentials struct {
	DisplayName string
	AccessToken string
	ActorID     string
}

// Identity authenticates a user against a hosted identity provider.
// Token issuance and validation are the provider's business; this interface
// only surfaces the resulting credentials.
type Identity interface {
	Login(ctx context.Context, username, password string) (Credentials, error)
}
