package cognito_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/relay-chat/relay/cognito"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mintToken builds an unsigned JWT with the given payload claims.
func mintToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestActorID(t *testing.T) {
	t.Parallel()

	t.Run("username preferred over sub", func(t *testing.T) {
		t.Parallel()
		token := mintToken(t, map[string]any{"username": "alice", "sub": "uuid-sub"})
		assert.Equal(t, "alice", cognito.ActorID(token))
	})

	t.Run("falls back to sub", func(t *testing.T) {
		t.Parallel()
		token := mintToken(t, map[string]any{"sub": "uuid-sub"})
		assert.Equal(t, "uuid-sub", cognito.ActorID(token))
	})

	t.Run("payload needing padding repair", func(t *testing.T) {
		t.Parallel()
		// A one-character sub produces a payload whose base64 length is not
		// a multiple of four.
		token := mintToken(t, map[string]any{"sub": "x"})
		assert.Equal(t, "x", cognito.ActorID(token))
	})

	t.Run("garbage yields empty", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, cognito.ActorID("not-a-jwt"))
		assert.Empty(t, cognito.ActorID("a.b"))
		assert.Empty(t, cognito.ActorID("a.!!!.c"))
		assert.Empty(t, cognito.ActorID(""))
	})

	t.Run("no identifying claims yields empty", func(t *testing.T) {
		t.Parallel()
		token := mintToken(t, map[string]any{"scope": "openid"})
		assert.Empty(t, cognito.ActorID(token))
	})
}
