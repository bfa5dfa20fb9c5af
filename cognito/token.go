package cognito

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// ActorID extracts the user identifier from a JWT access token: the
// "username" claim when present, otherwise "sub". The signature is not
// checked — the runtime validates tokens; this is identification, not
// authentication. Returns "" for anything that does not parse.
func ActorID(token string) string {
	claims, ok := tokenClaims(token)
	if !ok {
		return ""
	}
	if username, ok := claims["username"].(string); ok && username != "" {
		return username
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

// tokenClaims decodes the payload part of a JWT (header.payload.signature).
func tokenClaims(token string) (map[string]any, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	// Base64URL without padding is the JWT norm; repair before decoding.
	payload := parts[1]
	if pad := len(payload) % 4; pad != 0 {
		payload += strings.Repeat("=", 4-pad)
	}

	decoded, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}

	var claims map[string]any
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil, false
	}
	return claims, true
}
