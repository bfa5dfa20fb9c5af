// Package cognito implements [relay.Identity] against a hosted user pool.
//
// Login exchanges a username and password for a JWT access token via the
// provider's InitiateAuth call. The token is treated as opaque except for
// the actor ID, which is read from the payload claims without signature
// verification — the agent runtime validates tokens on its side.
package cognito

const (
	defaultEndpointFormat = "https://cognito-idp.%s.amazonaws.com/"
	initiateAuthTarget    = "AWSCognitoIdentityProviderService.InitiateAuth"
	amzJSONContentType    = "application/x-amz-json-1.1"
	userPasswordAuthFlow  = "USER_PASSWORD_AUTH"
)

type initiateAuthRequest struct {
	AuthFlow       string            `json:"AuthFlow"`
	ClientID       string            `json:"ClientId"`
	AuthParameters map[string]string `json:"AuthParameters"`
}

type initiateAuthResponse struct {
	AuthenticationResult struct {
		AccessToken string `json:"AccessToken"`
		ExpiresIn   int    `json:"ExpiresIn"`
		TokenType   string `json:"TokenType"`
	} `json:"AuthenticationResult"`
}

// apiError is the JSON body returned on non-200 responses.
type apiError struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}
