package oauth2

// ResponseType represents the OAuth 2.0 response type requested at the authorization endpoint.
type ResponseType string

const (
	// CodeResponseType requests an authorization code that is later exchanged at the token endpoint.
	// Example: https://www.tiktok.com/v2/auth/authorize/?response_type=code&client_key=...
	CodeResponseType ResponseType = "code"
)

// GrantType represents the OAuth 2.0 grant type sent to the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Token request includes: code, client id, client_secret, redirect_uri
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant exchanges a refresh token for a new access token.
	// Token request includes: refresh_token, client id, client_secret
	// Providers may or may not rotate the refresh token in the response.
	RefreshTokenGrant GrantType = "refresh_token"
)

// Standard parameter names
const (
	ParamClientID     = "client_id"
	ParamClientSecret = "client_secret"
	ParamRedirectURI  = "redirect_uri"
	ParamState        = "state"
	ParamScope        = "scope"
	ParamResponseType = "response_type"
	ParamCode         = "code"
	ParamGrantType    = "grant_type"
	ParamRefreshToken = "refresh_token"
)
