package oauth2

import (
	"fmt"
	"net/url"
	"strings"
)

// AuthorizationRequest is the URL to send the browser to and the state the caller must persist.
type AuthorizationRequest struct {
	URL   string
	State string
}

// BuildAuthorizationURL builds the provider authorization URL. Provider specific extra
// parameters are merged last, so an adapter can override any standard parameter.
func BuildAuthorizationURL(cfg Config, state string, extra map[string]string) (AuthorizationRequest, error) {
	if err := cfg.Validate(); err != nil {
		return AuthorizationRequest{}, err
	}
	if state == "" {
		return AuthorizationRequest{}, fmt.Errorf("[oauth2 BuildAuthorizationURL] state is required")
	}

	u, err := url.Parse(cfg.AuthorizationURL)
	if err != nil {
		return AuthorizationRequest{}, fmt.Errorf("[oauth2 BuildAuthorizationURL] invalid authorization url: %w", err)
	}

	q := u.Query()
	q.Set(cfg.clientIDParam(), cfg.ClientID)
	q.Set(ParamRedirectURI, cfg.RedirectURI)
	q.Set(ParamState, state)
	q.Set(ParamScope, strings.Join(cfg.Scopes, cfg.scopeDelimiter()))
	q.Set(ParamResponseType, string(CodeResponseType))
	for k, v := range extra {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	return AuthorizationRequest{URL: u.String(), State: state}, nil
}
