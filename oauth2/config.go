package oauth2

import (
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

// Config is the per-platform OAuth configuration. It is built by a platform adapter
// from process configuration and never changes at runtime.
type Config struct {
	ClientID         string
	ClientSecret     string
	RedirectURI      string
	Scopes           []string
	AuthorizationURL string
	TokenURL         string

	// ClientIDParam is the parameter name the provider expects for the client identifier.
	// Defaults to "client_id"; TikTok uses "client_key".
	ClientIDParam string

	// ScopeDelimiter joins Scopes in the authorization URL. Defaults to ",".
	ScopeDelimiter string
}

// Validate reports every missing field at once so a misconfigured platform fails with one clear error.
func (c Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "redirect uri")
	}
	if len(c.Scopes) == 0 {
		missing = append(missing, "scopes")
	}
	if c.AuthorizationURL == "" {
		missing = append(missing, "authorization url")
	}
	if c.TokenURL == "" {
		missing = append(missing, "token url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("[oauth2 Config] missing %s: %w", strings.Join(missing, ", "), apperrors.ErrConfiguration)
	}
	return nil
}

func (c Config) clientIDParam() string {
	if c.ClientIDParam == "" {
		return ParamClientID
	}
	return c.ClientIDParam
}

func (c Config) scopeDelimiter() string {
	if c.ScopeDelimiter == "" {
		return ","
	}
	return c.ScopeDelimiter
}
