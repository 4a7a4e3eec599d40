// Package sessions resolves the signed-in user of a request. The connection flows
// never accept a user id from the client; it always comes from here.
package sessions

import (
	"context"
	"net/http"
)

// Principal is the authenticated user.
type Principal struct {
	UserID string
	Email  string
}

// Authenticator resolves the principal of a request or fails with ErrNotAuthenticated.
type Authenticator interface {
	Authenticate(r *http.Request) (*Principal, error)
}

type contextKey struct{}

// WithPrincipal stores p on the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok && p != nil && p.UserID != ""
}
