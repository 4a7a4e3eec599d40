// Package refresh keeps stored platform access tokens usable, refreshing them just in
// time before they are handed to a platform API call.
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	xoauth2 "golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/jrsteele09/go-social-connect/connections"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/jrsteele09/go-social-connect/platforms"
	"github.com/jrsteele09/go-social-connect/token"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// RefreshTimeout bounds a shared refresh.
var RefreshTimeout = 30 * time.Second

// TokenClient redeems refresh tokens at a provider token endpoint.
type TokenClient interface {
	Refresh(ctx context.Context, cfg oauth2.Config, refreshToken string) (*oauth2.Exchange, error)
}

// Manager applies the freshness policy to stored connections. Concurrent refreshes of
// the same (user, platform) collapse into one provider call.
type Manager struct {
	client TokenClient
	buffer time.Duration
	group  singleflight.Group
}

// NewManager creates a manager. A non-positive buffer uses token.DefaultExpiryBuffer.
func NewManager(client TokenClient, buffer time.Duration) *Manager {
	if buffer <= 0 {
		buffer = token.DefaultExpiryBuffer
	}
	return &Manager{
		client: client,
		buffer: buffer,
	}
}

// Connection returns the caller's connection with a token that is neither expired nor
// expiring soon, refreshing it first when needed. Without a refresh token a stale
// connection fails with ErrReauthorizationRequired.
func (m *Manager) Connection(ctx context.Context, store *connections.Store, adapter platforms.Adapter) (*connections.SocialConnection, error) {
	platform := adapter.Platform()
	conn, err := store.Get(ctx, platform)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fmt.Errorf("[refresh Connection] %s is not connected: %w", platform, apperrors.ErrNotFound)
	}
	if !m.needsRefresh(conn) {
		return conn, nil
	}
	if conn.RefreshToken == nil || *conn.RefreshToken == "" {
		return nil, fmt.Errorf("[refresh Connection] %s token is stale and has no refresh token: %w", platform, apperrors.ErrReauthorizationRequired)
	}

	// A cancelled caller stops waiting; the shared refresh still completes and is stored.
	refreshCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(store.UserID()+"\x00"+platform, func() (any, error) {
		ctx, cancel := context.WithTimeout(refreshCtx, RefreshTimeout)
		defer cancel()
		return m.refresh(ctx, store, adapter)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("[refresh Connection] waiting for %s refresh: %w", platform, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug().Str("platform", platform).Msg("joined in-flight token refresh")
		}
		return res.Val.(*connections.SocialConnection).Clone(), nil
	}
}

func (m *Manager) refresh(ctx context.Context, store *connections.Store, adapter platforms.Adapter) (*connections.SocialConnection, error) {
	platform := adapter.Platform()

	// Another request may have refreshed while this one waited for its turn.
	conn, err := store.Get(ctx, platform)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fmt.Errorf("[refresh] %s was disconnected: %w", platform, apperrors.ErrNotFound)
	}
	if !m.needsRefresh(conn) {
		return conn, nil
	}
	if conn.RefreshToken == nil || *conn.RefreshToken == "" {
		return nil, fmt.Errorf("[refresh] %s has no refresh token: %w", platform, apperrors.ErrReauthorizationRequired)
	}

	cfg, err := adapter.OAuthConfig()
	if err != nil {
		return nil, err
	}
	ex, err := m.client.Refresh(ctx, cfg, *conn.RefreshToken)
	if err != nil {
		logRefreshFailure(platform, err)
		return nil, err
	}

	refreshToken := conn.RefreshToken
	if ex.RefreshToken != nil && *ex.RefreshToken != "" {
		refreshToken = ex.RefreshToken
	}
	updated, err := store.RefreshToken(ctx, platform, ex.AccessToken, refreshToken, ex.Expiry())
	if err != nil {
		return nil, err
	}

	ev := log.Info().Str("platform", platform)
	if updated.ExpiresAt != nil {
		ev = ev.Time("expires_at", *updated.ExpiresAt)
	}
	ev.Bool("rotated", ex.RefreshToken != nil).Msg("refreshed access token")
	return updated, nil
}

func (m *Manager) needsRefresh(conn *connections.SocialConnection) bool {
	return token.NeedsRefresh(conn.ExpiresAt, m.buffer, NowTimeFunc())
}

// TokenSource adapts the manager to golang.org/x/oauth2 so platform API calls can use
// oauth2.NewClient. Tokens are reused until they enter the expiry buffer.
func (m *Manager) TokenSource(ctx context.Context, store *connections.Store, adapter platforms.Adapter) xoauth2.TokenSource {
	return xoauth2.ReuseTokenSourceWithExpiry(nil, &tokenSource{
		ctx:     ctx,
		manager: m,
		store:   store,
		adapter: adapter,
	}, m.buffer)
}

type tokenSource struct {
	ctx     context.Context
	manager *Manager
	store   *connections.Store
	adapter platforms.Adapter
}

func (ts *tokenSource) Token() (*xoauth2.Token, error) {
	conn, err := ts.manager.Connection(ts.ctx, ts.store, ts.adapter)
	if err != nil {
		return nil, err
	}
	tok := &xoauth2.Token{AccessToken: conn.AccessToken, TokenType: "Bearer"}
	if conn.ExpiresAt != nil {
		tok.Expiry = *conn.ExpiresAt
	}
	return tok, nil
}

func logRefreshFailure(platform string, err error) {
	ev := log.Warn().Str("platform", platform)
	var pe *oauth2.ProviderError
	if apperrors.As(err, &pe) {
		ev = ev.Int("status", pe.StatusCode).Str("provider_error", pe.Code).Str("description", pe.Description)
	}
	ev.Err(err).Msg("token refresh failed")
}
