// Package youtube connects YouTube channels through Google OAuth, identifying the
// account with OpenID Connect userinfo.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	xoauth2 "golang.org/x/oauth2"

	"github.com/jrsteele09/go-social-connect/internal/config"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/internal/utils"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/jrsteele09/go-social-connect/platforms"
)

const (
	clientIDEnvVar     = "GOOGLE_CLIENT_ID"
	clientSecretEnvVar = "GOOGLE_CLIENT_SECRET"
	redirectURIEnvVar  = "GOOGLE_REDIRECT_URI"

	DefaultIssuer           = "https://accounts.google.com"
	DefaultAuthorizationURL = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultTokenURL         = "https://oauth2.googleapis.com/token"

	ScopeYouTubeUpload   = "https://www.googleapis.com/auth/youtube.upload"
	ScopeYouTubeReadOnly = "https://www.googleapis.com/auth/youtube.readonly"
)

// DefaultScopes identify the account and allow uploads.
var DefaultScopes = []string{oidc.ScopeOpenID, "profile", "email", ScopeYouTubeReadOnly, ScopeYouTubeUpload}

// Adapter is the YouTube platform adapter.
type Adapter struct {
	httpClient       *http.Client
	issuer           string
	authorizationURL string
	tokenURL         string

	provider     *oidc.Provider
	providerLock sync.Mutex
}

var _ platforms.Adapter = (*Adapter)(nil)

type Option func(*Adapter)

// WithIssuer changes the OIDC issuer used for discovery.
func WithIssuer(issuer string) Option {
	return func(a *Adapter) {
		a.issuer = issuer
	}
}

// WithEndpoints overrides the authorization and token endpoints.
func WithEndpoints(authorizationURL, tokenURL string) Option {
	return func(a *Adapter) {
		a.authorizationURL = authorizationURL
		a.tokenURL = tokenURL
	}
}

func New(httpClient *http.Client, opts ...Option) *Adapter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	a := &Adapter{
		httpClient:       httpClient,
		issuer:           DefaultIssuer,
		authorizationURL: DefaultAuthorizationURL,
		tokenURL:         DefaultTokenURL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Platform() string {
	return platforms.YouTube
}

// OAuthConfig reads GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URI.
func (a *Adapter) OAuthConfig() (oauth2.Config, error) {
	cfg := oauth2.Config{
		ClientID:         config.GetEnv(clientIDEnvVar, ""),
		ClientSecret:     config.GetEnv(clientSecretEnvVar, ""),
		RedirectURI:      config.GetEnv(redirectURIEnvVar, ""),
		Scopes:           DefaultScopes,
		AuthorizationURL: a.authorizationURL,
		TokenURL:         a.tokenURL,
		ScopeDelimiter:   " ",
	}
	if err := cfg.Validate(); err != nil {
		return oauth2.Config{}, fmt.Errorf("[youtube OAuthConfig] set %s, %s and %s: %w",
			clientIDEnvVar, clientSecretEnvVar, redirectURIEnvVar, err)
	}
	return cfg, nil
}

// AuthorizationParams asks Google for a refresh token on every consent.
func (a *Adapter) AuthorizationParams() map[string]string {
	return map[string]string{
		"access_type":            "offline",
		"prompt":                 "consent",
		"include_granted_scopes": "true",
	}
}

type profileClaims struct {
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	PreferredName string `json:"preferred_username"`
}

// LookupIdentity reads the OIDC userinfo endpoint. Google reports the same claims
// whatever YouTube scopes were granted, so grantedScopes is not consulted.
func (a *Adapter) LookupIdentity(ctx context.Context, accessToken string, _ []string) (*platforms.Identity, error) {
	ctx = oidc.ClientContext(ctx, a.httpClient)
	provider, err := a.oidcProvider(ctx)
	if err != nil {
		return nil, err
	}

	info, err := provider.UserInfo(ctx, xoauth2.StaticTokenSource(&xoauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))
	if err != nil {
		return nil, &oauth2.ProviderError{Kind: apperrors.ErrIdentityLookupFailed, Description: err.Error()}
	}
	if info.Subject == "" {
		return nil, fmt.Errorf("[youtube LookupIdentity] userinfo has no subject: %w", apperrors.ErrIdentityLookupFailed)
	}

	var claims profileClaims
	if err := info.Claims(&claims); err != nil {
		return nil, fmt.Errorf("[youtube LookupIdentity] decoding claims: %v: %w", err, apperrors.ErrIdentityLookupFailed)
	}
	return &platforms.Identity{
		PlatformUserID: info.Subject,
		DisplayName:    utils.NonEmpty(claims.Name),
		Username:       utils.NonEmpty(claims.PreferredName),
		AvatarURL:      utils.NonEmpty(claims.Picture),
		Email:          utils.NonEmpty(info.Email),
		Verified:       utils.Ptr(info.EmailVerified),
	}, nil
}

func (a *Adapter) oidcProvider(ctx context.Context) (*oidc.Provider, error) {
	a.providerLock.Lock()
	defer a.providerLock.Unlock()
	if a.provider != nil {
		return a.provider, nil
	}
	provider, err := oidc.NewProvider(ctx, a.issuer)
	if err != nil {
		return nil, fmt.Errorf("[youtube oidcProvider] discovery for %s: %v: %w", a.issuer, err, apperrors.ErrIdentityLookupFailed)
	}
	a.provider = provider
	return provider, nil
}
