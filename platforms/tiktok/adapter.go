// Package tiktok connects TikTok accounts through TikTok Login Kit and posts through
// the Content Posting API.
package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-social-connect/internal/config"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/internal/utils"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/jrsteele09/go-social-connect/platforms"
)

const (
	clientKeyEnvVar    = "TIKTOK_CLIENT_KEY"
	clientSecretEnvVar = "TIKTOK_CLIENT_SECRET"
	redirectURIEnvVar  = "TIKTOK_REDIRECT_URI"

	DefaultAuthorizationURL = "https://www.tiktok.com/v2/auth/authorize/"
	DefaultAPIBaseURL       = "https://open.tiktokapis.com"

	tokenPath    = "/v2/oauth/token/"
	userInfoPath = "/v2/user/info/"

	maxResponseBytes = 1 << 20
)

// Adapter is the TikTok platform adapter.
type Adapter struct {
	httpClient       *http.Client
	authorizationURL string
	apiBaseURL       string
}

var _ platforms.Adapter = (*Adapter)(nil)

type Option func(*Adapter)

// WithAPIBaseURL points token, user info and posting calls at another host.
func WithAPIBaseURL(baseURL string) Option {
	return func(a *Adapter) {
		a.apiBaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithAuthorizationURL(authorizationURL string) Option {
	return func(a *Adapter) {
		a.authorizationURL = authorizationURL
	}
}

// New creates the adapter. A nil httpClient uses http.DefaultClient.
func New(httpClient *http.Client, opts ...Option) *Adapter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	a := &Adapter{
		httpClient:       httpClient,
		authorizationURL: DefaultAuthorizationURL,
		apiBaseURL:       DefaultAPIBaseURL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Platform() string {
	return platforms.TikTok
}

// OAuthConfig reads TIKTOK_CLIENT_KEY, TIKTOK_CLIENT_SECRET and TIKTOK_REDIRECT_URI.
func (a *Adapter) OAuthConfig() (oauth2.Config, error) {
	cfg := oauth2.Config{
		ClientID:         config.GetEnv(clientKeyEnvVar, ""),
		ClientSecret:     config.GetEnv(clientSecretEnvVar, ""),
		RedirectURI:      config.GetEnv(redirectURIEnvVar, ""),
		Scopes:           DefaultScopes,
		AuthorizationURL: a.authorizationURL,
		TokenURL:         a.apiBaseURL + tokenPath,
		ClientIDParam:    "client_key",
	}
	if err := cfg.Validate(); err != nil {
		return oauth2.Config{}, fmt.Errorf("[tiktok OAuthConfig] set %s, %s and %s: %w",
			clientKeyEnvVar, clientSecretEnvVar, redirectURIEnvVar, err)
	}
	return cfg, nil
}

func (a *Adapter) AuthorizationParams() map[string]string {
	return nil
}

type userInfo struct {
	OpenID          string `json:"open_id"`
	UnionID         string `json:"union_id"`
	AvatarURL       string `json:"avatar_url"`
	AvatarURL100    string `json:"avatar_url_100"`
	AvatarLargeURL  string `json:"avatar_large_url"`
	DisplayName     string `json:"display_name"`
	BioDescription  string `json:"bio_description"`
	ProfileDeepLink string `json:"profile_deep_link"`
	IsVerified      *bool  `json:"is_verified"`
	Username        string `json:"username"`
	FollowerCount   *int64 `json:"follower_count"`
	FollowingCount  *int64 `json:"following_count"`
	LikesCount      *int64 `json:"likes_count"`
	VideoCount      *int64 `json:"video_count"`
}

type userInfoResponse struct {
	Data struct {
		User  *userInfo  `json:"user"`
		Users []userInfo `json:"users"`
	} `json:"data"`
}

// LookupIdentity calls GET /v2/user/info/ with the fields the granted scopes allow.
func (a *Adapter) LookupIdentity(ctx context.Context, accessToken string, grantedScopes []string) (*platforms.Identity, error) {
	q := url.Values{}
	q.Set("fields", strings.Join(UserFields(grantedScopes), ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiBaseURL+userInfoPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("[tiktok LookupIdentity] %v: %w", err, apperrors.ErrIdentityLookupFailed)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, status, err := a.do(req)
	if err != nil {
		return nil, fmt.Errorf("[tiktok LookupIdentity] %v: %w", err, apperrors.ErrIdentityLookupFailed)
	}
	if err := oauth2.CheckResponse(apperrors.ErrIdentityLookupFailed, status, body); err != nil {
		return nil, err
	}

	var resp userInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, oauth2.ProviderErrorFromBody(apperrors.ErrIdentityLookupFailed, status, body)
	}
	user := resp.Data.User
	if user == nil && len(resp.Data.Users) > 0 {
		user = &resp.Data.Users[0]
	}
	if user == nil {
		return nil, fmt.Errorf("[tiktok LookupIdentity] response has no user: %w", apperrors.ErrIdentityLookupFailed)
	}
	return user.identity(), nil
}

func (u *userInfo) identity() *platforms.Identity {
	avatar := u.AvatarLargeURL
	if avatar == "" {
		avatar = u.AvatarURL
	}
	return &platforms.Identity{
		PlatformUserID: u.OpenID,
		DisplayName:    utils.NonEmpty(u.DisplayName),
		Username:       utils.NonEmpty(u.Username),
		AvatarURL:      utils.NonEmpty(avatar),
		Verified:       u.IsVerified,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		LikesCount:     u.LikesCount,
		VideoCount:     u.VideoCount,
	}
}

func (a *Adapter) do(req *http.Request) ([]byte, int, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
