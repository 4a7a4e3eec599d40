package oauth2_test

import (
	"net/url"
	"testing"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "client-123"
	testClientSecret = "secret-456"
	testRedirectURI  = "https://app.example.com/oauth/tiktok/callback"
	testState        = "state-S"
)

func testConfig(tokenURL string) oauth2.Config {
	return oauth2.Config{
		ClientID:         testClientID,
		ClientSecret:     testClientSecret,
		RedirectURI:      testRedirectURI,
		Scopes:           []string{"user.info.basic", "video.upload"},
		AuthorizationURL: "https://provider.example.com/auth/authorize/",
		TokenURL:         tokenURL,
	}
}

func TestBuildAuthorizationURL(t *testing.T) {
	req, err := oauth2.BuildAuthorizationURL(testConfig("https://provider.example.com/token"), testState, nil)
	require.NoError(t, err)
	require.Equal(t, testState, req.State)

	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	require.Equal(t, "provider.example.com", u.Host)
	require.Equal(t, "/auth/authorize/", u.Path)

	q := u.Query()
	require.Len(t, q, 5)
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, testRedirectURI, q.Get("redirect_uri"))
	require.Equal(t, testState, q.Get("state"))
	require.Equal(t, "user.info.basic,video.upload", q.Get("scope"))
	require.Equal(t, "code", q.Get("response_type"))
}

func TestBuildAuthorizationURLScopeOrderPreserved(t *testing.T) {
	cfg := testConfig("https://provider.example.com/token")
	cfg.Scopes = []string{"c", "a", "b"}

	req, err := oauth2.BuildAuthorizationURL(cfg, testState, nil)
	require.NoError(t, err)

	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	require.Equal(t, "c,a,b", u.Query().Get("scope"))
}

func TestBuildAuthorizationURLExtraParams(t *testing.T) {
	cfg := testConfig("https://provider.example.com/token")
	cfg.AuthorizationURL = "https://accounts.example.com/o/oauth2/v2/auth?hl=en"
	cfg.ClientIDParam = "client_key"
	cfg.ScopeDelimiter = " "

	req, err := oauth2.BuildAuthorizationURL(cfg, testState, map[string]string{
		"access_type":   "offline",
		"prompt":        "consent",
		"response_type": "code id_token",
	})
	require.NoError(t, err)

	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "en", q.Get("hl"))
	require.Equal(t, testClientID, q.Get("client_key"))
	require.Empty(t, q.Get("client_id"))
	require.Equal(t, "user.info.basic video.upload", q.Get("scope"))
	require.Equal(t, "offline", q.Get("access_type"))
	require.Equal(t, "consent", q.Get("prompt"))
	require.Equal(t, "code id_token", q.Get("response_type"))
}

func TestBuildAuthorizationURLInvalidConfig(t *testing.T) {
	cfg := testConfig("https://provider.example.com/token")
	cfg.ClientSecret = ""
	cfg.Scopes = nil

	_, err := oauth2.BuildAuthorizationURL(cfg, testState, nil)
	require.ErrorIs(t, err, apperrors.ErrConfiguration)
	require.Contains(t, err.Error(), "client secret")
	require.Contains(t, err.Error(), "scopes")
}

func TestBuildAuthorizationURLRequiresState(t *testing.T) {
	_, err := oauth2.BuildAuthorizationURL(testConfig("https://provider.example.com/token"), "", nil)
	require.Error(t, err)
}

func TestGenerateStateToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		s, err := oauth2.GenerateStateToken()
		require.NoError(t, err)
		require.Len(t, s, 43)
		require.NotContains(t, s, "=")
		require.NotContains(t, s, "+")
		require.NotContains(t, s, "/")
		_, dup := seen[s]
		require.False(t, dup)
		seen[s] = struct{}{}
	}
}
