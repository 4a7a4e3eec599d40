package youtube_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/jrsteele09/go-social-connect/platforms/youtube"
	"github.com/stretchr/testify/require"
)

// newIssuer serves an OIDC discovery document and a userinfo endpoint accepting accessToken.
func newIssuer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                                server.URL,
			"authorization_endpoint":                server.URL + "/auth",
			"token_endpoint":                        server.URL + "/token",
			"userinfo_endpoint":                     server.URL + "/userinfo",
			"jwks_uri":                              server.URL + "/jwks",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sub": "1098765",
			"name": "Band Name",
			"picture": "https://lh3.example.com/photo.jpg",
			"email": "band@example.com",
			"email_verified": true
		}`))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestOAuthConfig(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "g-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "g-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://app.example.com/oauth/youtube/callback")

	a := youtube.New(nil)
	cfg, err := a.OAuthConfig()
	require.NoError(t, err)
	require.Equal(t, youtube.DefaultTokenURL, cfg.TokenURL)

	req, err := oauth2.BuildAuthorizationURL(cfg, "S", a.AuthorizationParams())
	require.NoError(t, err)
	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "g-id", q.Get("client_id"))
	require.Equal(t, "offline", q.Get("access_type"))
	require.Equal(t, "consent", q.Get("prompt"))
	require.Contains(t, q.Get("scope"), "openid profile email")
}

func TestOAuthConfigMissingSecrets(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_REDIRECT_URI", "")

	_, err := youtube.New(nil).OAuthConfig()
	require.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestLookupIdentity(t *testing.T) {
	issuer := newIssuer(t, "ya29.good")
	a := youtube.New(issuer.Client(), youtube.WithIssuer(issuer.URL))

	id, err := a.LookupIdentity(context.Background(), "ya29.good", nil)
	require.NoError(t, err)
	require.Equal(t, "1098765", id.PlatformUserID)
	require.Equal(t, "Band Name", *id.DisplayName)
	require.Equal(t, "band@example.com", *id.Email)
	require.Equal(t, "https://lh3.example.com/photo.jpg", *id.AvatarURL)
	require.True(t, *id.Verified)
	require.Nil(t, id.Username)
}

func TestLookupIdentityRejectedToken(t *testing.T) {
	issuer := newIssuer(t, "ya29.good")
	a := youtube.New(issuer.Client(), youtube.WithIssuer(issuer.URL))

	_, err := a.LookupIdentity(context.Background(), "ya29.bad", nil)
	require.ErrorIs(t, err, apperrors.ErrIdentityLookupFailed)
	var pe *oauth2.ProviderError
	require.ErrorAs(t, err, &pe)
}

func TestLookupIdentityDiscoveryFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := youtube.New(server.Client(), youtube.WithIssuer(server.URL)).LookupIdentity(context.Background(), "ya29.good", nil)
	require.ErrorIs(t, err, apperrors.ErrIdentityLookupFailed)
}
