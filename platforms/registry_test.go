package platforms_test

import (
	"context"
	"testing"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/jrsteele09/go-social-connect/platforms"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	platform string
}

func (s stubAdapter) Platform() string { return s.platform }

func (s stubAdapter) OAuthConfig() (oauth2.Config, error) { return oauth2.Config{}, nil }

func (s stubAdapter) AuthorizationParams() map[string]string { return nil }

func (s stubAdapter) LookupIdentity(context.Context, string, []string) (*platforms.Identity, error) {
	return &platforms.Identity{PlatformUserID: "id"}, nil
}

func TestRegistryLookup(t *testing.T) {
	r := platforms.NewRegistry(nil, stubAdapter{platforms.TikTok})

	a, err := r.Lookup("tiktok")
	require.NoError(t, err)
	require.Equal(t, platforms.TikTok, a.Platform())

	a, err = r.Lookup(" TikTok ")
	require.NoError(t, err)
	require.Equal(t, platforms.TikTok, a.Platform())

	_, err = r.Lookup("myspace")
	require.ErrorIs(t, err, apperrors.ErrUnknownPlatform)

	_, err = r.Lookup("soundcloud")
	require.ErrorIs(t, err, apperrors.ErrUnknownPlatform)
}

func TestRegistryValidate(t *testing.T) {
	r := platforms.NewRegistry(nil, stubAdapter{platforms.TikTok}, stubAdapter{"mastodon"})

	p, err := r.Validate("SoundCloud")
	require.NoError(t, err)
	require.Equal(t, platforms.SoundCloud, p)

	p, err = r.Validate("mastodon")
	require.NoError(t, err)
	require.Equal(t, "mastodon", p)

	_, err = r.Validate("")
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = r.Validate("myspace")
	require.ErrorIs(t, err, apperrors.ErrUnknownPlatform)
}

func TestRegistryLists(t *testing.T) {
	r := platforms.NewRegistry([]string{"tiktok", "youtube"}, stubAdapter{platforms.YouTube}, stubAdapter{platforms.TikTok})
	require.Equal(t, []string{"tiktok", "youtube"}, r.Tracked())
	require.Equal(t, []string{"tiktok", "youtube"}, r.Connectable())

	tracked := r.Tracked()
	tracked[0] = "changed"
	require.Equal(t, "tiktok", r.Tracked()[0])
}
