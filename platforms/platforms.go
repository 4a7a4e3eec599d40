// Package platforms describes the social platforms a user can connect and how each
// one plugs into the generic OAuth engine.
package platforms

import (
	"context"

	"github.com/jrsteele09/go-social-connect/oauth2"
)

// Platform tags. Storage accepts any tag; the registry decides which are valid.
const (
	TikTok     = "tiktok"
	SoundCloud = "soundcloud"
	YouTube    = "youtube"
	Instagram  = "instagram"
)

// TrackedPlatforms are listed on the connections page, connected or not.
var TrackedPlatforms = []string{TikTok, SoundCloud, YouTube, Instagram}

// Adapter supplies the provider specific half of an OAuth connection.
type Adapter interface {
	Platform() string

	// OAuthConfig reads the client credentials at call time and fails with
	// ErrConfiguration when any of them are missing.
	OAuthConfig() (oauth2.Config, error)

	// AuthorizationParams are extra authorization URL parameters for provider quirks.
	AuthorizationParams() map[string]string

	// LookupIdentity fetches the platform account behind accessToken, asking only for
	// the fields grantedScopes allow.
	LookupIdentity(ctx context.Context, accessToken string, grantedScopes []string) (*Identity, error)
}

// Identity is the normalized platform account. Optional fields are nil when the
// granted scopes did not cover them.
type Identity struct {
	PlatformUserID string  `json:"platform_user_id"`
	DisplayName    *string `json:"display_name,omitempty"`
	Username       *string `json:"username,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	Email          *string `json:"email,omitempty"`
	Verified       *bool   `json:"verified,omitempty"`
	FollowerCount  *int64  `json:"follower_count,omitempty"`
	FollowingCount *int64  `json:"following_count,omitempty"`
	LikesCount     *int64  `json:"likes_count,omitempty"`
	VideoCount     *int64  `json:"video_count,omitempty"`
}
