package tiktok

import "slices"

// TikTok OAuth scopes
const (
	ScopeUserInfoBasic   = "user.info.basic"
	ScopeUserInfoProfile = "user.info.profile"
	ScopeUserInfoStats   = "user.info.stats"
	ScopeVideoList       = "video.list"
	ScopeVideoUpload     = "video.upload"
	ScopeVideoPublish    = "video.publish"
)

// DefaultScopes are requested when connecting an account.
var DefaultScopes = []string{ScopeUserInfoBasic, ScopeVideoUpload}

// User fields grouped by the scope that unlocks them
var (
	BasicUserFields   = []string{"open_id", "union_id", "avatar_url", "avatar_url_100", "avatar_large_url", "display_name"}
	ProfileUserFields = []string{"bio_description", "profile_deep_link", "is_verified", "username"}
	StatsUserFields   = []string{"follower_count", "following_count", "likes_count", "video_count"}
)

// UserFields lists the user info fields the granted scopes allow. Without any
// recognised scope only the basic fields are requested.
func UserFields(grantedScopes []string) []string {
	var fields []string
	if slices.Contains(grantedScopes, ScopeUserInfoBasic) {
		fields = append(fields, BasicUserFields...)
	}
	if slices.Contains(grantedScopes, ScopeUserInfoProfile) {
		fields = append(fields, ProfileUserFields...)
	}
	if slices.Contains(grantedScopes, ScopeUserInfoStats) {
		fields = append(fields, StatsUserFields...)
	}
	if len(fields) == 0 {
		fields = slices.Clone(BasicUserFields)
	}
	return fields
}
