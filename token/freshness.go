package token

import "time"

// DefaultExpiryBuffer is how close to expiry a stored access token may get before it is refreshed.
const DefaultExpiryBuffer = 300 * time.Second

// IsExpired is true iff an expiry exists and is strictly in the past.
func IsExpired(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return false
	}
	return expiresAt.Before(now)
}

// IsExpiringSoon is true iff an expiry exists and less than buffer remains.
// A token without an expiry is used at face value and never expires soon.
func IsExpiringSoon(expiresAt *time.Time, buffer time.Duration, now time.Time) bool {
	if expiresAt == nil {
		return false
	}
	return expiresAt.Sub(now) < buffer
}

// NeedsRefresh combines both checks: the caller must refresh (or reauthorize) before use.
func NeedsRefresh(expiresAt *time.Time, buffer time.Duration, now time.Time) bool {
	return IsExpired(expiresAt, now) || IsExpiringSoon(expiresAt, buffer, now)
}
