// Package oauthstate keeps the CSRF state of an in-flight authorization attempt between
// the initiate redirect and the provider callback. The browser always holds a single
// opaque, httpOnly credential that it echoes back unmodified.
package oauthstate

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTTL bounds how long an authorization attempt may stay in flight.
const DefaultTTL = 10 * time.Minute

// Store saves and consumes state tokens, one per platform per browser.
type Store interface {
	// Save binds state to the browser making r.
	Save(w http.ResponseWriter, r *http.Request, platform, state string) error

	// Consume returns the stored state and invalidates it. It returns "" when nothing
	// is stored or the attempt has expired.
	Consume(w http.ResponseWriter, r *http.Request, platform string) (string, error)
}

// CookieName is the browser cookie used for platform.
func CookieName(platform string) string {
	return platform + "_oauth_state"
}

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl / time.Second),
	})
}

func clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
