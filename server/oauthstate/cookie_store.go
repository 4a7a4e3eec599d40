package oauthstate

import (
	"net/http"
	"time"
)

// CookieStore keeps the state itself in the browser cookie.
type CookieStore struct {
	ttl time.Duration
}

var _ Store = (*CookieStore)(nil)

func NewCookieStore(ttl time.Duration) *CookieStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CookieStore{ttl: ttl}
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, platform, state string) error {
	setCookie(w, r, CookieName(platform), state, s.ttl)
	return nil
}

func (s *CookieStore) Consume(w http.ResponseWriter, r *http.Request, platform string) (string, error) {
	name := CookieName(platform)
	state := cookieValue(r, name)
	if state != "" {
		clearCookie(w, r, name)
	}
	return state, nil
}
