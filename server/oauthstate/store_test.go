package oauthstate_test

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-social-connect/server/oauthstate"
)

const testState = "state-123"

func TestCookieStoreRoundTrip(t *testing.T) {
	store := oauthstate.NewCookieStore(0)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/oauth/tiktok/initiate", nil)
	require.NoError(t, store.Save(w, r, "tiktok", testState))

	cookie := findCookie(t, w.Result().Cookies(), "tiktok_oauth_state")
	require.Equal(t, testState, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, 600, cookie.MaxAge)
	require.Equal(t, "/", cookie.Path)
	require.False(t, cookie.Secure)

	callback := httptest.NewRequest(http.MethodGet, "/oauth/tiktok/callback", nil)
	callback.AddCookie(cookie)
	cw := httptest.NewRecorder()
	state, err := store.Consume(cw, callback, "tiktok")
	require.NoError(t, err)
	require.Equal(t, testState, state)

	cleared := findCookie(t, cw.Result().Cookies(), "tiktok_oauth_state")
	require.Equal(t, -1, cleared.MaxAge)
}

func TestCookieStoreMissingCookie(t *testing.T) {
	store := oauthstate.NewCookieStore(time.Minute)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/oauth/tiktok/callback", nil)

	state, err := store.Consume(w, r, "tiktok")
	require.NoError(t, err)
	require.Empty(t, state)
	require.Empty(t, w.Result().Cookies())
}

func TestCookieStoreSecureBehindProxy(t *testing.T) {
	store := oauthstate.NewCookieStore(time.Minute)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/oauth/youtube/initiate", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	require.NoError(t, store.Save(w, r, "youtube", testState))
	require.True(t, findCookie(t, w.Result().Cookies(), "youtube_oauth_state").Secure)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/oauth/youtube/initiate", nil)
	r.TLS = &tls.ConnectionState{}
	require.NoError(t, store.Save(w, r, "youtube", testState))
	require.True(t, findCookie(t, w.Result().Cookies(), "youtube_oauth_state").Secure)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client := newFakeRedis()
	store := oauthstate.NewRedisStore(client, 0)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/oauth/tiktok/initiate", nil)
	require.NoError(t, store.Save(w, r, "tiktok", testState))

	cookie := findCookie(t, w.Result().Cookies(), "tiktok_oauth_state")
	require.NotEqual(t, testState, cookie.Value)
	require.Equal(t, oauthstate.DefaultTTL, client.ttl["oauth_state:tiktok:"+cookie.Value])

	callback := httptest.NewRequest(http.MethodGet, "/oauth/tiktok/callback", nil)
	callback.AddCookie(cookie)
	state, err := store.Consume(httptest.NewRecorder(), callback, "tiktok")
	require.NoError(t, err)
	require.Equal(t, testState, state)

	// A replayed binding cookie finds nothing.
	replay := httptest.NewRequest(http.MethodGet, "/oauth/tiktok/callback", nil)
	replay.AddCookie(cookie)
	state, err = store.Consume(httptest.NewRecorder(), replay, "tiktok")
	require.NoError(t, err)
	require.Empty(t, state)
}

func TestRedisStoreUnknownBinding(t *testing.T) {
	store := oauthstate.NewRedisStore(newFakeRedis(), time.Minute)

	r := httptest.NewRequest(http.MethodGet, "/oauth/tiktok/callback", nil)
	r.AddCookie(&http.Cookie{Name: "tiktok_oauth_state", Value: "forged"})
	state, err := store.Consume(httptest.NewRecorder(), r, "tiktok")
	require.NoError(t, err)
	require.Empty(t, state)
}

func findCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	require.FailNow(t, "cookie not set", name)
	return nil
}

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	ttl    map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) GetDel(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	delete(f.values, key)
	return redis.NewStringResult(v, nil)
}
