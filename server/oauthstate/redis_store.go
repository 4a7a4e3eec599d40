package oauthstate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jrsteele09/go-social-connect/oauth2"
)

const redisKeyPrefix = "oauth_state:"

// RedisClient is the subset of go-redis commands the store uses.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps the state server side. The browser cookie only carries a random
// binding id, and GETDEL makes each state usable once even if the cookie is replayed.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, platform, state string) error {
	binding, err := oauth2.GenerateStateToken()
	if err != nil {
		return fmt.Errorf("[RedisStore Save] %w", err)
	}
	if err := s.client.Set(r.Context(), redisKey(platform, binding), state, s.ttl).Err(); err != nil {
		return fmt.Errorf("[RedisStore Save] %w", err)
	}
	setCookie(w, r, CookieName(platform), binding, s.ttl)
	return nil
}

func (s *RedisStore) Consume(w http.ResponseWriter, r *http.Request, platform string) (string, error) {
	name := CookieName(platform)
	binding := cookieValue(r, name)
	if binding == "" {
		return "", nil
	}
	clearCookie(w, r, name)

	state, err := s.client.GetDel(r.Context(), redisKey(platform, binding)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("[RedisStore Consume] %w", err)
	}
	return state, nil
}

func redisKey(platform, binding string) string {
	return redisKeyPrefix + platform + ":" + binding
}
