package publish

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	xoauth2 "golang.org/x/oauth2"

	"github.com/jrsteele09/go-social-connect/connections"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/platforms"
)

// AdapterLookup finds the adapter for a platform.
type AdapterLookup interface {
	Lookup(platform string) (platforms.Adapter, error)
}

// TokenSourcer hands out fresh bearer tokens for a user's connection.
type TokenSourcer interface {
	TokenSource(ctx context.Context, store *connections.Store, adapter platforms.Adapter) xoauth2.TokenSource
}

// Service publishes posts with the caller's stored connection.
type Service struct {
	adapters   AdapterLookup
	tokens     TokenSourcer
	publishers map[string]Publisher
	httpClient *http.Client
}

// NewService creates a publishing service. httpClient is the base transport for
// platform API calls; nil uses http.DefaultClient.
func NewService(adapters AdapterLookup, tokens TokenSourcer, publishers map[string]Publisher, httpClient *http.Client) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if publishers == nil {
		publishers = make(map[string]Publisher)
	}
	return &Service{
		adapters:   adapters,
		tokens:     tokens,
		publishers: publishers,
		httpClient: httpClient,
	}
}

// Publish validates post, makes sure the stored token is fresh and hands a bearer
// client to the platform publisher. Token errors are returned before any platform
// API call is made.
func (s *Service) Publish(ctx context.Context, store *connections.Store, platform string, post Post) (*Result, error) {
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("[publish Publish] %w", err)
	}
	adapter, err := s.adapters.Lookup(platform)
	if err != nil {
		return nil, err
	}
	publisher, ok := s.publishers[adapter.Platform()]
	if !ok {
		return nil, fmt.Errorf("[publish Publish] posting to %s: %w", adapter.Platform(), apperrors.ErrUnsupported)
	}

	ts := s.tokens.TokenSource(ctx, store, adapter)
	if _, err := ts.Token(); err != nil {
		return nil, err
	}
	client := xoauth2.NewClient(context.WithValue(ctx, xoauth2.HTTPClient, s.httpClient), ts)

	result, err := publisher.Publish(ctx, client, post)
	if err != nil {
		log.Warn().Str("platform", adapter.Platform()).Err(err).Msg("publish failed")
		return nil, err
	}
	log.Info().Str("platform", adapter.Platform()).Str("publish_id", result.PublishID).Msg("published post")
	return result, nil
}
