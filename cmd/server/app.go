package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-social-connect/connections"
	"github.com/jrsteele09/go-social-connect/connections/postgres"
	"github.com/jrsteele09/go-social-connect/connections/sqlite"
	"github.com/jrsteele09/go-social-connect/internal/config"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/internal/httpclient"
	"github.com/jrsteele09/go-social-connect/internal/secrets"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/jrsteele09/go-social-connect/platforms"
	"github.com/jrsteele09/go-social-connect/platforms/tiktok"
	"github.com/jrsteele09/go-social-connect/platforms/youtube"
	"github.com/jrsteele09/go-social-connect/publish"
	"github.com/jrsteele09/go-social-connect/server"
	"github.com/jrsteele09/go-social-connect/server/oauthstate"
	"github.com/jrsteele09/go-social-connect/sessions"
	"github.com/jrsteele09/go-social-connect/token/refresh"
)

// app owns the long lived resources behind the HTTP handler.
type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, c config.Config) (*app, error) {
	a := &app{}

	db, err := openDatabase(ctx, c)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.close)

	table := db.table
	if key := c.GetTokenEncryptionKey(); key != "" {
		sealer, err := secrets.NewSealer(key)
		if err != nil {
			a.close()
			return nil, err
		}
		table = connections.NewSealedTable(table, sealer)
	} else {
		log.Warn().Msg("TOKEN_ENCRYPTION_KEY not set, platform tokens are stored unencrypted")
	}

	stateStore, closeState, err := newStateStore(ctx, c)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, closeState)

	verifier, err := sessions.NewJWTVerifier(c.GetSessionSecret(), c.GetSessionCookieName(),
		sessions.WithAudience(c.GetSessionAudience()))
	if err != nil {
		a.close()
		return nil, err
	}

	rps, burst := c.GetProviderRateLimit()
	httpClient := httpclient.New(httpclient.Options{
		Timeout:           c.GetProviderTimeout(),
		RequestsPerSecond: rps,
		Burst:             burst,
	})

	tiktokAdapter := tiktok.New(httpClient)
	registry := platforms.NewRegistry(c.GetTrackedPlatforms(), tiktokAdapter, youtube.New(httpClient))
	oauthClient := oauth2.NewClient(httpClient)
	manager := refresh.NewManager(oauthClient, c.GetExpiryBuffer())
	publisher := publish.NewService(registry, manager, map[string]publish.Publisher{
		platforms.TikTok: tiktok.NewPublisher(""),
	}, httpClient)

	s, err := server.New(c, server.Dependencies{
		Registry:      registry,
		Connections:   table,
		StateStore:    stateStore,
		Authenticator: verifier,
		OAuth:         oauthClient,
		Publisher:     publisher,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	a.handler = s
	log.Info().Strs("connectable", registry.Connectable()).Strs("routes", s.Routes()).Msg("server ready")
	return a, nil
}

type database struct {
	table connections.Table
	close func()
}

// openDatabase opens the configured connection table and applies its migrations.
func openDatabase(ctx context.Context, c config.Config) (*database, error) {
	switch driver := strings.ToLower(c.GetDatabaseDriver()); driver {
	case "sqlite":
		t, err := sqlite.Open(c.GetDataFolder())
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", t.Path()).Msg("sqlite connection store ready")
		return &database{table: t, close: func() { _ = t.Close() }}, nil
	case "postgres":
		pool, err := postgres.Connect(ctx, c.GetDatabaseURL())
		if err != nil {
			return nil, err
		}
		t := postgres.NewTable(pool)
		if err := t.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("postgres connection store ready")
		return &database{table: t, close: pool.Close}, nil
	default:
		return nil, fmt.Errorf("[openDatabase] unsupported DATABASE_DRIVER %q: %w", driver, apperrors.ErrConfiguration)
	}
}

func newStateStore(ctx context.Context, c config.Config) (oauthstate.Store, func(), error) {
	switch kind := strings.ToLower(c.GetStateStore()); kind {
	case "cookie":
		return oauthstate.NewCookieStore(c.GetStateTTL()), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("[newStateStore] redis ping: %w", err)
		}
		return oauthstate.NewRedisStore(client, c.GetStateTTL()), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("[newStateStore] unsupported STATE_STORE %q: %w", kind, apperrors.ErrConfiguration)
	}
}
