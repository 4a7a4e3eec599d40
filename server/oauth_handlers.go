package server

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-social-connect/connections"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/internal/utils"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/jrsteele09/go-social-connect/platforms"
)

// Authorization flow states, as they appear in the logs.
const (
	flowIdle                     = "idle"
	flowAwaitingProviderRedirect = "awaiting_provider_redirect"
	flowAwaitingCallback         = "awaiting_callback"
	flowConnected                = "connected"
	flowFailed                   = "failed"
)

// Failure reasons attached to <platform>_callback_failed redirects.
const (
	reasonConfiguration  = "configuration"
	reasonTokenExchange  = "token_exchange"
	reasonIdentityLookup = "identity_lookup"
	reasonStore          = "store"
)

const (
	errorInvalidState     = "invalid_state"
	errorNotAuthenticated = "not_authenticated"
)

// InitiateHandler starts an authorization attempt: it stores a fresh state token in
// the browser side channel and redirects to the provider. Configuration errors end
// the attempt with a JSON 500 and no redirect.
func (s *Server) InitiateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adapter, err := s.registry.Lookup(r.PathValue("platform"))
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown platform")
			return
		}
		platform := adapter.Platform()
		logger := log.With().Str("platform", platform).Logger()
		logger.Debug().Str("flow_state", flowIdle).Msg("authorization requested")

		cfg, err := adapter.OAuthConfig()
		if err != nil {
			logger.Error().Err(err).Str("flow_state", flowFailed).Msg("platform is not configured")
			writeError(w, http.StatusInternalServerError, platform+" OAuth is not configured")
			return
		}
		state, err := oauth2.GenerateStateToken()
		if err != nil {
			logger.Error().Err(err).Str("flow_state", flowFailed).Msg("generating state token")
			writeError(w, http.StatusInternalServerError, "failed to start authorization")
			return
		}
		authReq, err := oauth2.BuildAuthorizationURL(cfg, state, adapter.AuthorizationParams())
		if err != nil {
			logger.Error().Err(err).Str("flow_state", flowFailed).Msg("building authorization url")
			writeError(w, http.StatusInternalServerError, platform+" OAuth is not configured")
			return
		}
		if err := s.state.Save(w, r, platform, authReq.State); err != nil {
			logger.Error().Err(err).Str("flow_state", flowFailed).Msg("saving state token")
			writeError(w, http.StatusInternalServerError, "failed to start authorization")
			return
		}

		logger.Info().Str("flow_state", flowAwaitingProviderRedirect).Msg("redirecting to provider")
		http.Redirect(w, r, authReq.URL, http.StatusFound)
	}
}

// CallbackHandler completes an authorization attempt. Every outcome is a redirect to
// the connections page carrying a success or error code; the steps run strictly in
// order and the first failure ends the attempt.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adapter, err := s.registry.Lookup(r.PathValue("platform"))
		if err != nil {
			// No state was ever issued for a platform without an adapter.
			log.Warn().Err(err).Str("flow_state", flowFailed).Msg("callback for unknown platform")
			s.redirectToConnections(w, r, "error", errorInvalidState, "")
			return
		}
		platform := adapter.Platform()
		logger := log.With().Str("platform", platform).Logger()

		query := r.URL.Query()
		code, state := query.Get("code"), query.Get("state")
		if providerError := query.Get("error"); providerError != "" || code == "" {
			logger.Warn().
				Str("flow_state", flowFailed).
				Str("provider_error", providerError).
				Str("description", query.Get("error_description")).
				Msg("provider did not authorize")
			s.redirectToConnections(w, r, "error", platform+"_auth_failed", "")
			return
		}

		expected, err := s.state.Consume(w, r, platform)
		if err != nil {
			logger.Error().Err(err).Str("flow_state", flowFailed).Msg("reading stored state")
		}
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
			logger.Warn().Str("flow_state", flowFailed).Bool("stored", expected != "").Msg("state check failed")
			s.redirectToConnections(w, r, "error", errorInvalidState, "")
			return
		}
		logger.Debug().Str("flow_state", flowAwaitingCallback).Msg("state verified")

		principal, err := s.auth.Authenticate(r)
		if err != nil {
			logger.Warn().Err(err).Str("flow_state", flowFailed).Msg("callback without a session")
			s.redirectToConnections(w, r, "error", errorNotAuthenticated, "")
			return
		}

		fail := func(reason string, err error) {
			failureEvent(logger, err).Str("flow_state", flowFailed).Str("reason", reason).Msg("callback failed")
			s.redirectToConnections(w, r, "error", platform+"_callback_failed", reason)
		}

		cfg, err := adapter.OAuthConfig()
		if err != nil {
			fail(reasonConfiguration, err)
			return
		}
		exchange, err := s.oauth.ExchangeCode(r.Context(), cfg, code, state, expected)
		if err != nil {
			fail(reasonTokenExchange, err)
			return
		}

		scopes := grantedScopes(query.Get("scopes"), exchange.Scope)
		identity, err := adapter.LookupIdentity(r.Context(), exchange.AccessToken, utils.SplitList(utils.Value(scopes)))
		if err != nil {
			fail(reasonIdentityLookup, err)
			return
		}

		store, err := s.connectionStore(principal)
		if err != nil {
			fail(reasonStore, err)
			return
		}
		conn, err := store.Upsert(r.Context(), connections.Connection{
			Platform:       platform,
			PlatformUserID: platformUserID(identity, exchange),
			AccessToken:    exchange.AccessToken,
			RefreshToken:   exchange.RefreshToken,
			ExpiresAt:      exchange.Expiry(),
			Scopes:         scopes,
		})
		if err != nil {
			fail(reasonStore, err)
			return
		}

		logger.Info().
			Str("flow_state", flowConnected).
			Str("connection_id", conn.ID).
			Bool("has_refresh_token", conn.RefreshToken != nil).
			Msg("platform connected")
		s.redirectToConnections(w, r, "success", platform+"_connected", "")
	}
}

// redirectToConnections sends the browser back to the connections page with a single
// status code in the query string.
func (s *Server) redirectToConnections(w http.ResponseWriter, r *http.Request, key, value, reason string) {
	params := url.Values{}
	params.Set(key, value)
	if reason != "" {
		params.Set("reason", reason)
	}
	page := s.config.GetConnectionsPage()
	sep := "?"
	if strings.Contains(page, "?") {
		sep = "&"
	}
	http.Redirect(w, r, page+sep+params.Encode(), http.StatusFound)
}

// grantedScopes prefers the scopes the provider appended to the callback over the
// scope field of the token response.
func grantedScopes(callbackScopes string, tokenScope *string) *string {
	if s := strings.TrimSpace(callbackScopes); s != "" {
		return &s
	}
	return utils.NonEmpty(utils.Value(tokenScope))
}

// platformUserID falls back to the open_id that TikTok returns with the token when
// the identity lookup could not supply one.
func platformUserID(identity *platforms.Identity, exchange *oauth2.Exchange) string {
	if identity != nil && identity.PlatformUserID != "" {
		return identity.PlatformUserID
	}
	return oauth2.StringValue(exchange.Extra["open_id"])
}

func failureEvent(logger zerolog.Logger, err error) *zerolog.Event {
	ev := logger.Warn().Err(err)
	var pe *oauth2.ProviderError
	if apperrors.As(err, &pe) {
		ev = ev.Int("status", pe.StatusCode).Str("provider_error", pe.Code).Str("description", pe.Description)
	}
	return ev
}
