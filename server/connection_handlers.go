package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-social-connect/connections"
	"github.com/jrsteele09/go-social-connect/sessions"
)

type connectionsResponse struct {
	Connections map[string]*connections.SocialConnection `json:"connections"`
}

type statusResponse struct {
	Status map[string]bool `json:"status"`
}

// ListConnectionsHandler lists the caller's connections over the tracked platforms,
// with null for platforms that are not connected. Token material is never included.
func (s *Server) ListConnectionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := s.requestStore(w, r)
		if !ok {
			return
		}
		tracked := s.registry.Tracked()
		conns, err := store.ListByPlatforms(r.Context(), tracked)
		if err != nil {
			log.Error().Err(err).Msg("listing connections")
			writeAPIError(w, err)
			return
		}

		byPlatform := make(map[string]*connections.SocialConnection, len(tracked))
		for _, p := range tracked {
			byPlatform[p] = nil
		}
		for _, c := range conns {
			byPlatform[c.Platform] = c
		}
		writeJSON(w, http.StatusOK, connectionsResponse{Connections: byPlatform})
	}
}

// ConnectionsStatusHandler reports connected or not for each tracked platform.
func (s *Server) ConnectionsStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := s.requestStore(w, r)
		if !ok {
			return
		}
		status, err := store.Status(r.Context(), s.registry.Tracked())
		if err != nil {
			log.Error().Err(err).Msg("reading connection status")
			writeAPIError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: status})
	}
}

// DeleteConnectionHandler disconnects ?platform=. Disconnecting a platform that is not
// connected still succeeds.
func (s *Server) DeleteConnectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("platform")
		if raw == "" {
			writeError(w, http.StatusBadRequest, "platform is required")
			return
		}
		platform, err := s.registry.Validate(raw)
		if err != nil {
			writeAPIError(w, err)
			return
		}
		store, ok := s.requestStore(w, r)
		if !ok {
			return
		}
		if err := store.Delete(r.Context(), platform); err != nil {
			log.Error().Err(err).Str("platform", platform).Msg("deleting connection")
			writeAPIError(w, err)
			return
		}
		log.Info().Str("platform", platform).Msg("platform disconnected")
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// requestStore returns the connection store of the principal set by RequireSession.
func (s *Server) requestStore(w http.ResponseWriter, r *http.Request) (*connections.Store, bool) {
	principal, ok := sessions.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	store, err := s.connectionStore(principal)
	if err != nil {
		writeAPIError(w, err)
		return nil, false
	}
	return store, true
}
