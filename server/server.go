// Package server is the HTTP surface of the connections service: the OAuth initiate and
// callback flows, connection management and posting.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-social-connect/connections"
	"github.com/jrsteele09/go-social-connect/internal/config"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/jrsteele09/go-social-connect/platforms"
	"github.com/jrsteele09/go-social-connect/publish"
	"github.com/jrsteele09/go-social-connect/server/oauthstate"
	"github.com/jrsteele09/go-social-connect/sessions"
)

// Dependencies are the collaborators the handlers drive. All are required.
type Dependencies struct {
	Registry      *platforms.Registry
	Connections   connections.Table
	StateStore    oauthstate.Store
	Authenticator sessions.Authenticator
	OAuth         *oauth2.Client
	Publisher     *publish.Service
}

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	registry    *platforms.Registry
	connections connections.Table
	state       oauthstate.Store
	auth        sessions.Authenticator
	oauth       *oauth2.Client
	publisher   *publish.Service
}

func New(cfg config.Config, deps Dependencies) (*Server, error) {
	if cfg == nil || deps.Registry == nil || deps.Connections == nil || deps.StateStore == nil ||
		deps.Authenticator == nil || deps.OAuth == nil || deps.Publisher == nil {
		return nil, fmt.Errorf("[Server New] missing dependency: %w", apperrors.ErrConfiguration)
	}

	s := &Server{
		env:         cfg.GetEnv(),
		mux:         http.NewServeMux(),
		config:      cfg,
		registry:    deps.Registry,
		connections: deps.Connections,
		state:       deps.StateStore,
		auth:        deps.Authenticator,
		oauth:       deps.OAuth,
		publisher:   deps.Publisher,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

// Routes returns the registered route patterns.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		log.Debug().Str("method", method).Str("path", path).Msg("route registered")
	}
}

// connectionStore scopes the connection table to the signed in user.
func (s *Server) connectionStore(p *sessions.Principal) (*connections.Store, error) {
	return connections.NewStore(s.connections, p.UserID)
}
