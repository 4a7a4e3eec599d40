package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// Browser redirect flows
	s.RegisterRouteHandler("GET "+RouteOAuthInitiate, ChainMiddleware(s.InitiateHandler(), s.BrowserMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteOAuthCallback, ChainMiddleware(s.CallbackHandler(), s.BrowserMiddleware()...))

	// Session authenticated API
	s.RegisterRouteHandler("GET "+RouteConnections, ChainMiddleware(s.ListConnectionsHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteConnectionsStatus, ChainMiddleware(s.ConnectionsStatusHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("DELETE "+RouteConnections, ChainMiddleware(s.DeleteConnectionHandler(), s.APIMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RoutePosts, ChainMiddleware(s.PublishHandler(), s.APIMiddleware(s.RequireSession)...))

	// CORS preflight
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(http.NotFound, s.APIMiddleware()...))
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
