package server

// Route path constants
const (
	RouteHealth = "/healthz"

	// OAuth connection flow
	RouteOAuthInitiate = "/oauth/{platform}/initiate"
	RouteOAuthCallback = "/oauth/{platform}/callback"

	// Connection management
	RouteConnections       = "/connections"
	RouteConnectionsStatus = "/connections/status"

	// Posting
	RoutePosts = "/posts/{platform}"
)
