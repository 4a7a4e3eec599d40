package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// apiError maps the error taxonomy to a status and a message that is safe to show.
func apiError(err error) (int, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case apperrors.Is(err, apperrors.ErrUnknownPlatform):
		return http.StatusBadRequest, "unknown platform"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusBadRequest, "platform is not connected"
	case apperrors.Is(err, apperrors.ErrUnsupported):
		return http.StatusBadRequest, "operation not supported for this platform"
	case apperrors.Is(err, apperrors.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not authenticated"
	case apperrors.Is(err, apperrors.ErrReauthorizationRequired):
		return http.StatusUnauthorized, "reauthorization required"
	case apperrors.Is(err, apperrors.ErrTokenRefreshFailed):
		return http.StatusUnauthorized, "token refresh failed, reconnect the platform"
	case apperrors.Is(err, apperrors.ErrConfiguration):
		return http.StatusInternalServerError, "platform is not configured"
	case apperrors.Is(err, apperrors.ErrPublishFailed):
		return http.StatusInternalServerError, "publish failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeAPIError(w http.ResponseWriter, err error) {
	status, message := apiError(err)
	writeError(w, status, message)
}
