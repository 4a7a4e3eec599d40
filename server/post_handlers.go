package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-social-connect/publish"
)

const maxPostBodyBytes = 64 << 10

type publishResponse struct {
	Success   bool   `json:"success"`
	PublishID string `json:"publish_id"`
}

// PublishHandler posts {imageUrl, caption} to the platform with the caller's stored
// connection, refreshing its token first when it is stale.
func (s *Server) PublishHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var post publish.Post
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPostBodyBytes)).Decode(&post); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		store, ok := s.requestStore(w, r)
		if !ok {
			return
		}

		platform := r.PathValue("platform")
		result, err := s.publisher.Publish(r.Context(), store, platform, post)
		if err != nil {
			status, message := apiError(err)
			log.Warn().Err(err).Str("platform", platform).Int("status", status).Msg("post rejected")
			writeError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, publishResponse{Success: true, PublishID: result.PublishID})
	}
}
