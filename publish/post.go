// Package publish posts content to connected platforms using their stored tokens.
package publish

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

// Post is a photo post with a caption.
type Post struct {
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption"`
}

// Validate requires both fields and an absolute http(s) image URL the platform can pull.
func (p Post) Validate() error {
	if strings.TrimSpace(p.ImageURL) == "" || strings.TrimSpace(p.Caption) == "" {
		return fmt.Errorf("imageUrl and caption are required: %w", apperrors.ErrInvalidRequest)
	}
	u, err := url.Parse(p.ImageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("imageUrl must be an absolute http(s) URL: %w", apperrors.ErrInvalidRequest)
	}
	return nil
}

// Result identifies the post on the platform.
type Result struct {
	PublishID string `json:"publish_id"`
}

// Publisher posts to one platform. client already carries the user's bearer token.
type Publisher interface {
	Publish(ctx context.Context, client *http.Client, post Post) (*Result, error)
}
