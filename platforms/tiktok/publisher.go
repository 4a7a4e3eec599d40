package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/jrsteele09/go-social-connect/publish"
)

const publishContentInitPath = "/v2/post/publish/content/init/"

// Publisher posts photos with the Content Posting API direct post flow.
type Publisher struct {
	apiBaseURL   string
	privacyLevel string
}

var _ publish.Publisher = (*Publisher)(nil)

// NewPublisher creates a publisher against apiBaseURL (DefaultAPIBaseURL when empty).
func NewPublisher(apiBaseURL string) *Publisher {
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}
	return &Publisher{
		apiBaseURL:   strings.TrimSuffix(apiBaseURL, "/"),
		privacyLevel: "PUBLIC_TO_EVERYONE",
	}
}

type postInfo struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	DisableComment bool   `json:"disable_comment"`
	PrivacyLevel   string `json:"privacy_level"`
	AutoAddMusic   bool   `json:"auto_add_music"`
}

type sourceInfo struct {
	Source          string   `json:"source"`
	PhotoCoverIndex int      `json:"photo_cover_index"`
	PhotoImages     []string `json:"photo_images"`
}

type contentInitRequest struct {
	PostInfo   postInfo   `json:"post_info"`
	SourceInfo sourceInfo `json:"source_info"`
	PostMode   string     `json:"post_mode"`
	MediaType  string     `json:"media_type"`
}

type contentInitResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
	} `json:"data"`
}

// Publish starts a photo direct post; TikTok pulls the image from post.ImageURL.
func (p *Publisher) Publish(ctx context.Context, client *http.Client, post publish.Post) (*publish.Result, error) {
	payload, err := json.Marshal(contentInitRequest{
		PostInfo: postInfo{
			Title:        post.Caption,
			Description:  post.Caption,
			PrivacyLevel: p.privacyLevel,
			AutoAddMusic: true,
		},
		SourceInfo: sourceInfo{
			Source:      "PULL_FROM_URL",
			PhotoImages: []string{post.ImageURL},
		},
		PostMode:  "DIRECT_POST",
		MediaType: "PHOTO",
	})
	if err != nil {
		return nil, fmt.Errorf("[tiktok Publish] %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBaseURL+publishContentInitPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("[tiktok Publish] %v: %w", err, apperrors.ErrPublishFailed)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[tiktok Publish] %v: %w", err, apperrors.ErrPublishFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("[tiktok Publish] reading response: %v: %w", err, apperrors.ErrPublishFailed)
	}
	if err := oauth2.CheckResponse(apperrors.ErrPublishFailed, resp.StatusCode, body); err != nil {
		return nil, err
	}

	var out contentInitResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Data.PublishID == "" {
		return nil, fmt.Errorf("[tiktok Publish] response has no publish_id: %w", apperrors.ErrPublishFailed)
	}
	return &publish.Result{PublishID: out.Data.PublishID}, nil
}
