package tiktok_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/platforms/tiktok"
	"github.com/jrsteele09/go-social-connect/publish"
	"github.com/stretchr/testify/require"
)

func TestPublishPhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/post/publish/content/init/", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "DIRECT_POST", body["post_mode"])
		require.Equal(t, "PHOTO", body["media_type"])
		source := body["source_info"].(map[string]any)
		require.Equal(t, "PULL_FROM_URL", source["source"])
		require.Equal(t, []any{"https://img.example.com/cover.jpg"}, source["photo_images"])
		info := body["post_info"].(map[string]any)
		require.Equal(t, "New single out now", info["title"])

		_, _ = w.Write([]byte(`{"data":{"publish_id":"p_pub_1"},"error":{"code":"ok","message":""}}`))
	}))
	defer server.Close()

	res, err := tiktok.NewPublisher(server.URL).Publish(context.Background(), server.Client(), publish.Post{
		ImageURL: "https://img.example.com/cover.jpg",
		Caption:  "New single out now",
	})
	require.NoError(t, err)
	require.Equal(t, "p_pub_1", res.PublishID)
}

func TestPublishProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{},"error":{"code":"spam_risk_too_many_posts","message":"slow down"}}`))
	}))
	defer server.Close()

	_, err := tiktok.NewPublisher(server.URL).Publish(context.Background(), server.Client(), publish.Post{
		ImageURL: "https://img.example.com/cover.jpg",
		Caption:  "caption",
	})
	require.ErrorIs(t, err, apperrors.ErrPublishFailed)
}

func TestPublishMissingPublishID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	_, err := tiktok.NewPublisher(server.URL).Publish(context.Background(), server.Client(), publish.Post{
		ImageURL: "https://img.example.com/cover.jpg",
		Caption:  "caption",
	})
	require.ErrorIs(t, err, apperrors.ErrPublishFailed)
}
