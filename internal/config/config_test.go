package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testFile = `
[server]
port = "9090"
connections_page = "/settings/connections"

[storage]
driver = "postgres"

[oauth]
tracked_platforms = ["tiktok", "youtube"]
expiry_buffer = "2m"
`

func writeConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testFile), 0o600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv(configFileVar, "")
	t.Setenv(portEnvVar, "")
	fileValues = map[string]string{}

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "/dashboard/settings/connections", c.GetConnectionsPage())
	require.Equal(t, []string{"tiktok", "soundcloud", "youtube", "instagram"}, c.GetTrackedPlatforms())
	require.Equal(t, 300*time.Second, c.GetExpiryBuffer())
	require.Equal(t, 10*time.Minute, c.GetStateTTL())
	require.Equal(t, "sqlite", c.GetDatabaseDriver())
	require.Equal(t, "cookie", c.GetStateStore())
}

func TestNew_FileValuesAndEnvOverride(t *testing.T) {
	t.Setenv(configFileVar, writeConfigFile(t))
	t.Setenv(portEnvVar, "7070")
	t.Cleanup(func() { fileValues = map[string]string{} })

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, ":7070", c.GetPort(), "env wins over file")
	require.Equal(t, "/settings/connections", c.GetConnectionsPage())
	require.Equal(t, "postgres", c.GetDatabaseDriver())
	require.Equal(t, []string{"tiktok", "youtube"}, c.GetTrackedPlatforms())
	require.Equal(t, 2*time.Minute, c.GetExpiryBuffer())
}

func TestNew_MissingFile(t *testing.T) {
	t.Setenv(configFileVar, filepath.Join(t.TempDir(), "missing.toml"))
	_, err := New()
	require.Error(t, err)
}

func TestGetAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	origins := Cors{}.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://c.example.com"))
}
