package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar         = "PORT"
	appNameVar         = "APP_NAME"
	baseURLVar         = "BASE_URL"
	connectionsPageVar = "CONNECTIONS_PAGE"
	configFileVar      = "CONFIG_FILE"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Social Connect")
}

func (EnvVars) GetEnv() string {
	return GetEnv("ENV", "DEV")
}

// GetBaseURL returns the public base URL of the service (e.g., "https://app.example.com")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// GetConnectionsPage is where every OAuth callback ends up, with a success or error code attached
func (EnvVars) GetConnectionsPage() string {
	return GetEnv(connectionsPageVar, "/dashboard/settings/connections")
}

// GetEnv reads envVar, then the config file, then falls back to defaultValue
func GetEnv(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	if value := fileValue(envVar); value != "" {
		return value
	}
	return defaultValue
}
