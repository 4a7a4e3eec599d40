package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	SecurityConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetConnectionsPage() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type OAuthConfig interface {
	GetStateTTL() time.Duration
	GetExpiryBuffer() time.Duration
	GetProviderTimeout() time.Duration
	GetProviderRateLimit() (requestsPerSecond float64, burst int)
	GetTrackedPlatforms() []string
}

type SecurityConfig interface {
	GetSessionSecret() string
	GetSessionCookieName() string
	GetSessionAudience() string
	GetTokenEncryptionKey() string
}

type StorageConfig interface {
	GetDatabaseDriver() string
	GetDatabaseURL() string
	GetDataFolder() string
	GetStateStore() string
	GetRedisAddr() string
	GetRedisPassword() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Security
	Storage
}

// New returns the process configuration. Values come from the environment, falling back
// to the optional CONFIG_FILE and then to built-in defaults.
func New() (Config, error) {
	if err := loadFile(GetEnv(configFileVar, "")); err != nil {
		return nil, err
	}
	return mainConfig{}, nil
}
