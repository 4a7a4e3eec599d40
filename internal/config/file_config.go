package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// FileConfig is the optional TOML file layout. Environment variables always win over it.
type FileConfig struct {
	Server struct {
		Port            string `toml:"port"`
		AppName         string `toml:"app_name"`
		Env             string `toml:"env"`
		BaseURL         string `toml:"base_url"`
		ConnectionsPage string `toml:"connections_page"`
	} `toml:"server"`
	Storage struct {
		Driver        string `toml:"driver"`
		URL           string `toml:"url"`
		Folder        string `toml:"folder"`
		StateStore    string `toml:"state_store"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
	} `toml:"storage"`
	OAuth struct {
		TrackedPlatforms  []string `toml:"tracked_platforms"`
		ExpiryBuffer      string   `toml:"expiry_buffer"`
		ProviderTimeout   string   `toml:"provider_timeout"`
		ProviderRateLimit string   `toml:"provider_rate_limit"`
		ProviderRateBurst string   `toml:"provider_rate_burst"`
	} `toml:"oauth"`
}

var (
	fileMu     sync.RWMutex
	fileValues = map[string]string{}
)

func loadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("[config loadFile] reading %s: %w", path, err)
	}
	values, err := parseFile(data)
	if err != nil {
		return fmt.Errorf("[config loadFile] parsing %s: %w", path, err)
	}

	fileMu.Lock()
	defer fileMu.Unlock()
	fileValues = values
	return nil
}

func parseFile(data []byte) (map[string]string, error) {
	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}

	values := map[string]string{
		portEnvVar:            fc.Server.Port,
		appNameVar:            fc.Server.AppName,
		"ENV":                 fc.Server.Env,
		baseURLVar:            fc.Server.BaseURL,
		connectionsPageVar:    fc.Server.ConnectionsPage,
		"DATABASE_DRIVER":     fc.Storage.Driver,
		"DATABASE_URL":        fc.Storage.URL,
		"FOLDER":              fc.Storage.Folder,
		"STATE_STORE":         fc.Storage.StateStore,
		"REDIS_ADDR":          fc.Storage.RedisAddr,
		"REDIS_PASSWORD":      fc.Storage.RedisPassword,
		"TOKEN_EXPIRY_BUFFER": fc.OAuth.ExpiryBuffer,
		"PROVIDER_TIMEOUT":    fc.OAuth.ProviderTimeout,
		"PROVIDER_RATE_LIMIT": fc.OAuth.ProviderRateLimit,
		"PROVIDER_RATE_BURST": fc.OAuth.ProviderRateBurst,
	}
	if len(fc.OAuth.TrackedPlatforms) > 0 {
		values["TRACKED_PLATFORMS"] = strings.Join(fc.OAuth.TrackedPlatforms, ",")
	}
	return values, nil
}

func fileValue(envVar string) string {
	fileMu.RLock()
	defer fileMu.RUnlock()
	return fileValues[envVar]
}
