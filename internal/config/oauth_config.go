package config

import (
	"strconv"
	"strings"
	"time"
)

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetStateTTL is how long an authorization attempt may stay in flight
func (OAuth) GetStateTTL() time.Duration {
	return 10 * time.Minute
}

// GetExpiryBuffer is how close to expiry a stored access token is treated as stale
func (OAuth) GetExpiryBuffer() time.Duration {
	return durationEnv("TOKEN_EXPIRY_BUFFER", 300*time.Second)
}

func (OAuth) GetProviderTimeout() time.Duration {
	return durationEnv("PROVIDER_TIMEOUT", 15*time.Second)
}

func (OAuth) GetProviderRateLimit() (float64, int) {
	rps, err := strconv.ParseFloat(GetEnv("PROVIDER_RATE_LIMIT", "5"), 64)
	if err != nil || rps <= 0 {
		rps = 5
	}
	burst, err := strconv.Atoi(GetEnv("PROVIDER_RATE_BURST", "10"))
	if err != nil || burst <= 0 {
		burst = 10
	}
	return rps, burst
}

// GetTrackedPlatforms lists the platforms shown on the connections page
func (OAuth) GetTrackedPlatforms() []string {
	var platforms []string
	for _, p := range strings.Split(GetEnv("TRACKED_PLATFORMS", "tiktok,soundcloud,youtube,instagram"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

func durationEnv(envVar string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(envVar, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
