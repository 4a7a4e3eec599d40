package config

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret is the HMAC secret the identity service signs session JWTs with
func (Security) GetSessionSecret() string {
	return GetEnv("SESSION_JWT_SECRET", "")
}

func (Security) GetSessionCookieName() string {
	return GetEnv("SESSION_COOKIE", "sb-access-token")
}

func (Security) GetSessionAudience() string {
	return GetEnv("SESSION_AUDIENCE", "authenticated")
}

// GetTokenEncryptionKey is a base64 encoded 32 byte key. Empty disables sealing at rest.
func (Security) GetTokenEncryptionKey() string {
	return GetEnv("TOKEN_ENCRYPTION_KEY", "")
}
