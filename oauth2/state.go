package oauth2

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const stateTokenBytes = 32

// GenerateStateToken returns an opaque, URL safe CSRF token with 256 bits of entropy.
func GenerateStateToken() (string, error) {
	b := make([]byte, stateTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("[oauth2 GenerateStateToken] %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
