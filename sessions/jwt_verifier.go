package sessions

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

// Claims are the session access token claims issued by the identity provider.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwtlib.RegisteredClaims
}

// JWTVerifier validates HS256 session tokens from the Authorization header or a cookie.
type JWTVerifier struct {
	secret     []byte
	cookieName string
	audience   string
	leeway     time.Duration
	nowTime    func() time.Time
}

var _ Authenticator = (*JWTVerifier)(nil)

type VerifierOption func(*JWTVerifier)

// WithAudience requires the aud claim to contain audience. Empty disables the check.
func WithAudience(audience string) VerifierOption {
	return func(v *JWTVerifier) {
		v.audience = audience
	}
}

func WithNowTime(now func() time.Time) VerifierOption {
	return func(v *JWTVerifier) {
		v.nowTime = now
	}
}

// NewJWTVerifier creates a verifier for tokens signed with secret.
func NewJWTVerifier(secret, cookieName string, opts ...VerifierOption) (*JWTVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("[sessions NewJWTVerifier] session secret is empty: %w", apperrors.ErrConfiguration)
	}
	v := &JWTVerifier{
		secret:     []byte(secret),
		cookieName: cookieName,
		leeway:     30 * time.Second,
		nowTime:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Authenticate prefers a Bearer token and falls back to the session cookie.
func (v *JWTVerifier) Authenticate(r *http.Request) (*Principal, error) {
	raw := bearerToken(r)
	if raw == "" && v.cookieName != "" {
		if c, err := r.Cookie(v.cookieName); err == nil {
			raw = c.Value
		}
	}
	if raw == "" {
		return nil, fmt.Errorf("[sessions Authenticate] no session token: %w", apperrors.ErrNotAuthenticated)
	}
	return v.Verify(raw)
}

// Verify parses and validates a raw token.
func (v *JWTVerifier) Verify(raw string) (*Principal, error) {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithLeeway(v.leeway),
		jwtlib.WithTimeFunc(v.nowTime),
	}
	if v.audience != "" {
		opts = append(opts, jwtlib.WithAudience(v.audience))
	}

	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(raw, claims, func(*jwtlib.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("[sessions Verify] %v: %w", err, apperrors.ErrNotAuthenticated)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("[sessions Verify] token has no subject: %w", apperrors.ErrNotAuthenticated)
	}
	return &Principal{UserID: claims.Subject, Email: claims.Email}, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
