package oauth2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TokenResponse is the result of an authorization code or refresh token exchange.
// It is never stored as-is: ExpiresIn is converted into an absolute expiry first.
type TokenResponse struct {
	// AccessToken is the bearer credential used to call the platform API.
	AccessToken string

	// RefreshToken is present when the provider issued (or rotated) one.
	RefreshToken *string

	// ExpiresIn is the access token lifetime in seconds, when the provider reports one.
	ExpiresIn *int64

	// Scope is the granted scope descriptor, when the provider reports one.
	Scope *string

	// TokenType is usually "Bearer".
	TokenType string

	// Extra holds every field of the response, including provider specific ones such as TikTok's open_id.
	Extra map[string]any
}

// ExpiresAt converts the relative lifetime into an absolute timestamp. A missing or
// non-positive lifetime yields nil, meaning the token is used at face value.
func (t *TokenResponse) ExpiresAt(issuedAt time.Time) *time.Time {
	if t.ExpiresIn == nil || *t.ExpiresIn <= 0 {
		return nil
	}
	expiry := issuedAt.Add(time.Duration(*t.ExpiresIn) * time.Second)
	return &expiry
}

func decodeFields(body []byte) (map[string]any, error) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func tokenResponseFromFields(fields map[string]any) (*TokenResponse, error) {
	// Some platforms wrap the payload in a "data" object.
	if data, ok := fields["data"].(map[string]any); ok && fields["access_token"] == nil {
		fields = data
	}
	tr := &TokenResponse{
		AccessToken: StringValue(fields["access_token"]),
		TokenType:   StringValue(fields["token_type"]),
		Extra:       fields,
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("response has no access_token")
	}
	if rt := StringValue(fields["refresh_token"]); rt != "" {
		tr.RefreshToken = &rt
	}
	if scope := StringValue(fields["scope"]); scope != "" {
		tr.Scope = &scope
	}
	if exp, ok := Int64Value(fields["expires_in"]); ok {
		tr.ExpiresIn = &exp
	}
	return tr, nil
}

// StringValue reads a JSON value as a string; non-string values yield "".
func StringValue(input any) string {
	switch v := input.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// Int64Value reads a JSON number (or numeric string) as an int64.
func Int64Value(input any) (int64, bool) {
	switch v := input.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
