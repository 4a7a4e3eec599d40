package oauth2

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

const maxTokenResponseBytes = 1 << 20

// Client performs the token endpoint exchanges for any OAuth2 provider.
// It never retries: a failed exchange is reported once to the caller.
type Client struct {
	httpClient *http.Client
	nowTime    func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithNowTime overrides the clock used to stamp token responses.
func WithNowTime(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowTime = now
	}
}

// NewClient creates a token endpoint client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		nowTime:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exchange is a token response stamped with the time it was issued.
type Exchange struct {
	*TokenResponse
	IssuedAt time.Time
}

// Expiry returns the absolute expiry of the issued access token, or nil.
func (e *Exchange) Expiry() *time.Time {
	return e.ExpiresAt(e.IssuedAt)
}

// ExchangeCode swaps an authorization code for tokens. When expectedState is set and
// does not match state the call fails with ErrInvalidState before anything is sent.
func (c *Client) ExchangeCode(ctx context.Context, cfg Config, code, state, expectedState string) (*Exchange, error) {
	if expectedState != "" && state != expectedState {
		return nil, fmt.Errorf("[oauth2 ExchangeCode] state mismatch: %w", apperrors.ErrInvalidState)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, fmt.Errorf("[oauth2 ExchangeCode] missing authorization code: %w", apperrors.ErrTokenExchangeFailed)
	}

	form := url.Values{}
	form.Set(cfg.clientIDParam(), cfg.ClientID)
	form.Set(ParamClientSecret, cfg.ClientSecret)
	form.Set(ParamCode, code)
	form.Set(ParamGrantType, string(AuthorizationCodeGrant))
	form.Set(ParamRedirectURI, cfg.RedirectURI)

	return c.postToken(ctx, cfg.TokenURL, form, apperrors.ErrTokenExchangeFailed)
}

// Refresh redeems a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, cfg Config, refreshToken string) (*Exchange, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if refreshToken == "" {
		return nil, fmt.Errorf("[oauth2 Refresh] missing refresh token: %w", apperrors.ErrTokenRefreshFailed)
	}

	form := url.Values{}
	form.Set(cfg.clientIDParam(), cfg.ClientID)
	form.Set(ParamClientSecret, cfg.ClientSecret)
	form.Set(ParamGrantType, string(RefreshTokenGrant))
	form.Set(ParamRefreshToken, refreshToken)

	return c.postToken(ctx, cfg.TokenURL, form, apperrors.ErrTokenRefreshFailed)
}

func (c *Client) postToken(ctx context.Context, tokenURL string, form url.Values, kind error) (*Exchange, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("[oauth2 postToken] building request: %v: %w", err, kind)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[oauth2 postToken] request failed: %v: %w", err, kind)
	}
	defer resp.Body.Close()

	issuedAt := c.nowTime()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("[oauth2 postToken] reading response: %v: %w", err, kind)
	}

	fields, decodeErr := decodeFields(body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewProviderError(kind, resp.StatusCode, body, fields)
	}
	if decodeErr != nil {
		return nil, NewProviderError(kind, resp.StatusCode, body, nil)
	}
	if hasProviderError(fields) {
		return nil, NewProviderError(kind, resp.StatusCode, body, fields)
	}

	tr, err := tokenResponseFromFields(fields)
	if err != nil {
		pe := NewProviderError(kind, resp.StatusCode, body, fields)
		pe.Description = err.Error()
		return nil, pe
	}
	return &Exchange{TokenResponse: tr, IssuedAt: issuedAt}, nil
}
