package connections

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

// Store reads and writes the social connections of one authenticated user. The user id
// is bound at construction from the session; no method accepts one from the caller.
type Store struct {
	table   Table
	userID  string
	nowTime func() time.Time
	newID   func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithNowTime overrides the clock used for created/updated timestamps.
func WithNowTime(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = now
	}
}

// NewStore binds table to the authenticated user. An empty user id is rejected.
func NewStore(table Table, userID string, opts ...StoreOption) (*Store, error) {
	if table == nil {
		return nil, fmt.Errorf("[connections NewStore] nil table: %w", apperrors.ErrConfiguration)
	}
	if userID == "" {
		return nil, fmt.Errorf("[connections NewStore] %w", apperrors.ErrNotAuthenticated)
	}
	s := &Store{
		table:   table,
		userID:  userID,
		nowTime: time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// UserID is the owner every operation is scoped to.
func (s *Store) UserID() string {
	return s.userID
}

// Get returns the caller's connection for platform, or nil when there is none.
func (s *Store) Get(ctx context.Context, platform string) (*SocialConnection, error) {
	rows, err := s.table.Select(ctx, Filter{UserID: s.userID, Platforms: []string{platform}})
	if err != nil {
		return nil, fmt.Errorf("[connections Get] %s: %w", platform, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Has reports whether the caller is connected to platform.
func (s *Store) Has(ctx context.Context, platform string) (bool, error) {
	c, err := s.Get(ctx, platform)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// List returns every connection of the caller, most recently created first.
func (s *Store) List(ctx context.Context) ([]*SocialConnection, error) {
	rows, err := s.table.Select(ctx, Filter{UserID: s.userID})
	if err != nil {
		return nil, fmt.Errorf("[connections List] %w", err)
	}
	return rows, nil
}

// ListByPlatforms returns the caller's connections for the given platforms, most recently created first.
func (s *Store) ListByPlatforms(ctx context.Context, platforms []string) ([]*SocialConnection, error) {
	if len(platforms) == 0 {
		return []*SocialConnection{}, nil
	}
	rows, err := s.table.Select(ctx, Filter{UserID: s.userID, Platforms: platforms})
	if err != nil {
		return nil, fmt.Errorf("[connections ListByPlatforms] %w", err)
	}
	return rows, nil
}

// Create inserts a new connection and fails with ErrAlreadyExists if one exists for the platform.
func (s *Store) Create(ctx context.Context, conn Connection) (*SocialConnection, error) {
	record, err := s.newRecord(conn)
	if err != nil {
		return nil, err
	}
	if err := s.table.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("[connections Create] %s: %w", conn.Platform, err)
	}
	return record, nil
}

// Upsert inserts or replaces the connection keyed on (user, platform). It is the only
// write path used by the authorization callback.
func (s *Store) Upsert(ctx context.Context, conn Connection) (*SocialConnection, error) {
	record, err := s.newRecord(conn)
	if err != nil {
		return nil, err
	}
	stored, err := s.table.Upsert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("[connections Upsert] %s: %w", conn.Platform, err)
	}
	return stored, nil
}

// Update applies patch to the caller's connection. It fails with ErrNotFound when
// the platform is not connected.
func (s *Store) Update(ctx context.Context, platform string, patch Patch) (*SocialConnection, error) {
	updated, err := s.table.Update(ctx, s.userID, platform, patch, s.nowTime().UTC())
	if err != nil {
		return nil, fmt.Errorf("[connections Update] %s: %w", platform, err)
	}
	return updated, nil
}

// RefreshToken writes a refreshed token set in one update. refreshToken is the new or
// retained refresh token; a nil expiresAt clears the stored expiry.
func (s *Store) RefreshToken(ctx context.Context, platform, accessToken string, refreshToken *string, expiresAt *time.Time) (*SocialConnection, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("[connections RefreshToken] empty access token: %w", apperrors.ErrInvalidRequest)
	}
	rt := NullString(refreshToken)
	exp := NullTime(utcPtr(expiresAt))
	return s.Update(ctx, platform, Patch{
		AccessToken:  &accessToken,
		RefreshToken: &rt,
		ExpiresAt:    &exp,
	})
}

// Delete removes the caller's connection. Deleting a missing connection is not an error.
func (s *Store) Delete(ctx context.Context, platform string) error {
	if err := s.table.Delete(ctx, s.userID, platform); err != nil {
		return fmt.Errorf("[connections Delete] %s: %w", platform, err)
	}
	return nil
}

// Status maps each platform to whether the caller is connected, without exposing token material.
func (s *Store) Status(ctx context.Context, platforms []string) (map[string]bool, error) {
	status := make(map[string]bool, len(platforms))
	for _, p := range platforms {
		status[p] = false
	}
	rows, err := s.ListByPlatforms(ctx, platforms)
	if err != nil {
		return nil, err
	}
	for _, c := range rows {
		status[c.Platform] = true
	}
	return status, nil
}

func (s *Store) newRecord(conn Connection) (*SocialConnection, error) {
	if conn.Platform == "" || conn.AccessToken == "" {
		return nil, fmt.Errorf("[connections] platform and access token are required: %w", apperrors.ErrInvalidRequest)
	}
	now := s.nowTime().UTC()
	return &SocialConnection{
		ID:             s.newID(),
		UserID:         s.userID,
		Platform:       conn.Platform,
		PlatformUserID: conn.PlatformUserID,
		AccessToken:    conn.AccessToken,
		RefreshToken:   conn.RefreshToken,
		ExpiresAt:      utcPtr(conn.ExpiresAt),
		Scopes:         conn.Scopes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
