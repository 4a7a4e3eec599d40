package connections

import (
	"database/sql"
	"time"
)

// SocialConnection is one user's link to one platform. At most one exists per (user, platform).
// Token material never leaves the server, so it is excluded from JSON.
type SocialConnection struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Platform       string     `json:"platform"`
	PlatformUserID string     `json:"platform_user_id"`
	AccessToken    string     `json:"-"`
	RefreshToken   *string    `json:"-"`
	ExpiresAt      *time.Time `json:"expires_at"`
	Scopes         *string    `json:"scopes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (c *SocialConnection) Clone() *SocialConnection {
	if c == nil {
		return nil
	}
	cp := *c
	if c.RefreshToken != nil {
		rt := *c.RefreshToken
		cp.RefreshToken = &rt
	}
	if c.ExpiresAt != nil {
		exp := *c.ExpiresAt
		cp.ExpiresAt = &exp
	}
	if c.Scopes != nil {
		s := *c.Scopes
		cp.Scopes = &s
	}
	return &cp
}

// Connection is the payload written by the callback flow.
type Connection struct {
	Platform       string
	PlatformUserID string
	AccessToken    string
	RefreshToken   *string
	ExpiresAt      *time.Time
	Scopes         *string
}

// Patch is a partial update. Nil fields are left unchanged; a nullable column is
// cleared by a non-nil pointer to an invalid Null value.
type Patch struct {
	PlatformUserID *string
	AccessToken    *string
	RefreshToken   *sql.NullString
	ExpiresAt      *sql.NullTime
	Scopes         *sql.NullString
}

// Apply writes the patch onto c and stamps the update time.
func (p Patch) Apply(c *SocialConnection, updatedAt time.Time) {
	if p.PlatformUserID != nil {
		c.PlatformUserID = *p.PlatformUserID
	}
	if p.AccessToken != nil {
		c.AccessToken = *p.AccessToken
	}
	if p.RefreshToken != nil {
		c.RefreshToken = nullStringPtr(*p.RefreshToken)
	}
	if p.ExpiresAt != nil {
		c.ExpiresAt = nullTimePtr(*p.ExpiresAt)
	}
	if p.Scopes != nil {
		c.Scopes = nullStringPtr(*p.Scopes)
	}
	c.UpdatedAt = updatedAt
}

// NullString converts an optional value into its column form.
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullTime converts an optional timestamp into its column form.
func NullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
