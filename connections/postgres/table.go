// Package postgres stores social connections in PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jrsteele09/go-social-connect/connections"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

const columns = "id, user_id, platform, platform_user_id, access_token, refresh_token, expires_at, scopes, created_at, updated_at"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS social_connections (
    id               TEXT PRIMARY KEY,
    user_id          TEXT NOT NULL,
    platform         TEXT NOT NULL,
    platform_user_id TEXT NOT NULL DEFAULT '',
    access_token     TEXT NOT NULL,
    refresh_token    TEXT,
    expires_at       TIMESTAMPTZ,
    scopes           TEXT,
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, platform)
);
CREATE INDEX IF NOT EXISTS idx_social_connections_user_created
    ON social_connections (user_id, created_at DESC);
`

// Table is the social_connections table in PostgreSQL.
type Table struct {
	db *pgxpool.Pool
}

var _ connections.Table = (*Table)(nil)

func NewTable(pool *pgxpool.Pool) *Table {
	return &Table{db: pool}
}

// Connect opens and pings a pool for databaseURL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("[postgres Connect] connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("[postgres Connect] ping database: %w", err)
	}
	return pool, nil
}

// Migrate creates the table and its index when missing.
func (t *Table) Migrate(ctx context.Context) error {
	if _, err := t.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("[postgres Migrate] %w", err)
	}
	return nil
}

func (t *Table) Select(ctx context.Context, filter connections.Filter) ([]*connections.SocialConnection, error) {
	query := "SELECT " + columns + " FROM social_connections WHERE user_id = $1"
	args := []any{filter.UserID}
	if len(filter.Platforms) > 0 {
		query += " AND platform = ANY($2)"
		args = append(args, filter.Platforms)
	}
	query += " ORDER BY created_at DESC"

	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("[postgres Select] %w", err)
	}
	defer rows.Close()

	result := make([]*connections.SocialConnection, 0)
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("[postgres Select] %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

const insertSQL = `INSERT INTO social_connections (` + columns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (t *Table) Insert(ctx context.Context, conn *connections.SocialConnection) error {
	tag, err := t.db.Exec(ctx, insertSQL+" ON CONFLICT (user_id, platform) DO NOTHING", insertArgs(conn)...)
	if err != nil {
		return fmt.Errorf("[postgres Insert] %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyExists
	}
	return nil
}

func (t *Table) Upsert(ctx context.Context, conn *connections.SocialConnection) (*connections.SocialConnection, error) {
	row := t.db.QueryRow(ctx, insertSQL+`
ON CONFLICT (user_id, platform) DO UPDATE SET
    platform_user_id = EXCLUDED.platform_user_id,
    access_token = EXCLUDED.access_token,
    refresh_token = EXCLUDED.refresh_token,
    expires_at = EXCLUDED.expires_at,
    scopes = EXCLUDED.scopes,
    updated_at = EXCLUDED.updated_at
RETURNING `+columns,
		insertArgs(conn)...,
	)
	stored, err := scanConnection(row)
	if err != nil {
		return nil, fmt.Errorf("[postgres Upsert] %w", err)
	}
	return stored, nil
}

func (t *Table) Update(ctx context.Context, userID, platform string, patch connections.Patch, updatedAt time.Time) (*connections.SocialConnection, error) {
	args := []any{updatedAt.UTC()}
	sets := []string{"updated_at = $1"}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if patch.PlatformUserID != nil {
		set("platform_user_id", *patch.PlatformUserID)
	}
	if patch.AccessToken != nil {
		set("access_token", *patch.AccessToken)
	}
	if patch.RefreshToken != nil {
		set("refresh_token", *patch.RefreshToken)
	}
	if patch.ExpiresAt != nil {
		set("expires_at", *patch.ExpiresAt)
	}
	if patch.Scopes != nil {
		set("scopes", *patch.Scopes)
	}
	args = append(args, userID, platform)
	query := fmt.Sprintf("UPDATE social_connections SET %s WHERE user_id = $%d AND platform = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)-1, len(args), columns)

	updated, err := scanConnection(t.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[postgres Update] %w", err)
	}
	return updated, nil
}

func (t *Table) Delete(ctx context.Context, userID, platform string) error {
	if _, err := t.db.Exec(ctx, "DELETE FROM social_connections WHERE user_id = $1 AND platform = $2", userID, platform); err != nil {
		return fmt.Errorf("[postgres Delete] %w", err)
	}
	return nil
}

func scanConnection(row pgx.Row) (*connections.SocialConnection, error) {
	var (
		c            connections.SocialConnection
		refreshToken sql.NullString
		scopes       sql.NullString
		expiresAt    sql.NullTime
	)
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Platform,
		&c.PlatformUserID,
		&c.AccessToken,
		&refreshToken,
		&expiresAt,
		&scopes,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if refreshToken.Valid {
		c.RefreshToken = &refreshToken.String
	}
	if scopes.Valid {
		c.Scopes = &scopes.String
	}
	if expiresAt.Valid {
		exp := expiresAt.Time.UTC()
		c.ExpiresAt = &exp
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func insertArgs(c *connections.SocialConnection) []any {
	return []any{
		c.ID,
		c.UserID,
		c.Platform,
		c.PlatformUserID,
		c.AccessToken,
		connections.NullString(c.RefreshToken),
		connections.NullTime(c.ExpiresAt),
		connections.NullString(c.Scopes),
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	}
}
