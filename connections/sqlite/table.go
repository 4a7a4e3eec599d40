// Package sqlite stores social connections in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jrsteele09/go-social-connect/connections"
	"github.com/jrsteele09/go-social-connect/connections/sqlite/migrations"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

const (
	dbFileName = "connections.db"

	columns = "id, user_id, platform, platform_user_id, access_token, refresh_token, expires_at, scopes, created_at, updated_at"
)

// Table is the social_connections table in SQLite.
type Table struct {
	db   *sql.DB
	path string
}

var _ connections.Table = (*Table)(nil)

// Open creates (if needed) and migrates the database under dataDir.
func Open(dataDir string) (*Table, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("[sqlite Open] creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, dbFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("[sqlite Open] opening database: %w", err)
	}

	t := &Table{db: db, path: dbPath}
	if err := t.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

func (t *Table) Close() error {
	return t.db.Close()
}

func (t *Table) Path() string {
	return t.path
}

// Migrate applies every embedded migration newer than the recorded schema version.
func (t *Table) Migrate(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("[sqlite Migrate] creating schema_migrations table: %w", err)
	}

	var current int
	if err := t.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("[sqlite Migrate] reading current version: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("[sqlite Migrate] reading migrations: %w", err)
	}
	var upFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			upFiles = append(upFiles, e.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("[sqlite Migrate] reading %s: %w", name, err)
		}
		if _, err := t.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("[sqlite Migrate] executing %s: %w", name, err)
		}
		if _, err := t.db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("[sqlite Migrate] recording %s: %w", name, err)
		}
	}
	return nil
}

func (t *Table) Select(ctx context.Context, filter connections.Filter) ([]*connections.SocialConnection, error) {
	query := "SELECT " + columns + " FROM social_connections WHERE user_id = ?"
	args := []any{filter.UserID}
	if len(filter.Platforms) > 0 {
		query += " AND platform IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.Platforms)), ",") + ")"
		for _, p := range filter.Platforms {
			args = append(args, p)
		}
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("[sqlite Select] %w", err)
	}
	defer rows.Close()

	result := make([]*connections.SocialConnection, 0)
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("[sqlite Select] %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (t *Table) Insert(ctx context.Context, conn *connections.SocialConnection) error {
	res, err := t.db.ExecContext(ctx, `
		INSERT INTO social_connections (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, platform) DO NOTHING`,
		insertArgs(conn)...,
	)
	if err != nil {
		return fmt.Errorf("[sqlite Insert] %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrAlreadyExists
	}
	return nil
}

func (t *Table) Upsert(ctx context.Context, conn *connections.SocialConnection) (*connections.SocialConnection, error) {
	if _, err := t.db.ExecContext(ctx, `
		INSERT INTO social_connections (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, platform) DO UPDATE SET
			platform_user_id = excluded.platform_user_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			scopes = excluded.scopes,
			updated_at = excluded.updated_at`,
		insertArgs(conn)...,
	); err != nil {
		return nil, fmt.Errorf("[sqlite Upsert] %w", err)
	}
	return t.get(ctx, conn.UserID, conn.Platform)
}

func (t *Table) Update(ctx context.Context, userID, platform string, patch connections.Patch, updatedAt time.Time) (*connections.SocialConnection, error) {
	sets := []string{"updated_at = ?"}
	args := []any{updatedAt.UTC()}
	if patch.PlatformUserID != nil {
		sets = append(sets, "platform_user_id = ?")
		args = append(args, *patch.PlatformUserID)
	}
	if patch.AccessToken != nil {
		sets = append(sets, "access_token = ?")
		args = append(args, *patch.AccessToken)
	}
	if patch.RefreshToken != nil {
		sets = append(sets, "refresh_token = ?")
		args = append(args, *patch.RefreshToken)
	}
	if patch.ExpiresAt != nil {
		sets = append(sets, "expires_at = ?")
		args = append(args, utcNullTime(*patch.ExpiresAt))
	}
	if patch.Scopes != nil {
		sets = append(sets, "scopes = ?")
		args = append(args, *patch.Scopes)
	}
	args = append(args, userID, platform)

	res, err := t.db.ExecContext(ctx,
		"UPDATE social_connections SET "+strings.Join(sets, ", ")+" WHERE user_id = ? AND platform = ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("[sqlite Update] %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperrors.ErrNotFound
	}
	return t.get(ctx, userID, platform)
}

func (t *Table) Delete(ctx context.Context, userID, platform string) error {
	if _, err := t.db.ExecContext(ctx, "DELETE FROM social_connections WHERE user_id = ? AND platform = ?", userID, platform); err != nil {
		return fmt.Errorf("[sqlite Delete] %w", err)
	}
	return nil
}

func (t *Table) get(ctx context.Context, userID, platform string) (*connections.SocialConnection, error) {
	row := t.db.QueryRowContext(ctx,
		"SELECT "+columns+" FROM social_connections WHERE user_id = ? AND platform = ?",
		userID, platform,
	)
	c, err := scanConnection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[sqlite get] %w", err)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConnection(s scanner) (*connections.SocialConnection, error) {
	var (
		c            connections.SocialConnection
		refreshToken sql.NullString
		scopes       sql.NullString
		expiresAt    sql.NullTime
	)
	if err := s.Scan(
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
		utcNullTime(connections.NullTime(c.ExpiresAt)),
		connections.NullString(c.Scopes),
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	}
}

func utcNullTime(nt sql.NullTime) sql.NullTime {
	if nt.Valid {
		nt.Time = nt.Time.UTC()
	}
	return nt
}
