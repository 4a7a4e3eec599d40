package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-social-connect/connections"
	"github.com/jrsteele09/go-social-connect/connections/sqlite"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/internal/utils"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)

func openTable(t *testing.T) *sqlite.Table {
	t.Helper()
	table, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = table.Close() })
	return table
}

func connection(userID, platform, accessToken string, createdAt time.Time) *connections.SocialConnection {
	return &connections.SocialConnection{
		ID:             userID + "-" + platform,
		UserID:         userID,
		Platform:       platform,
		PlatformUserID: "pu-" + platform,
		AccessToken:    accessToken,
		RefreshToken:   utils.Ptr("R-" + accessToken),
		ExpiresAt:      utils.Ptr(createdAt.Add(time.Hour)),
		Scopes:         utils.Ptr("user.info.basic"),
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func TestOpenCreatesDatabaseAndMigratesOnce(t *testing.T) {
	dir := t.TempDir()
	table, err := sqlite.Open(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "connections.db"), table.Path())
	require.NoError(t, table.Close())

	reopened, err := sqlite.Open(dir)
	require.NoError(t, err)
	require.NoError(t, reopened.Migrate(context.Background()))
	require.NoError(t, reopened.Close())
}

func TestInsertAndSelect(t *testing.T) {
	table := openTable(t)
	ctx := context.Background()

	require.NoError(t, table.Insert(ctx, connection("u1", "tiktok", "T1", created)))
	require.ErrorIs(t, table.Insert(ctx, connection("u1", "tiktok", "T2", created)), apperrors.ErrAlreadyExists)

	rows, err := table.Select(ctx, connections.Filter{UserID: "u1", Platforms: []string{"tiktok"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	require.Equal(t, "T1", got.AccessToken)
	require.Equal(t, "R-T1", *got.RefreshToken)
	require.Equal(t, "pu-tiktok", got.PlatformUserID)
	require.Equal(t, "user.info.basic", *got.Scopes)
	require.True(t, created.Add(time.Hour).Equal(*got.ExpiresAt))
	require.True(t, created.Equal(got.CreatedAt))
}

func TestUpsertKeepsOneRowPerUserPlatform(t *testing.T) {
	table := openTable(t)
	ctx := context.Background()

	_, err := table.Upsert(ctx, connection("u1", "tiktok", "T1", created))
	require.NoError(t, err)

	second := connection("u1", "tiktok", "T2", created.Add(time.Minute))
	second.ID = "another-id"
	second.RefreshToken = nil
	second.ExpiresAt = nil
	stored, err := table.Upsert(ctx, second)
	require.NoError(t, err)
	require.Equal(t, "u1-tiktok", stored.ID)
	require.True(t, created.Equal(stored.CreatedAt))
	require.True(t, created.Add(time.Minute).Equal(stored.UpdatedAt))
	require.Equal(t, "T2", stored.AccessToken)
	require.Nil(t, stored.RefreshToken)
	require.Nil(t, stored.ExpiresAt)

	rows, err := table.Select(ctx, connections.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestSelectOrderAndScope(t *testing.T) {
	table := openTable(t)
	ctx := context.Background()

	require.NoError(t, table.Insert(ctx, connection("u1", "tiktok", "T1", created)))
	require.NoError(t, table.Insert(ctx, connection("u1", "youtube", "Y1", created.Add(time.Second))))
	require.NoError(t, table.Insert(ctx, connection("u1", "instagram", "I1", created.Add(2*time.Second))))
	require.NoError(t, table.Insert(ctx, connection("u2", "tiktok", "X1", created.Add(3*time.Second))))

	rows, err := table.Select(ctx, connections.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "instagram", rows[0].Platform)
	require.Equal(t, "youtube", rows[1].Platform)
	require.Equal(t, "tiktok", rows[2].Platform)

	rows, err = table.Select(ctx, connections.Filter{UserID: "u1", Platforms: []string{"tiktok", "soundcloud"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "T1", rows[0].AccessToken)
}

func TestUpdate(t *testing.T) {
	table := openTable(t)
	ctx := context.Background()

	_, err := table.Update(ctx, "u1", "tiktok", connections.Patch{AccessToken: utils.Ptr("T2")}, created)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, table.Insert(ctx, connection("u1", "tiktok", "T1", created)))

	later := created.Add(30 * time.Minute)
	newExpiry := later.Add(2 * time.Hour)
	updated, err := table.Update(ctx, "u1", "tiktok", connections.Patch{
		AccessToken:  utils.Ptr("T2"),
		RefreshToken: &sql.NullString{String: "R2", Valid: true},
		ExpiresAt:    &sql.NullTime{Time: newExpiry, Valid: true},
		Scopes:       &sql.NullString{},
	}, later)
	require.NoError(t, err)
	require.Equal(t, "T2", updated.AccessToken)
	require.Equal(t, "R2", *updated.RefreshToken)
	require.True(t, newExpiry.Equal(*updated.ExpiresAt))
	require.Nil(t, updated.Scopes)
	require.True(t, later.Equal(updated.UpdatedAt))
	require.Equal(t, "pu-tiktok", updated.PlatformUserID)
}

func TestDeleteIsIdempotent(t *testing.T) {
	table := openTable(t)
	ctx := context.Background()

	require.NoError(t, table.Delete(ctx, "u1", "tiktok"))
	require.NoError(t, table.Insert(ctx, connection("u1", "tiktok", "T1", created)))
	require.NoError(t, table.Delete(ctx, "u1", "tiktok"))
	require.NoError(t, table.Delete(ctx, "u1", "tiktok"))

	rows, err := table.Select(ctx, connections.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestWorksBehindStore(t *testing.T) {
	table := openTable(t)
	store, err := connections.NewStore(table, "u1")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Upsert(ctx, connections.Connection{Platform: "tiktok", PlatformUserID: "U1", AccessToken: "T1"})
	require.NoError(t, err)

	status, err := store.Status(ctx, []string{"tiktok", "youtube"})
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"tiktok": true, "youtube": false}, status)
}
