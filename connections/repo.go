package connections

import (
	"context"
	"time"
)

// Filter selects rows of the social_connections table. UserID is always required;
// an empty Platforms matches every platform.
type Filter struct {
	UserID    string
	Platforms []string
}

// Table is the capability the Store needs over the social_connections table.
// Implementations return rows ordered by created_at descending, and never enforce
// which platforms are valid.
type Table interface {
	Select(ctx context.Context, filter Filter) ([]*SocialConnection, error)

	// Insert fails with ErrAlreadyExists when (user_id, platform) is taken.
	Insert(ctx context.Context, conn *SocialConnection) error

	// Upsert inserts or replaces on (user_id, platform), keeping the original id and
	// created_at, and returns the stored row.
	Upsert(ctx context.Context, conn *SocialConnection) (*SocialConnection, error)

	// Update fails with ErrNotFound when no row matches.
	Update(ctx context.Context, userID, platform string, patch Patch, updatedAt time.Time) (*SocialConnection, error)

	// Delete succeeds when no row matches.
	Delete(ctx context.Context, userID, platform string) error
}
