package connectionsrepofake

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/go-social-connect/connections"
	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

var _ connections.Table = (*FakeConnectionTable)(nil)

type connectionKey struct {
	userID   string
	platform string
}

// FakeConnectionTable is an in-memory social_connections table.
type FakeConnectionTable struct {
	rows   map[connectionKey]*connections.SocialConnection
	writes int
	lock   sync.RWMutex
}

func NewFakeConnectionTable() *FakeConnectionTable {
	return &FakeConnectionTable{
		rows: make(map[connectionKey]*connections.SocialConnection),
	}
}

// Writes counts successful mutations, letting tests assert that nothing was written.
func (ft *FakeConnectionTable) Writes() int {
	ft.lock.RLock()
	defer ft.lock.RUnlock()
	return ft.writes
}

// Len is the total number of stored rows across all users.
func (ft *FakeConnectionTable) Len() int {
	ft.lock.RLock()
	defer ft.lock.RUnlock()
	return len(ft.rows)
}

func (ft *FakeConnectionTable) Select(_ context.Context, filter connections.Filter) ([]*connections.SocialConnection, error) {
	ft.lock.RLock()
	defer ft.lock.RUnlock()

	result := make([]*connections.SocialConnection, 0)
	for k, v := range ft.rows {
		if k.userID != filter.UserID {
			continue
		}
		if len(filter.Platforms) > 0 && !slices.Contains(filter.Platforms, k.platform) {
			continue
		}
		result = append(result, v.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (ft *FakeConnectionTable) Insert(_ context.Context, conn *connections.SocialConnection) error {
	ft.lock.Lock()
	defer ft.lock.Unlock()

	key := connectionKey{conn.UserID, conn.Platform}
	if _, ok := ft.rows[key]; ok {
		return apperrors.ErrAlreadyExists
	}
	ft.rows[key] = conn.Clone()
	ft.writes++
	return nil
}

func (ft *FakeConnectionTable) Upsert(_ context.Context, conn *connections.SocialConnection) (*connections.SocialConnection, error) {
	ft.lock.Lock()
	defer ft.lock.Unlock()

	key := connectionKey{conn.UserID, conn.Platform}
	stored := conn.Clone()
	if existing, ok := ft.rows[key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	ft.rows[key] = stored
	ft.writes++
	return stored.Clone(), nil
}

func (ft *FakeConnectionTable) Update(_ context.Context, userID, platform string, patch connections.Patch, updatedAt time.Time) (*connections.SocialConnection, error) {
	ft.lock.Lock()
	defer ft.lock.Unlock()

	existing, ok := ft.rows[connectionKey{userID, platform}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	patch.Apply(existing, updatedAt)
	ft.writes++
	return existing.Clone(), nil
}

func (ft *FakeConnectionTable) Delete(_ context.Context, userID, platform string) error {
	ft.lock.Lock()
	defer ft.lock.Unlock()

	key := connectionKey{userID, platform}
	if _, ok := ft.rows[key]; ok {
		delete(ft.rows, key)
		ft.writes++
	}
	return nil
}
