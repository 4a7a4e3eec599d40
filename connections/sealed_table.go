package connections

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Sealer encrypts token columns before they are written and decrypts them on read.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// SealedTable decorates a Table so access and refresh tokens are encrypted at rest.
type SealedTable struct {
	next   Table
	sealer Sealer
}

var _ Table = (*SealedTable)(nil)

func NewSealedTable(next Table, sealer Sealer) *SealedTable {
	return &SealedTable{next: next, sealer: sealer}
}

func (t *SealedTable) Select(ctx context.Context, filter Filter) ([]*SocialConnection, error) {
	rows, err := t.next.Select(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := t.open(r); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (t *SealedTable) Insert(ctx context.Context, conn *SocialConnection) error {
	sealed, err := t.seal(conn)
	if err != nil {
		return err
	}
	return t.next.Insert(ctx, sealed)
}

func (t *SealedTable) Upsert(ctx context.Context, conn *SocialConnection) (*SocialConnection, error) {
	sealed, err := t.seal(conn)
	if err != nil {
		return nil, err
	}
	stored, err := t.next.Upsert(ctx, sealed)
	if err != nil {
		return nil, err
	}
	return stored, t.open(stored)
}

func (t *SealedTable) Update(ctx context.Context, userID, platform string, patch Patch, updatedAt time.Time) (*SocialConnection, error) {
	if patch.AccessToken != nil {
		v, err := t.sealer.Seal(*patch.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("[SealedTable Update] sealing access token: %w", err)
		}
		patch.AccessToken = &v
	}
	if patch.RefreshToken != nil && patch.RefreshToken.Valid {
		v, err := t.sealer.Seal(patch.RefreshToken.String)
		if err != nil {
			return nil, fmt.Errorf("[SealedTable Update] sealing refresh token: %w", err)
		}
		patch.RefreshToken = &sql.NullString{String: v, Valid: true}
	}
	updated, err := t.next.Update(ctx, userID, platform, patch, updatedAt)
	if err != nil {
		return nil, err
	}
	return updated, t.open(updated)
}

func (t *SealedTable) Delete(ctx context.Context, userID, platform string) error {
	return t.next.Delete(ctx, userID, platform)
}

func (t *SealedTable) seal(conn *SocialConnection) (*SocialConnection, error) {
	sealed := conn.Clone()
	v, err := t.sealer.Seal(conn.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("[SealedTable] sealing access token: %w", err)
	}
	sealed.AccessToken = v
	if conn.RefreshToken != nil {
		rt, err := t.sealer.Seal(*conn.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("[SealedTable] sealing refresh token: %w", err)
		}
		sealed.RefreshToken = &rt
	}
	return sealed, nil
}

func (t *SealedTable) open(conn *SocialConnection) error {
	if conn == nil {
		return nil
	}
	v, err := t.sealer.Open(conn.AccessToken)
	if err != nil {
		return fmt.Errorf("[SealedTable] opening access token: %w", err)
	}
	conn.AccessToken = v
	if conn.RefreshToken != nil {
		rt, err := t.sealer.Open(*conn.RefreshToken)
		if err != nil {
			return fmt.Errorf("[SealedTable] opening refresh token: %w", err)
		}
		conn.RefreshToken = &rt
	}
	return nil
}
