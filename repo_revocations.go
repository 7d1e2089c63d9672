package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// revocations is the bun-backed RevocationLedger. Markers are written once
// on single-session logout, read once per request, and swept after the
// token's own expiry passes.
type revocations struct {
	db bun.IDB
}

var _ RevocationLedger = (*revocations)(nil)

// NewRevocationLedger creates the bun-backed revocation ledger
func NewRevocationLedger(db bun.IDB) RevocationLedger {
	return &revocations{db: db}
}

// Revoke inserts a marker for the token's unique claim. Re-revoking the
// same token is a no-op rather than an error.
func (r *revocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	marker := &RevocationMarker{
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}

	_, err := r.db.NewInsert().
		Model(marker).
		On("CONFLICT (token_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return WrapStorageErr(err, "revocations: insert marker failed")
	}

	return nil
}

// RevokeFor records the owning account alongside the marker
func (r *revocations) RevokeFor(ctx context.Context, accountID uuid.UUID, tokenID string, expiresAt time.Time) error {
	marker := &RevocationMarker{
		TokenID:   tokenID,
		AccountID: &accountID,
		ExpiresAt: expiresAt,
	}

	_, err := r.db.NewInsert().
		Model(marker).
		On("CONFLICT (token_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return WrapStorageErr(err, "revocations: insert marker failed")
	}

	return nil
}

// IsRevoked checks marker membership for the token's unique claim
func (r *revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*RevocationMarker)(nil)).
		Where("?TableAlias.token_id = ?", tokenID).
		Exists(ctx)
	if err != nil {
		return false, WrapStorageErr(err, "revocations: membership check failed")
	}

	return exists, nil
}

// PurgeExpired deletes markers whose token would have expired anyway,
// returning the swept count.
func (r *revocations) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*RevocationMarker)(nil)).
		Where("?TableAlias.expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, WrapStorageErr(err, "revocations: purge failed")
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, WrapStorageErr(err, "revocations: purge result unavailable")
	}

	return count, nil
}
