package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EpochTracker derives, from an account record, the instant after which
// previously issued tokens are no longer valid.
type EpochTracker struct {
	accounts Accounts
	now      func() time.Time
}

// EpochTrackerOption customizes tracker construction
type EpochTrackerOption func(*EpochTracker)

// WithEpochClock injects a custom clock (useful for tests)
func WithEpochClock(clock func() time.Time) EpochTrackerOption {
	return func(t *EpochTracker) {
		if clock != nil {
			t.now = clock
		}
	}
}

// NewEpochTracker creates a tracker backed by the accounts repository
func NewEpochTracker(accounts Accounts, opts ...EpochTrackerOption) *EpochTracker {
	t := &EpochTracker{
		accounts: accounts,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// IsTokenValid reports whether a token issued at the given instant is still
// acceptable against the account's credential epoch. Tokens issued strictly
// before the epoch are invalid regardless of their own expiry. A zero epoch
// means credentials never changed.
func IsTokenValid(issuedAt, credentialEpoch time.Time) bool {
	if credentialEpoch.IsZero() {
		return true
	}
	return !issuedAt.Before(credentialEpoch)
}

// AdvanceEpoch moves the account's credential epoch to now, invalidating
// every token issued before this call. Epoch granularity is wall-clock time:
// two calls in the same instant yield the same epoch, so callers must not
// assume distinct epochs across rapid successive calls.
func (t *EpochTracker) AdvanceEpoch(ctx context.Context, accountID uuid.UUID) error {
	res, err := t.accounts.AdvanceCredentialEpoch(ctx, accountID, t.now())
	if err != nil {
		return err
	}
	if res.Matched == 0 {
		return ErrNotFoundOrConflict.WithMetadata(map[string]any{
			"account_id": accountID.String(),
		})
	}
	return nil
}
