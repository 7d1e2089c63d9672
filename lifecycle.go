package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Actor identifies who triggered a lifecycle transition
type Actor struct {
	ID   uuid.UUID
	Role AccountRole
}

// IsAdmin reports whether the actor holds the elevated role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// LogoutFlag selects the invalidation scope of a logout
type LogoutFlag string

const (
	// LogoutOnly invalidates exactly the presented token via the ledger
	LogoutOnly LogoutFlag = "only"
	// LogoutAll advances the credential epoch, invalidating every session
	// without per-token bookkeeping
	LogoutAll LogoutFlag = "all"
)

// LifecycleController orchestrates freeze, restore and hard-delete
// transitions. Every transition is one conditional store write; a zero
// match count is surfaced as ErrNotFoundOrConflict, never retried. The
// object-storage purge after a hard delete is an explicit post-commit call:
// best-effort, logged on failure, never converting a successful delete into
// a reported failure.
type LifecycleController struct {
	accounts      Accounts
	ledger        RevocationLedger
	storage       ObjectStorage
	tokens        TokenService
	logger        Logger
	now           func() time.Time
	strictRestore bool
	assetPrefix   func(uuid.UUID) string
}

// LifecycleOption customizes controller construction
type LifecycleOption func(*LifecycleController)

// WithLifecycleClock injects a custom clock (useful for tests)
func WithLifecycleClock(clock func() time.Time) LifecycleOption {
	return func(c *LifecycleController) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithLifecycleLogger overrides the controller's logger
func WithLifecycleLogger(logger Logger) LifecycleOption {
	return func(c *LifecycleController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObjectStorage sets the collaborator purged after hard deletes
func WithObjectStorage(storage ObjectStorage) LifecycleOption {
	return func(c *LifecycleController) {
		if storage != nil {
			c.storage = storage
		}
	}
}

// WithTokenService enables credential refresh
func WithTokenService(tokens TokenService) LifecycleOption {
	return func(c *LifecycleController) {
		c.tokens = tokens
	}
}

// WithStrictRestoreFilter switches restore from the upstream-literal
// frozen_by <> target predicate to the corrected "target is frozen"
// precondition.
func WithStrictRestoreFilter() LifecycleOption {
	return func(c *LifecycleController) {
		c.strictRestore = true
	}
}

// WithAssetPrefix overrides how an account id maps to its object-storage
// namespace
func WithAssetPrefix(fn func(uuid.UUID) string) LifecycleOption {
	return func(c *LifecycleController) {
		if fn != nil {
			c.assetPrefix = fn
		}
	}
}

// NewLifecycleController wires the controller over its collaborators
func NewLifecycleController(accounts Accounts, ledger RevocationLedger, opts ...LifecycleOption) *LifecycleController {
	c := &LifecycleController{
		accounts: accounts,
		ledger:   ledger,
		storage:  NoopObjectStorage{},
		logger:   defLogger{},
		now:      time.Now,
		assetPrefix: func(id uuid.UUID) string {
			return fmt.Sprintf("users/%s/", id)
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Freeze suspends the target account. The target defaults to the actor's
// own account; only admins may supply a different one. The active
// precondition lives in the update filter, so concurrent freezes race on
// the store's atomic write and exactly one succeeds.
func (c *LifecycleController) Freeze(ctx context.Context, actor Actor, targetID uuid.UUID) error {
	if targetID == uuid.Nil {
		targetID = actor.ID
	}

	if targetID != actor.ID && !actor.IsAdmin() {
		return ErrNotAuthorized.WithMetadata(map[string]any{
			"actor_id":  actor.ID.String(),
			"target_id": targetID.String(),
		})
	}

	res, err := c.accounts.Freeze(ctx, actor.ID, targetID, c.now())
	if err != nil {
		return err
	}

	if res.Matched == 0 {
		return ErrNotFoundOrConflict.WithMetadata(map[string]any{
			"target_id": targetID.String(),
			"reason":    "not found or already frozen",
		})
	}

	c.logger.Info("account frozen", "target_id", targetID.String(), "actor_id", actor.ID.String())

	return nil
}

// Restore brings a frozen account back to active validity
func (c *LifecycleController) Restore(ctx context.Context, actor Actor, targetID uuid.UUID) error {
	restore := c.accounts.Restore
	if c.strictRestore {
		restore = c.accounts.RestoreStrict
	}

	res, err := restore(ctx, actor.ID, targetID, c.now())
	if err != nil {
		return err
	}

	if res.Matched == 0 {
		return ErrNotFoundOrConflict.WithMetadata(map[string]any{
			"target_id": targetID.String(),
			"reason":    "not found or restore precondition failed",
		})
	}

	c.logger.Info("account restored", "target_id", targetID.String(), "actor_id", actor.ID.String())

	return nil
}

// HardDelete permanently removes a frozen account and then asks the
// object-storage collaborator to purge the account's asset namespace.
func (c *LifecycleController) HardDelete(ctx context.Context, targetID uuid.UUID) error {
	count, err := c.accounts.HardDelete(ctx, targetID)
	if err != nil {
		return err
	}

	if count == 0 {
		return ErrNotFoundOrConflict.WithMetadata(map[string]any{
			"target_id": targetID.String(),
			"reason":    "not found or not frozen",
		})
	}

	prefix := c.assetPrefix(targetID)
	if err := c.storage.PurgeByPrefix(ctx, prefix); err != nil {
		c.logger.Error("asset purge failed after hard delete", "prefix", prefix, "error", err)
	}

	c.logger.Info("account hard deleted", "target_id", targetID.String())

	return nil
}

// Logout invalidates credentials for the presented token. LogoutAll
// advances the credential epoch; the default revokes exactly the presented
// token identity, leaving every other session's validity window untouched.
func (c *LifecycleController) Logout(ctx context.Context, claims AuthClaims, flag LogoutFlag) error {
	accountID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return ErrUnableToDecodeToken
	}

	if flag == LogoutAll {
		res, err := c.accounts.AdvanceCredentialEpoch(ctx, accountID, c.now())
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

	return c.ledger.Revoke(ctx, claims.TokenID(), claims.Expires())
}

// ChangePassword verifies the old password and stores the new hash,
// advancing the credential epoch in the same write so existing tokens die.
func (c *LifecycleController) ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword string) error {
	account, err := c.accounts.GetByID(ctx, accountID)
	if err != nil {
		if IsRecordNotFound(err) {
			return ErrNotFoundOrConflict.WithMetadata(map[string]any{
				"account_id": accountID.String(),
			})
		}
		return err
	}

	if err := ComparePasswordAndHash(oldPassword, account.PasswordHash); err != nil {
		return ErrNotAuthorized.WithMetadata(map[string]any{
			"reason": "old password does not match",
		})
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	res, err := c.accounts.UpdatePassword(ctx, accountID, hash, c.now())
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

// RefreshCredentials mints a fresh token for the account and revokes the
// presented one, rotating the session.
func (c *LifecycleController) RefreshCredentials(ctx context.Context, account *Account, claims AuthClaims) (string, error) {
	if c.tokens == nil {
		return "", ErrUnableToDecodeToken
	}

	token, err := c.tokens.Generate(NewIdentityFromAccount(account))
	if err != nil {
		return "", err
	}

	if err := c.ledger.Revoke(ctx, claims.TokenID(), claims.Expires()); err != nil {
		return "", err
	}

	return token, nil
}
