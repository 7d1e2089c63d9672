package accounts

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the account repository. Every lifecycle transition is a single
// conditional update: the precondition lives in the filter and the patch is
// applied in the same atomic statement, so check and mutation cannot race.
type Accounts interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByIdentifier(ctx context.Context, identifier string) (*Account, error)
	Register(ctx context.Context, record *Account) (*Account, error)

	Freeze(ctx context.Context, actorID, targetID uuid.UUID, at time.Time) (StoreResult, error)
	Restore(ctx context.Context, actorID, targetID uuid.UUID, at time.Time) (StoreResult, error)
	RestoreStrict(ctx context.Context, actorID, targetID uuid.UUID, at time.Time) (StoreResult, error)
	HardDelete(ctx context.Context, targetID uuid.UUID) (int64, error)

	AdvanceCredentialEpoch(ctx context.Context, id uuid.UUID, at time.Time) (StoreResult, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) (StoreResult, error)
	UpdateBasicInfo(ctx context.Context, id uuid.UUID, patch BasicInfoPatch) (StoreResult, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) (StoreResult, error)
	SetProfileImage(ctx context.Context, id uuid.UUID, key, previousKey string) (*Account, error)
	SetCoverImages(ctx context.Context, id uuid.UUID, urls []string) (*Account, error)
}

// BasicInfoPatch carries the mutable profile surface
type BasicInfoPatch struct {
	Username string
	Age      int
	Phone    string
	Bio      string
}

type accountsRepo struct {
	store *Store[*Account]
}

// AccountsOption customizes repository construction
type AccountsOption func(*accountsRepo)

var _ Accounts = (*accountsRepo)(nil)

// NewAccountsRepository creates the bun-backed accounts repository
func NewAccountsRepository(db bun.IDB, opts ...AccountsOption) Accounts {
	store := NewStore[*Account](db, StoreHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		SetVersion: func(a *Account, v int64) {
			if a != nil {
				a.Version = v
			}
		},
	})

	repo := &accountsRepo{store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}

	return repo
}

func (r *accountsRepo) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.store.FindOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	})
}

func (r *accountsRepo) GetByIdentifier(ctx context.Context, identifier string) (*Account, error) {
	trimmed := strings.TrimSpace(identifier)
	if _, err := uuid.Parse(trimmed); err == nil {
		return r.store.FindOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id = ?", trimmed)
		})
	}

	return r.store.FindOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.email = ?", trimmed)
	})
}

func (r *accountsRepo) Register(ctx context.Context, record *Account) (*Account, error) {
	prepareAccountDefaults(record)
	if err := r.store.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Freeze suspends an active account. The filter demands frozen_at to be
// unset, so a second concurrent freeze observes zero matches. The same
// statement advances the credential epoch and clears any prior restore
// markers.
func (r *accountsRepo) Freeze(ctx context.Context, actorID, targetID uuid.UUID, at time.Time) (StoreResult, error) {
	patch := func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.
			Set("frozen_at = ?", at).
			Set("frozen_by = ?", actorID).
			Set("credentials_changed_at = ?", at).
			Set("restored_at = NULL").
			Set("restored_by = NULL").
			Set("updated_at = ?", at)
	}

	return r.store.UpdateOne(ctx, patch,
		func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.
				Where("?TableAlias.id = ?", targetID).
				Where("?TableAlias.frozen_at IS NULL")
		},
	)
}

// Restore brings a frozen account back. The filter is the literal
// frozen_by <> target predicate of the upstream behavior: it restores any
// account not frozen by itself, including never-frozen ones. See
// WithStrictRestoreFilter on the lifecycle controller for the corrected
// "is frozen" predicate.
func (r *accountsRepo) Restore(ctx context.Context, actorID, targetID uuid.UUID, at time.Time) (StoreResult, error) {
	return r.restore(ctx, actorID, targetID, at, false)
}

// RestoreStrict uses the corrected precondition: the target must currently
// be frozen.
func (r *accountsRepo) RestoreStrict(ctx context.Context, actorID, targetID uuid.UUID, at time.Time) (StoreResult, error) {
	return r.restore(ctx, actorID, targetID, at, true)
}

func (r *accountsRepo) restore(ctx context.Context, actorID, targetID uuid.UUID, at time.Time, strict bool) (StoreResult, error) {
	patch := func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.
			Set("restored_at = ?", at).
			Set("restored_by = ?", actorID).
			Set("frozen_at = NULL").
			Set("frozen_by = NULL").
			Set("updated_at = ?", at)
	}

	filter := func(q *bun.UpdateQuery) *bun.UpdateQuery {
		q = q.Where("?TableAlias.id = ?", targetID)
		if strict {
			return q.Where("?TableAlias.frozen_at IS NOT NULL")
		}
		// null-safe <>: a missing frozen_by also matches, as upstream
		return q.Where("(?TableAlias.frozen_by IS NULL OR ?TableAlias.frozen_by <> ?)", targetID)
	}

	return r.store.UpdateOne(ctx, patch, filter)
}

// HardDelete permanently removes the account, only if it is currently
// frozen. Delete-after-freeze is the two-step safety gate against
// accidental irreversible deletion.
func (r *accountsRepo) HardDelete(ctx context.Context, targetID uuid.UUID) (int64, error) {
	return r.store.DeleteOne(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.
			Where("?TableAlias.id = ?", targetID).
			Where("?TableAlias.frozen_at IS NOT NULL")
	})
}

func (r *accountsRepo) AdvanceCredentialEpoch(ctx context.Context, id uuid.UUID, at time.Time) (StoreResult, error) {
	return r.store.UpdateOne(ctx,
		func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.
				Set("credentials_changed_at = ?", at).
				Set("updated_at = ?", at)
		},
		func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.Where("?TableAlias.id = ?", id)
		},
	)
}

// UpdatePassword stores the new hash and advances the credential epoch in
// the same atomic write, logging out every previously issued token.
func (r *accountsRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) (StoreResult, error) {
	return r.store.UpdateOne(ctx,
		func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.
				Set("password_hash = ?", passwordHash).
				Set("credentials_changed_at = ?", at).
				Set("updated_at = ?", at)
		},
		func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.Where("?TableAlias.id = ?", id)
		},
	)
}

func (r *accountsRepo) UpdateBasicInfo(ctx context.Context, id uuid.UUID, patch BasicInfoPatch) (StoreResult, error) {
	names := (&Account{}).SetUsername(patch.Username)

	return r.store.UpdateOne(ctx,
		func(q *bun.UpdateQuery) *bun.UpdateQuery {
			if patch.Username != "" {
				q = q.
					Set("first_name = ?", names.FirstName).
					Set("last_name = ?", names.LastName)
			}
			if patch.Age > 0 {
				q = q.Set("age = ?", patch.Age)
			}
			if patch.Phone != "" {
				q = q.Set("phone_number = ?", patch.Phone)
			}
			if patch.Bio != "" {
				q = q.Set("bio = ?", patch.Bio)
			}
			return q.Set("updated_at = ?", time.Now())
		},
		func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.Where("?TableAlias.id = ?", id)
		},
	)
}

func (r *accountsRepo) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (StoreResult, error) {
	return r.store.UpdateOne(ctx,
		func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.
				Set("email = ?", email).
				Set("updated_at = ?", time.Now())
		},
		func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.Where("?TableAlias.id = ?", id)
		},
	)
}

// SetProfileImage records the newly uploaded key and parks the previous one
// in temp_profile_image until the upload is confirmed.
func (r *accountsRepo) SetProfileImage(ctx context.Context, id uuid.UUID, key, previousKey string) (*Account, error) {
	return r.store.FindByIDAndUpdate(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.
			Set("profile_image = ?", key).
			Set("temp_profile_image = ?", previousKey).
			Set("updated_at = ?", time.Now())
	})
}

func (r *accountsRepo) SetCoverImages(ctx context.Context, id uuid.UUID, urls []string) (*Account, error) {
	encoded, err := json.Marshal(urls)
	if err != nil {
		return nil, err
	}

	return r.store.FindByIDAndUpdate(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.
			Set("cover_images = ?", string(encoded)).
			Set("updated_at = ?", time.Now())
	})
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.Gender == "" {
		record.Gender = GenderMale
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
