package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SelectCriteria narrows a read query
type SelectCriteria func(*bun.SelectQuery) *bun.SelectQuery

// UpdateCriteria narrows a conditional update, or applies its patch
type UpdateCriteria func(*bun.UpdateQuery) *bun.UpdateQuery

// DeleteCriteria narrows a conditional delete
type DeleteCriteria func(*bun.DeleteQuery) *bun.DeleteQuery

// StoreHandlers adapts a concrete model to the generic store
type StoreHandlers[T any] struct {
	NewRecord  func() T
	GetID      func(T) uuid.UUID
	SetID      func(T, uuid.UUID)
	SetVersion func(T, int64)
}

// StoreResult carries the match/modify counts of a conditional write.
// SQL reports modified rows only, so the two counts are always equal here;
// both are kept so callers read the one that states their intent.
type StoreResult struct {
	Matched  int64
	Modified int64
}

// Store is a generic repository over versioned entities. Every mutation
// bumps the entity's version by exactly 1 in the same atomic statement;
// the version is the sole optimistic-concurrency signal exposed.
//
// Filters passed to UpdateOne and DeleteOne are expected to key a single
// entity (the account id in practice); the store reports affected counts
// and never treats zero matches as an error.
type Store[T any] struct {
	db       bun.IDB
	handlers StoreHandlers[T]
}

// NewStore creates a generic store for the given model handlers
func NewStore[T any](db bun.IDB, handlers StoreHandlers[T]) *Store[T] {
	return &Store[T]{
		db:       db,
		handlers: handlers,
	}
}

// DB exposes the underlying connection for transaction scoping
func (s *Store[T]) DB() bun.IDB {
	return s.db
}

// WithTx returns a store bound to the given transaction
func (s *Store[T]) WithTx(tx bun.IDB) *Store[T] {
	return &Store[T]{db: tx, handlers: s.handlers}
}

// FindOne returns the first entity matching the criteria. Read only, no
// version effect.
func (s *Store[T]) FindOne(ctx context.Context, criteria ...SelectCriteria) (T, error) {
	record := s.handlers.NewRecord()

	q := s.db.NewSelect().Model(record)
	for _, c := range criteria {
		if c != nil {
			q = c(q)
		}
	}

	if err := q.Limit(1).Scan(ctx); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, err
		}
		return zero, WrapStorageErr(err, "store: find one failed")
	}

	return record, nil
}

// Create inserts the given records with version = 0, assigning ids to
// records that have none.
func (s *Store[T]) Create(ctx context.Context, records ...T) error {
	for _, record := range records {
		if s.handlers.GetID(record) == uuid.Nil {
			s.handlers.SetID(record, uuid.New())
		}
		if s.handlers.SetVersion != nil {
			s.handlers.SetVersion(record, 0)
		}

		if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
			return WrapStorageErr(err, "store: insert failed")
		}
	}
	return nil
}

// UpdateOne applies the patch and bumps version by 1 in one atomic UPDATE.
// Zero matches is not an error; callers interpret the counts.
func (s *Store[T]) UpdateOne(ctx context.Context, patch UpdateCriteria, criteria ...UpdateCriteria) (StoreResult, error) {
	q := s.db.NewUpdate().Model(s.handlers.NewRecord())
	if patch != nil {
		q = patch(q)
	}
	q = q.Set("version = version + 1")
	for _, c := range criteria {
		if c != nil {
			q = c(q)
		}
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return StoreResult{}, WrapStorageErr(err, "store: conditional update failed")
	}

	count, err := res.RowsAffected()
	if err != nil {
		return StoreResult{}, WrapStorageErr(err, "store: update result unavailable")
	}

	return StoreResult{Matched: count, Modified: count}, nil
}

// DeleteOne removes at most one matching entity and returns the deleted count
func (s *Store[T]) DeleteOne(ctx context.Context, criteria ...DeleteCriteria) (int64, error) {
	q := s.db.NewDelete().Model(s.handlers.NewRecord())
	for _, c := range criteria {
		if c != nil {
			q = c(q)
		}
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, WrapStorageErr(err, "store: conditional delete failed")
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, WrapStorageErr(err, "store: delete result unavailable")
	}

	return count, nil
}

// FindByIDAndUpdate applies the patch keyed by identity with the same
// version-bump contract, returning the post-update entity.
func (s *Store[T]) FindByIDAndUpdate(ctx context.Context, id uuid.UUID, patch UpdateCriteria) (T, error) {
	record := s.handlers.NewRecord()

	q := s.db.NewUpdate().Model(record)
	if patch != nil {
		q = patch(q)
	}
	q = q.
		Set("version = version + 1").
		Where("?TableAlias.id = ?", id).
		Returning("*")

	res, err := q.Exec(ctx)
	if err != nil {
		var zero T
		return zero, WrapStorageErr(err, "store: update by id failed")
	}

	count, err := res.RowsAffected()
	if err != nil {
		var zero T
		return zero, WrapStorageErr(err, "store: update result unavailable")
	}

	if count == 0 {
		var zero T
		return zero, sql.ErrNoRows
	}

	return record, nil
}

// IsRecordNotFound checks for the store's not-found read result
func IsRecordNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
