package accounts_test

import (
	"context"
	"database/sql"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// setupTestDB opens an in-memory sqlite database with the package schema.
// A single connection keeps concurrent writers serialized the way a real
// pool of one would.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()

	_, err = db.NewCreateTable().Model((*accounts.Account)(nil)).Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewCreateTable().Model((*accounts.RevocationMarker)(nil)).Exec(ctx)
	require.NoError(t, err)

	return db
}

func seedAccount(t *testing.T, repo accounts.Accounts, mutate ...func(*accounts.Account)) *accounts.Account {
	t.Helper()

	record := &accounts.Account{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada+" + uuid.NewString() + "@example.com",
		PasswordHash: "$2a$14$not-a-real-hash",
	}

	for _, m := range mutate {
		m(record)
	}

	created, err := repo.Register(context.Background(), record)
	require.NoError(t, err)
	require.NotEqual(t, "", created.ID.String())

	return created
}
