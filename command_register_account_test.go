package accounts_test

import (
	"context"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAccountMessageValidation(t *testing.T) {
	msg := accounts.RegisterAccountMessage{}
	assert.Error(t, msg.Validate())

	msg = accounts.RegisterAccountMessage{
		Username: "Ada Lovelace",
		Email:    "not-an-email",
		Password: "securePassword123!",
	}
	assert.Error(t, msg.Validate())

	msg = accounts.RegisterAccountMessage{
		Username: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "short",
	}
	assert.Error(t, msg.Validate())

	msg = accounts.RegisterAccountMessage{
		Username: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "securePassword123!",
	}
	assert.NoError(t, msg.Validate())
	assert.Equal(t, "account.register", msg.Type())
}

func TestRegisterAccountHandlerCreatesAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := accounts.NewRepositoryManager(db)
	repo.MustValidate()

	handler := &accounts.RegisterAccountHandler{Repo: repo}

	err := handler.Execute(context.Background(), accounts.RegisterAccountMessage{
		Username: "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "securePassword123!",
	})
	require.NoError(t, err)

	created, err := repo.Accounts().GetByIdentifier(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", created.FirstName)
	assert.Equal(t, "Lovelace", created.LastName)
	assert.Equal(t, accounts.RoleUser, created.Role)
	assert.NotEqual(t, "securePassword123!", created.PasswordHash)
	assert.NoError(t, accounts.ComparePasswordAndHash("securePassword123!", created.PasswordHash))
	assert.Equal(t, int64(0), created.Version)
}

func TestRegisterAccountHandlerRejectsInvalidMessage(t *testing.T) {
	db := setupTestDB(t)
	handler := &accounts.RegisterAccountHandler{Repo: accounts.NewRepositoryManager(db)}

	err := handler.Execute(context.Background(), accounts.RegisterAccountMessage{
		Username: "Ada",
		Email:    "ada@example.com",
		Password: "short",
	})
	require.Error(t, err)
}
