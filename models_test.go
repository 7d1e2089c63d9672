package accounts_test

import (
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAccountUsernameIsComputed(t *testing.T) {
	account := &accounts.Account{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", account.Username())

	account = &accounts.Account{FirstName: "Ada"}
	assert.Equal(t, "Ada", account.Username())

	account = &accounts.Account{}
	assert.Equal(t, "", account.Username())
}

func TestAccountSetUsernameSplitsOnFirstSpace(t *testing.T) {
	account := (&accounts.Account{}).SetUsername("Ada Lovelace")
	assert.Equal(t, "Ada", account.FirstName)
	assert.Equal(t, "Lovelace", account.LastName)

	account = (&accounts.Account{}).SetUsername("Madonna")
	assert.Equal(t, "Madonna", account.FirstName)
	assert.Equal(t, "", account.LastName)

	account = (&accounts.Account{}).SetUsername("  Ada   Byron Lovelace  ")
	assert.Equal(t, "Ada", account.FirstName)
	assert.Equal(t, "Byron Lovelace", account.LastName)
}

func TestAccountFrozenAndAdminPredicates(t *testing.T) {
	now := time.Now()

	account := &accounts.Account{}
	assert.False(t, account.IsFrozen())
	assert.False(t, account.IsAdmin())

	account.FrozenAt = &now
	account.Role = accounts.RoleAdmin
	assert.True(t, account.IsFrozen())
	assert.True(t, account.IsAdmin())

	var missing *accounts.Account
	assert.False(t, missing.IsFrozen())
	assert.False(t, missing.IsAdmin())
}

func TestAccountCredentialEpochZeroWhenUnset(t *testing.T) {
	account := &accounts.Account{}
	assert.True(t, account.CredentialEpoch().IsZero())

	epoch := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	account.CredentialsChangedAt = &epoch
	assert.Equal(t, epoch, account.CredentialEpoch())
}

func TestActorIsAdmin(t *testing.T) {
	assert.True(t, accounts.Actor{ID: uuid.New(), Role: accounts.RoleAdmin}.IsAdmin())
	assert.False(t, accounts.Actor{ID: uuid.New(), Role: accounts.RoleUser}.IsAdmin())
}
