package accounts_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuardRejectsRevokedToken(t *testing.T) {
	repo := &MockAccounts{}
	ledger := &MockRevocationLedger{}
	accountID := uuid.New()
	claims := newTestClaims(accountID, accounts.RoleUser, "jti-1", time.Now())

	ledger.On("IsRevoked", mock.Anything, "jti-1").Return(true, nil).Once()

	guard := accounts.NewTokenGuard(repo, ledger)

	_, err := guard.Check(context.Background(), claims)
	require.Error(t, err)
	assert.ErrorIs(t, err, accounts.ErrTokenRevoked)
	repo.AssertNotCalled(t, "GetByIdentifier", mock.Anything, mock.Anything)
	ledger.AssertExpectations(t)
}

func TestGuardRejectsTokenIssuedBeforeEpoch(t *testing.T) {
	repo := &MockAccounts{}
	ledger := &MockRevocationLedger{}
	accountID := uuid.New()
	epoch := time.Now().UTC().Truncate(time.Second)
	claims := newTestClaims(accountID, accounts.RoleUser, "jti-1", epoch.Add(-time.Minute))

	account := &accounts.Account{
		ID:                   accountID,
		CredentialsChangedAt: &epoch,
	}

	ledger.On("IsRevoked", mock.Anything, "jti-1").Return(false, nil).Once()
	repo.On("GetByIdentifier", mock.Anything, accountID.String()).Return(account, nil).Once()

	guard := accounts.NewTokenGuard(repo, ledger)

	_, err := guard.Check(context.Background(), claims)
	require.Error(t, err)
	assert.ErrorIs(t, err, accounts.ErrCredentialsChanged)
}

// A token minted in the same second as the credential change must survive:
// JWT iat carries second precision only.
func TestGuardAcceptsTokenIssuedAtEpochBoundary(t *testing.T) {
	repo := &MockAccounts{}
	ledger := &MockRevocationLedger{}
	accountID := uuid.New()

	issued := time.Now().UTC().Truncate(time.Second)
	epoch := issued.Add(500 * time.Millisecond)
	claims := newTestClaims(accountID, accounts.RoleUser, "jti-1", issued)

	account := &accounts.Account{
		ID:                   accountID,
		CredentialsChangedAt: &epoch,
	}

	ledger.On("IsRevoked", mock.Anything, "jti-1").Return(false, nil).Once()
	repo.On("GetByIdentifier", mock.Anything, accountID.String()).Return(account, nil).Once()

	guard := accounts.NewTokenGuard(repo, ledger)

	got, err := guard.Check(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, accountID, got.ID)
}

func TestGuardPassesFreshClaims(t *testing.T) {
	repo := &MockAccounts{}
	ledger := &MockRevocationLedger{}
	accountID := uuid.New()
	claims := newTestClaims(accountID, accounts.RoleUser, "jti-1", time.Now())

	account := &accounts.Account{ID: accountID, Role: accounts.RoleUser}

	ledger.On("IsRevoked", mock.Anything, "jti-1").Return(false, nil).Once()
	repo.On("GetByIdentifier", mock.Anything, accountID.String()).Return(account, nil).Once()

	guard := accounts.NewTokenGuard(repo, ledger)

	got, err := guard.Check(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, account, got)
}

func TestGuardUnknownSubject(t *testing.T) {
	repo := &MockAccounts{}
	ledger := &MockRevocationLedger{}
	accountID := uuid.New()
	claims := newTestClaims(accountID, accounts.RoleUser, "jti-1", time.Now())

	ledger.On("IsRevoked", mock.Anything, "jti-1").Return(false, nil).Once()
	repo.On("GetByIdentifier", mock.Anything, accountID.String()).
		Return(nil, sql.ErrNoRows).Once()

	guard := accounts.NewTokenGuard(repo, ledger)

	_, err := guard.Check(context.Background(), claims)
	require.Error(t, err)
	assert.True(t, accounts.IsNotFoundOrConflict(err))
}
