package accounts_test

import (
	"context"
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFreezeAccountMessageValidation(t *testing.T) {
	msg := accounts.FreezeAccountMessage{}
	assert.Error(t, msg.Validate(), "actor id is required")

	msg = accounts.FreezeAccountMessage{ActorID: "not-a-uuid"}
	assert.Error(t, msg.Validate())

	msg = accounts.FreezeAccountMessage{ActorID: uuid.NewString()}
	assert.NoError(t, msg.Validate(), "target defaults to the actor")

	msg = accounts.FreezeAccountMessage{ActorID: uuid.NewString(), TargetID: uuid.NewString()}
	assert.NoError(t, msg.Validate())
	assert.Equal(t, "account.freeze", msg.Type())
}

func TestFreezeAccountHandlerExecutesTransition(t *testing.T) {
	repo := &MockAccounts{}
	ledger := &MockRevocationLedger{}
	actorID := uuid.New()

	repo.On("Freeze", mock.Anything, actorID, actorID, mock.Anything).
		Return(accounts.StoreResult{Matched: 1, Modified: 1}, nil).Once()

	handler := &accounts.FreezeAccountHandler{
		Controller: accounts.NewLifecycleController(repo, ledger),
	}

	err := handler.Execute(context.Background(), accounts.FreezeAccountMessage{
		ActorID:   actorID.String(),
		ActorRole: accounts.RoleUser,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFreezeAccountHandlerHonorsCancelledContext(t *testing.T) {
	handler := &accounts.FreezeAccountHandler{
		Controller: accounts.NewLifecycleController(&MockAccounts{}, &MockRevocationLedger{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, accounts.FreezeAccountMessage{
		ActorID:   uuid.NewString(),
		ActorRole: accounts.RoleUser,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRestoreAccountHandlerExecutesTransition(t *testing.T) {
	repo := &MockAccounts{}
	ledger := &MockRevocationLedger{}
	actorID := uuid.New()
	targetID := uuid.New()

	repo.On("Restore", mock.Anything, actorID, targetID, mock.Anything).
		Return(accounts.StoreResult{Matched: 1, Modified: 1}, nil).Once()

	handler := &accounts.RestoreAccountHandler{
		Controller: accounts.NewLifecycleController(repo, ledger),
	}

	err := handler.Execute(context.Background(), accounts.RestoreAccountMessage{
		ActorID:   actorID.String(),
		ActorRole: accounts.RoleAdmin,
		TargetID:  targetID.String(),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestHardDeleteAccountHandlerRequiresTarget(t *testing.T) {
	handler := &accounts.HardDeleteAccountHandler{
		Controller: accounts.NewLifecycleController(&MockAccounts{}, &MockRevocationLedger{}),
	}

	err := handler.Execute(context.Background(), accounts.HardDeleteAccountMessage{})
	require.Error(t, err)
}

func TestHardDeleteAccountHandlerExecutesTransition(t *testing.T) {
	repo := &MockAccounts{}
	ledger := &MockRevocationLedger{}
	targetID := uuid.New()

	repo.On("HardDelete", mock.Anything, targetID).Return(int64(1), nil).Once()

	handler := &accounts.HardDeleteAccountHandler{
		Controller: accounts.NewLifecycleController(repo, ledger),
	}

	err := handler.Execute(context.Background(), accounts.HardDeleteAccountMessage{
		TargetID: targetID.String(),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLogoutHandlerDefaultsToSingleToken(t *testing.T) {
	repo := &MockAccounts{}
	ledger := &MockRevocationLedger{}
	accountID := uuid.New()
	claims := newTestClaims(accountID, accounts.RoleUser, "jti-1", time.Now())

	ledger.On("Revoke", mock.Anything, "jti-1", mock.Anything).Return(nil).Once()

	handler := &accounts.LogoutHandler{
		Controller: accounts.NewLifecycleController(repo, ledger),
	}

	err := handler.Execute(context.Background(), accounts.LogoutMessage{Claims: claims})
	require.NoError(t, err)
	ledger.AssertExpectations(t)
}

func TestLogoutHandlerRejectsUnknownFlag(t *testing.T) {
	handler := &accounts.LogoutHandler{
		Controller: accounts.NewLifecycleController(&MockAccounts{}, &MockRevocationLedger{}),
	}

	err := handler.Execute(context.Background(), accounts.LogoutMessage{
		Claims: newTestClaims(uuid.New(), accounts.RoleUser, "jti-1", time.Now()),
		Flag:   "everything",
	})
	require.Error(t, err)
}
