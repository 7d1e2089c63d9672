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

func TestIsTokenValidBoundaries(t *testing.T) {
	epoch := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// never-changed credentials accept everything
	assert.True(t, accounts.IsTokenValid(epoch.Add(-time.Hour), time.Time{}))

	// strictly before the epoch is rejected
	assert.False(t, accounts.IsTokenValid(epoch.Add(-time.Second), epoch))

	// exactly at the epoch stays valid
	assert.True(t, accounts.IsTokenValid(epoch, epoch))

	assert.True(t, accounts.IsTokenValid(epoch.Add(time.Second), epoch))
}

func TestAdvanceEpochUsesInjectedClock(t *testing.T) {
	repo := &MockAccounts{}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	accountID := uuid.New()

	repo.On("AdvanceCredentialEpoch", mock.Anything, accountID, now).
		Return(accounts.StoreResult{Matched: 1, Modified: 1}, nil).Once()

	tracker := accounts.NewEpochTracker(repo, accounts.WithEpochClock(func() time.Time { return now }))

	require.NoError(t, tracker.AdvanceEpoch(context.Background(), accountID))
	repo.AssertExpectations(t)
}

func TestAdvanceEpochMissingAccount(t *testing.T) {
	repo := &MockAccounts{}
	accountID := uuid.New()

	repo.On("AdvanceCredentialEpoch", mock.Anything, accountID, mock.Anything).
		Return(accounts.StoreResult{}, nil).Once()

	tracker := accounts.NewEpochTracker(repo)

	err := tracker.AdvanceEpoch(context.Background(), accountID)
	require.Error(t, err)
	assert.True(t, accounts.IsNotFoundOrConflict(err))
}
