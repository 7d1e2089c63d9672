package accounts_test

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccounts is a testify mock of the Accounts repository
type MockAccounts struct {
	mock.Mock
}

var _ accounts.Accounts = (*MockAccounts)(nil)

func (m *MockAccounts) GetByID(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	args := m.Called(ctx, id)
	if acc := args.Get(0); acc != nil {
		return acc.(*accounts.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) GetByIdentifier(ctx context.Context, identifier string) (*accounts.Account, error) {
	args := m.Called(ctx, identifier)
	if acc := args.Get(0); acc != nil {
		return acc.(*accounts.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) Register(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, record)
	if acc := args.Get(0); acc != nil {
		return acc.(*accounts.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) Freeze(ctx context.Context, actorID, targetID uuid.UUID, at time.Time) (accounts.StoreResult, error) {
	args := m.Called(ctx, actorID, targetID, at)
	return args.Get(0).(accounts.StoreResult), args.Error(1)
}

func (m *MockAccounts) Restore(ctx context.Context, actorID, targetID uuid.UUID, at time.Time) (accounts.StoreResult, error) {
	args := m.Called(ctx, actorID, targetID, at)
	return args.Get(0).(accounts.StoreResult), args.Error(1)
}

func (m *MockAccounts) RestoreStrict(ctx context.Context, actorID, targetID uuid.UUID, at time.Time) (accounts.StoreResult, error) {
	args := m.Called(ctx, actorID, targetID, at)
	return args.Get(0).(accounts.StoreResult), args.Error(1)
}

func (m *MockAccounts) HardDelete(ctx context.Context, targetID uuid.UUID) (int64, error) {
	args := m.Called(ctx, targetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccounts) AdvanceCredentialEpoch(ctx context.Context, id uuid.UUID, at time.Time) (accounts.StoreResult, error) {
	args := m.Called(ctx, id, at)
	return args.Get(0).(accounts.StoreResult), args.Error(1)
}

func (m *MockAccounts) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) (accounts.StoreResult, error) {
	args := m.Called(ctx, id, passwordHash, at)
	return args.Get(0).(accounts.StoreResult), args.Error(1)
}

func (m *MockAccounts) UpdateBasicInfo(ctx context.Context, id uuid.UUID, patch accounts.BasicInfoPatch) (accounts.StoreResult, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(accounts.StoreResult), args.Error(1)
}

func (m *MockAccounts) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (accounts.StoreResult, error) {
	args := m.Called(ctx, id, email)
	return args.Get(0).(accounts.StoreResult), args.Error(1)
}

func (m *MockAccounts) SetProfileImage(ctx context.Context, id uuid.UUID, key, previousKey string) (*accounts.Account, error) {
	args := m.Called(ctx, id, key, previousKey)
	if acc := args.Get(0); acc != nil {
		return acc.(*accounts.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) SetCoverImages(ctx context.Context, id uuid.UUID, urls []string) (*accounts.Account, error) {
	args := m.Called(ctx, id, urls)
	if acc := args.Get(0); acc != nil {
		return acc.(*accounts.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRevocationLedger is a testify mock of the RevocationLedger
type MockRevocationLedger struct {
	mock.Mock
}

var _ accounts.RevocationLedger = (*MockRevocationLedger)(nil)

func (m *MockRevocationLedger) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockRevocationLedger) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationLedger) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockObjectStorage is a testify mock of the ObjectStorage collaborator
type MockObjectStorage struct {
	mock.Mock
}

var _ accounts.ObjectStorage = (*MockObjectStorage)(nil)

func (m *MockObjectStorage) PurgeByPrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

func (m *MockObjectStorage) DeleteObjects(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockObjectStorage) PresignPutObject(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, expires)
	return args.String(0), args.Error(1)
}

// MockTokenService is a testify mock of the TokenService
type MockTokenService struct {
	mock.Mock
}

var _ accounts.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) Generate(identity accounts.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *accounts.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (accounts.AuthClaims, error) {
	args := m.Called(tokenString)
	if claims := args.Get(0); claims != nil {
		return claims.(accounts.AuthClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

// newTestClaims builds decoded claims the way the token service would
func newTestClaims(accountID uuid.UUID, role, tokenID string, issuedAt time.Time) *accounts.JWTClaims {
	return &accounts.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
		UID:      accountID.String(),
		UserRole: role,
	}
}
