package accounts

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountRole is the account's role
type AccountRole = string

const (
	// RoleUser is a regular account (owns only itself)
	RoleUser AccountRole = "user"
	// RoleAdmin is an elevated account (may target other accounts)
	RoleAdmin AccountRole = "admin"
)

// Gender is the account's declared gender
type Gender = string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Account is the account model. Lifecycle status is carried by the
// frozen/restored pairs: a set FrozenAt means the account is frozen, a
// set RestoredAt means it came back from a freeze. The pairs are mutually
// exclusive and swapped atomically by the lifecycle repository.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`

	ID           uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role         AccountRole `bun:"account_role,notnull" json:"account_role,omitempty"`
	FirstName    string      `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName     string      `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email        string      `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone        string      `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash string      `bun:"password_hash" json:"password_hash,omitempty"`
	Bio          string      `bun:"bio" json:"bio,omitempty"`
	Age          int         `bun:"age" json:"age,omitempty"`
	Gender       Gender      `bun:"gender" json:"gender,omitempty"`

	ProfileImage     string   `bun:"profile_image" json:"profile_image,omitempty"`
	TempProfileImage string   `bun:"temp_profile_image" json:"temp_profile_image,omitempty"`
	CoverImages      []string `bun:"cover_images" json:"cover_images,omitempty"`

	FrozenAt   *time.Time `bun:"frozen_at,nullzero" json:"frozen_at,omitempty"`
	FrozenBy   *uuid.UUID `bun:"frozen_by,nullzero,type:uuid" json:"frozen_by,omitempty"`
	RestoredAt *time.Time `bun:"restored_at,nullzero" json:"restored_at,omitempty"`
	RestoredBy *uuid.UUID `bun:"restored_by,nullzero,type:uuid" json:"restored_by,omitempty"`

	// CredentialsChangedAt is the credential epoch: tokens issued before it
	// are rejected regardless of their own expiry. It only moves forward.
	CredentialsChangedAt *time.Time `bun:"credentials_changed_at,nullzero" json:"credentials_changed_at,omitempty"`

	// Version is the optimistic concurrency counter. The entity store bumps
	// it on every write; callers never set it.
	Version int64 `bun:"version,notnull,default:0" json:"version"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsFrozen reports whether the account is currently in the frozen state.
func (a *Account) IsFrozen() bool {
	return a != nil && a.FrozenAt != nil
}

// IsAdmin reports whether the account holds the elevated role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Username is a computed accessor, never persisted and never an input to
// lifecycle logic.
func (a *Account) Username() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// SetUsername splits "First Last" into the stored name pair.
func (a *Account) SetUsername(username string) *Account {
	first, last, _ := strings.Cut(strings.TrimSpace(username), " ")
	a.FirstName = first
	a.LastName = strings.TrimSpace(last)
	return a
}

// CredentialEpoch returns the zero time when the epoch was never advanced.
func (a *Account) CredentialEpoch() time.Time {
	if a == nil || a.CredentialsChangedAt == nil {
		return time.Time{}
	}
	return *a.CredentialsChangedAt
}

// RevocationMarker invalidates one previously issued token by its unique
// claim. Expiry mirrors the token's own expiry so markers can be swept once
// the token would have died anyway.
type RevocationMarker struct {
	bun.BaseModel `bun:"table:token_revocations,alias:rvk"`

	TokenID   string     `bun:"token_id,pk" json:"token_id"`
	AccountID *uuid.UUID `bun:"account_id,nullzero,type:uuid" json:"account_id,omitempty"`
	ExpiresAt time.Time  `bun:"expires_at,notnull" json:"expires_at"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
