package accounts

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProfileService handles the account's profile surface: reads, basic-info
// and email updates, and image bookkeeping against the object-storage
// collaborator.
type ProfileService struct {
	accounts      Accounts
	storage       ObjectStorage
	logger        Logger
	presignExpiry time.Duration
}

// ProfileOption customizes service construction
type ProfileOption func(*ProfileService)

// WithProfileLogger overrides the service logger
func WithProfileLogger(logger Logger) ProfileOption {
	return func(p *ProfileService) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPresignExpiry overrides how long upload links stay valid
func WithPresignExpiry(d time.Duration) ProfileOption {
	return func(p *ProfileService) {
		if d > 0 {
			p.presignExpiry = d
		}
	}
}

// NewProfileService wires the profile service over its collaborators
func NewProfileService(accounts Accounts, storage ObjectStorage, opts ...ProfileOption) *ProfileService {
	if storage == nil {
		storage = NoopObjectStorage{}
	}

	p := &ProfileService{
		accounts:      accounts,
		storage:       storage,
		logger:        defLogger{},
		presignExpiry: 15 * time.Minute,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Profile returns the full account record
func (p *ProfileService) Profile(ctx context.Context, id uuid.UUID) (*Account, error) {
	account, err := p.accounts.GetByID(ctx, id)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrNotFoundOrConflict.WithMetadata(map[string]any{
				"account_id": id.String(),
			})
		}
		return nil, err
	}
	return account, nil
}

// PublicProfile is the shareable subset of an account
type PublicProfile struct {
	Username string `json:"username"`
	Bio      string `json:"bio,omitempty"`
	Age      int    `json:"age,omitempty"`
	Gender   Gender `json:"gender,omitempty"`
}

// ShareProfile returns the public subset of the account
func (p *ProfileService) ShareProfile(ctx context.Context, id uuid.UUID) (*PublicProfile, error) {
	account, err := p.Profile(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		Username: account.Username(),
		Bio:      account.Bio,
		Age:      account.Age,
		Gender:   account.Gender,
	}, nil
}

// UpdateBasicInfo patches the mutable profile fields
func (p *ProfileService) UpdateBasicInfo(ctx context.Context, id uuid.UUID, patch BasicInfoPatch) error {
	res, err := p.accounts.UpdateBasicInfo(ctx, id, patch)
	if err != nil {
		return err
	}
	if res.Matched == 0 {
		return ErrNotFoundOrConflict.WithMetadata(map[string]any{
			"account_id": id.String(),
		})
	}
	return nil
}

// UpdateEmail stores a new unique email for the account
func (p *ProfileService) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	res, err := p.accounts.UpdateEmail(ctx, id, email)
	if err != nil {
		return err
	}
	if res.Matched == 0 {
		return ErrNotFoundOrConflict.WithMetadata(map[string]any{
			"account_id": id.String(),
		})
	}
	return nil
}

// ProfileImageUpload is the issued upload destination
type ProfileImageUpload struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ProfileImageUploadURL issues a presigned upload link under the account's
// namespace and records the pending key, parking the previous image in
// temp_profile_image until the upload is confirmed.
func (p *ProfileService) ProfileImageUploadURL(ctx context.Context, account *Account, originalName, contentType string) (*ProfileImageUpload, error) {
	key := profileImageKey(account.ID, originalName)

	url, err := p.storage.PresignPutObject(ctx, key, contentType, p.presignExpiry)
	if err != nil {
		return nil, err
	}

	if _, err := p.accounts.SetProfileImage(ctx, account.ID, key, account.ProfileImage); err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrNotFoundOrConflict.WithMetadata(map[string]any{
				"account_id": account.ID.String(),
			})
		}
		return nil, err
	}

	return &ProfileImageUpload{URL: url, Key: key}, nil
}

// UpdateCoverImages stores the new cover set and deletes the replaced
// objects. Deletion is best-effort cleanup: failures are logged, the
// update stands.
func (p *ProfileService) UpdateCoverImages(ctx context.Context, account *Account, urls []string) (*Account, error) {
	updated, err := p.accounts.SetCoverImages(ctx, account.ID, urls)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrNotFoundOrConflict.WithMetadata(map[string]any{
				"account_id": account.ID.String(),
			})
		}
		return nil, err
	}

	if len(account.CoverImages) > 0 {
		if err := p.storage.DeleteObjects(ctx, account.CoverImages); err != nil {
			p.logger.Error("cover image cleanup failed", "account_id", account.ID.String(), "error", err)
		}
	}

	return updated, nil
}

func profileImageKey(id uuid.UUID, originalName string) string {
	name := strings.TrimSpace(path.Base(originalName))
	if name == "" || name == "." || name == "/" {
		name = uuid.NewString()
	}
	return fmt.Sprintf("users/%s/%s", id, name)
}
