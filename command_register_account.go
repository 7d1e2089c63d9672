package accounts

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// RegisterAccountMessage requests creation of a new account
type RegisterAccountMessage struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Password string `json:"password"`
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

// Validate will run validation rules
func (e RegisterAccountMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username, validation.Required, validation.Length(2, 51)),
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Role, validation.In("", RoleUser, RoleAdmin)),
		validation.Field(&e.Gender, validation.In("", GenderMale, GenderFemale)),
		validation.Field(&e.Password, validation.Required, validation.Length(10, 100)),
	)
}

// RegisterAccountHandler executes account registrations
type RegisterAccountHandler struct {
	Repo RepositoryManager
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration request")
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	record := (&Account{
		Email:        strings.ToLower(strings.TrimSpace(event.Email)),
		Phone:        event.Phone,
		Role:         event.Role,
		Gender:       event.Gender,
		PasswordHash: hash,
	}).SetUsername(event.Username)

	if _, err := h.Repo.Accounts().Register(ctx, record); err != nil {
		return err
	}

	return nil
}
