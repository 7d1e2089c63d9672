package accounts

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// HardDeleteAccountMessage requests permanent removal of a frozen account
type HardDeleteAccountMessage struct {
	TargetID string `json:"target_id"`
}

func (e HardDeleteAccountMessage) Type() string { return "account.hard_delete" }

// Validate will run validation rules
func (e HardDeleteAccountMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.TargetID, validation.Required, is.UUIDv4),
	)
}

// HardDeleteAccountHandler executes hard deletes
type HardDeleteAccountHandler struct {
	Controller *LifecycleController
}

func (h *HardDeleteAccountHandler) Execute(ctx context.Context, event HardDeleteAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account hard delete",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *HardDeleteAccountHandler) execute(ctx context.Context, event HardDeleteAccountMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid hard delete request")
	}

	target, err := uuid.Parse(event.TargetID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid target id")
	}

	return h.Controller.HardDelete(ctx, target)
}
