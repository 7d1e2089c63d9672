package accounts

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// RestoreAccountMessage requests a restore transition
type RestoreAccountMessage struct {
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
	TargetID  string `json:"target_id"`
}

func (e RestoreAccountMessage) Type() string { return "account.restore" }

// Validate will run validation rules
func (e RestoreAccountMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ActorID, validation.Required, is.UUIDv4),
		validation.Field(&e.TargetID, validation.Required, is.UUIDv4),
	)
}

// RestoreAccountHandler executes restore transitions
type RestoreAccountHandler struct {
	Controller *LifecycleController
}

func (h *RestoreAccountHandler) Execute(ctx context.Context, event RestoreAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account restore",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RestoreAccountHandler) execute(ctx context.Context, event RestoreAccountMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid restore request")
	}

	actor, target, err := resolveActorAndTarget(event.ActorID, event.ActorRole, event.TargetID)
	if err != nil {
		return err
	}

	return h.Controller.Restore(ctx, actor, target)
}
