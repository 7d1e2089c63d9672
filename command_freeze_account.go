package accounts

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// FreezeAccountMessage requests a freeze transition. TargetID is optional:
// empty means the actor freezes their own account.
type FreezeAccountMessage struct {
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
	TargetID  string `json:"target_id,omitempty"`
}

func (e FreezeAccountMessage) Type() string { return "account.freeze" }

// Validate will run validation rules
func (e FreezeAccountMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ActorID, validation.Required, is.UUIDv4),
		validation.Field(&e.TargetID, is.UUIDv4),
	)
}

// FreezeAccountHandler executes freeze transitions
type FreezeAccountHandler struct {
	Controller *LifecycleController
}

func (h *FreezeAccountHandler) Execute(ctx context.Context, event FreezeAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account freeze",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FreezeAccountHandler) execute(ctx context.Context, event FreezeAccountMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid freeze request")
	}

	actor, target, err := resolveActorAndTarget(event.ActorID, event.ActorRole, event.TargetID)
	if err != nil {
		return err
	}

	return h.Controller.Freeze(ctx, actor, target)
}

func resolveActorAndTarget(actorID, actorRole, targetID string) (Actor, uuid.UUID, error) {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return Actor{}, uuid.Nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid actor id")
	}

	actor := Actor{ID: id, Role: actorRole}

	if targetID == "" {
		return actor, uuid.Nil, nil
	}

	target, err := uuid.Parse(targetID)
	if err != nil {
		return Actor{}, uuid.Nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid target id")
	}

	return actor, target, nil
}
