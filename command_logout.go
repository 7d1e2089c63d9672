package accounts

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// LogoutMessage requests credential invalidation for the presented token.
// Flag "all" kills every session via the credential epoch; anything else
// revokes only the presented token.
type LogoutMessage struct {
	Claims AuthClaims `json:"-"`
	Flag   string     `json:"flag,omitempty"`
}

func (e LogoutMessage) Type() string { return "account.logout" }

// Validate will run validation rules
func (e LogoutMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Flag, validation.In("", string(LogoutOnly), string(LogoutAll))),
	)
}

// LogoutHandler executes logout requests
type LogoutHandler struct {
	Controller *LifecycleController
}

func (h *LogoutHandler) Execute(ctx context.Context, event LogoutMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during logout",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LogoutHandler) execute(ctx context.Context, event LogoutMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid logout request")
	}

	if event.Claims == nil {
		return goerrors.New("logout requires decoded claims", goerrors.CategoryValidation)
	}

	flag := LogoutFlag(event.Flag)
	if flag == "" {
		flag = LogoutOnly
	}

	return h.Controller.Logout(ctx, event.Claims, flag)
}
