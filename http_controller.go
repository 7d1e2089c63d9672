package accounts

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ClaimsLocalsKey is where the auth middleware parks decoded claims
const ClaimsLocalsKey = "claims"

// AccountLocalsKey is where the auth middleware parks the guarded account
const AccountLocalsKey = "account"

// Response is the conventional {message, data?} envelope
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// AccountsControllerRoutes names the mounted paths
type AccountsControllerRoutes struct {
	Profile      string
	Share        string
	Freeze       string
	FreezeTarget string
	Restore      string
	HardDelete   string
	Logout       string
	Refresh      string
	Password     string
	BasicInfo    string
	Email        string
	ProfileImage string
	CoverImages  string
}

// AccountsController is the HTTP boundary over the lifecycle controller and
// profile service. Routing stays thin: decode, delegate, map errors.
type AccountsController struct {
	Logger       Logger
	Lifecycle    *LifecycleController
	Profiles     *ProfileService
	Routes       *AccountsControllerRoutes
	ErrorHandler router.ErrorHandler
}

// AccountsControllerOption customizes the controller
type AccountsControllerOption func(*AccountsController) *AccountsController

// WithControllerLogger overrides the controller logger
func WithControllerLogger(logger Logger) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerErrorHandler overrides error rendering
func WithControllerErrorHandler(handler router.ErrorHandler) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		if handler != nil {
			c.ErrorHandler = handler
		}
		return c
	}
}

// NewAccountsController creates a controller with default routes
func NewAccountsController(lifecycle *LifecycleController, profiles *ProfileService, opts ...AccountsControllerOption) *AccountsController {
	c := &AccountsController{
		Logger:       defLogger{},
		Lifecycle:    lifecycle,
		Profiles:     profiles,
		ErrorHandler: DefaultErrorHandler,
		Routes: &AccountsControllerRoutes{
			Profile:      "/profile",
			Share:        "/profile/:userId",
			Freeze:       "/freeze",
			FreezeTarget: "/:userId/freeze",
			Restore:      "/:userId/restore",
			HardDelete:   "/:userId",
			Logout:       "/logout",
			Refresh:      "/refresh-token",
			Password:     "/password",
			BasicInfo:    "/basic-info",
			Email:        "/email",
			ProfileImage: "/profile-image",
			CoverImages:  "/cover-images",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// RegisterAccountRoutes mounts the account endpoints on the router group
func RegisterAccountRoutes[T any](app router.Router[T], controller *AccountsController) {
	r := controller.Routes

	app.Get(r.Profile, controller.ProfileShow).SetName("account.profile")
	app.Get(r.Share, controller.ProfileShare).SetName("account.share")

	app.Patch(r.Freeze, controller.FreezeSelf).SetName("account.freeze")
	app.Patch(r.FreezeTarget, controller.FreezeTarget).SetName("account.freeze-target")
	app.Patch(r.Restore, controller.Restore).SetName("account.restore")
	app.Delete(r.HardDelete, controller.HardDelete).SetName("account.hard-delete")

	app.Post(r.Logout, controller.Logout).SetName("account.logout")
	app.Post(r.Refresh, controller.Refresh).SetName("account.refresh")
	app.Patch(r.Password, controller.PasswordUpdate).SetName("account.password")
	app.Patch(r.BasicInfo, controller.BasicInfoUpdate).SetName("account.basic-info")
	app.Patch(r.Email, controller.EmailUpdate).SetName("account.email")
	app.Post(r.ProfileImage, controller.ProfileImageUpload).SetName("account.profile-image")
	app.Patch(r.CoverImages, controller.CoverImagesUpdate).SetName("account.cover-images")
}

// ProfileShow returns the authenticated account
func (a *AccountsController) ProfileShow(ctx router.Context) error {
	account, err := a.currentAccount(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Done", Data: account})
}

// ProfileShare returns the public subset of the target account
func (a *AccountsController) ProfileShare(ctx router.Context) error {
	id, err := a.targetID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	public, err := a.Profiles.ShareProfile(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Done", Data: public})
}

// FreezeSelf freezes the caller's own account
func (a *AccountsController) FreezeSelf(ctx router.Context) error {
	return a.freeze(ctx, uuid.Nil)
}

// FreezeTarget freezes the account named in the path; the lifecycle
// controller rejects non-admin callers targeting someone else.
func (a *AccountsController) FreezeTarget(ctx router.Context) error {
	target, err := uuid.Parse(ctx.Param("userId", ""))
	if err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid user id"))
	}
	return a.freeze(ctx, target)
}

func (a *AccountsController) freeze(ctx router.Context, target uuid.UUID) error {
	actor, err := a.currentActor(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Lifecycle.Freeze(ctx.Context(), actor, target); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Done"})
}

// Restore brings a frozen account back
func (a *AccountsController) Restore(ctx router.Context) error {
	actor, err := a.currentActor(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	target, err := uuid.Parse(ctx.Param("userId", ""))
	if err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid user id"))
	}

	if err := a.Lifecycle.Restore(ctx.Context(), actor, target); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Done"})
}

// HardDelete permanently removes a frozen account
func (a *AccountsController) HardDelete(ctx router.Context) error {
	target, err := uuid.Parse(ctx.Param("userId", ""))
	if err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid user id"))
	}

	if err := a.Lifecycle.HardDelete(ctx.Context(), target); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Done"})
}

// LogoutPayload selects the invalidation scope
type LogoutPayload struct {
	Flag string `form:"flag" json:"flag"`
}

// Validate will run validation rules
func (r LogoutPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Flag, validation.In("", string(LogoutOnly), string(LogoutAll))),
	)
}

// Logout invalidates the current token, or every token with flag=all
func (a *AccountsController) Logout(ctx router.Context) error {
	claims, err := a.currentClaims(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(LogoutPayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid logout payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid logout payload"))
	}

	flag := LogoutFlag(payload.Flag)
	if flag == "" {
		flag = LogoutOnly
	}

	if err := a.Lifecycle.Logout(ctx.Context(), claims, flag); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	status := router.StatusOK
	if flag == LogoutOnly {
		status = router.StatusCreated
	}

	return ctx.JSON(status, Response{Message: "Done"})
}

// Refresh rotates the session: new token minted, old one revoked
func (a *AccountsController) Refresh(ctx router.Context) error {
	account, err := a.currentAccount(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	claims, err := a.currentClaims(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	token, err := a.Lifecycle.RefreshCredentials(ctx.Context(), account, claims)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, Response{
		Message: "Done",
		Data:    map[string]any{"credentials": token},
	})
}

// PasswordUpdatePayload carries a password change
type PasswordUpdatePayload struct {
	OldPassword string `form:"old_password" json:"old_password"`
	NewPassword string `form:"new_password" json:"new_password"`
}

// Validate will run validation rules
func (r PasswordUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(10, 100)),
	)
}

// PasswordUpdate verifies the old password and rotates the hash
func (a *AccountsController) PasswordUpdate(ctx router.Context) error {
	account, err := a.currentAccount(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(PasswordUpdatePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid password payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid password payload"))
	}

	if err := a.Lifecycle.ChangePassword(ctx.Context(), account.ID, payload.OldPassword, payload.NewPassword); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Password updated successfully"})
}

// BasicInfoPayload carries the mutable profile fields
type BasicInfoPayload struct {
	Username string `form:"username" json:"username"`
	Age      int    `form:"age" json:"age"`
	Phone    string `form:"phone_number" json:"phone_number"`
	Bio      string `form:"bio" json:"bio"`
}

// Validate will run validation rules
func (r BasicInfoPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(2, 51)),
		validation.Field(&r.Age, validation.Min(0), validation.Max(150)),
		validation.Field(&r.Phone, validation.Length(10, 11), is.Digit),
	)
}

// BasicInfoUpdate patches profile fields on the caller's account
func (a *AccountsController) BasicInfoUpdate(ctx router.Context) error {
	account, err := a.currentAccount(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(BasicInfoPayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid profile payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid profile payload"))
	}

	err = a.Profiles.UpdateBasicInfo(ctx.Context(), account.ID, BasicInfoPatch{
		Username: payload.Username,
		Age:      payload.Age,
		Phone:    payload.Phone,
		Bio:      payload.Bio,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Basic info updated successfully"})
}

// EmailUpdatePayload carries an email change
type EmailUpdatePayload struct {
	NewEmail string `form:"new_email" json:"new_email"`
}

// Validate will run validation rules
func (r EmailUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewEmail, validation.Required, is.Email),
	)
}

// EmailUpdate stores a new email on the caller's account
func (a *AccountsController) EmailUpdate(ctx router.Context) error {
	account, err := a.currentAccount(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(EmailUpdatePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid email payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid email payload"))
	}

	if err := a.Profiles.UpdateEmail(ctx.Context(), account.ID, payload.NewEmail); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Email updated successfully"})
}

// ProfileImagePayload describes the upload the client wants to perform
type ProfileImagePayload struct {
	ContentType  string `form:"content_type" json:"content_type"`
	OriginalName string `form:"original_name" json:"original_name"`
}

// Validate will run validation rules
func (r ProfileImagePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ContentType, validation.Required),
		validation.Field(&r.OriginalName, validation.Required),
	)
}

// ProfileImageUpload issues a presigned upload URL for a new profile image
func (a *AccountsController) ProfileImageUpload(ctx router.Context) error {
	account, err := a.currentAccount(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(ProfileImagePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid image payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid image payload"))
	}

	upload, err := a.Profiles.ProfileImageUploadURL(ctx.Context(), account, payload.OriginalName, payload.ContentType)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Done", Data: upload})
}

// CoverImagesPayload carries the replacement cover set
type CoverImagesPayload struct {
	URLs []string `form:"urls" json:"urls"`
}

// Validate will run validation rules
func (r CoverImagesPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URLs, validation.Required),
	)
}

// CoverImagesUpdate replaces the cover set and cleans up replaced objects
func (a *AccountsController) CoverImagesUpdate(ctx router.Context) error {
	account, err := a.currentAccount(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(CoverImagesPayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid cover payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid cover payload"))
	}

	updated, err := a.Profiles.UpdateCoverImages(ctx.Context(), account, payload.URLs)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, Response{Message: "Done", Data: updated})
}

func (a *AccountsController) currentClaims(ctx router.Context) (AuthClaims, error) {
	raw := ctx.Locals(ClaimsLocalsKey)
	if raw == nil {
		return nil, ErrTokenMalformed
	}

	claims, ok := raw.(AuthClaims)
	if !ok {
		return nil, ErrUnableToDecodeToken
	}

	return claims, nil
}

func (a *AccountsController) currentAccount(ctx router.Context) (*Account, error) {
	raw := ctx.Locals(AccountLocalsKey)
	if raw == nil {
		return nil, ErrTokenMalformed
	}

	account, ok := raw.(*Account)
	if !ok {
		return nil, ErrUnableToDecodeToken
	}

	return account, nil
}

func (a *AccountsController) currentActor(ctx router.Context) (Actor, error) {
	account, err := a.currentAccount(ctx)
	if err != nil {
		return Actor{}, err
	}

	return Actor{ID: account.ID, Role: account.Role}, nil
}

func (a *AccountsController) targetID(ctx router.Context) (uuid.UUID, error) {
	raw := ctx.Param("userId", "")
	if raw == "" {
		account, err := a.currentAccount(ctx)
		if err != nil {
			return uuid.Nil, err
		}
		return account.ID, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryValidation, "invalid user id")
	}

	return id, nil
}

// DefaultErrorHandler maps error kinds to the conventional status codes:
// validation 400, auth 401, ownership 403, zero-match conditional updates
// 404, everything else 500.
func DefaultErrorHandler(ctx router.Context, err error) error {
	var rich *errors.Error
	if errors.As(err, &rich) {
		switch rich.Category {
		case errors.CategoryValidation, errors.CategoryBadInput:
			return ctx.JSON(router.StatusBadRequest, Response{Message: rich.Message})
		case errors.CategoryAuth:
			return ctx.JSON(router.StatusUnauthorized, Response{Message: rich.Message})
		case errors.CategoryAuthz:
			return ctx.JSON(router.StatusForbidden, Response{Message: rich.Message})
		case errors.CategoryNotFound, errors.CategoryConflict:
			return ctx.JSON(router.StatusNotFound, Response{Message: rich.Message})
		}
	}

	return ctx.JSON(router.StatusInternalServerError, Response{Message: "internal server error"})
}
