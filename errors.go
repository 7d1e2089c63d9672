package accounts

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeNotAuthorized marks role/ownership failures
	TextCodeNotAuthorized = "NOT_AUTHORIZED"
	// TextCodeNotFoundOrConflict marks zero-row conditional updates
	TextCodeNotFoundOrConflict = "NOT_FOUND_OR_CONFLICT"
	// TextCodeStorageUnavailable marks transient infrastructure failures
	TextCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	// TextCodeTokenRevoked marks tokens with a revocation marker
	TextCodeTokenRevoked = "TOKEN_REVOKED"
	// TextCodeCredentialsChanged marks tokens older than the credential epoch
	TextCodeCredentialsChanged = "CREDENTIALS_CHANGED"
)

// ErrNotAuthorized is returned when the actor lacks the role or ownership
// required for the requested transition.
var ErrNotAuthorized = goerrors.New("not authorized to perform this operation", goerrors.CategoryAuthz).
	WithTextCode(TextCodeNotAuthorized)

// ErrNotFoundOrConflict is returned when a conditional update matched zero
// rows. The store cannot tell "does not exist" from "precondition unmet"
// without an extra read, so the two are deliberately unified.
var ErrNotFoundOrConflict = goerrors.New("record not found or precondition failed", goerrors.CategoryConflict).
	WithTextCode(TextCodeNotFoundOrConflict).
	WithCode(goerrors.CodeConflict)

// ErrTokenRevoked is returned when a token's unique claim has a revocation marker.
var ErrTokenRevoked = goerrors.New("token has been revoked", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenRevoked)

// ErrCredentialsChanged is returned when a token was issued before the
// account's current credential epoch.
var ErrCredentialsChanged = goerrors.New("token predates last credential change", goerrors.CategoryAuth).
	WithTextCode(TextCodeCredentialsChanged)

// ErrNoEmptyString rejects empty password input
var ErrNoEmptyString = errors.New("password cannot be an empty string")

// ErrMismatchedHashAndPassword is the error for mismatched passwords
var ErrMismatchedHashAndPassword = errors.New("password does not match the hash")

// ErrUnableToDecodeToken unable to decode JWT payload
var ErrUnableToDecodeToken = errors.New("unable to decode token")

// ErrTokenExpired is returned for tokens past their own expiry
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed is returned for tokens we cannot parse
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED")

// WrapStorageErr tags store/object-storage failures as transient
// infrastructure errors (5xx-equivalent, not retried here).
func WrapStorageErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithTextCode(TextCodeStorageUnavailable)
}

// IsNotFoundOrConflict will check for the unified zero-match error kind
func IsNotFoundOrConflict(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == TextCodeNotFoundOrConflict
	}
	return false
}

// IsNotAuthorized will check for authorization failures
func IsNotAuthorized(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == TextCodeNotAuthorized
	}
	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// ErrStorageNotConfigured is returned when an upload is requested but no
// object storage collaborator was wired
var ErrStorageNotConfigured = errors.New("object storage is not configured")
