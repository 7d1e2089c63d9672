package accounts

import (
	"context"

	"github.com/goliatone/go-accounts/middleware/guardware"
	"github.com/goliatone/go-router"
)

// guardValidatorAdapter bridges the package TokenValidator to the middleware's
// mirrored interface.
type guardValidatorAdapter struct {
	validator TokenValidator
}

func (a guardValidatorAdapter) Validate(tokenString string) (guardware.AuthClaims, error) {
	claims, err := a.validator.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// guardCheckAdapter bridges the TokenGuard to the middleware's mirrored
// interface, recovering the concrete claims type on the way in.
type guardCheckAdapter struct {
	guard *TokenGuard
}

func (a guardCheckAdapter) Check(ctx context.Context, claims guardware.AuthClaims) (any, error) {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return nil, ErrUnableToDecodeToken
	}

	account, err := a.guard.Check(ctx, authClaims)
	if err != nil {
		return nil, err
	}

	return account, nil
}

// ContextEnricherAdapter stores claims and the guarded account in the standard
// context for code that runs below the router layer.
func ContextEnricherAdapter(c context.Context, claims guardware.AuthClaims, account any) context.Context {
	if authClaims, ok := claims.(AuthClaims); ok {
		c = WithClaimsContext(c, authClaims)
	}

	if acc, ok := account.(*Account); ok {
		c = WithContext(c, acc)
	}

	return c
}

// Protected builds the route middleware: bearer extraction, signature
// validation, then the revocation and credential-epoch checks. Handlers find
// the claims and account in Locals and in the standard context.
func Protected(validator TokenValidator, guard *TokenGuard, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	return guardware.New(guardware.Config{
		TokenValidator:  guardValidatorAdapter{validator: validator},
		Guard:           guardCheckAdapter{guard: guard},
		ClaimsKey:       ClaimsLocalsKey,
		AccountKey:      AccountLocalsKey,
		ErrorHandler:    errorHandler,
		ContextEnricher: ContextEnricherAdapter,
	})
}
