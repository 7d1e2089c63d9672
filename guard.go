package accounts

import (
	"context"
	"time"
)

// TokenGuard decides whether decoded claims may still be trusted. It is
// consulted after signature validation and before any handler runs: the
// token's unique claim must have no revocation marker, and its issue
// instant must not predate the account's credential epoch.
type TokenGuard struct {
	accounts Accounts
	ledger   RevocationLedger
	logger   Logger
}

// GuardOption customizes guard construction
type GuardOption func(*TokenGuard)

// WithGuardLogger overrides the guard's logger
func WithGuardLogger(logger Logger) GuardOption {
	return func(g *TokenGuard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewTokenGuard creates a guard over the accounts repository and the
// revocation ledger
func NewTokenGuard(accounts Accounts, ledger RevocationLedger, opts ...GuardOption) *TokenGuard {
	g := &TokenGuard{
		accounts: accounts,
		ledger:   ledger,
		logger:   defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Check verifies the claims against the ledger and the credential epoch,
// returning the account they belong to.
func (g *TokenGuard) Check(ctx context.Context, claims AuthClaims) (*Account, error) {
	if claims == nil {
		return nil, ErrUnableToDecodeToken
	}

	if tokenID := claims.TokenID(); tokenID != "" {
		revoked, err := g.ledger.IsRevoked(ctx, tokenID)
		if err != nil {
			return nil, err
		}
		if revoked {
			g.logger.Debug("guard rejected revoked token", "token_id", tokenID)
			return nil, ErrTokenRevoked
		}
	}

	account, err := g.accounts.GetByIdentifier(ctx, claims.UserID())
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrNotFoundOrConflict.WithMetadata(map[string]any{
				"subject": claims.UserID(),
			})
		}
		return nil, err
	}

	// JWT iat carries second precision; truncate the epoch so a token
	// minted in the same second as the credential change stays valid.
	epoch := account.CredentialEpoch().Truncate(time.Second)
	if !IsTokenValid(claims.IssuedAt(), epoch) {
		g.logger.Debug("guard rejected stale token", "subject", claims.UserID())
		return nil, ErrCredentialsChanged
	}

	return account, nil
}
