package accounts

// AccountIdentity adapts an Account into the Identity interface for token
// generation.
type AccountIdentity struct {
	account *Account
}

// NewIdentityFromAccount returns an Identity adapter for the provided account.
func NewIdentityFromAccount(account *Account) Identity {
	if account == nil {
		return nil
	}
	return AccountIdentity{account: account}
}

// ID returns the account's ID as a string.
func (a AccountIdentity) ID() string {
	if a.account == nil {
		return ""
	}
	return a.account.ID.String()
}

// Username returns the account's computed username.
func (a AccountIdentity) Username() string {
	if a.account == nil {
		return ""
	}
	return a.account.Username()
}

// Email returns the account's email address.
func (a AccountIdentity) Email() string {
	if a.account == nil {
		return ""
	}
	return a.account.Email
}

// Role returns the account's role as a string.
func (a AccountIdentity) Role() string {
	if a.account == nil {
		return ""
	}
	return a.account.Role
}
