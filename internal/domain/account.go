package domain

import "time"

// Account is the credential record for one actor within a role namespace.
type Account struct {
	ID            string
	Role          RoleTag
	Identifier    string
	SecretHash    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeactivatedAt *time.Time
}

// Active reports whether the account has not been soft-deleted.
func (a *Account) Active() bool {
	return a.DeactivatedAt == nil
}
