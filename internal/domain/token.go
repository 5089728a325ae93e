package domain

import "time"

// TokenKind discriminates access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPair is the result of issuance: a short-lived access token and a
// longer-lived refresh token, both self-contained. IssuedAt is the shared
// issuance instant stamped into both tokens.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	IssuedAt         time.Time
}

// Identity is the authenticated caller yielded by token verification.
type Identity struct {
	AccountID string
	Role      RoleTag
}
