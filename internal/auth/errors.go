package auth

import "errors"

// Verification failures are terminal for the current call and are surfaced
// to the transport layer for translation into a denial. None carry secret
// material.
var (
	// ErrInvalidCredentials is the single outward signal for a failed login:
	// unknown identifier, wrong secret and deactivated account all collapse
	// into it so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenMalformed means the presented string could not be decoded as a
	// token at all.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenSignatureInvalid means the token decoded but its signature does
	// not verify against the signing key.
	ErrTokenSignatureInvalid = errors.New("token signature invalid")

	// ErrWrongTokenKind means a refresh token was presented where an access
	// token was required, or vice versa.
	ErrWrongTokenKind = errors.New("wrong token kind")

	// ErrTokenExpired means the claim set's expiry is in the past.
	ErrTokenExpired = errors.New("token expired")

	// ErrRoleMismatch means the token was minted for a different role
	// namespace than the one the operation is scoped to.
	ErrRoleMismatch = errors.New("token role mismatch")

	// ErrAccountInactive means the token verified but its subject account has
	// since been deactivated.
	ErrAccountInactive = errors.New("account inactive")

	// ErrIdentifierTaken is returned by registration when an active account
	// already holds the identifier in the role namespace.
	ErrIdentifierTaken = errors.New("identifier already registered")

	// ErrUnknownRole is returned when a role tag is not in the registry.
	ErrUnknownRole = errors.New("unknown role")
)
