package dto

import "time"

// RegisterRequest payload for account creation.
type RegisterRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// LoginRequest payload for credential verification.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// RefreshRequest payload for token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPairResponse carries a freshly issued access/refresh pair.
type TokenPairResponse struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// IdentityResponse describes the authenticated caller.
type IdentityResponse struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
}
