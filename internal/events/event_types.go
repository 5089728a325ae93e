package events

import (
	"time"

	"github.com/spec-kit/identity-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered  EventType = "account_registered"
	EventLoginSucceeded     EventType = "login_succeeded"
	EventLoginFailed        EventType = "login_failed"
	EventTokenRefreshed     EventType = "token_refreshed"
	EventAccountDeactivated EventType = "account_deactivated"
)

// Event represents an audit event emitted by the auth flows. AccountID is
// empty for failures where no account was resolved, so failed logins never
// disclose whether the identifier exists.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Role      domain.RoleTag `json:"role"`
	AccountID string         `json:"account_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   interface{}    `json:"payload,omitempty"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Identifier string `json:"identifier"`
}

// LoginFailedPayload payload. Reason is one of the coarse outward signals,
// never the underlying cause.
type LoginFailedPayload struct {
	Reason string `json:"reason"`
}

// TokenRefreshedPayload payload.
type TokenRefreshedPayload struct {
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
