package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/domain"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

const identityKey = "auth_identity"

// Middleware validates bearer tokens on protected routes and stores the
// resulting identity in the request context. Bearer transport parsing lives
// here, outside the verification core.
type Middleware struct {
	authenticator *Authenticator
	registry      *domain.Registry
}

// NewMiddleware constructs middleware.
func NewMiddleware(authenticator *Authenticator, registry *domain.Registry) *Middleware {
	return &Middleware{authenticator: authenticator, registry: registry}
}

// RequireRole authenticates the bearer token for a fixed role namespace.
func (m *Middleware) RequireRole(expected domain.RoleTag) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return m.handle(c, expected)
	}
}

// RequireRoleParam authenticates the bearer token for the role named in the
// :role path parameter.
func (m *Middleware) RequireRoleParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := domain.RoleTag(c.Params("role"))
		if !m.registry.Known(role) {
			return apperrors.NewNotFound("role", map[string]any{"role": string(role)})
		}
		return m.handle(c, role)
	}
}

// RequireScope ensures the already-authenticated identity's role grants the
// operation scope. Must run after RequireRole / RequireRoleParam.
func (m *Middleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !m.registry.Authorizes(identity.Role, scope) {
			return apperrors.NewForbidden("insufficient scope")
		}
		return c.Next()
	}
}

func (m *Middleware) handle(c *fiber.Ctx, expected domain.RoleTag) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	identity, err := m.authenticator.Authenticate(c.UserContext(), token, expected)
	if err != nil {
		return MapAuthError(err)
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return parts[1], nil
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

// MapAuthError translates verification sentinels into transport-level
// denials. Messages deliberately do not echo token contents.
func MapAuthError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return apperrors.NewUnauthorized("invalid credentials")
	case errors.Is(err, ErrTokenMalformed):
		return apperrors.NewUnauthorized("malformed token")
	case errors.Is(err, ErrTokenSignatureInvalid):
		return apperrors.NewUnauthorized("invalid token signature")
	case errors.Is(err, ErrTokenExpired):
		return apperrors.NewUnauthorized("token expired")
	case errors.Is(err, ErrWrongTokenKind):
		return apperrors.NewUnauthorized("wrong token kind")
	case errors.Is(err, ErrAccountInactive):
		return apperrors.NewUnauthorized("account inactive")
	case errors.Is(err, ErrRoleMismatch):
		return apperrors.NewForbidden("role mismatch")
	case errors.Is(err, ErrUnknownRole):
		return apperrors.NewNotFound("role", nil)
	case errors.Is(err, ErrIdentifierTaken):
		return apperrors.NewConflict("identifier already registered", nil)
	default:
		return apperrors.MapError(err)
	}
}
