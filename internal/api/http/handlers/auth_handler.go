package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

// AuthHandler exposes credential and token endpoints, parameterized over
// the role namespace in the path.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/:role/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Identifier == "" || req.Secret == "" {
		return apperrors.NewValidationError("identifier and secret required", nil)
	}

	account, pair, err := h.auth.Register(c.UserContext(), roleParam(c), req.Identifier, req.Secret)
	if err != nil {
		return auth.MapAuthError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.IdentityResponse{AccountID: account.ID, Role: string(account.Role)},
			"tokens":  tokenPairResponse(pair),
		},
	})
}

// Login handles POST /auth/:role/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Identifier == "" || req.Secret == "" {
		return apperrors.NewValidationError("identifier and secret required", nil)
	}

	pair, err := h.auth.Login(c.UserContext(), roleParam(c), req.Identifier, req.Secret)
	if err != nil {
		return auth.MapAuthError(err)
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"tokens": tokenPairResponse(pair)}})
}

// Refresh handles POST /auth/:role/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh_token required", nil)
	}

	pair, err := h.auth.Refresh(c.UserContext(), roleParam(c), req.RefreshToken)
	if err != nil {
		return auth.MapAuthError(err)
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"tokens": tokenPairResponse(pair)}})
}

// Me handles GET /auth/:role/me on protected routes.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"data": dto.IdentityResponse{AccountID: identity.AccountID, Role: string(identity.Role)},
	})
}

func roleParam(c *fiber.Ctx) domain.RoleTag {
	return domain.RoleTag(c.Params("role"))
}

func tokenPairResponse(pair domain.TokenPair) dto.TokenPairResponse {
	return dto.TokenPairResponse{
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}
