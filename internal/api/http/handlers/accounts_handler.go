package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

// AccountsHandler exposes account lifecycle endpoints.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// DeactivateSelf handles POST /auth/:role/deactivate. The caller soft
// deletes their own account; every outstanding token fails on its next use.
func (h *AccountsHandler) DeactivateSelf(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.auth.Deactivate(c.UserContext(), identity.Role, identity.AccountID); err != nil {
		return auth.MapAuthError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deactivated": true}})
}

// Deactivate handles DELETE /accounts/:targetRole/:id for operators holding
// the accounts:manage scope.
func (h *AccountsHandler) Deactivate(c *fiber.Ctx) error {
	targetRole := domain.RoleTag(c.Params("targetRole"))
	accountID := c.Params("id")
	if accountID == "" {
		return apperrors.NewValidationError("account id required", nil)
	}

	if err := h.auth.Deactivate(c.UserContext(), targetRole, accountID); err != nil {
		return auth.MapAuthError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deactivated": true}})
}
