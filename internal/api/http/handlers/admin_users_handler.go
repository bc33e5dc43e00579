package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tournament-service/internal/api/dto"
	"github.com/spec-kit/tournament-service/internal/auth"
	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/service"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// AdminUsersHandler manages account administration endpoints.
type AdminUsersHandler struct {
	service *service.UserAdminService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(userAdminService *service.UserAdminService) *AdminUsersHandler {
	return &AdminUsersHandler{service: userAdminService}
}

// List GET /admin/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	users, err := h.service.List(c.Context(), principal,
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /admin/users/:id.
func (h *AdminUsersHandler) Get(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	user, err := h.service.Get(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateStatus PUT /admin/users/:id/status.
func (h *AdminUsersHandler) UpdateStatus(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	var req dto.UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	user, err := h.service.TransitionStatus(c.Context(), principal, c.Params("id"), domain.UserStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Approve PUT /admin/users/:id/approve.
func (h *AdminUsersHandler) Approve(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	user, err := h.service.Approve(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Reject PUT /admin/users/:id/reject.
func (h *AdminUsersHandler) Reject(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	user, err := h.service.Reject(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
