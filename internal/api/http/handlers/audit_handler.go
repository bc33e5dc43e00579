package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tournament-service/internal/api/dto"
	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/service"
)

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{service: auditService}
}

// List GET /admin/audit-logs.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	page, err := h.service.Query(c.Context(),
		domain.AuditEntityType(c.Query("entity_type")),
		c.Query("entity_id"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": auditPageResponse(page)})
}

// UserActivity GET /admin/audit-logs/activity/:userId.
func (h *AuditHandler) UserActivity(c *fiber.Ctx) error {
	page, err := h.service.UserActivity(c.Context(), c.Params("userId"),
		queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": auditPageResponse(page)})
}

func auditPageResponse(page *service.AuditPage) dto.AuditPageResponse {
	entries := make([]dto.AuditLogResponse, 0, len(page.Entries))
	for i := range page.Entries {
		entries = append(entries, dto.NewAuditLogResponse(&page.Entries[i]))
	}
	return dto.AuditPageResponse{
		Entries:    entries,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
	}
}
