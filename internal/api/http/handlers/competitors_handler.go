package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tournament-service/internal/api/dto"
	"github.com/spec-kit/tournament-service/internal/auth"
	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/repository"
	"github.com/spec-kit/tournament-service/internal/service"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// CompetitorsHandler manages competitor registration endpoints.
type CompetitorsHandler struct {
	service *service.CompetitorService
}

// NewCompetitorsHandler constructs handler.
func NewCompetitorsHandler(competitorService *service.CompetitorService) *CompetitorsHandler {
	return &CompetitorsHandler{service: competitorService}
}

// Create POST /competitors. Public while the registration window is open;
// an authenticated admin bypasses the window.
func (h *CompetitorsHandler) Create(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)

	var req struct {
		TournamentID string `json:"tournament_id"`
		dto.CreateCompetitorRequest
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TournamentID == "" {
		return apperrors.NewValidationError("tournament_id required", nil)
	}

	competitor, err := h.service.Create(c.Context(), principal, service.CompetitorCreateInput{
		TournamentID:     req.TournamentID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Gender:           req.Gender,
		Category:         req.Category,
		Team:             req.Team,
		School:           req.School,
		RatedPlayerLinks: req.RatedPlayerLinks,
		DocumentURL:      req.DocumentURL,
		AdminNotes:       adminNotesFor(principal, req.AdminNotes),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewCompetitorResponse(competitor, principal.IsAdmin()),
	})
}

// Update PUT /tournaments/:id/competitors/:competitorId.
func (h *CompetitorsHandler) Update(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	var req dto.UpdateCompetitorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	competitor, err := h.service.Update(c.Context(), principal,
		c.Params("id"), c.Params("competitorId"), service.CompetitorPatch{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Gender:           req.Gender,
			Category:         req.Category,
			Team:             req.Team,
			School:           req.School,
			RatedPlayerLinks: req.RatedPlayerLinks,
			DocumentURL:      req.DocumentURL,
			AcceptanceStatus: req.AcceptanceStatus,
			AdminNotes:       req.AdminNotes,
			Delete:           req.Delete,
		})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCompetitorResponse(competitor, true)})
}

// Delete DELETE /tournaments/:id/competitors/:competitorId.
func (h *CompetitorsHandler) Delete(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	competitor, err := h.service.SoftDelete(c.Context(), principal,
		c.Params("id"), c.Params("competitorId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCompetitorResponse(competitor, true)})
}

// Approve PUT /tournaments/:id/competitors/:competitorId/approve.
func (h *CompetitorsHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, domain.AcceptanceApproved)
}

// Reject PUT /tournaments/:id/competitors/:competitorId/reject.
func (h *CompetitorsHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, domain.AcceptanceRejected)
}

func (h *CompetitorsHandler) review(c *fiber.Ctx, status domain.AcceptanceStatus) error {
	principal := auth.PrincipalFromContext(c)
	var req dto.ReviewCompetitorRequest
	// Body is optional for approve/reject; admin notes are the only field.
	_ = c.BodyParser(&req)

	competitor, err := h.service.Review(c.Context(), principal,
		c.Params("id"), c.Params("competitorId"), status, req.AdminNotes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCompetitorResponse(competitor, true)})
}

// List GET /tournaments/:id/competitors.
func (h *CompetitorsHandler) List(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	filter := repository.CompetitorFilter{
		Limit:  queryInt(c, "limit", 100),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, domain.AcceptanceStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
	}
	if raw := c.Query("category"); raw != "" {
		filter.Categories = strings.Split(raw, ",")
	}
	if raw := c.Query("gender"); raw != "" {
		for _, g := range strings.Split(raw, ",") {
			filter.Genders = append(filter.Genders, domain.Gender(strings.ToUpper(strings.TrimSpace(g))))
		}
	}

	competitors, err := h.service.List(c.Context(), c.Params("id"), filter)
	if err != nil {
		return err
	}
	includeAdmin := principal.IsAdmin()
	items := make([]dto.CompetitorResponse, 0, len(competitors))
	for i := range competitors {
		items = append(items, dto.NewCompetitorResponse(&competitors[i], includeAdmin))
	}
	return c.JSON(fiber.Map{"data": items})
}

// adminNotesFor drops notes supplied by non-admin callers.
func adminNotesFor(principal *domain.User, notes *string) *string {
	if principal.IsAdmin() {
		return notes
	}
	return nil
}
