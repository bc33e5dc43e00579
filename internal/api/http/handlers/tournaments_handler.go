package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tournament-service/internal/api/dto"
	"github.com/spec-kit/tournament-service/internal/auth"
	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/repository"
	"github.com/spec-kit/tournament-service/internal/service"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// TournamentsHandler manages tournament endpoints.
type TournamentsHandler struct {
	service *service.TournamentService
}

// NewTournamentsHandler constructs handler.
func NewTournamentsHandler(tournamentService *service.TournamentService) *TournamentsHandler {
	return &TournamentsHandler{service: tournamentService}
}

// Create POST /tournaments.
func (h *TournamentsHandler) Create(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	req, err := parseTournamentRequest(c)
	if err != nil {
		return err
	}

	tournament, err := h.service.Create(c.Context(), principal, tournamentInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTournamentResponse(tournament)})
}

// Update PUT /tournaments/:id.
func (h *TournamentsHandler) Update(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	req, err := parseTournamentRequest(c)
	if err != nil {
		return err
	}

	tournament, err := h.service.Update(c.Context(), principal, c.Params("id"), tournamentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTournamentResponse(tournament)})
}

// Delete DELETE /tournaments/:id.
func (h *TournamentsHandler) Delete(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	tournament, err := h.service.SoftDelete(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTournamentResponse(tournament)})
}

// Restore POST /tournaments/:id/restore.
func (h *TournamentsHandler) Restore(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	tournament, err := h.service.Restore(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTournamentResponse(tournament)})
}

// Get GET /tournaments/:id. The response carries the live registration
// window state alongside the tournament itself.
func (h *TournamentsHandler) Get(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	tournament, err := h.service.Get(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"tournament":   dto.NewTournamentResponse(tournament),
		"registration": dto.NewRegistrationStatusResponse(tournament, time.Now()),
	}})
}

// List GET /tournaments.
func (h *TournamentsHandler) List(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	filter := repository.TournamentFilter{
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, domain.TournamentStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
	}

	tournaments, err := h.service.List(c.Context(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tournamentResponses(tournaments)})
}

// ListDeleted GET /tournaments/deleted.
func (h *TournamentsHandler) ListDeleted(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	tournaments, err := h.service.ListDeleted(c.Context(), principal,
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tournamentResponses(tournaments)})
}

func parseTournamentRequest(c *fiber.Ctx) (dto.TournamentRequest, error) {
	var req dto.TournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	return req, nil
}

func tournamentInput(req dto.TournamentRequest) service.TournamentInput {
	return service.TournamentInput{
		Name:              req.Name,
		Status:            req.Status,
		Start:             req.TournamentStart,
		End:               req.TournamentEnd,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
		Categories:        req.Categories,
		HasTeams:          req.HasTeams,
		ProclamationsURL:  req.ProclamationsURL,
		ChessResultsURL:   req.ChessResultsURL,
	}
}

func tournamentResponses(tournaments []domain.Tournament) []dto.TournamentResponse {
	items := make([]dto.TournamentResponse, 0, len(tournaments))
	for i := range tournaments {
		items = append(items, dto.NewTournamentResponse(&tournaments[i]))
	}
	return items
}

func queryInt(c *fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
