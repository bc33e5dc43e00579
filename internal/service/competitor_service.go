package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tournament-service/internal/auth"
	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/events"
	"github.com/spec-kit/tournament-service/internal/registration"
	"github.com/spec-kit/tournament-service/internal/repository"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// CompetitorService governs competitor registrations within a tournament.
type CompetitorService struct {
	competitors repository.CompetitorRepository
	tournaments repository.TournamentRepository
	audit       *AuditService
	dispatcher  events.Dispatcher
}

// CompetitorDependencies bundles collaborators for the service.
type CompetitorDependencies struct {
	CompetitorRepo repository.CompetitorRepository
	TournamentRepo repository.TournamentRepository
	Audit          *AuditService
	Dispatcher     events.Dispatcher
}

// CompetitorCreateInput describes a registration payload.
type CompetitorCreateInput struct {
	TournamentID     string
	FirstName        string
	LastName         string
	Gender           domain.Gender
	Category         string
	Team             *string
	School           *string
	RatedPlayerLinks []string
	DocumentURL      *string
	AdminNotes       *string
}

// CompetitorPatch lists the fields eligible for partial update. Nil means
// "keep the current value"; for nullable fields an explicit empty string
// clears the value. Delete routes the call to the soft-delete path.
type CompetitorPatch struct {
	FirstName        *string
	LastName         *string
	Gender           *domain.Gender
	Category         *string
	Team             *string
	School           *string
	RatedPlayerLinks *[]string
	DocumentURL      *string
	AcceptanceStatus *domain.AcceptanceStatus
	AdminNotes       *string
	Delete           bool
}

// NewCompetitorService constructs the service.
func NewCompetitorService(deps CompetitorDependencies) *CompetitorService {
	return &CompetitorService{
		competitors: deps.CompetitorRepo,
		tournaments: deps.TournamentRepo,
		audit:       deps.Audit,
		dispatcher:  deps.Dispatcher,
	}
}

// Create registers a competitor. Anyone may register while the tournament's
// registration window is open; admins bypass the window check. The personal
// number is assigned transactionally and never reused.
func (s *CompetitorService) Create(ctx context.Context, actor *domain.User, input CompetitorCreateInput) (*domain.Competitor, error) {
	tournament, err := s.liveTournament(ctx, input.TournamentID)
	if err != nil {
		return nil, err
	}

	if err := validateCompetitorInput(tournament, input); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !registration.IsOpen(tournament, time.Now()) {
		return nil, apperrors.NewValidationError("tournament is not open for registration", nil)
	}
	if err := s.checkNameFree(ctx, tournament.ID, input.FirstName, input.LastName, ""); err != nil {
		return nil, err
	}

	competitor := &domain.Competitor{
		TournamentID:     tournament.ID,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		Gender:           input.Gender,
		Category:         input.Category,
		Team:             input.Team,
		School:           input.School,
		RatedPlayerLinks: input.RatedPlayerLinks,
		DocumentURL:      input.DocumentURL,
		AcceptanceStatus: domain.AcceptancePending,
		AdminNotes:       input.AdminNotes,
	}
	if !tournament.HasTeams {
		competitor.Team = nil
	}
	if err := s.competitors.Create(ctx, competitor); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityCompetitor, competitor.ID, domain.AuditActionCreate,
		nil, competitorSnapshot(competitor), actorRef(actor))
	s.publishReviewEvent(ctx, events.EventCompetitorCreated, actor, events.CompetitorCreatedPayload{
		CompetitorID:   competitor.ID,
		TournamentID:   tournament.ID,
		TournamentName: tournament.Name,
		FirstName:      competitor.FirstName,
		LastName:       competitor.LastName,
		Category:       competitor.Category,
	})
	return competitor, nil
}

// Update merges the patch field-by-field onto the stored competitor and
// re-validates the result. A patch carrying the delete flag behaves exactly
// like SoftDelete; the two paths share one implementation.
func (s *CompetitorService) Update(ctx context.Context, actor *domain.User, tournamentID, competitorID string, patch CompetitorPatch) (*domain.Competitor, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if patch.Delete {
		return s.SoftDelete(ctx, actor, tournamentID, competitorID)
	}

	tournament, err := s.liveTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	competitor, err := s.liveCompetitor(ctx, tournamentID, competitorID)
	if err != nil {
		return nil, err
	}
	if err := validateCompetitorPatch(patch); err != nil {
		return nil, err
	}

	oldSnapshot := competitorSnapshot(competitor)
	applyPatch(competitor, patch)

	if !tournament.HasCategory(competitor.Category) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("category %q is not available for this tournament", competitor.Category),
			map[string]any{"category": competitor.Category})
	}
	if patch.FirstName != nil || patch.LastName != nil {
		if err := s.checkNameFree(ctx, tournamentID, competitor.FirstName, competitor.LastName, competitor.ID); err != nil {
			return nil, err
		}
	}

	if err := s.competitors.Update(ctx, competitor); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityCompetitor, competitor.ID, domain.AuditActionUpdate,
		oldSnapshot, competitorSnapshot(competitor), &actor.ID)
	return competitor, nil
}

// SoftDelete marks the competitor deleted. Its personal number stays
// assigned forever.
func (s *CompetitorService) SoftDelete(ctx context.Context, actor *domain.User, tournamentID, competitorID string) (*domain.Competitor, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.liveTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	competitor, err := s.liveCompetitor(ctx, tournamentID, competitorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.competitors.SetDeletedAt(ctx, competitor.ID, &now); err != nil {
		return nil, apperrors.MapError(err)
	}
	oldSnapshot := competitorSnapshot(competitor)
	competitor.DeletedAt = &now

	s.audit.Record(ctx, domain.AuditEntityCompetitor, competitor.ID, domain.AuditActionSoftDelete,
		oldSnapshot, competitorSnapshot(competitor), &actor.ID)
	return competitor, nil
}

// Review sets the acceptance status to APPROVED or REJECTED.
func (s *CompetitorService) Review(ctx context.Context, actor *domain.User, tournamentID, competitorID string, status domain.AcceptanceStatus, adminNotes *string) (*domain.Competitor, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if status != domain.AcceptanceApproved && status != domain.AcceptanceRejected {
		return nil, apperrors.NewValidationError("status must be APPROVED or REJECTED", nil)
	}
	if _, err := s.liveTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	competitor, err := s.liveCompetitor(ctx, tournamentID, competitorID)
	if err != nil {
		return nil, err
	}

	oldSnapshot := competitorSnapshot(competitor)
	competitor.AcceptanceStatus = status
	if adminNotes != nil {
		competitor.AdminNotes = adminNotes
	}
	if err := s.competitors.Update(ctx, competitor); err != nil {
		return nil, apperrors.MapError(err)
	}

	action := domain.AuditActionApprove
	if status == domain.AcceptanceRejected {
		action = domain.AuditActionReject
	}
	s.audit.Record(ctx, domain.AuditEntityCompetitor, competitor.ID, action,
		oldSnapshot, competitorSnapshot(competitor), &actor.ID)
	s.publishReviewEvent(ctx, events.EventCompetitorReviewed, actor, events.CompetitorReviewedPayload{
		CompetitorID: competitor.ID,
		TournamentID: tournamentID,
		Status:       status,
	})
	return competitor, nil
}

// List returns non-deleted competitors of a live tournament.
func (s *CompetitorService) List(ctx context.Context, tournamentID string, filter repository.CompetitorFilter) ([]domain.Competitor, error) {
	if _, err := s.liveTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	competitors, err := s.competitors.ListByTournament(ctx, tournamentID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return competitors, nil
}

func (s *CompetitorService) liveTournament(ctx context.Context, id string) (*domain.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "tournament")
	}
	if tournament.IsDeleted() {
		return nil, apperrors.NewNotFound("tournament", map[string]any{"id": id})
	}
	return tournament, nil
}

func (s *CompetitorService) liveCompetitor(ctx context.Context, tournamentID, id string) (*domain.Competitor, error) {
	competitor, err := s.competitors.GetByID(ctx, tournamentID, id)
	if err != nil {
		return nil, notFoundOr(err, "competitor")
	}
	if competitor.IsDeleted() {
		return nil, apperrors.NewNotFound("competitor", map[string]any{"id": id})
	}
	return competitor, nil
}

func (s *CompetitorService) checkNameFree(ctx context.Context, tournamentID, firstName, lastName, excludeID string) error {
	existing, err := s.competitors.FindActiveByName(ctx, tournamentID,
		strings.TrimSpace(firstName), strings.TrimSpace(lastName), excludeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return apperrors.MapError(err)
	}
	if existing != nil {
		return apperrors.NewConflict(
			fmt.Sprintf("a participant named %q %q already exists in this tournament", firstName, lastName),
			map[string]any{"firstName": firstName, "lastName": lastName})
	}
	return nil
}

func (s *CompetitorService) publishReviewEvent(ctx context.Context, eventType events.EventType, actor *domain.User, payload any) {
	if s.dispatcher == nil {
		return
	}
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func validateCompetitorInput(tournament *domain.Tournament, input CompetitorCreateInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.FirstName) == "" {
		details["firstName"] = "first name is required"
	}
	if strings.TrimSpace(input.LastName) == "" {
		details["lastName"] = "last name is required"
	}
	if !input.Gender.Valid() {
		details["gender"] = "gender must be MALE or FEMALE"
	}
	if !tournament.HasCategory(input.Category) {
		details["category"] = fmt.Sprintf("category %q is not available for this tournament", input.Category)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid competitor fields", details)
	}
	return nil
}

func validateCompetitorPatch(patch CompetitorPatch) error {
	details := map[string]any{}
	if patch.FirstName != nil && strings.TrimSpace(*patch.FirstName) == "" {
		details["firstName"] = "first name must not be blank"
	}
	if patch.LastName != nil && strings.TrimSpace(*patch.LastName) == "" {
		details["lastName"] = "last name must not be blank"
	}
	if patch.Gender != nil && !patch.Gender.Valid() {
		details["gender"] = "gender must be MALE or FEMALE"
	}
	if patch.AcceptanceStatus != nil && !patch.AcceptanceStatus.Valid() {
		details["acceptanceStatus"] = fmt.Sprintf("unknown acceptance status %q", *patch.AcceptanceStatus)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid competitor fields", details)
	}
	return nil
}

func applyPatch(c *domain.Competitor, patch CompetitorPatch) {
	if patch.FirstName != nil {
		c.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		c.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Gender != nil {
		c.Gender = *patch.Gender
	}
	if patch.Category != nil {
		c.Category = *patch.Category
	}
	if patch.Team != nil {
		c.Team = nullable(*patch.Team)
	}
	if patch.School != nil {
		c.School = nullable(*patch.School)
	}
	if patch.RatedPlayerLinks != nil {
		c.RatedPlayerLinks = *patch.RatedPlayerLinks
	}
	if patch.DocumentURL != nil {
		c.DocumentURL = nullable(*patch.DocumentURL)
	}
	if patch.AcceptanceStatus != nil {
		c.AcceptanceStatus = *patch.AcceptanceStatus
	}
	if patch.AdminNotes != nil {
		c.AdminNotes = nullable(*patch.AdminNotes)
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func actorRef(actor *domain.User) *string {
	if actor == nil {
		return nil
	}
	return &actor.ID
}

func competitorSnapshot(c *domain.Competitor) map[string]any {
	return map[string]any{
		"personalNumber":   c.PersonalNumber,
		"firstName":        c.FirstName,
		"lastName":         c.LastName,
		"gender":           c.Gender,
		"category":         c.Category,
		"team":             c.Team,
		"acceptanceStatus": c.AcceptanceStatus,
		"deletedAt":        c.DeletedAt,
	}
}
