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
	"github.com/spec-kit/tournament-service/internal/repository"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// TournamentService governs the tournament lifecycle: create, update,
// soft-delete, restore, and visibility-scoped reads.
type TournamentService struct {
	tournaments repository.TournamentRepository
	audit       *AuditService
	dispatcher  events.Dispatcher
}

// TournamentDependencies bundles collaborators for the service.
type TournamentDependencies struct {
	TournamentRepo repository.TournamentRepository
	Audit          *AuditService
	Dispatcher     events.Dispatcher
}

// TournamentInput describes a full tournament payload. Create defaults the
// status to DRAFT; update keeps the current status when none is given.
type TournamentInput struct {
	Name              string
	Status            domain.TournamentStatus
	Start             time.Time
	End               time.Time
	RegistrationStart time.Time
	RegistrationEnd   time.Time
	Categories        []string
	HasTeams          bool
	ProclamationsURL  *string
	ChessResultsURL   *string
}

// NewTournamentService constructs the service.
func NewTournamentService(deps TournamentDependencies) *TournamentService {
	return &TournamentService{
		tournaments: deps.TournamentRepo,
		audit:       deps.Audit,
		dispatcher:  deps.Dispatcher,
	}
}

// Create validates invariants and persists a new tournament owned by actor.
func (s *TournamentService) Create(ctx context.Context, actor *domain.User, input TournamentInput) (*domain.Tournament, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	if err := s.checkNameFree(ctx, input.Name, ""); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.TournamentStatusDraft
	}
	tournament := &domain.Tournament{
		Name:              strings.TrimSpace(input.Name),
		Status:            status,
		Start:             input.Start,
		End:               input.End,
		RegistrationStart: input.RegistrationStart,
		RegistrationEnd:   input.RegistrationEnd,
		Categories:        input.Categories,
		HasTeams:          input.HasTeams,
		ProclamationsURL:  input.ProclamationsURL,
		ChessResultsURL:   input.ChessResultsURL,
		CreatedBy:         actor.ID,
	}
	if err := s.tournaments.Create(ctx, tournament); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityTournament, tournament.ID, domain.AuditActionCreate,
		nil, tournamentSnapshot(tournament), &actor.ID)
	s.publish(ctx, actor.ID, events.TournamentLifecyclePayload{
		TournamentID: tournament.ID,
		Name:         tournament.Name,
		Action:       domain.AuditActionCreate,
	})
	return tournament, nil
}

// Update re-validates invariants on the merged result. The creator reference
// never changes.
func (s *TournamentService) Update(ctx context.Context, actor *domain.User, id string, input TournamentInput) (*domain.Tournament, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	tournament, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, input.Name, id); err != nil {
		return nil, err
	}

	oldSnapshot := tournamentSnapshot(tournament)
	tournament.Name = strings.TrimSpace(input.Name)
	if input.Status != "" {
		tournament.Status = input.Status
	}
	tournament.Start = input.Start
	tournament.End = input.End
	tournament.RegistrationStart = input.RegistrationStart
	tournament.RegistrationEnd = input.RegistrationEnd
	tournament.Categories = input.Categories
	tournament.HasTeams = input.HasTeams
	tournament.ProclamationsURL = input.ProclamationsURL
	tournament.ChessResultsURL = input.ChessResultsURL

	if err := s.tournaments.Update(ctx, tournament); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityTournament, tournament.ID, domain.AuditActionUpdate,
		oldSnapshot, tournamentSnapshot(tournament), &actor.ID)
	return tournament, nil
}

// SoftDelete marks the tournament deleted. Deleting an already-deleted
// tournament fails with NotFound.
func (s *TournamentService) SoftDelete(ctx context.Context, actor *domain.User, id string) (*domain.Tournament, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	tournament, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.tournaments.SetDeletedAt(ctx, id, &now); err != nil {
		return nil, apperrors.MapError(err)
	}
	oldSnapshot := deletionSnapshot(tournament)
	tournament.DeletedAt = &now

	s.audit.Record(ctx, domain.AuditEntityTournament, id, domain.AuditActionSoftDelete,
		oldSnapshot, deletionSnapshot(tournament), &actor.ID)
	s.publish(ctx, actor.ID, events.TournamentLifecyclePayload{
		TournamentID: id,
		Name:         tournament.Name,
		Action:       domain.AuditActionSoftDelete,
	})
	return tournament, nil
}

// Restore clears the deletion mark. A live tournament with the same name
// blocks the restore; the caller must rename before restoring.
func (s *TournamentService) Restore(ctx context.Context, actor *domain.User, id string) (*domain.Tournament, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	tournament, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "tournament")
	}
	if !tournament.IsDeleted() {
		return nil, apperrors.NewNotFound("soft-deleted tournament", map[string]any{"id": id})
	}
	if err := s.checkNameFree(ctx, tournament.Name, id); err != nil {
		return nil, err
	}

	oldSnapshot := deletionSnapshot(tournament)
	if err := s.tournaments.SetDeletedAt(ctx, id, nil); err != nil {
		return nil, apperrors.MapError(err)
	}
	tournament.DeletedAt = nil

	s.audit.Record(ctx, domain.AuditEntityTournament, id, domain.AuditActionRestore,
		oldSnapshot, deletionSnapshot(tournament), &actor.ID)
	s.publish(ctx, actor.ID, events.TournamentLifecyclePayload{
		TournamentID: id,
		Name:         tournament.Name,
		Action:       domain.AuditActionRestore,
	})
	return tournament, nil
}

// Get returns a tournament visible to the caller. Soft-deleted rows resolve
// to NotFound for non-admins.
func (s *TournamentService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "tournament")
	}
	if tournament.IsDeleted() && !actor.IsAdmin() {
		return nil, apperrors.NewNotFound("tournament", map[string]any{"id": id})
	}
	return tournament, nil
}

// List returns non-deleted tournaments. Callers without an admin role see
// only OPEN and IN_PROGRESS tournaments.
func (s *TournamentService) List(ctx context.Context, actor *domain.User, filter repository.TournamentFilter) ([]domain.Tournament, error) {
	filter.DeletedOnly = false
	if !actor.IsAdmin() {
		filter.Statuses = []domain.TournamentStatus{
			domain.TournamentStatusOpen,
			domain.TournamentStatusInProgress,
		}
	}
	tournaments, err := s.tournaments.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tournaments, nil
}

// ListDeleted returns the soft-deleted view, admins only.
func (s *TournamentService) ListDeleted(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Tournament, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	tournaments, err := s.tournaments.List(ctx, repository.TournamentFilter{
		DeletedOnly: true,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tournaments, nil
}

func (s *TournamentService) getActive(ctx context.Context, id string) (*domain.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "tournament")
	}
	if tournament.IsDeleted() {
		return nil, apperrors.NewNotFound("tournament", map[string]any{"id": id})
	}
	return tournament, nil
}

func (s *TournamentService) checkNameFree(ctx context.Context, name, excludeID string) error {
	existing, err := s.tournaments.FindActiveByName(ctx, strings.TrimSpace(name), excludeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return apperrors.MapError(err)
	}
	if existing != nil {
		return apperrors.NewConflict("tournament with this name already exists", map[string]any{"name": name})
	}
	return nil
}

func (s *TournamentService) publish(ctx context.Context, actorID string, payload events.TournamentLifecyclePayload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTournamentLifecycle,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func validateTournamentInput(input TournamentInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "tournament name is required"
	}
	if input.Status != "" && !input.Status.Valid() {
		details["status"] = fmt.Sprintf("unknown tournament status %q", input.Status)
	}
	if len(input.Categories) == 0 {
		details["categories"] = "at least one category is required"
	}
	for _, c := range input.Categories {
		if strings.TrimSpace(c) == "" {
			details["categories"] = "categories must not be blank"
		}
	}
	if !input.RegistrationStart.Before(input.RegistrationEnd) {
		details["registrationStart"] = "registration start must be before registration end"
	}
	if input.RegistrationEnd.After(input.Start) {
		details["registrationEnd"] = "registration must end no later than tournament start"
	}
	if !input.Start.Before(input.End) {
		details["tournamentStart"] = "tournament start must be before tournament end"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid tournament dates or fields", details)
	}
	return nil
}

func tournamentSnapshot(t *domain.Tournament) map[string]any {
	return map[string]any{
		"name":              t.Name,
		"status":            t.Status,
		"tournamentStart":   t.Start,
		"tournamentEnd":     t.End,
		"registrationStart": t.RegistrationStart,
		"registrationEnd":   t.RegistrationEnd,
		"categories":        t.Categories,
		"hasTeams":          t.HasTeams,
	}
}

func deletionSnapshot(t *domain.Tournament) map[string]any {
	return map[string]any{
		"name":      t.Name,
		"status":    t.Status,
		"deletedAt": t.DeletedAt,
	}
}

func notFoundOr(err error, resource string) error {
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}
