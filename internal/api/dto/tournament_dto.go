package dto

import (
	"time"

	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/registration"
)

// TournamentRequest is the full create/update payload.
type TournamentRequest struct {
	Name              string                  `json:"name"`
	Status            domain.TournamentStatus `json:"status"`
	TournamentStart   time.Time               `json:"tournament_start"`
	TournamentEnd     time.Time               `json:"tournament_end"`
	RegistrationStart time.Time               `json:"registration_start"`
	RegistrationEnd   time.Time               `json:"registration_end"`
	Categories        []string                `json:"categories"`
	HasTeams          bool                    `json:"has_teams"`
	ProclamationsURL  *string                 `json:"proclamations_url"`
	ChessResultsURL   *string                 `json:"chess_results_url"`
}

// TournamentResponse is the tournament view returned to callers.
type TournamentResponse struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Status            domain.TournamentStatus `json:"status"`
	TournamentStart   time.Time               `json:"tournament_start"`
	TournamentEnd     time.Time               `json:"tournament_end"`
	RegistrationStart time.Time               `json:"registration_start"`
	RegistrationEnd   time.Time               `json:"registration_end"`
	Categories        []string                `json:"categories"`
	HasTeams          bool                    `json:"has_teams"`
	ProclamationsURL  *string                 `json:"proclamations_url,omitempty"`
	ChessResultsURL   *string                 `json:"chess_results_url,omitempty"`
	CreatedBy         string                  `json:"created_by"`
	DeletedAt         *time.Time              `json:"deleted_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// RegistrationStatusResponse reports the live registration window state.
type RegistrationStatusResponse struct {
	Open          bool                        `json:"open"`
	Message       string                      `json:"message"`
	TimeRemaining *registration.TimeRemaining `json:"time_remaining,omitempty"`
}

// NewTournamentResponse maps a domain tournament.
func NewTournamentResponse(t *domain.Tournament) TournamentResponse {
	return TournamentResponse{
		ID:                t.ID,
		Name:              t.Name,
		Status:            t.Status,
		TournamentStart:   t.Start,
		TournamentEnd:     t.End,
		RegistrationStart: t.RegistrationStart,
		RegistrationEnd:   t.RegistrationEnd,
		Categories:        t.Categories,
		HasTeams:          t.HasTeams,
		ProclamationsURL:  t.ProclamationsURL,
		ChessResultsURL:   t.ChessResultsURL,
		CreatedBy:         t.CreatedBy,
		DeletedAt:         t.DeletedAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// NewRegistrationStatusResponse evaluates the window at now.
func NewRegistrationStatusResponse(t *domain.Tournament, now time.Time) RegistrationStatusResponse {
	return RegistrationStatusResponse{
		Open:          registration.IsOpen(t, now),
		Message:       registration.StatusMessage(t, now),
		TimeRemaining: registration.Remaining(t, now),
	}
}
