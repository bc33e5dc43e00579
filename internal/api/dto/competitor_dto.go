package dto

import (
	"time"

	"github.com/spec-kit/tournament-service/internal/domain"
)

// CreateCompetitorRequest is the public registration payload.
type CreateCompetitorRequest struct {
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	Gender           domain.Gender `json:"gender"`
	Category         string        `json:"category"`
	Team             *string       `json:"team"`
	School           *string       `json:"school"`
	RatedPlayerLinks []string      `json:"rated_player_links"`
	DocumentURL      *string       `json:"document_url"`
	AdminNotes       *string       `json:"admin_notes"`
}

// UpdateCompetitorRequest is a partial update. Omitted fields keep their
// stored value; an explicit empty string clears a nullable field. Setting
// delete marks the competitor soft-deleted instead of patching it.
type UpdateCompetitorRequest struct {
	FirstName        *string                  `json:"first_name"`
	LastName         *string                  `json:"last_name"`
	Gender           *domain.Gender           `json:"gender"`
	Category         *string                  `json:"category"`
	Team             *string                  `json:"team"`
	School           *string                  `json:"school"`
	RatedPlayerLinks *[]string                `json:"rated_player_links"`
	DocumentURL      *string                  `json:"document_url"`
	AcceptanceStatus *domain.AcceptanceStatus `json:"acceptance_status"`
	AdminNotes       *string                  `json:"admin_notes"`
	Delete           bool                     `json:"delete"`
}

// ReviewCompetitorRequest approves or rejects a registration.
type ReviewCompetitorRequest struct {
	Status     domain.AcceptanceStatus `json:"status"`
	AdminNotes *string                 `json:"admin_notes"`
}

// CompetitorResponse is the competitor view returned to callers.
type CompetitorResponse struct {
	ID               string                  `json:"id"`
	TournamentID     string                  `json:"tournament_id"`
	PersonalNumber   int                     `json:"personal_number"`
	FirstName        string                  `json:"first_name"`
	LastName         string                  `json:"last_name"`
	Gender           domain.Gender           `json:"gender"`
	Category         string                  `json:"category"`
	Team             *string                 `json:"team,omitempty"`
	School           *string                 `json:"school,omitempty"`
	RatedPlayerLinks []string                `json:"rated_player_links,omitempty"`
	DocumentURL      *string                 `json:"document_url,omitempty"`
	AcceptanceStatus domain.AcceptanceStatus `json:"acceptance_status"`
	AdminNotes       *string                 `json:"admin_notes,omitempty"`
	DeletedAt        *time.Time              `json:"deleted_at,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// NewCompetitorResponse maps a domain competitor. Admin-only fields are
// stripped for unauthenticated callers.
func NewCompetitorResponse(c *domain.Competitor, includeAdminFields bool) CompetitorResponse {
	resp := CompetitorResponse{
		ID:               c.ID,
		TournamentID:     c.TournamentID,
		PersonalNumber:   c.PersonalNumber,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Gender:           c.Gender,
		Category:         c.Category,
		Team:             c.Team,
		School:           c.School,
		RatedPlayerLinks: c.RatedPlayerLinks,
		AcceptanceStatus: c.AcceptanceStatus,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if includeAdminFields {
		resp.DocumentURL = c.DocumentURL
		resp.AdminNotes = c.AdminNotes
		resp.DeletedAt = c.DeletedAt
	}
	return resp
}
