package events

import (
	"time"

	"github.com/spec-kit/tournament-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventUserStatusChanged   EventType = "user_status_changed"
	EventCompetitorCreated   EventType = "competitor_created"
	EventCompetitorReviewed  EventType = "competitor_reviewed"
	EventTournamentLifecycle EventType = "tournament_lifecycle"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID   string              `json:"user_id"`
	Email    string              `json:"email"`
	Provider domain.AuthProvider `json:"provider"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	UserID    string            `json:"user_id"`
	Email     string            `json:"email"`
	OldStatus domain.UserStatus `json:"old_status"`
	NewStatus domain.UserStatus `json:"new_status"`
}

// CompetitorCreatedPayload payload.
type CompetitorCreatedPayload struct {
	CompetitorID   string `json:"competitor_id"`
	TournamentID   string `json:"tournament_id"`
	TournamentName string `json:"tournament_name"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Category       string `json:"category"`
}

// CompetitorReviewedPayload payload.
type CompetitorReviewedPayload struct {
	CompetitorID string                  `json:"competitor_id"`
	TournamentID string                  `json:"tournament_id"`
	Status       domain.AcceptanceStatus `json:"status"`
}

// TournamentLifecyclePayload payload.
type TournamentLifecyclePayload struct {
	TournamentID string             `json:"tournament_id"`
	Name         string             `json:"name"`
	Action       domain.AuditAction `json:"action"`
}
