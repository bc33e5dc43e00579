package domain

import "time"

// TournamentStatus enumerates lifecycle states for tournaments.
type TournamentStatus string

const (
	TournamentStatusDraft      TournamentStatus = "DRAFT"
	TournamentStatusOpen       TournamentStatus = "OPEN"
	TournamentStatusInProgress TournamentStatus = "IN_PROGRESS"
	TournamentStatusFinished   TournamentStatus = "FINISHED"
)

// Valid reports whether s is one of the known lifecycle states.
func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentStatusDraft, TournamentStatusOpen, TournamentStatusInProgress, TournamentStatusFinished:
		return true
	}
	return false
}

// Tournament is the aggregate for a competition event. Name is unique among
// non-deleted rows; CreatedBy is a weak reference to the creating user.
type Tournament struct {
	ID                string
	Name              string
	Status            TournamentStatus
	Start             time.Time
	End               time.Time
	RegistrationStart time.Time
	RegistrationEnd   time.Time
	Categories        []string
	HasTeams          bool
	ProclamationsURL  *string
	ChessResultsURL   *string
	CreatedBy         string
	DeletedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasCategory reports whether the given category is offered by the tournament.
func (t *Tournament) HasCategory(category string) bool {
	for _, c := range t.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsDeleted reports whether the tournament is soft-deleted.
func (t *Tournament) IsDeleted() bool {
	return t.DeletedAt != nil
}
