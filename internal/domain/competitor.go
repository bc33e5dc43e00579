package domain

import "time"

// Gender enumerates competitor genders.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Valid reports whether g is a known gender value.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// AcceptanceStatus tracks admin review of a registration.
type AcceptanceStatus string

const (
	AcceptancePending  AcceptanceStatus = "PENDING"
	AcceptanceApproved AcceptanceStatus = "APPROVED"
	AcceptanceRejected AcceptanceStatus = "REJECTED"
)

// Valid reports whether s is a known review state.
func (s AcceptanceStatus) Valid() bool {
	switch s {
	case AcceptancePending, AcceptanceApproved, AcceptanceRejected:
		return true
	}
	return false
}

// Competitor is a registration within a tournament. PersonalNumber is unique
// per tournament and never reused, even across soft-deletes. The
// (FirstName, LastName) pair is unique among non-deleted rows of the same
// tournament, case-sensitive.
type Competitor struct {
	ID               string
	TournamentID     string
	PersonalNumber   int
	FirstName        string
	LastName         string
	Gender           Gender
	Category         string
	Team             *string
	School           *string
	RatedPlayerLinks []string
	DocumentURL      *string
	AcceptanceStatus AcceptanceStatus
	AdminNotes       *string
	DeletedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsDeleted reports whether the competitor is soft-deleted.
func (c *Competitor) IsDeleted() bool {
	return c.DeletedAt != nil
}
