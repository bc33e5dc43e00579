package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/tournament-service/internal/domain"
)

func openTournament(start, end time.Time) *domain.Tournament {
	return &domain.Tournament{
		Name:              "Spring Cup",
		Status:            domain.TournamentStatusOpen,
		RegistrationStart: start,
		RegistrationEnd:   end,
	}
}

func TestIsOpenInclusiveBounds(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	tournament := openTournament(start, end)

	assert.False(t, IsOpen(tournament, start.Add(-time.Second)))
	assert.True(t, IsOpen(tournament, start), "open at the exact start instant")
	assert.True(t, IsOpen(tournament, start.Add(time.Hour)))
	assert.True(t, IsOpen(tournament, end), "open at the exact end instant")
	assert.False(t, IsOpen(tournament, end.Add(time.Second)))
}

func TestIsOpenRequiresOpenStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 10)
	now := start.AddDate(0, 0, 5)

	for _, status := range []domain.TournamentStatus{
		domain.TournamentStatusDraft,
		domain.TournamentStatusInProgress,
		domain.TournamentStatusFinished,
	} {
		tournament := openTournament(start, end)
		tournament.Status = status
		assert.False(t, IsOpen(tournament, now), "status %s must close registration", status)
	}
}

func TestStatusMessage(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	tournament := openTournament(start, end)

	draft := openTournament(start, end)
	draft.Status = domain.TournamentStatusDraft
	assert.Equal(t, "Registration not available", StatusMessage(draft, start))

	// Partial days round up.
	assert.Equal(t, "Registration opens in 1 day", StatusMessage(tournament, start.Add(-2*time.Hour)))
	assert.Equal(t, "Registration opens in 2 days", StatusMessage(tournament, start.Add(-26*time.Hour)))
	assert.Equal(t, "Registration opens in 5 days", StatusMessage(tournament, start.AddDate(0, 0, -5)))

	assert.Equal(t, "Registration open", StatusMessage(tournament, start.Add(time.Hour)))
	assert.Equal(t, "Registration closed", StatusMessage(tournament, end.Add(time.Minute)))
}

func TestRemaining(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tournament := openTournament(start, end)

	now := end.Add(-(50*time.Hour + 30*time.Minute))
	remaining := Remaining(tournament, now)
	assert.NotNil(t, remaining)
	assert.Equal(t, 2, remaining.Days)
	assert.Equal(t, 2, remaining.Hours)
	assert.Equal(t, 30, remaining.Minutes)

	// At the exact end instant registration is still open with nothing left.
	atEnd := Remaining(tournament, end)
	assert.NotNil(t, atEnd)
	assert.Zero(t, atEnd.Days)
	assert.Zero(t, atEnd.Hours)
	assert.Zero(t, atEnd.Minutes)

	assert.Nil(t, Remaining(tournament, end.Add(time.Second)))
	assert.Nil(t, Remaining(tournament, start.Add(-time.Second)))

	closed := openTournament(start, end)
	closed.Status = domain.TournamentStatusFinished
	assert.Nil(t, Remaining(closed, now))
}
