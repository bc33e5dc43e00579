package registration

import (
	"fmt"
	"time"

	"github.com/spec-kit/tournament-service/internal/domain"
)

// TimeRemaining breaks down the time left until registration closes.
type TimeRemaining struct {
	Days    int           `json:"days"`
	Hours   int           `json:"hours"`
	Minutes int           `json:"minutes"`
	Total   time.Duration `json:"total_ms"`
}

// IsOpen reports whether competitor registration is currently permitted.
// Both window bounds are inclusive: registration is open at the exact start
// and end instants. The competitor-create gate and informational endpoints
// share this evaluation.
func IsOpen(t *domain.Tournament, now time.Time) bool {
	if t.Status != domain.TournamentStatusOpen {
		return false
	}
	return !now.Before(t.RegistrationStart) && !now.After(t.RegistrationEnd)
}

// StatusMessage returns a human-readable registration status.
func StatusMessage(t *domain.Tournament, now time.Time) string {
	if t.Status != domain.TournamentStatusOpen {
		return "Registration not available"
	}
	if now.Before(t.RegistrationStart) {
		days := int(t.RegistrationStart.Sub(now).Hours() / 24)
		if t.RegistrationStart.Sub(now)%(24*time.Hour) > 0 {
			days++
		}
		if days == 1 {
			return "Registration opens in 1 day"
		}
		return fmt.Sprintf("Registration opens in %d days", days)
	}
	if now.After(t.RegistrationEnd) {
		return "Registration closed"
	}
	return "Registration open"
}

// Remaining returns the time left until registration closes, or nil when
// registration is not open.
func Remaining(t *domain.Tournament, now time.Time) *TimeRemaining {
	if !IsOpen(t, now) {
		return nil
	}
	total := t.RegistrationEnd.Sub(now)
	if total < 0 {
		return nil
	}
	return &TimeRemaining{
		Days:    int(total / (24 * time.Hour)),
		Hours:   int((total % (24 * time.Hour)) / time.Hour),
		Minutes: int((total % time.Hour) / time.Minute),
		Total:   total,
	}
}
