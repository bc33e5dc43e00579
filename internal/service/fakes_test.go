package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/repository"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	updates int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.updates++
	user.UpdatedAt = time.Now()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.User
	for _, u := range f.users {
		result = append(result, *u)
	}
	return result, nil
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[string]*domain.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[string]*domain.Tournament)}
}

func (f *fakeTournamentRepo) Create(_ context.Context, t *domain.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	clone := *t
	f.tournaments[t.ID] = &clone
	return nil
}

func (f *fakeTournamentRepo) Update(_ context.Context, t *domain.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tournaments[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	t.UpdatedAt = time.Now()
	clone := *t
	f.tournaments[t.ID] = &clone
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id string) (*domain.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTournamentRepo) FindActiveByName(_ context.Context, name, excludeID string) (*domain.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tournaments {
		if t.Name == name && t.DeletedAt == nil && t.ID != excludeID {
			clone := *t
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTournamentRepo) List(_ context.Context, filter repository.TournamentFilter) ([]domain.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Tournament
	for _, t := range f.tournaments {
		if filter.DeletedOnly != (t.DeletedAt != nil) {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if t.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *t)
	}
	return result, nil
}

func (f *fakeTournamentRepo) SetDeletedAt(_ context.Context, id string, deletedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.DeletedAt = deletedAt
	t.UpdatedAt = time.Now()
	return nil
}

type fakeCompetitorRepo struct {
	mu          sync.Mutex
	competitors map[string]*domain.Competitor
}

func newFakeCompetitorRepo() *fakeCompetitorRepo {
	return &fakeCompetitorRepo{competitors: make(map[string]*domain.Competitor)}
}

func (f *fakeCompetitorRepo) Create(_ context.Context, c *domain.Competitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Mirrors the SQL sequence: max over all rows, soft-deleted included.
	next := 1
	for _, existing := range f.competitors {
		if existing.TournamentID == c.TournamentID && existing.PersonalNumber >= next {
			next = existing.PersonalNumber + 1
		}
	}
	c.PersonalNumber = next
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	clone := *c
	f.competitors[c.ID] = &clone
	return nil
}

func (f *fakeCompetitorRepo) Update(_ context.Context, c *domain.Competitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.competitors[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	c.UpdatedAt = time.Now()
	clone := *c
	f.competitors[c.ID] = &clone
	return nil
}

func (f *fakeCompetitorRepo) GetByID(_ context.Context, tournamentID, id string) (*domain.Competitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.competitors[id]
	if !ok || c.TournamentID != tournamentID {
		return nil, pgx.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCompetitorRepo) FindActiveByName(_ context.Context, tournamentID, firstName, lastName, excludeID string) (*domain.Competitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.competitors {
		if c.TournamentID == tournamentID && c.FirstName == firstName && c.LastName == lastName &&
			c.DeletedAt == nil && c.ID != excludeID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCompetitorRepo) ListByTournament(_ context.Context, tournamentID string, filter repository.CompetitorFilter) ([]domain.Competitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Competitor
	for _, c := range f.competitors {
		if c.TournamentID != tournamentID || c.DeletedAt != nil {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (f *fakeCompetitorRepo) SetDeletedAt(_ context.Context, id string, deletedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.competitors[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.DeletedAt = deletedAt
	c.UpdatedAt = time.Now()
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.ChangedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, filter repository.AuditFilter) ([]domain.AuditLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []domain.AuditLog
	for _, e := range f.entries {
		if filter.EntityType != "" && e.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && e.EntityID != filter.EntityID {
			continue
		}
		if filter.ChangedBy != "" && (e.ChangedBy == nil || *e.ChangedBy != filter.ChangedBy) {
			continue
		}
		matched = append(matched, e)
	}
	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeAuditRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []domain.AuditLog
	var removed int64
	for _, e := range f.entries {
		if e.ChangedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return removed, nil
}

func (f *fakeAuditRepo) actions(entityID string) []domain.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var actions []domain.AuditAction
	for _, e := range f.entries {
		if e.EntityID == entityID {
			actions = append(actions, e.Action)
		}
	}
	return actions
}

func adminActor() *domain.User {
	return &domain.User{
		ID:     uuid.NewString(),
		Email:  "admin@example.com",
		Name:   "Admin",
		Role:   domain.RoleAdmin,
		Status: domain.UserStatusApproved,
	}
}

func regularActor() *domain.User {
	return &domain.User{
		ID:     uuid.NewString(),
		Email:  "user@example.com",
		Name:   "User",
		Role:   domain.RoleUser,
		Status: domain.UserStatusApproved,
	}
}
