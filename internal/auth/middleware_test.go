package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tournament-service/internal/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (s *stubUserRepo) Update(context.Context, *domain.User) error { return nil }
func (s *stubUserRepo) List(context.Context, int, int) ([]domain.User, error) {
	return nil, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newResolverFixture(user *domain.User) (*Resolver, *TokenManager, *MemoryBlacklist) {
	tm := NewTokenManager(testSecret, time.Hour)
	repo := &stubUserRepo{users: map[string]*domain.User{}}
	if user != nil {
		repo.users[user.ID] = user
	}
	blacklist := NewMemoryBlacklist()
	return NewResolver(tm, repo, blacklist), tm, blacklist
}

func TestResolveHappyPath(t *testing.T) {
	user := testUser()
	resolver, tm, _ := newResolverFixture(user)

	token, _, err := tm.GenerateToken(user)
	require.NoError(t, err)

	resolved := resolver.Resolve(context.Background(), token)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestResolveEmptyToken(t *testing.T) {
	resolver, _, _ := newResolverFixture(testUser())
	assert.Nil(t, resolver.Resolve(context.Background(), ""))
}

func TestResolveBlacklistedToken(t *testing.T) {
	user := testUser()
	resolver, tm, blacklist := newResolverFixture(user)

	token, expiresAt, err := tm.GenerateToken(user)
	require.NoError(t, err)
	require.NoError(t, blacklist.Add(context.Background(), token, expiresAt))

	assert.Nil(t, resolver.Resolve(context.Background(), token))
}

func TestResolveDeletedUser(t *testing.T) {
	user := testUser()
	resolver, tm, _ := newResolverFixture(nil)

	token, _, err := tm.GenerateToken(user)
	require.NoError(t, err)

	// Token is valid but the account no longer exists.
	assert.Nil(t, resolver.Resolve(context.Background(), token))
}

func TestResolveLiveStatusWins(t *testing.T) {
	user := testUser()
	resolver, tm, _ := newResolverFixture(user)

	token, _, err := tm.GenerateToken(user)
	require.NoError(t, err)

	// Suspension after issuance takes effect without re-login.
	user.Status = domain.UserStatusSuspended
	assert.Nil(t, resolver.Resolve(context.Background(), token))

	user.Status = domain.UserStatusApproved
	assert.NotNil(t, resolver.Resolve(context.Background(), token))
}

func TestMemoryBlacklistExpiry(t *testing.T) {
	blacklist := NewMemoryBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Add(ctx, "tok", time.Now().Add(time.Hour)))
	assert.True(t, blacklist.Contains(ctx, "tok"))

	require.NoError(t, blacklist.Add(ctx, "old", time.Now().Add(-time.Minute)))
	assert.False(t, blacklist.Contains(ctx, "old"), "expired entries never match")
}
