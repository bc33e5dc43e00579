package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/tournament-service/internal/auth"
	"github.com/spec-kit/tournament-service/internal/config"
	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/events"
	"github.com/spec-kit/tournament-service/internal/ratelimit"
	"github.com/spec-kit/tournament-service/internal/repository"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// ProviderIdentity is the profile an OAuth provider hands back after the
// code exchange.
type ProviderIdentity struct {
	ID        string
	Email     string
	Name      string
	AvatarURL *string
}

// IdentityProvider exchanges an authorization code for a verified identity.
type IdentityProvider interface {
	Name() domain.AuthProvider
	Exchange(ctx context.Context, code string) (*ProviderIdentity, error)
}

// AuthResult carries the signed credential issued on successful auth.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// RegisterInput is a self-service signup payload.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthService implements signup, login with lockout, logout, and OAuth
// sign-in. Accounts created through the form start PENDING and cannot log
// in until an admin approves them.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	blacklist  auth.TokenBlacklist
	loginLimit *ratelimit.Limiter
	regLimit   *ratelimit.Limiter
	providers  map[domain.AuthProvider]IdentityProvider
	audit      *AuditService
	dispatcher events.Dispatcher
	cfg        config.AuthConfig
	logger     *zap.Logger
}

// AuthDependencies bundles collaborators for the service.
type AuthDependencies struct {
	UserRepo      repository.UserRepository
	Tokens        *auth.TokenManager
	Blacklist     auth.TokenBlacklist
	LoginLimiter  *ratelimit.Limiter
	SignupLimiter *ratelimit.Limiter
	Providers     []IdentityProvider
	Audit         *AuditService
	Dispatcher    events.Dispatcher
	Config        config.AuthConfig
	Logger        *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	providers := make(map[domain.AuthProvider]IdentityProvider, len(deps.Providers))
	for _, p := range deps.Providers {
		providers[p.Name()] = p
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		blacklist:  deps.Blacklist,
		loginLimit: deps.LoginLimiter,
		regLimit:   deps.SignupLimiter,
		providers:  providers,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
		cfg:        deps.Config,
		logger:     deps.Logger,
	}
}

// Register creates a PENDING email-provider account. The caller gets a token
// immediately, but the account stays unusable until approved.
func (s *AuthService) Register(ctx context.Context, clientIP string, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if s.regLimit != nil {
		if err := s.regLimit.Check(ctx, clientIP, email); err != nil {
			return nil, err
		}
	}

	details := map[string]any{}
	if email == "" || !strings.Contains(email, "@") {
		details["email"] = "a valid email address is required"
	}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "name is required"
	}
	if problems := auth.ValidatePasswordStrength(input.Password); len(problems) > 0 {
		details["password"] = problems
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration payload", details)
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("an account with this email already exists", map[string]any{"email": email})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hashed, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Email:          email,
		Name:           strings.TrimSpace(input.Name),
		Role:           domain.RoleUser,
		Status:         domain.UserStatusPending,
		Provider:       domain.ProviderEmail,
		HashedPassword: &hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityUser, user.ID, domain.AuditActionCreate,
		nil, userSnapshot(user), &user.ID)
	s.publishUserEvent(ctx, user.ID, events.EventUserRegistered, events.UserRegisteredPayload{
		UserID:   user.ID,
		Email:    user.Email,
		Provider: user.Provider,
	})
	return s.issueToken(user)
}

// Login authenticates an email-provider account. Unknown emails and wrong
// passwords return the same generic message; locked and unapproved accounts
// get distinct statuses.
func (s *AuthService) Login(ctx context.Context, clientIP, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if s.loginLimit != nil {
		if err := s.loginLimit.Check(ctx, clientIP, email); err != nil {
			return nil, err
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	if user.IsLocked(now) {
		minutes := int(time.Until(*user.LockedUntil).Minutes()) + 1
		return nil, apperrors.NewLocked(
			fmt.Sprintf("account is temporarily locked, try again in %d minute(s)", minutes))
	}
	if user.HashedPassword == nil {
		// OAuth-only account, no password to compare.
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}
	if err := auth.ComparePassword(*user.HashedPassword, password); err != nil {
		return nil, s.recordFailedLogin(ctx, user, now)
	}
	if user.Status != domain.UserStatusApproved {
		return nil, apperrors.NewForbidden("account is not approved")
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.issueToken(user)
}

// Logout blacklists the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.NewUnauthorized("no credential presented")
	}
	until := time.Now().Add(s.cfg.TokenTTL())
	if claims, err := s.tokens.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.blacklist.Add(ctx, token, until); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// OAuthLogin exchanges the provider code and upserts the account. A new user
// is created APPROVED; an existing account with the same email keeps its role
// and status and only refreshes profile and provider fields.
func (s *AuthService) OAuthLogin(ctx context.Context, provider domain.AuthProvider, code string) (*AuthResult, error) {
	idp, ok := s.providers[provider]
	if !ok {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unsupported auth provider %q", provider), nil)
	}
	identity, err := idp.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.NewUnauthorized("provider sign-in failed")
	}
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, apperrors.NewUnauthorized("provider returned no email address")
	}

	now := time.Now()
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == pgx.ErrNoRows:
		user = &domain.User{
			Email:       email,
			Name:        identity.Name,
			Role:        domain.RoleUser,
			Status:      domain.UserStatusApproved,
			Provider:    provider,
			ProviderID:  &identity.ID,
			AvatarURL:   identity.AvatarURL,
			LastLoginAt: &now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, apperrors.MapError(err)
		}
		s.audit.Record(ctx, domain.AuditEntityUser, user.ID, domain.AuditActionCreate,
			nil, userSnapshot(user), &user.ID)
		s.publishUserEvent(ctx, user.ID, events.EventUserRegistered, events.UserRegisteredPayload{
			UserID:   user.ID,
			Email:    user.Email,
			Provider: provider,
		})
	case err != nil:
		return nil, apperrors.MapError(err)
	default:
		user.Name = identity.Name
		user.Provider = provider
		user.ProviderID = &identity.ID
		user.AvatarURL = identity.AvatarURL
		if user.Status == domain.UserStatusApproved {
			user.LastLoginAt = &now
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	if user.Status != domain.UserStatusApproved {
		return nil, apperrors.NewForbidden("account is not approved")
	}
	return s.issueToken(user)
}

func (s *AuthService) recordFailedLogin(ctx context.Context, user *domain.User, now time.Time) error {
	user.FailedLoginAttempts++
	locked := false
	if user.FailedLoginAttempts >= s.cfg.MaxFailedLogins {
		lockedUntil := now.Add(s.cfg.LockoutDuration())
		user.LockedUntil = &lockedUntil
		user.FailedLoginAttempts = 0
		locked = true
	}
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("failed-login bookkeeping write failed",
			zap.String("user_id", user.ID), zap.Error(err))
	}
	if locked {
		return apperrors.NewLocked(fmt.Sprintf(
			"account locked after too many failed attempts, try again in %d minute(s)",
			s.cfg.LockoutMinutes))
	}
	return apperrors.NewUnauthorized("invalid email or password")
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) publishUserEvent(ctx context.Context, actorID string, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func userSnapshot(u *domain.User) map[string]any {
	return map[string]any{
		"email":    u.Email,
		"name":     u.Name,
		"role":     u.Role,
		"status":   u.Status,
		"provider": u.Provider,
	}
}
