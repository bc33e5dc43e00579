package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/tournament-service/internal/auth"
	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/events"
	"github.com/spec-kit/tournament-service/internal/repository"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// UserAdminService is the administrative view over accounts: listing,
// inspection, and status transitions.
type UserAdminService struct {
	users      repository.UserRepository
	audit      *AuditService
	dispatcher events.Dispatcher
}

// NewUserAdminService constructs the service.
func NewUserAdminService(users repository.UserRepository, audit *AuditService, dispatcher events.Dispatcher) *UserAdminService {
	return &UserAdminService{users: users, audit: audit, dispatcher: dispatcher}
}

// List returns accounts newest-first.
func (s *UserAdminService) List(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get returns a single account.
func (s *UserAdminService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

// Approve moves an account to APPROVED and stamps who approved it and when.
func (s *UserAdminService) Approve(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	return s.transition(ctx, actor, id, domain.UserStatusApproved, domain.AuditActionApprove)
}

// Reject moves an account to REJECTED.
func (s *UserAdminService) Reject(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	return s.transition(ctx, actor, id, domain.UserStatusRejected, domain.AuditActionReject)
}

// TransitionStatus moves an account to any valid status. Repeating the
// current status is rejected so every transition is a real change.
func (s *UserAdminService) TransitionStatus(ctx context.Context, actor *domain.User, id string, status domain.UserStatus) (*domain.User, error) {
	switch status {
	case domain.UserStatusPending, domain.UserStatusApproved, domain.UserStatusRejected, domain.UserStatusSuspended:
	default:
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unknown user status %q", status), nil)
	}
	return s.transition(ctx, actor, id, status, domain.AuditActionUpdateStatus)
}

func (s *UserAdminService) transition(ctx context.Context, actor *domain.User, id string, status domain.UserStatus, action domain.AuditAction) (*domain.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	if user.Status == status {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("user status is already %s", status), nil)
	}

	oldStatus := user.Status
	oldSnapshot := userSnapshot(user)
	user.Status = status
	if status == domain.UserStatusApproved {
		now := time.Now()
		user.ApprovedAt = &now
		user.ApprovedBy = &actor.ID
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityUser, user.ID, action,
		oldSnapshot, userSnapshot(user), &actor.ID)
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserStatusChanged,
			ActorID:   actor.ID,
			Timestamp: time.Now(),
			Payload: events.UserStatusChangedPayload{
				UserID:    user.ID,
				Email:     user.Email,
				OldStatus: oldStatus,
				NewStatus: user.Status,
			},
		})
	}
	return user, nil
}
