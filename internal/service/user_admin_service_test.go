package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/tournament-service/internal/domain"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

func newUserAdminFixture(t *testing.T) (*UserAdminService, *fakeUserRepo, *fakeAuditRepo, *domain.User) {
	t.Helper()
	users := newFakeUserRepo()
	audit := newFakeAuditRepo()
	svc := NewUserAdminService(users, NewAuditService(audit, zap.NewNop()), nil)

	pending := &domain.User{
		Email:    "pending@example.com",
		Name:     "Pending",
		Role:     domain.RoleUser,
		Status:   domain.UserStatusPending,
		Provider: domain.ProviderEmail,
	}
	require.NoError(t, users.Create(context.Background(), pending))
	return svc, users, audit, pending
}

func TestApproveStampsMetadata(t *testing.T) {
	svc, _, audit, pending := newUserAdminFixture(t)
	admin := adminActor()

	approved, err := svc.Approve(context.Background(), admin, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, admin.ID, *approved.ApprovedBy)

	assert.Equal(t, []domain.AuditAction{domain.AuditActionApprove}, audit.actions(pending.ID))
}

func TestRejectLeavesApprovalMetadata(t *testing.T) {
	svc, _, audit, pending := newUserAdminFixture(t)
	admin := adminActor()

	rejected, err := svc.Reject(context.Background(), admin, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusRejected, rejected.Status)
	assert.Nil(t, rejected.ApprovedAt)
	assert.Nil(t, rejected.ApprovedBy)

	assert.Equal(t, []domain.AuditAction{domain.AuditActionReject}, audit.actions(pending.ID))
}

func TestNoOpTransitionRejected(t *testing.T) {
	svc, _, _, pending := newUserAdminFixture(t)
	admin := adminActor()

	_, err := svc.TransitionStatus(context.Background(), admin, pending.ID, domain.UserStatusPending)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Contains(t, de.Message, "already")
}

func TestTransitionStatusUnknownValue(t *testing.T) {
	svc, _, _, pending := newUserAdminFixture(t)

	_, err := svc.TransitionStatus(context.Background(), adminActor(), pending.ID, domain.UserStatus("BANNED"))
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
}

func TestTransitionStatusSuspend(t *testing.T) {
	svc, _, audit, pending := newUserAdminFixture(t)
	admin := adminActor()

	_, err := svc.Approve(context.Background(), admin, pending.ID)
	require.NoError(t, err)

	suspended, err := svc.TransitionStatus(context.Background(), admin, pending.ID, domain.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, suspended.Status)
	// Suspension does not erase who originally approved the account.
	assert.NotNil(t, suspended.ApprovedAt)

	assert.Equal(t, []domain.AuditAction{
		domain.AuditActionApprove,
		domain.AuditActionUpdateStatus,
	}, audit.actions(pending.ID))
}

func TestUserAdminRequiresAdmin(t *testing.T) {
	svc, _, _, pending := newUserAdminFixture(t)
	user := regularActor()

	var de *apperrors.DomainError
	_, err := svc.List(context.Background(), user, 10, 0)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 403, de.HTTPStatus)

	_, err = svc.Get(context.Background(), user, pending.ID)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 403, de.HTTPStatus)

	_, err = svc.Approve(context.Background(), user, pending.ID)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 403, de.HTTPStatus)
}

func TestTransitionUnknownUser(t *testing.T) {
	svc, _, _, _ := newUserAdminFixture(t)

	_, err := svc.Approve(context.Background(), adminActor(), "missing-id")
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 404, de.HTTPStatus)
}
