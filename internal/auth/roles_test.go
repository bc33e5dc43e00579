package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tournament-service/internal/domain"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

func userWithRole(role domain.UserRole) *domain.User {
	return &domain.User{ID: "u", Role: role, Status: domain.UserStatusApproved}
}

func TestRequireAuthenticated(t *testing.T) {
	assert.NoError(t, RequireAuthenticated(userWithRole(domain.RoleUser)))

	err := RequireAuthenticated(nil)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 401, de.HTTPStatus)
}

func TestRequireRoleExactMembership(t *testing.T) {
	assert.NoError(t, RequireRole(userWithRole(domain.RoleAdmin), domain.RoleAdmin))

	// SUPER_ADMIN does not implicitly pass an ADMIN-only gate.
	err := RequireRole(userWithRole(domain.RoleSuperAdmin), domain.RoleAdmin)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 403, de.HTTPStatus)
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(userWithRole(domain.RoleAdmin)))
	assert.NoError(t, RequireAdmin(userWithRole(domain.RoleSuperAdmin)))

	err := RequireAdmin(userWithRole(domain.RoleUser))
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 403, de.HTTPStatus)

	err = RequireAdmin(nil)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 401, de.HTTPStatus, "missing principal reads as unauthenticated, not forbidden")
}

func TestRequireSuperAdmin(t *testing.T) {
	assert.NoError(t, RequireSuperAdmin(userWithRole(domain.RoleSuperAdmin)))
	assert.Error(t, RequireSuperAdmin(userWithRole(domain.RoleAdmin)))
}
