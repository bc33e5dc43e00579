package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tournament-service/internal/domain"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// RequireAuthenticated fails with Unauthorized when no principal resolved.
func RequireAuthenticated(user *domain.User) error {
	if user == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

// RequireRole fails with Forbidden unless the principal's role is in the
// allowed set. Membership is exact; SUPER_ADMIN does not implicitly satisfy
// an ADMIN-only gate unless both roles are listed.
func RequireRole(user *domain.User, allowed ...domain.UserRole) error {
	if err := RequireAuthenticated(user); err != nil {
		return err
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return apperrors.NewForbidden("insufficient role")
}

// RequireAdmin allows ADMIN and SUPER_ADMIN.
func RequireAdmin(user *domain.User) error {
	return RequireRole(user, domain.RoleAdmin, domain.RoleSuperAdmin)
}

// RequireSuperAdmin allows SUPER_ADMIN only.
func RequireSuperAdmin(user *domain.User) error {
	return RequireRole(user, domain.RoleSuperAdmin)
}

// RequireAuth is the middleware form of RequireAuthenticated.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := RequireAuthenticated(PrincipalFromContext(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireRoles is the middleware form of RequireRole.
func RequireRoles(allowed ...domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := RequireRole(PrincipalFromContext(c), allowed...); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdminRole gates a route to ADMIN and SUPER_ADMIN.
func RequireAdminRole() fiber.Handler {
	return RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin)
}
