package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/repository"
)

const (
	principalKey = "auth_principal"
	tokenKey     = "auth_token"

	// CookieName is the session cookie carrying the credential.
	CookieName = "auth-token"
)

// Resolver turns an opaque credential into a verified principal. A missing or
// invalid credential resolves to nil without error; that is a normal
// unauthenticated state, not a failure.
type Resolver struct {
	tokens    *TokenManager
	users     repository.UserRepository
	blacklist TokenBlacklist
}

// NewResolver constructs a resolver.
func NewResolver(tokens *TokenManager, users repository.UserRepository, blacklist TokenBlacklist) *Resolver {
	return &Resolver{tokens: tokens, users: users, blacklist: blacklist}
}

// Resolve verifies the credential and re-fetches the live user record. The
// token payload is a point-in-time claim; role and status changes take effect
// without re-login because the database row is the source of truth. Only
// APPROVED users resolve to a principal.
func (r *Resolver) Resolve(ctx context.Context, token string) *domain.User {
	if token == "" {
		return nil
	}
	if r.blacklist != nil && r.blacklist.Contains(ctx, token) {
		return nil
	}
	claims, err := r.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	user, err := r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil
	}
	if user.Status != domain.UserStatusApproved {
		return nil
	}
	return user
}

// Handle attaches the resolved principal, if any, to the request context and
// always continues. Route guards decide whether a principal is required.
func (r *Resolver) Handle(c *fiber.Ctx) error {
	token := CredentialFromRequest(c)
	if token != "" {
		c.Locals(tokenKey, token)
		if user := r.Resolve(c.Context(), token); user != nil {
			c.Locals(principalKey, user)
		}
	}
	return c.Next()
}

// CredentialFromRequest extracts the bearer token or session cookie value.
func CredentialFromRequest(c *fiber.Ctx) string {
	if header := c.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return c.Cookies(CookieName)
}

// PrincipalFromContext retrieves the authenticated user, if any.
func PrincipalFromContext(c *fiber.Ctx) *domain.User {
	val := c.Locals(principalKey)
	if val == nil {
		return nil
	}
	user, ok := val.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// TokenFromContext retrieves the raw credential presented with the request.
func TokenFromContext(c *fiber.Ctx) string {
	val := c.Locals(tokenKey)
	if val == nil {
		return ""
	}
	token, _ := val.(string)
	return token
}
