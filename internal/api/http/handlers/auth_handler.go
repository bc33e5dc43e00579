package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tournament-service/internal/api/dto"
	"github.com/spec-kit/tournament-service/internal/auth"
	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/service"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// AuthHandler exposes signup, login, logout, OAuth callback, and the
// current-principal endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Register(c.Context(), c.IP(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}
	setAuthCookie(c, result.Token, result.ExpiresAt)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"user": dto.NewUserResponse(result.User),
		"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	}})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.Login(c.Context(), c.IP(), req.Email, req.Password)
	if err != nil {
		return err
	}
	setAuthCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user": dto.NewUserResponse(result.User),
		"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	}})
}

// Logout POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := auth.TokenFromContext(c)
	if token == "" {
		token = auth.CredentialFromRequest(c)
	}
	if err := h.auth.Logout(c.Context(), token); err != nil {
		return err
	}
	clearAuthCookie(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal)})
}

// OAuthCallback POST /auth/oauth/:provider/callback.
func (h *AuthHandler) OAuthCallback(c *fiber.Ctx) error {
	var req dto.OAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Code == "" {
		return apperrors.NewValidationError("code required", nil)
	}

	provider := domain.AuthProvider(strings.ToUpper(c.Params("provider")))
	result, err := h.auth.OAuthLogin(c.Context(), provider, req.Code)
	if err != nil {
		return err
	}
	setAuthCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user": dto.NewUserResponse(result.User),
		"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	}})
}

func setAuthCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
