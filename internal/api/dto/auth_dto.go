package dto

import (
	"time"

	"github.com/spec-kit/tournament-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OAuthRequest carries the provider authorization code.
type OAuthRequest struct {
	Code string `json:"code"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the account view returned to callers.
type UserResponse struct {
	ID          string              `json:"id"`
	Email       string              `json:"email"`
	Name        string              `json:"name"`
	Role        domain.UserRole     `json:"role"`
	Status      domain.UserStatus   `json:"status"`
	Provider    domain.AuthProvider `json:"provider"`
	AvatarURL   *string             `json:"avatar_url,omitempty"`
	ApprovedAt  *time.Time          `json:"approved_at,omitempty"`
	ApprovedBy  *string             `json:"approved_by,omitempty"`
	LastLoginAt *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewUserResponse maps a domain user, never exposing credentials.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Status:      u.Status,
		Provider:    u.Provider,
		AvatarURL:   u.AvatarURL,
		ApprovedAt:  u.ApprovedAt,
		ApprovedBy:  u.ApprovedBy,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
