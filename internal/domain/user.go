package domain

import "time"

// UserRole enumerates authorization roles.
type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// UserStatus represents account lifecycle states.
type UserStatus string

const (
	UserStatusPending   UserStatus = "PENDING"
	UserStatusApproved  UserStatus = "APPROVED"
	UserStatusRejected  UserStatus = "REJECTED"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	ProviderEmail  AuthProvider = "EMAIL"
	ProviderGoogle AuthProvider = "GOOGLE"
	ProviderGitHub AuthProvider = "GITHUB"
)

// User is the domain model for accounts. ApprovedBy is a weak reference to
// another user's id; deleting that user never cascades here.
type User struct {
	ID                  string
	Email               string
	Name                string
	Role                UserRole
	Status              UserStatus
	Provider            AuthProvider
	ProviderID          *string
	AvatarURL           *string
	HashedPassword      *string
	FailedLoginAttempts int
	LockedUntil         *time.Time
	ApprovedAt          *time.Time
	ApprovedBy          *string
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsAdmin reports whether the user holds an administrative role.
func (u *User) IsAdmin() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleSuperAdmin)
}

// IsLocked reports whether the account lockout window is still active.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
