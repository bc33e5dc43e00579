package dto

import (
	"time"

	"github.com/spec-kit/tournament-service/internal/domain"
)

// UpdateUserStatusRequest moves an account to a new lifecycle status.
type UpdateUserStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// AuditLogResponse is one entry of the audit trail.
type AuditLogResponse struct {
	ID         string                 `json:"id"`
	EntityType domain.AuditEntityType `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Action     domain.AuditAction     `json:"action"`
	OldValue   map[string]any         `json:"old_value,omitempty"`
	NewValue   map[string]any         `json:"new_value,omitempty"`
	ChangedBy  *string                `json:"changed_by,omitempty"`
	ChangedAt  time.Time              `json:"changed_at"`
}

// AuditPageResponse is a page of the audit trail, newest first.
type AuditPageResponse struct {
	Entries    []AuditLogResponse `json:"entries"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Total      int                `json:"total"`
	TotalPages int                `json:"total_pages"`
	HasNext    bool               `json:"has_next"`
	HasPrev    bool               `json:"has_prev"`
}

// NewAuditLogResponse maps a domain entry.
func NewAuditLogResponse(l *domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         l.ID,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Action:     l.Action,
		OldValue:   l.OldValue,
		NewValue:   l.NewValue,
		ChangedBy:  l.ChangedBy,
		ChangedAt:  l.ChangedAt,
	}
}
