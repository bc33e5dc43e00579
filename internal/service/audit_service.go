package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/repository"
)

// AuditPage is a page of audit entries ordered newest-first.
type AuditPage struct {
	Entries    []domain.AuditLog
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// AuditService records and queries the immutable audit trail.
type AuditService struct {
	logs   repository.AuditLogRepository
	logger *zap.Logger
}

// NewAuditService builds the service.
func NewAuditService(logs repository.AuditLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{logs: logs, logger: logger}
}

// Record appends an audit entry. Best-effort: a failed write is logged
// locally and never fails or rolls back the primary mutation.
func (s *AuditService) Record(ctx context.Context, entityType domain.AuditEntityType, entityID string, action domain.AuditAction, oldValue, newValue map[string]any, changedBy *string) {
	if s == nil || s.logs == nil {
		return
	}
	entry := &domain.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OldValue:   oldValue,
		NewValue:   newValue,
		ChangedBy:  changedBy,
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("entity_type", string(entityType)),
			zap.String("entity_id", entityID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

// Query returns a page of entries, optionally filtered by entity type and id.
func (s *AuditService) Query(ctx context.Context, entityType domain.AuditEntityType, entityID string, page, limit int) (*AuditPage, error) {
	return s.list(ctx, repository.AuditFilter{EntityType: entityType, EntityID: entityID}, page, limit)
}

// UserActivity returns entries recorded by the given user.
func (s *AuditService) UserActivity(ctx context.Context, userID string, page, limit int) (*AuditPage, error) {
	return s.list(ctx, repository.AuditFilter{ChangedBy: userID}, page, limit)
}

func (s *AuditService) list(ctx context.Context, filter repository.AuditFilter, page, limit int) (*AuditPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	entries, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := (total + limit - 1) / limit
	return &AuditPage{
		Entries:    entries,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page*limit < total,
		HasPrev:    page > 1,
	}, nil
}

// Cleanup purges entries older than the retention horizon and returns how
// many were removed. Maintenance only; never called on the hot path.
func (s *AuditService) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.logs.DeleteOlderThan(ctx, cutoff)
}
