package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tournament-service/internal/domain"
)

// AuditFilter narrows audit queries. Zero values mean "no filter".
type AuditFilter struct {
	EntityType domain.AuditEntityType
	EntityID   string
	ChangedBy  string
	Limit      int
	Offset     int
}

// AuditLogRepository stores the append-only audit trail. Entries are never
// updated; deletion happens only through the retention sweep.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditLog, int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository builds the repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_logs (entity_type, entity_id, action, old_value, new_value, changed_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, changed_at`
	return r.pool.QueryRow(ctx, query,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		entry.OldValue,
		entry.NewValue,
		entry.ChangedBy,
	).Scan(&entry.ID, &entry.ChangedAt)
}

func (r *auditLogRepository) List(ctx context.Context, filter AuditFilter) ([]domain.AuditLog, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		clauses = append(clauses, fmt.Sprintf("entity_type=$%d", len(args)))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		clauses = append(clauses, fmt.Sprintf("entity_id=$%d", len(args)))
	}
	if filter.ChangedBy != "" {
		args = append(args, filter.ChangedBy)
		clauses = append(clauses, fmt.Sprintf("changed_by=$%d", len(args)))
	}
	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT id, entity_type, entity_id, action, old_value, new_value, changed_by, changed_at
        FROM audit_logs WHERE %s ORDER BY changed_at DESC LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := scanAuditLogs(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *auditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM audit_logs WHERE changed_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanAuditLogs(rows pgx.Rows) ([]domain.AuditLog, error) {
	var result []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Action,
			&entry.OldValue,
			&entry.NewValue,
			&entry.ChangedBy,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
