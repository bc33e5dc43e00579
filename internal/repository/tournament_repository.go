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

// TournamentFilter captures listing parameters. DeletedOnly switches to the
// admin-only view of soft-deleted rows; the two views are never combined.
type TournamentFilter struct {
	Statuses    []domain.TournamentStatus
	DeletedOnly bool
	Limit       int
	Offset      int
}

// TournamentRepository encapsulates tournament persistence.
type TournamentRepository interface {
	Create(ctx context.Context, t *domain.Tournament) error
	Update(ctx context.Context, t *domain.Tournament) error
	// GetByID returns the row regardless of soft-delete state; callers apply
	// visibility rules.
	GetByID(ctx context.Context, id string) (*domain.Tournament, error)
	// FindActiveByName locates a non-deleted tournament with the given name,
	// excluding excludeID when non-empty. Used for uniqueness checks.
	FindActiveByName(ctx context.Context, name, excludeID string) (*domain.Tournament, error)
	List(ctx context.Context, filter TournamentFilter) ([]domain.Tournament, error)
	SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error
}

type tournamentRepository struct {
	pool *pgxpool.Pool
}

// NewTournamentRepository instantiates the repository.
func NewTournamentRepository(pool *pgxpool.Pool) TournamentRepository {
	return &tournamentRepository{pool: pool}
}

const tournamentColumns = `id, name, status, tournament_start, tournament_end,
	       registration_start, registration_end, categories, has_teams,
	       proclamations_url, chess_results_url, created_by, deleted_at, created_at, updated_at`

func (r *tournamentRepository) Create(ctx context.Context, t *domain.Tournament) error {
	const query = `
        INSERT INTO tournaments (name, status, tournament_start, tournament_end,
            registration_start, registration_end, categories, has_teams,
            proclamations_url, chess_results_url, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		t.Name,
		t.Status,
		t.Start,
		t.End,
		t.RegistrationStart,
		t.RegistrationEnd,
		t.Categories,
		t.HasTeams,
		t.ProclamationsURL,
		t.ChessResultsURL,
		t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *tournamentRepository) Update(ctx context.Context, t *domain.Tournament) error {
	const query = `
        UPDATE tournaments SET name=$1, status=$2, tournament_start=$3, tournament_end=$4,
            registration_start=$5, registration_end=$6, categories=$7, has_teams=$8,
            proclamations_url=$9, chess_results_url=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		t.Name,
		t.Status,
		t.Start,
		t.End,
		t.RegistrationStart,
		t.RegistrationEnd,
		t.Categories,
		t.HasTeams,
		t.ProclamationsURL,
		t.ChessResultsURL,
		t.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tournamentRepository) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	return r.fetchSingle(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id=$1`, id)
}

func (r *tournamentRepository) FindActiveByName(ctx context.Context, name, excludeID string) (*domain.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE name=$1 AND deleted_at IS NULL`
	args := []any{name}
	if excludeID != "" {
		args = append(args, excludeID)
		query += ` AND id != $2`
	}
	return r.fetchSingle(ctx, query, args...)
}

func (r *tournamentRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Tournament, error) {
	var t domain.Tournament
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&t.ID,
		&t.Name,
		&t.Status,
		&t.Start,
		&t.End,
		&t.RegistrationStart,
		&t.RegistrationEnd,
		&t.Categories,
		&t.HasTeams,
		&t.ProclamationsURL,
		&t.ChessResultsURL,
		&t.CreatedBy,
		&t.DeletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tournamentRepository) List(ctx context.Context, filter TournamentFilter) ([]domain.Tournament, error) {
	clauses := []string{}
	args := []any{}
	orderBy := "created_at DESC"

	if filter.DeletedOnly {
		clauses = append(clauses, "deleted_at IS NOT NULL")
		orderBy = "deleted_at DESC"
	} else {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tournaments WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		tournamentColumns, strings.Join(clauses, " AND "), orderBy, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTournaments(rows)
}

func (r *tournamentRepository) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tournaments SET deleted_at=$1, updated_at=NOW() WHERE id=$2`, deletedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTournaments(rows pgx.Rows) ([]domain.Tournament, error) {
	var result []domain.Tournament
	for rows.Next() {
		var t domain.Tournament
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Status,
			&t.Start,
			&t.End,
			&t.RegistrationStart,
			&t.RegistrationEnd,
			&t.Categories,
			&t.HasTeams,
			&t.ProclamationsURL,
			&t.ChessResultsURL,
			&t.CreatedBy,
			&t.DeletedAt,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
