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

// CompetitorFilter captures listing parameters for one tournament.
type CompetitorFilter struct {
	Statuses   []domain.AcceptanceStatus
	Categories []string
	Genders    []domain.Gender
	Limit      int
	Offset     int
}

// CompetitorRepository encapsulates competitor persistence.
type CompetitorRepository interface {
	// Create assigns the next personal number and inserts in one transaction.
	// The sequence covers soft-deleted rows too, so numbers are never reused;
	// UNIQUE(tournament_id, personal_number) backstops concurrent inserts.
	Create(ctx context.Context, c *domain.Competitor) error
	Update(ctx context.Context, c *domain.Competitor) error
	// GetByID scopes lookup to the owning tournament.
	GetByID(ctx context.Context, tournamentID, id string) (*domain.Competitor, error)
	// FindActiveByName locates a non-deleted competitor with the exact
	// (first, last) name pair, excluding excludeID when non-empty.
	FindActiveByName(ctx context.Context, tournamentID, firstName, lastName, excludeID string) (*domain.Competitor, error)
	ListByTournament(ctx context.Context, tournamentID string, filter CompetitorFilter) ([]domain.Competitor, error)
	SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error
}

type competitorRepository struct {
	pool *pgxpool.Pool
}

// NewCompetitorRepository instantiates the repository.
func NewCompetitorRepository(pool *pgxpool.Pool) CompetitorRepository {
	return &competitorRepository{pool: pool}
}

const competitorColumns = `id, tournament_id, personal_number, first_name, last_name, gender,
	       category, team, school, rated_player_links, document_url, acceptance_status,
	       admin_notes, deleted_at, created_at, updated_at`

func (r *competitorRepository) Create(ctx context.Context, c *domain.Competitor) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Max over all rows, including soft-deleted: the sequence is monotonic
	// and gap-tolerant, numbers are never handed out twice.
	var next int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(personal_number), 0) + 1 FROM competitors WHERE tournament_id=$1`,
		c.TournamentID,
	).Scan(&next); err != nil {
		return err
	}
	c.PersonalNumber = next

	const query = `
        INSERT INTO competitors (tournament_id, personal_number, first_name, last_name,
            gender, category, team, school, rated_player_links, document_url,
            acceptance_status, admin_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		c.TournamentID,
		c.PersonalNumber,
		c.FirstName,
		c.LastName,
		c.Gender,
		c.Category,
		c.Team,
		c.School,
		c.RatedPlayerLinks,
		c.DocumentURL,
		c.AcceptanceStatus,
		c.AdminNotes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *competitorRepository) Update(ctx context.Context, c *domain.Competitor) error {
	const query = `
        UPDATE competitors SET first_name=$1, last_name=$2, gender=$3, category=$4, team=$5,
            school=$6, rated_player_links=$7, document_url=$8, acceptance_status=$9,
            admin_notes=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		c.FirstName,
		c.LastName,
		c.Gender,
		c.Category,
		c.Team,
		c.School,
		c.RatedPlayerLinks,
		c.DocumentURL,
		c.AcceptanceStatus,
		c.AdminNotes,
		c.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *competitorRepository) GetByID(ctx context.Context, tournamentID, id string) (*domain.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors WHERE id=$1 AND tournament_id=$2`
	return r.fetchSingle(ctx, query, id, tournamentID)
}

func (r *competitorRepository) FindActiveByName(ctx context.Context, tournamentID, firstName, lastName, excludeID string) (*domain.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors
	     WHERE tournament_id=$1 AND first_name=$2 AND last_name=$3 AND deleted_at IS NULL`
	args := []any{tournamentID, firstName, lastName}
	if excludeID != "" {
		args = append(args, excludeID)
		query += ` AND id != $4`
	}
	return r.fetchSingle(ctx, query, args...)
}

func (r *competitorRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Competitor, error) {
	var c domain.Competitor
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.TournamentID,
		&c.PersonalNumber,
		&c.FirstName,
		&c.LastName,
		&c.Gender,
		&c.Category,
		&c.Team,
		&c.School,
		&c.RatedPlayerLinks,
		&c.DocumentURL,
		&c.AcceptanceStatus,
		&c.AdminNotes,
		&c.DeletedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *competitorRepository) ListByTournament(ctx context.Context, tournamentID string, filter CompetitorFilter) ([]domain.Competitor, error) {
	clauses := []string{"tournament_id=$1", "deleted_at IS NULL"}
	args := []any{tournamentID}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("acceptance_status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Genders) > 0 {
		placeholders := make([]string, len(filter.Genders))
		for i, gender := range filter.Genders {
			args = append(args, gender)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("gender IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM competitors WHERE %s ORDER BY personal_number ASC LIMIT %d OFFSET %d`,
		competitorColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Competitor
	for rows.Next() {
		var c domain.Competitor
		if err := rows.Scan(
			&c.ID,
			&c.TournamentID,
			&c.PersonalNumber,
			&c.FirstName,
			&c.LastName,
			&c.Gender,
			&c.Category,
			&c.Team,
			&c.School,
			&c.RatedPlayerLinks,
			&c.DocumentURL,
			&c.AcceptanceStatus,
			&c.AdminNotes,
			&c.DeletedAt,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *competitorRepository) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE competitors SET deleted_at=$1, updated_at=NOW() WHERE id=$2`, deletedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
