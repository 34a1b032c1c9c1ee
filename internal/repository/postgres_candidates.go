package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"evalboard/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresCandidatesRepository implements CandidatesRepository over raw SQL.
type PostgresCandidatesRepository struct {
	db *sql.DB
}

func NewPostgresCandidatesRepository(db *sql.DB) *PostgresCandidatesRepository {
	return &PostgresCandidatesRepository{db: db}
}

var _ CandidatesRepository = (*PostgresCandidatesRepository)(nil)

const candidateColumns = `
	candidate_id::text,
	name,
	COALESCE(department, ''),
	COALESCE(position, ''),
	COALESCE(category, ''),
	COALESCE(sub_category, ''),
	COALESCE(description, ''),
	sort_order,
	is_active,
	created_at`

func scanCandidate(row interface{ Scan(...any) error }) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(
		&c.CandidateID,
		&c.Name,
		&c.Department,
		&c.Position,
		&c.Category,
		&c.SubCategory,
		&c.Description,
		&c.SortOrder,
		&c.IsActive,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCandidatesRepository) GetCandidate(ctx context.Context, candidateID string) (*domain.Candidate, error) {
	if candidateID == "" {
		return nil, sql.ErrNoRows
	}
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE candidate_id = $1`, candidateColumns)
	c, err := scanCandidate(r.db.QueryRowContext(ctx, query, candidateID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("candidate not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

func (r *PostgresCandidatesRepository) ListCandidates(ctx context.Context, filter CandidatesFilter) ([]*domain.Candidate, error) {
	where := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.ActiveOnly {
		where = append(where, "is_active = TRUE")
	}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.SubCategory != "" {
		where = append(where, fmt.Sprintf("sub_category = $%d", argIdx))
		args = append(args, filter.SubCategory)
		argIdx++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR department ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM candidates
		WHERE %s
		ORDER BY sort_order, name
	`, candidateColumns, strings.Join(where, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []*domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (r *PostgresCandidatesRepository) CreateCandidate(ctx context.Context, c *domain.Candidate) (string, error) {
	if c.Name == "" {
		return "", fmt.Errorf("name is required")
	}
	if c.CandidateID == "" {
		c.CandidateID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates (candidate_id, name, department, position, category, sub_category, description, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.CandidateID, c.Name, c.Department, c.Position, c.Category, c.SubCategory, c.Description, c.SortOrder, c.IsActive)
	if err != nil {
		return "", fmt.Errorf("failed to create candidate: %w", err)
	}
	return c.CandidateID, nil
}

func (r *PostgresCandidatesRepository) UpdateCandidate(ctx context.Context, c *domain.Candidate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE candidates
		SET name = $2,
		    department = $3,
		    position = $4,
		    category = $5,
		    sub_category = $6,
		    description = $7,
		    sort_order = $8,
		    is_active = $9
		WHERE candidate_id = $1
	`, c.CandidateID, c.Name, c.Department, c.Position, c.Category, c.SubCategory, c.Description, c.SortOrder, c.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("candidate not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *PostgresCandidatesRepository) SetActive(ctx context.Context, candidateID string, active bool) (*domain.Candidate, error) {
	query := fmt.Sprintf(`
		UPDATE candidates
		SET is_active = $2
		WHERE candidate_id = $1
		RETURNING %s
	`, candidateColumns)
	c, err := scanCandidate(r.db.QueryRowContext(ctx, query, candidateID, active))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("candidate not found: %w", err)
		}
		return nil, fmt.Errorf("failed to set candidate active flag: %w", err)
	}
	return c, nil
}

func (r *PostgresCandidatesRepository) BulkSetActive(ctx context.Context, candidateIDs []string, active bool) (int, error) {
	if len(candidateIDs) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE candidates
		SET is_active = $2
		WHERE candidate_id = ANY($1)
	`, pq.Array(candidateIDs), active)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update candidates: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *PostgresCandidatesRepository) DeleteCandidate(ctx context.Context, candidateID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("candidate not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *PostgresCandidatesRepository) MaxSortOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM candidates`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to read max sort order: %w", err)
	}
	return max, nil
}
