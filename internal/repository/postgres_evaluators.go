package repository

import (
	"context"
	"database/sql"
	"fmt"

	"evalboard/internal/domain"

	"github.com/google/uuid"
)

// PostgresEvaluatorsRepository implements EvaluatorsRepository over raw SQL.
type PostgresEvaluatorsRepository struct {
	db *sql.DB
}

func NewPostgresEvaluatorsRepository(db *sql.DB) *PostgresEvaluatorsRepository {
	return &PostgresEvaluatorsRepository{db: db}
}

var _ EvaluatorsRepository = (*PostgresEvaluatorsRepository)(nil)

const evaluatorColumns = `
	evaluator_id::text,
	name,
	password_hash,
	COALESCE(department, ''),
	is_active,
	created_at`

func scanEvaluator(row interface{ Scan(...any) error }) (*domain.Evaluator, error) {
	var e domain.Evaluator
	err := row.Scan(
		&e.EvaluatorID,
		&e.Name,
		&e.PasswordHash,
		&e.Department,
		&e.IsActive,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresEvaluatorsRepository) GetEvaluator(ctx context.Context, evaluatorID string) (*domain.Evaluator, error) {
	if evaluatorID == "" {
		return nil, sql.ErrNoRows
	}
	query := fmt.Sprintf(`SELECT %s FROM evaluators WHERE evaluator_id = $1`, evaluatorColumns)
	e, err := scanEvaluator(r.db.QueryRowContext(ctx, query, evaluatorID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("evaluator not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get evaluator: %w", err)
	}
	return e, nil
}

func (r *PostgresEvaluatorsRepository) GetEvaluatorByName(ctx context.Context, name string) (*domain.Evaluator, error) {
	if name == "" {
		return nil, sql.ErrNoRows
	}
	query := fmt.Sprintf(`SELECT %s FROM evaluators WHERE name = $1`, evaluatorColumns)
	e, err := scanEvaluator(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("evaluator not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get evaluator by name: %w", err)
	}
	return e, nil
}

func (r *PostgresEvaluatorsRepository) ListEvaluators(ctx context.Context, activeOnly bool) ([]*domain.Evaluator, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluators`, evaluatorColumns)
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluators: %w", err)
	}
	defer rows.Close()

	evaluators := []*domain.Evaluator{}
	for rows.Next() {
		e, err := scanEvaluator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluator: %w", err)
		}
		evaluators = append(evaluators, e)
	}
	return evaluators, rows.Err()
}

func (r *PostgresEvaluatorsRepository) CreateEvaluator(ctx context.Context, e *domain.Evaluator) (string, error) {
	if e.Name == "" {
		return "", fmt.Errorf("name is required")
	}
	if e.EvaluatorID == "" {
		e.EvaluatorID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO evaluators (evaluator_id, name, password_hash, department, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`, e.EvaluatorID, e.Name, e.PasswordHash, e.Department, e.IsActive)
	if err != nil {
		return "", fmt.Errorf("failed to create evaluator: %w", err)
	}
	return e.EvaluatorID, nil
}

func (r *PostgresEvaluatorsRepository) UpdateEvaluator(ctx context.Context, e *domain.Evaluator) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE evaluators
		SET name = $2,
		    password_hash = $3,
		    department = $4,
		    is_active = $5
		WHERE evaluator_id = $1
	`, e.EvaluatorID, e.Name, e.PasswordHash, e.Department, e.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update evaluator: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("evaluator not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *PostgresEvaluatorsRepository) DeleteEvaluator(ctx context.Context, evaluatorID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM evaluators WHERE evaluator_id = $1`, evaluatorID)
	if err != nil {
		return fmt.Errorf("failed to delete evaluator: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("evaluator not found: %w", sql.ErrNoRows)
	}
	return nil
}

// PostgresAdminsRepository implements AdminsRepository.
type PostgresAdminsRepository struct {
	db *sql.DB
}

func NewPostgresAdminsRepository(db *sql.DB) *PostgresAdminsRepository {
	return &PostgresAdminsRepository{db: db}
}

var _ AdminsRepository = (*PostgresAdminsRepository)(nil)

func (r *PostgresAdminsRepository) GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	if username == "" {
		return nil, sql.ErrNoRows
	}
	var a domain.Admin
	err := r.db.QueryRowContext(ctx, `
		SELECT admin_id::text, username, password_hash, created_at
		FROM admins
		WHERE username = $1
	`, username).Scan(&a.AdminID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("admin not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}

func (r *PostgresAdminsRepository) UpsertAdmin(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (admin_id, username, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (username)
		DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, uuid.NewString(), username, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to upsert admin: %w", err)
	}
	return nil
}
