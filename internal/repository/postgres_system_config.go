package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"evalboard/internal/domain"
)

// PostgresSystemConfigRepository implements SystemConfigRepository.
// The table carries a CHECK(config_id = 1) so the row can never multiply.
type PostgresSystemConfigRepository struct {
	db *sql.DB
	// Defaults returned before the first upsert.
	defaultThreshold float64
}

func NewPostgresSystemConfigRepository(db *sql.DB, defaultThreshold float64) *PostgresSystemConfigRepository {
	return &PostgresSystemConfigRepository{db: db, defaultThreshold: defaultThreshold}
}

var _ SystemConfigRepository = (*PostgresSystemConfigRepository)(nil)

func (r *PostgresSystemConfigRepository) Get(ctx context.Context) (*domain.SystemConfig, error) {
	var cfg domain.SystemConfig
	var start, end sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT title, COALESCE(description, ''), evaluation_start, evaluation_end,
		       public_results, pass_threshold, updated_at
		FROM system_config
		WHERE config_id = 1
	`).Scan(&cfg.Title, &cfg.Description, &start, &end,
		&cfg.PublicResults, &cfg.PassThresholdPercent, &cfg.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return &domain.SystemConfig{
				Title:                "위원회 평가",
				PassThresholdPercent: r.defaultThreshold,
				UpdatedAt:            time.Now(),
			}, nil
		}
		return nil, fmt.Errorf("failed to get system config: %w", err)
	}
	if start.Valid {
		cfg.EvaluationStart = &start.Time
	}
	if end.Valid {
		cfg.EvaluationEnd = &end.Time
	}
	return &cfg, nil
}

func (r *PostgresSystemConfigRepository) Upsert(ctx context.Context, cfg *domain.SystemConfig) (*domain.SystemConfig, error) {
	if cfg.PassThresholdPercent <= 0 {
		cfg.PassThresholdPercent = r.defaultThreshold
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_config (config_id, title, description, evaluation_start, evaluation_end, public_results, pass_threshold, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (config_id)
		DO UPDATE SET title = EXCLUDED.title,
		              description = EXCLUDED.description,
		              evaluation_start = EXCLUDED.evaluation_start,
		              evaluation_end = EXCLUDED.evaluation_end,
		              public_results = EXCLUDED.public_results,
		              pass_threshold = EXCLUDED.pass_threshold,
		              updated_at = NOW()
	`, cfg.Title, cfg.Description, cfg.EvaluationStart, cfg.EvaluationEnd,
		cfg.PublicResults, cfg.PassThresholdPercent)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert system config: %w", err)
	}
	return r.Get(ctx)
}
