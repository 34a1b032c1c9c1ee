package repository

import (
	"context"
	"database/sql"
	"fmt"

	"evalboard/internal/domain"

	"github.com/google/uuid"
)

// PostgresPresetScoresRepository implements PresetScoresRepository.
type PostgresPresetScoresRepository struct {
	db *sql.DB
}

func NewPostgresPresetScoresRepository(db *sql.DB) *PostgresPresetScoresRepository {
	return &PostgresPresetScoresRepository{db: db}
}

var _ PresetScoresRepository = (*PostgresPresetScoresRepository)(nil)

const presetColumns = `
	preset_id::text,
	candidate_id::text,
	item_id::text,
	score,
	apply_preset`

func scanPreset(row interface{ Scan(...any) error }) (*domain.PresetScore, error) {
	var p domain.PresetScore
	err := row.Scan(&p.PresetID, &p.CandidateID, &p.ItemID, &p.Score, &p.ApplyPreset)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPresetScoresRepository) Upsert(ctx context.Context, p *domain.PresetScore) (*domain.PresetScore, error) {
	if p.CandidateID == "" || p.ItemID == "" {
		return nil, fmt.Errorf("candidate_id and item_id are required")
	}
	if p.PresetID == "" {
		p.PresetID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO preset_scores (preset_id, candidate_id, item_id, score, apply_preset)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (candidate_id, item_id)
		DO UPDATE SET score = EXCLUDED.score,
		              apply_preset = EXCLUDED.apply_preset
		RETURNING %s
	`, presetColumns)
	stored, err := scanPreset(r.db.QueryRowContext(ctx, query,
		p.PresetID, p.CandidateID, p.ItemID, p.Score, p.ApplyPreset))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert preset score: %w", err)
	}
	return stored, nil
}

func (r *PostgresPresetScoresRepository) ListByCandidate(ctx context.Context, candidateID string) ([]*domain.PresetScore, error) {
	query := fmt.Sprintf(`SELECT %s FROM preset_scores WHERE candidate_id = $1 ORDER BY item_id`, presetColumns)
	return r.queryPresets(ctx, query, candidateID)
}

func (r *PostgresPresetScoresRepository) ListAll(ctx context.Context) ([]*domain.PresetScore, error) {
	query := fmt.Sprintf(`SELECT %s FROM preset_scores ORDER BY candidate_id, item_id`, presetColumns)
	return r.queryPresets(ctx, query)
}

func (r *PostgresPresetScoresRepository) queryPresets(ctx context.Context, query string, args ...any) ([]*domain.PresetScore, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list preset scores: %w", err)
	}
	defer rows.Close()

	presets := []*domain.PresetScore{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preset score: %w", err)
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

func (r *PostgresPresetScoresRepository) Delete(ctx context.Context, candidateID, itemID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM preset_scores WHERE candidate_id = $1 AND item_id = $2
	`, candidateID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete preset score: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("preset score not found: %w", sql.ErrNoRows)
	}
	return nil
}
