package repository

import (
	"context"

	"evalboard/internal/domain"
)

// SubmissionsRepository is the persistence boundary for evaluator score sheets.
//
// The scores column is a JSONB map of item_id to score. The unique index on
// (evaluator_id, candidate_id) plus upsert-only writes is what guarantees
// "at most one live record per pair, re-saving overwrites".
type SubmissionsRepository interface {
	// Upsert inserts or overwrites the (evaluator, candidate) record and
	// returns the stored row.
	Upsert(ctx context.Context, s *domain.Submission) (*domain.Submission, error)
	GetByEvaluatorAndCandidate(ctx context.Context, evaluatorID, candidateID string) (*domain.Submission, error)
	ListByEvaluator(ctx context.Context, evaluatorID string) ([]*domain.Submission, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Submission, error)
	ListAll(ctx context.Context) ([]*domain.Submission, error)
}

// PresetScoresRepository is the persistence boundary for admin preset scores.
type PresetScoresRepository interface {
	// Upsert inserts or overwrites the (candidate, item) preset.
	Upsert(ctx context.Context, p *domain.PresetScore) (*domain.PresetScore, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]*domain.PresetScore, error)
	ListAll(ctx context.Context) ([]*domain.PresetScore, error)
	Delete(ctx context.Context, candidateID, itemID string) error
}

// SystemConfigRepository reads and upserts the singleton config row.
type SystemConfigRepository interface {
	// Get returns the config row, or defaults when none has been written yet.
	Get(ctx context.Context) (*domain.SystemConfig, error)
	// Upsert writes the single row (config_id is fixed at 1).
	Upsert(ctx context.Context, cfg *domain.SystemConfig) (*domain.SystemConfig, error)
}
