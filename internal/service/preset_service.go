package service

import (
	"context"

	"evalboard/internal/domain"
	"evalboard/internal/notify"
	"evalboard/internal/repository"
	"evalboard/internal/scoring"

	"go.uber.org/zap"
)

// PresetService manages admin preset scores for (candidate, item) pairs.
type PresetService interface {
	ListByCandidate(ctx context.Context, candidateID string) ([]*domain.PresetScore, error)
	// Upsert clamps the score to the item's max before storing.
	Upsert(ctx context.Context, p *domain.PresetScore) (*domain.PresetScore, error)
	Delete(ctx context.Context, candidateID, itemID string) error
}

type presetService struct {
	presets   repository.PresetScoresRepository
	items     repository.ItemsRepository
	publisher *notify.Publisher
	logger    *zap.Logger
}

func NewPresetService(presets repository.PresetScoresRepository, items repository.ItemsRepository, publisher *notify.Publisher, logger *zap.Logger) PresetService {
	return &presetService{presets: presets, items: items, publisher: publisher, logger: logger}
}

func (s *presetService) ListByCandidate(ctx context.Context, candidateID string) ([]*domain.PresetScore, error) {
	return s.presets.ListByCandidate(ctx, candidateID)
}

func (s *presetService) Upsert(ctx context.Context, p *domain.PresetScore) (*domain.PresetScore, error) {
	item, err := s.items.GetItem(ctx, p.ItemID)
	if err != nil {
		return nil, err
	}
	p.Score = scoring.ClampScore(p.Score, item.MaxScore)
	stored, err := s.presets.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourcePresets)
	return stored, nil
}

func (s *presetService) Delete(ctx context.Context, candidateID, itemID string) error {
	if err := s.presets.Delete(ctx, candidateID, itemID); err != nil {
		return err
	}
	s.publisher.Changed(ctx, notify.ResourcePresets)
	return nil
}
