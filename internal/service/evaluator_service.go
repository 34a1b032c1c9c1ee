package service

import (
	"context"
	"fmt"

	"evalboard/internal/domain"
	"evalboard/internal/notify"
	"evalboard/internal/repository"
	"evalboard/internal/session"

	"go.uber.org/zap"
)

// EvaluatorService manages evaluator accounts.
type EvaluatorService interface {
	Get(ctx context.Context, evaluatorID string) (*domain.Evaluator, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Evaluator, error)
	// Create hashes the given plaintext password before storing.
	Create(ctx context.Context, e *domain.Evaluator, password string) (*domain.Evaluator, error)
	// Update keeps the stored password unless newPassword is non-empty.
	Update(ctx context.Context, e *domain.Evaluator, newPassword string) (*domain.Evaluator, error)
	Delete(ctx context.Context, evaluatorID string) error
}

type evaluatorService struct {
	evaluators repository.EvaluatorsRepository
	publisher  *notify.Publisher
	logger     *zap.Logger
}

func NewEvaluatorService(evaluators repository.EvaluatorsRepository, publisher *notify.Publisher, logger *zap.Logger) EvaluatorService {
	return &evaluatorService{evaluators: evaluators, publisher: publisher, logger: logger}
}

func (s *evaluatorService) Get(ctx context.Context, evaluatorID string) (*domain.Evaluator, error) {
	return s.evaluators.GetEvaluator(ctx, evaluatorID)
}

func (s *evaluatorService) List(ctx context.Context, activeOnly bool) ([]*domain.Evaluator, error) {
	return s.evaluators.ListEvaluators(ctx, activeOnly)
}

func (s *evaluatorService) Create(ctx context.Context, e *domain.Evaluator, password string) (*domain.Evaluator, error) {
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	e.PasswordHash = session.HashPassword(password)
	id, err := s.evaluators.CreateEvaluator(ctx, e)
	if err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceEvaluators)
	return s.evaluators.GetEvaluator(ctx, id)
}

func (s *evaluatorService) Update(ctx context.Context, e *domain.Evaluator, newPassword string) (*domain.Evaluator, error) {
	current, err := s.evaluators.GetEvaluator(ctx, e.EvaluatorID)
	if err != nil {
		return nil, err
	}
	if newPassword != "" {
		e.PasswordHash = session.HashPassword(newPassword)
	} else {
		e.PasswordHash = current.PasswordHash
	}
	if err := s.evaluators.UpdateEvaluator(ctx, e); err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceEvaluators)
	return s.evaluators.GetEvaluator(ctx, e.EvaluatorID)
}

func (s *evaluatorService) Delete(ctx context.Context, evaluatorID string) error {
	if err := s.evaluators.DeleteEvaluator(ctx, evaluatorID); err != nil {
		return err
	}
	s.publisher.Changed(ctx, notify.ResourceEvaluators)
	return nil
}
