package repository

import (
	"context"

	"evalboard/internal/domain"
)

// EvaluatorsRepository is the persistence boundary for evaluator accounts.
type EvaluatorsRepository interface {
	GetEvaluator(ctx context.Context, evaluatorID string) (*domain.Evaluator, error)
	// GetEvaluatorByName resolves a login name (unique).
	GetEvaluatorByName(ctx context.Context, name string) (*domain.Evaluator, error)
	ListEvaluators(ctx context.Context, activeOnly bool) ([]*domain.Evaluator, error)
	CreateEvaluator(ctx context.Context, e *domain.Evaluator) (string, error)
	UpdateEvaluator(ctx context.Context, e *domain.Evaluator) error
	DeleteEvaluator(ctx context.Context, evaluatorID string) error
}

// AdminsRepository is the persistence boundary for admin accounts.
type AdminsRepository interface {
	GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error)
	// UpsertAdmin creates or refreshes an admin login (used by the startup seed).
	UpsertAdmin(ctx context.Context, username, passwordHash string) error
}
