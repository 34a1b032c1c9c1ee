package service

import (
	"context"
	"fmt"
	"strings"

	"evalboard/internal/domain"
	"evalboard/internal/repository"
	"evalboard/internal/session"

	"go.uber.org/zap"
)

// AuthService authenticates admin and evaluator logins.
type AuthService interface {
	AdminLogin(ctx context.Context, username, password string) (*domain.Admin, error)
	EvaluatorLogin(ctx context.Context, name, password string) (*domain.Evaluator, error)
}

type authService struct {
	admins     repository.AdminsRepository
	evaluators repository.EvaluatorsRepository
	logger     *zap.Logger
}

func NewAuthService(admins repository.AdminsRepository, evaluators repository.EvaluatorsRepository, logger *zap.Logger) AuthService {
	return &authService{admins: admins, evaluators: evaluators, logger: logger}
}

// AdminLogin verifies admin credentials. Failures are reported with one
// generic message so the response doesn't reveal which field was wrong.
func (s *authService) AdminLogin(ctx context.Context, username, password string) (*domain.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("missing credentials")
	}

	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("Admin login failed",
			zap.String("username", username),
			zap.String("reason", "unknown_username"),
		)
		return nil, fmt.Errorf("invalid credentials")
	}
	if !session.VerifyPassword(password, admin.PasswordHash) {
		s.logger.Warn("Admin login failed",
			zap.String("username", username),
			zap.String("reason", "wrong_password"),
		)
		return nil, fmt.Errorf("invalid credentials")
	}
	return admin, nil
}

// EvaluatorLogin verifies evaluator credentials; inactive accounts cannot
// log in even with the right password.
func (s *authService) EvaluatorLogin(ctx context.Context, name, password string) (*domain.Evaluator, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, fmt.Errorf("missing credentials")
	}

	evaluator, err := s.evaluators.GetEvaluatorByName(ctx, name)
	if err != nil {
		s.logger.Warn("Evaluator login failed",
			zap.String("name", name),
			zap.String("reason", "unknown_name"),
		)
		return nil, fmt.Errorf("invalid credentials")
	}
	if !evaluator.IsActive {
		s.logger.Warn("Evaluator login failed",
			zap.String("name", name),
			zap.String("reason", "inactive_account"),
		)
		return nil, fmt.Errorf("invalid credentials")
	}
	if !session.VerifyPassword(password, evaluator.PasswordHash) {
		s.logger.Warn("Evaluator login failed",
			zap.String("name", name),
			zap.String("reason", "wrong_password"),
		)
		return nil, fmt.Errorf("invalid credentials")
	}
	return evaluator, nil
}
