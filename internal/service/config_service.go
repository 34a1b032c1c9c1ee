package service

import (
	"context"

	"evalboard/internal/domain"
	"evalboard/internal/notify"
	"evalboard/internal/repository"

	"go.uber.org/zap"
)

// PublicConfig is the unauthenticated view of the system config: display
// fields only, never thresholds or internal flags beyond result visibility.
type PublicConfig struct {
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	EvaluationStart *string `json:"evaluation_start,omitempty"`
	EvaluationEnd   *string `json:"evaluation_end,omitempty"`
	PublicResults   bool    `json:"public_results"`
}

// ConfigService reads and upserts the singleton system config.
type ConfigService interface {
	Get(ctx context.Context) (*domain.SystemConfig, error)
	Upsert(ctx context.Context, cfg *domain.SystemConfig) (*domain.SystemConfig, error)
	Public(ctx context.Context) (*PublicConfig, error)
}

type configService struct {
	sysConfig repository.SystemConfigRepository
	publisher *notify.Publisher
	logger    *zap.Logger
}

func NewConfigService(sysConfig repository.SystemConfigRepository, publisher *notify.Publisher, logger *zap.Logger) ConfigService {
	return &configService{sysConfig: sysConfig, publisher: publisher, logger: logger}
}

func (s *configService) Get(ctx context.Context) (*domain.SystemConfig, error) {
	return s.sysConfig.Get(ctx)
}

func (s *configService) Upsert(ctx context.Context, cfg *domain.SystemConfig) (*domain.SystemConfig, error) {
	stored, err := s.sysConfig.Upsert(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceConfig)
	return stored, nil
}

func (s *configService) Public(ctx context.Context) (*PublicConfig, error) {
	cfg, err := s.sysConfig.Get(ctx)
	if err != nil {
		return nil, err
	}
	pub := &PublicConfig{
		Title:         cfg.Title,
		Description:   cfg.Description,
		PublicResults: cfg.PublicResults,
	}
	if cfg.EvaluationStart != nil {
		v := cfg.EvaluationStart.Format("2006-01-02T15:04:05Z07:00")
		pub.EvaluationStart = &v
	}
	if cfg.EvaluationEnd != nil {
		v := cfg.EvaluationEnd.Format("2006-01-02T15:04:05Z07:00")
		pub.EvaluationEnd = &v
	}
	return pub, nil
}
