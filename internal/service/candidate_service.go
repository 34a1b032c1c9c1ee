package service

import (
	"context"
	"fmt"

	"evalboard/internal/domain"
	"evalboard/internal/excel"
	"evalboard/internal/notify"
	"evalboard/internal/repository"

	"go.uber.org/zap"
)

// ImportSummary reports the outcome of a bulk Excel upload.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// CandidateService manages the candidate roster.
type CandidateService interface {
	Get(ctx context.Context, candidateID string) (*domain.Candidate, error)
	List(ctx context.Context, filter repository.CandidatesFilter) ([]*domain.Candidate, error)
	Create(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error)
	Update(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error)
	Delete(ctx context.Context, candidateID string) error
	SetActive(ctx context.Context, candidateID string, active bool) (*domain.Candidate, error)
	BulkSetActive(ctx context.Context, candidateIDs []string, active bool) (int, error)
	ImportExcel(ctx context.Context, data []byte) (*ImportSummary, error)
	ExportExcel(ctx context.Context) ([]byte, error)
}

type candidateService struct {
	candidates repository.CandidatesRepository
	publisher  *notify.Publisher
	logger     *zap.Logger
}

func NewCandidateService(candidates repository.CandidatesRepository, publisher *notify.Publisher, logger *zap.Logger) CandidateService {
	return &candidateService{candidates: candidates, publisher: publisher, logger: logger}
}

func (s *candidateService) Get(ctx context.Context, candidateID string) (*domain.Candidate, error) {
	return s.candidates.GetCandidate(ctx, candidateID)
}

func (s *candidateService) List(ctx context.Context, filter repository.CandidatesFilter) ([]*domain.Candidate, error) {
	return s.candidates.ListCandidates(ctx, filter)
}

func (s *candidateService) Create(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error) {
	if c.SortOrder == 0 {
		max, err := s.candidates.MaxSortOrder(ctx)
		if err != nil {
			return nil, err
		}
		c.SortOrder = max + 1
	}
	id, err := s.candidates.CreateCandidate(ctx, c)
	if err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceCandidates)
	return s.candidates.GetCandidate(ctx, id)
}

func (s *candidateService) Update(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error) {
	if err := s.candidates.UpdateCandidate(ctx, c); err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceCandidates)
	return s.candidates.GetCandidate(ctx, c.CandidateID)
}

func (s *candidateService) Delete(ctx context.Context, candidateID string) error {
	if err := s.candidates.DeleteCandidate(ctx, candidateID); err != nil {
		return err
	}
	s.publisher.Changed(ctx, notify.ResourceCandidates)
	return nil
}

func (s *candidateService) SetActive(ctx context.Context, candidateID string, active bool) (*domain.Candidate, error) {
	c, err := s.candidates.SetActive(ctx, candidateID, active)
	if err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceCandidates)
	return c, nil
}

func (s *candidateService) BulkSetActive(ctx context.Context, candidateIDs []string, active bool) (int, error) {
	n, err := s.candidates.BulkSetActive(ctx, candidateIDs, active)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publisher.Changed(ctx, notify.ResourceCandidates)
	}
	return n, nil
}

// ImportExcel appends uploaded rows after the current roster. Rows without
// a name were already dropped by the parser and show up in Skipped.
func (s *candidateService) ImportExcel(ctx context.Context, data []byte) (*ImportSummary, error) {
	parsed, err := excel.ParseCandidateImport(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("import file contains no candidate rows")
	}

	max, err := s.candidates.MaxSortOrder(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	for i, c := range parsed {
		c.SortOrder = max + i + 1
		if _, err := s.candidates.CreateCandidate(ctx, c); err != nil {
			s.logger.Warn("Skipping candidate row on import failure",
				zap.String("name", c.Name), zap.Error(err))
			summary.Skipped++
			continue
		}
		summary.Imported++
	}
	if summary.Imported > 0 {
		s.publisher.Changed(ctx, notify.ResourceCandidates)
	}
	return summary, nil
}

func (s *candidateService) ExportExcel(ctx context.Context) ([]byte, error) {
	candidates, err := s.candidates.ListCandidates(ctx, repository.CandidatesFilter{})
	if err != nil {
		return nil, err
	}
	return excel.GenerateCandidateExport(candidates)
}
