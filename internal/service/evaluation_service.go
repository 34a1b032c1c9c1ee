package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"evalboard/internal/domain"
	"evalboard/internal/notify"
	"evalboard/internal/repository"
	"evalboard/internal/scoring"

	"go.uber.org/zap"
)

// EvaluationForm is the payload an evaluator sees for one candidate: the
// score sheet, their saved scores so far and the applied presets (rendered
// read-only client-side).
type EvaluationForm struct {
	Candidate *domain.Candidate    `json:"candidate"`
	Sheet     scoring.ScoreSheet   `json:"sheet"`
	Scores    domain.ItemScores    `json:"scores"`
	Presets   []domain.PresetScore `json:"presets"`
	Status    string               `json:"status"`
}

// CandidateProgress is one row of an evaluator's progress listing.
type CandidateProgress struct {
	Candidate *domain.Candidate `json:"candidate"`
	Status    string            `json:"status"`
}

// EvaluationService handles evaluator-side score entry.
type EvaluationService interface {
	GetForm(ctx context.Context, evaluatorID, candidateID string) (*EvaluationForm, error)
	// SaveTemporary stores the scores without marking completion. Saving
	// twice for the same pair overwrites, never duplicates.
	SaveTemporary(ctx context.Context, evaluatorID, candidateID string, scores domain.ItemScores) (*domain.Submission, error)
	// Complete stores the scores and marks the submission final.
	Complete(ctx context.Context, evaluatorID, candidateID string, scores domain.ItemScores) (*domain.Submission, error)
	// Progress lists every active candidate with this evaluator's status.
	Progress(ctx context.Context, evaluatorID string) ([]CandidateProgress, error)
}

type evaluationService struct {
	candidates  repository.CandidatesRepository
	categories  repository.CategoriesRepository
	items       repository.ItemsRepository
	submissions repository.SubmissionsRepository
	presets     repository.PresetScoresRepository
	sysConfig   repository.SystemConfigRepository
	publisher   *notify.Publisher
	logger      *zap.Logger
}

func NewEvaluationService(
	candidates repository.CandidatesRepository,
	categories repository.CategoriesRepository,
	items repository.ItemsRepository,
	submissions repository.SubmissionsRepository,
	presets repository.PresetScoresRepository,
	sysConfig repository.SystemConfigRepository,
	publisher *notify.Publisher,
	logger *zap.Logger,
) EvaluationService {
	return &evaluationService{
		candidates:  candidates,
		categories:  categories,
		items:       items,
		submissions: submissions,
		presets:     presets,
		sysConfig:   sysConfig,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *evaluationService) GetForm(ctx context.Context, evaluatorID, candidateID string) (*EvaluationForm, error) {
	candidate, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !candidate.IsActive {
		// Inactive candidates are invisible to evaluators.
		return nil, fmt.Errorf("candidate is not available: %w", sql.ErrNoRows)
	}

	categories, err := s.categories.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListItems(ctx, true)
	if err != nil {
		return nil, err
	}
	sheet := scoring.BuildScoreSheet(deref(categories), derefItems(items))

	form := &EvaluationForm{
		Candidate: candidate,
		Sheet:     sheet,
		Scores:    domain.ItemScores{},
		Presets:   []domain.PresetScore{},
	}

	sub, err := s.submissions.GetByEvaluatorAndCandidate(ctx, evaluatorID, candidateID)
	switch {
	case err == nil:
		form.Scores = sub.Scores
		form.Status = scoring.Status(sub)
	case errors.Is(err, sql.ErrNoRows):
		// No submission yet; the form starts blank.
		form.Status = domain.StatusNotStarted
	default:
		return nil, err
	}

	presets, err := s.presets.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	for _, p := range presets {
		if p.ApplyPreset {
			form.Presets = append(form.Presets, *p)
		}
	}
	return form, nil
}

func (s *evaluationService) SaveTemporary(ctx context.Context, evaluatorID, candidateID string, scores domain.ItemScores) (*domain.Submission, error) {
	return s.save(ctx, evaluatorID, candidateID, scores, false)
}

func (s *evaluationService) Complete(ctx context.Context, evaluatorID, candidateID string, scores domain.ItemScores) (*domain.Submission, error) {
	return s.save(ctx, evaluatorID, candidateID, scores, true)
}

func (s *evaluationService) save(ctx context.Context, evaluatorID, candidateID string, scores domain.ItemScores, completed bool) (*domain.Submission, error) {
	if err := s.checkWindow(ctx); err != nil {
		return nil, err
	}
	candidate, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !candidate.IsActive {
		return nil, fmt.Errorf("candidate is not active")
	}

	clamped, err := s.clampToItems(ctx, scores)
	if err != nil {
		return nil, err
	}

	stored, err := s.submissions.Upsert(ctx, &domain.Submission{
		EvaluatorID: evaluatorID,
		CandidateID: candidateID,
		Scores:      clamped,
		IsCompleted: completed,
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceSubmissions)
	return stored, nil
}

// clampToItems bounds every score to its item's max and drops scores for
// unknown item ids, so stored data stays inside the template's bounds no
// matter what the client sent.
func (s *evaluationService) clampToItems(ctx context.Context, scores domain.ItemScores) (domain.ItemScores, error) {
	items, err := s.items.ListItems(ctx, true)
	if err != nil {
		return nil, err
	}
	maxByID := make(map[string]int, len(items))
	for _, it := range items {
		maxByID[it.ItemID] = it.MaxScore
	}
	clamped := domain.ItemScores{}
	for itemID, score := range scores {
		max, ok := maxByID[itemID]
		if !ok {
			s.logger.Warn("Dropping score for unknown item", zap.String("item_id", itemID))
			continue
		}
		clamped[itemID] = scoring.ClampScore(score, max)
	}
	return clamped, nil
}

// checkWindow rejects writes outside the configured evaluation window.
// An unset bound means that side is open.
func (s *evaluationService) checkWindow(ctx context.Context) error {
	cfg, err := s.sysConfig.Get(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	if cfg.EvaluationStart != nil && now.Before(*cfg.EvaluationStart) {
		return fmt.Errorf("evaluation has not started")
	}
	if cfg.EvaluationEnd != nil && now.After(*cfg.EvaluationEnd) {
		return fmt.Errorf("evaluation has ended")
	}
	return nil
}

func (s *evaluationService) Progress(ctx context.Context, evaluatorID string) ([]CandidateProgress, error) {
	candidates, err := s.candidates.ListCandidates(ctx, repository.CandidatesFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.ListByEvaluator(ctx, evaluatorID)
	if err != nil {
		return nil, err
	}
	byCandidate := make(map[string]*domain.Submission, len(subs))
	for _, sub := range subs {
		byCandidate[sub.CandidateID] = sub
	}

	progress := make([]CandidateProgress, 0, len(candidates))
	for _, c := range candidates {
		progress = append(progress, CandidateProgress{
			Candidate: c,
			Status:    scoring.Status(byCandidate[c.CandidateID]),
		})
	}
	return progress, nil
}
