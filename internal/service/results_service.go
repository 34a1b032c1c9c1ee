package service

import (
	"context"

	"evalboard/internal/domain"
	"evalboard/internal/excel"
	"evalboard/internal/repository"
	"evalboard/internal/scoring"

	"go.uber.org/zap"
)

// ResultsPayload is the full aggregate view the admin results page renders.
type ResultsPayload struct {
	Results          []scoring.CandidateResult `json:"results"`
	TieGroups        []scoring.TieGroup        `json:"tie_groups"`
	Passed           []scoring.CandidateResult `json:"passed"`
	Failed           []scoring.CandidateResult `json:"failed"`
	ThresholdPercent float64                   `json:"threshold_percent"`
	MaxPossible      int                       `json:"max_possible"`
	EvaluatorTotal   int                       `json:"evaluator_total"`
}

// ResultsService builds ranked results and their Excel export. Both paths
// run through scoring.Aggregate, so screen and report cannot disagree.
type ResultsService interface {
	Results(ctx context.Context) (*ResultsPayload, error)
	ExportExcel(ctx context.Context) ([]byte, error)
}

type resultsService struct {
	candidates  repository.CandidatesRepository
	evaluators  repository.EvaluatorsRepository
	items       repository.ItemsRepository
	submissions repository.SubmissionsRepository
	presets     repository.PresetScoresRepository
	sysConfig   repository.SystemConfigRepository
	logger      *zap.Logger
}

func NewResultsService(
	candidates repository.CandidatesRepository,
	evaluators repository.EvaluatorsRepository,
	items repository.ItemsRepository,
	submissions repository.SubmissionsRepository,
	presets repository.PresetScoresRepository,
	sysConfig repository.SystemConfigRepository,
	logger *zap.Logger,
) ResultsService {
	return &resultsService{
		candidates:  candidates,
		evaluators:  evaluators,
		items:       items,
		submissions: submissions,
		presets:     presets,
		sysConfig:   sysConfig,
		logger:      logger,
	}
}

func (s *resultsService) Results(ctx context.Context) (*ResultsPayload, error) {
	candidates, err := s.candidates.ListCandidates(ctx, repository.CandidatesFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListItems(ctx, true)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	presets, err := s.presets.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.sysConfig.Get(ctx)
	if err != nil {
		return nil, err
	}
	activeEvaluators, err := s.evaluators.ListEvaluators(ctx, true)
	if err != nil {
		return nil, err
	}

	results := scoring.Aggregate(
		derefCandidates(candidates),
		derefItems(items),
		derefSubmissions(submissions),
		derefPresets(presets),
	)
	passed, failed := scoring.Partition(results, cfg.PassThresholdPercent)

	payload := &ResultsPayload{
		Results:          results,
		TieGroups:        scoring.TieGroups(results),
		Passed:           passed,
		Failed:           failed,
		ThresholdPercent: cfg.PassThresholdPercent,
		MaxPossible:      scoring.MaxPossible(derefItems(items)),
		EvaluatorTotal:   len(activeEvaluators),
	}
	return payload, nil
}

func (s *resultsService) ExportExcel(ctx context.Context) ([]byte, error) {
	payload, err := s.Results(ctx)
	if err != nil {
		return nil, err
	}
	return excel.GenerateResultsExport(payload.Results, payload.ThresholdPercent)
}

func derefCandidates(in []*domain.Candidate) []domain.Candidate {
	out := make([]domain.Candidate, len(in))
	for i, c := range in {
		out[i] = *c
	}
	return out
}

func derefSubmissions(in []*domain.Submission) []domain.Submission {
	out := make([]domain.Submission, len(in))
	for i, s := range in {
		out[i] = *s
	}
	return out
}

func derefPresets(in []*domain.PresetScore) []domain.PresetScore {
	out := make([]domain.PresetScore, len(in))
	for i, p := range in {
		out[i] = *p
	}
	return out
}
