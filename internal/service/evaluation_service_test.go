package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"evalboard/internal/domain"
	"evalboard/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCandidatesRepo struct {
	repository.CandidatesRepository
	candidate *domain.Candidate
}

func (f *stubCandidatesRepo) GetCandidate(_ context.Context, candidateID string) (*domain.Candidate, error) {
	if f.candidate == nil || f.candidate.CandidateID != candidateID {
		return nil, fmt.Errorf("candidate not found")
	}
	cp := *f.candidate
	return &cp, nil
}

type stubSubmissionsRepo struct {
	repository.SubmissionsRepository
	sub *domain.Submission
	err error
}

func (f *stubSubmissionsRepo) GetByEvaluatorAndCandidate(_ context.Context, _, _ string) (*domain.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.sub
	return &cp, nil
}

type stubPresetsRepo struct {
	repository.PresetScoresRepository
	presets []*domain.PresetScore
}

func (f *stubPresetsRepo) ListByCandidate(_ context.Context, _ string) ([]*domain.PresetScore, error) {
	return f.presets, nil
}

func newFormService(t *testing.T, subs repository.SubmissionsRepository) EvaluationService {
	t.Helper()
	categories := newFakeCategoriesRepo()
	items := newFakeItemsRepo()
	seedLayout(t, categories, items)

	candidates := &stubCandidatesRepo{candidate: &domain.Candidate{
		CandidateID: "ca-1", Name: "한국복지재단", IsActive: true,
	}}
	return NewEvaluationService(candidates, categories, items, subs, &stubPresetsRepo{}, nil, nil, zap.NewNop())
}

func TestGetFormBlankWhenNoSubmission(t *testing.T) {
	svc := newFormService(t, &stubSubmissionsRepo{
		err: fmt.Errorf("submission not found: %w", sql.ErrNoRows),
	})

	form, err := svc.GetForm(context.Background(), "ev-1", "ca-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusNotStarted, form.Status)
	require.Empty(t, form.Scores)
	require.Equal(t, 45, form.Sheet.GrandTotal)
}

// A failing submissions read must surface as an error, not as an empty
// form that hides previously saved scores.
func TestGetFormPropagatesReadFailure(t *testing.T) {
	svc := newFormService(t, &stubSubmissionsRepo{
		err: fmt.Errorf("failed to get submission: connection refused"),
	})

	_, err := svc.GetForm(context.Background(), "ev-1", "ca-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
}

func TestGetFormReturnsSavedScores(t *testing.T) {
	svc := newFormService(t, &stubSubmissionsRepo{
		sub: &domain.Submission{
			SubmissionID: "su-1",
			EvaluatorID:  "ev-1",
			CandidateID:  "ca-1",
			Scores:       domain.ItemScores{"item-1": 17},
			IsCompleted:  false,
		},
	})

	form, err := svc.GetForm(context.Background(), "ev-1", "ca-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, form.Status)
	require.Equal(t, 17, form.Scores["item-1"])
}
