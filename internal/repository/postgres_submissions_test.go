package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"evalboard/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func submissionRows(t *testing.T, s *domain.Submission) *sqlmock.Rows {
	t.Helper()
	raw, err := json.Marshal(s.Scores)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{
		"submission_id", "evaluator_id", "candidate_id", "scores", "is_completed", "updated_at",
	}).AddRow(s.SubmissionID, s.EvaluatorID, s.CandidateID, raw, s.IsCompleted, time.Now())
}

func TestUpsertSubmissionInsert(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSubmissionsRepository(db)
	sub := &domain.Submission{
		EvaluatorID: "ev-1",
		CandidateID: "ca-1",
		Scores:      domain.ItemScores{"item-1": 18, "item-2": 4},
		IsCompleted: false,
	}

	mock.ExpectQuery(`INSERT INTO submissions`).
		WithArgs(sqlmock.AnyArg(), "ev-1", "ca-1", sqlmock.AnyArg(), false).
		WillReturnRows(submissionRows(t, &domain.Submission{
			SubmissionID: "su-1",
			EvaluatorID:  "ev-1",
			CandidateID:  "ca-1",
			Scores:       sub.Scores,
			IsCompleted:  false,
		}))

	stored, err := repo.Upsert(context.Background(), sub)
	require.NoError(t, err)
	require.Equal(t, "su-1", stored.SubmissionID)
	require.Equal(t, 18, stored.Scores["item-1"])
	require.False(t, stored.IsCompleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A second save for the same (evaluator, candidate) pair resolves to the
// same stored row: the ON CONFLICT target makes the operation idempotent.
func TestUpsertSubmissionConflictUpdates(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSubmissionsRepository(db)

	first := &domain.Submission{
		EvaluatorID: "ev-1",
		CandidateID: "ca-1",
		Scores:      domain.ItemScores{"item-1": 10},
	}
	mock.ExpectQuery(`INSERT INTO submissions`).
		WithArgs(sqlmock.AnyArg(), "ev-1", "ca-1", sqlmock.AnyArg(), false).
		WillReturnRows(submissionRows(t, &domain.Submission{
			SubmissionID: "su-1",
			EvaluatorID:  "ev-1",
			CandidateID:  "ca-1",
			Scores:       first.Scores,
		}))

	stored, err := repo.Upsert(context.Background(), first)
	require.NoError(t, err)

	second := &domain.Submission{
		EvaluatorID: "ev-1",
		CandidateID: "ca-1",
		Scores:      domain.ItemScores{"item-1": 15},
		IsCompleted: true,
	}
	mock.ExpectQuery(`INSERT INTO submissions`).
		WithArgs(sqlmock.AnyArg(), "ev-1", "ca-1", sqlmock.AnyArg(), true).
		WillReturnRows(submissionRows(t, &domain.Submission{
			SubmissionID: stored.SubmissionID,
			EvaluatorID:  "ev-1",
			CandidateID:  "ca-1",
			Scores:       second.Scores,
			IsCompleted:  true,
		}))

	updated, err := repo.Upsert(context.Background(), second)
	require.NoError(t, err)
	require.Equal(t, stored.SubmissionID, updated.SubmissionID)
	require.Equal(t, 15, updated.Scores["item-1"])
	require.True(t, updated.IsCompleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSubmissionRequiresIDs(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSubmissionsRepository(db)
	_, err = repo.Upsert(context.Background(), &domain.Submission{CandidateID: "ca-1"})
	require.Error(t, err)
}

func TestGetSubmissionDecodesScores(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSubmissionsRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM submissions`).
		WithArgs("ev-1", "ca-1").
		WillReturnRows(submissionRows(t, &domain.Submission{
			SubmissionID: "su-1",
			EvaluatorID:  "ev-1",
			CandidateID:  "ca-1",
			Scores:       domain.ItemScores{"item-1": 7},
			IsCompleted:  true,
		}))

	s, err := repo.GetByEvaluatorAndCandidate(context.Background(), "ev-1", "ca-1")
	require.NoError(t, err)
	require.Equal(t, 7, s.Scores["item-1"])
	require.True(t, s.IsCompleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllSubmissions(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSubmissionsRepository(db)

	rows := sqlmock.NewRows([]string{
		"submission_id", "evaluator_id", "candidate_id", "scores", "is_completed", "updated_at",
	}).
		AddRow("su-1", "ev-1", "ca-1", []byte(`{"item-1":5}`), true, time.Now()).
		AddRow("su-2", "ev-2", "ca-1", []byte(`{}`), false, time.Now())

	mock.ExpectQuery(`SELECT .+ FROM submissions ORDER BY updated_at DESC`).WillReturnRows(rows)

	subs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.Equal(t, 5, subs[0].Scores["item-1"])
	require.Empty(t, subs[1].Scores)
	require.NoError(t, mock.ExpectationsWereMet())
}
