package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"evalboard/internal/domain"

	"github.com/google/uuid"
)

// PostgresSubmissionsRepository implements SubmissionsRepository over raw SQL.
type PostgresSubmissionsRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionsRepository(db *sql.DB) *PostgresSubmissionsRepository {
	return &PostgresSubmissionsRepository{db: db}
}

var _ SubmissionsRepository = (*PostgresSubmissionsRepository)(nil)

const submissionColumns = `
	submission_id::text,
	evaluator_id::text,
	candidate_id::text,
	scores,
	is_completed,
	updated_at`

func scanSubmission(row interface{ Scan(...any) error }) (*domain.Submission, error) {
	var s domain.Submission
	var rawScores []byte
	err := row.Scan(
		&s.SubmissionID,
		&s.EvaluatorID,
		&s.CandidateID,
		&rawScores,
		&s.IsCompleted,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Scores = domain.ItemScores{}
	if len(rawScores) > 0 {
		if err := json.Unmarshal(rawScores, &s.Scores); err != nil {
			return nil, fmt.Errorf("failed to decode scores: %w", err)
		}
	}
	return &s, nil
}

func (r *PostgresSubmissionsRepository) Upsert(ctx context.Context, s *domain.Submission) (*domain.Submission, error) {
	if s.EvaluatorID == "" || s.CandidateID == "" {
		return nil, fmt.Errorf("evaluator_id and candidate_id are required")
	}
	if s.SubmissionID == "" {
		s.SubmissionID = uuid.NewString()
	}
	if s.Scores == nil {
		s.Scores = domain.ItemScores{}
	}
	rawScores, err := json.Marshal(s.Scores)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scores: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO submissions (submission_id, evaluator_id, candidate_id, scores, is_completed, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (evaluator_id, candidate_id)
		DO UPDATE SET scores = EXCLUDED.scores,
		              is_completed = EXCLUDED.is_completed,
		              updated_at = NOW()
		RETURNING %s
	`, submissionColumns)

	stored, err := scanSubmission(r.db.QueryRowContext(ctx, query,
		s.SubmissionID, s.EvaluatorID, s.CandidateID, rawScores, s.IsCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert submission: %w", err)
	}
	return stored, nil
}

func (r *PostgresSubmissionsRepository) GetByEvaluatorAndCandidate(ctx context.Context, evaluatorID, candidateID string) (*domain.Submission, error) {
	if evaluatorID == "" || candidateID == "" {
		return nil, sql.ErrNoRows
	}
	query := fmt.Sprintf(`
		SELECT %s FROM submissions
		WHERE evaluator_id = $1 AND candidate_id = $2
	`, submissionColumns)
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, evaluatorID, candidateID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("submission not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

func (r *PostgresSubmissionsRepository) ListByEvaluator(ctx context.Context, evaluatorID string) ([]*domain.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE evaluator_id = $1 ORDER BY updated_at DESC`, submissionColumns)
	return r.querySubmissions(ctx, query, evaluatorID)
}

func (r *PostgresSubmissionsRepository) ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE candidate_id = $1 ORDER BY updated_at DESC`, submissionColumns)
	return r.querySubmissions(ctx, query, candidateID)
}

func (r *PostgresSubmissionsRepository) ListAll(ctx context.Context) ([]*domain.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions ORDER BY updated_at DESC`, submissionColumns)
	return r.querySubmissions(ctx, query)
}

func (r *PostgresSubmissionsRepository) querySubmissions(ctx context.Context, query string, args ...any) ([]*domain.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := []*domain.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}
