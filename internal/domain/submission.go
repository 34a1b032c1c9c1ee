package domain

import "time"

// ItemScores maps item_id to the score the evaluator entered.
type ItemScores map[string]int

// Submission is one evaluator's score sheet for one candidate.
// At most one live row exists per (evaluator, candidate) pair; saves
// overwrite rather than duplicate.
type Submission struct {
	SubmissionID string     `json:"submission_id"`
	EvaluatorID  string     `json:"evaluator_id"`
	CandidateID  string     `json:"candidate_id"`
	Scores       ItemScores `json:"scores"`
	IsCompleted  bool       `json:"is_completed"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Evaluation status values as exposed to the UI.
const (
	StatusNotStarted = "notStarted"
	StatusInProgress = "inProgress"
	StatusCompleted  = "completed"
)
