package domain

import "time"

// Evaluator is a committee member who scores candidates.
type Evaluator struct {
	EvaluatorID  string    `json:"evaluator_id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Department   string    `json:"department,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
