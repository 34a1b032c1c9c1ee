package domain

import "time"

// Candidate is an organization or individual being evaluated.
type Candidate struct {
	CandidateID string    `json:"candidate_id"`
	Name        string    `json:"name"`
	Department  string    `json:"department,omitempty"`
	Position    string    `json:"position,omitempty"`
	Category    string    `json:"category,omitempty"`
	SubCategory string    `json:"sub_category,omitempty"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
