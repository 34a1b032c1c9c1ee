package repository

import (
	"context"

	"evalboard/internal/domain"
)

// CandidatesFilter narrows candidate listings. Zero values mean "no filter".
type CandidatesFilter struct {
	Category    string
	SubCategory string
	Search      string // matches name or department, case-insensitive
	ActiveOnly  bool
}

// CandidatesRepository is the persistence boundary for candidates.
type CandidatesRepository interface {
	GetCandidate(ctx context.Context, candidateID string) (*domain.Candidate, error)
	ListCandidates(ctx context.Context, filter CandidatesFilter) ([]*domain.Candidate, error)
	CreateCandidate(ctx context.Context, c *domain.Candidate) (string, error)
	UpdateCandidate(ctx context.Context, c *domain.Candidate) error
	// SetActive flips a single candidate's active flag and returns the
	// updated row so callers can reconcile caches with authoritative state.
	SetActive(ctx context.Context, candidateID string, active bool) (*domain.Candidate, error)
	// BulkSetActive flips many flags in one statement; returns affected count.
	BulkSetActive(ctx context.Context, candidateIDs []string, active bool) (int, error)
	DeleteCandidate(ctx context.Context, candidateID string) error
	// MaxSortOrder returns the highest sort_order (0 when empty), used to
	// append imported rows after existing ones.
	MaxSortOrder(ctx context.Context) (int, error)
}
