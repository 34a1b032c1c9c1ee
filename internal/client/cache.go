package client

import (
	"sort"
	"sync"

	"evalboard/internal/domain"
)

// EntryState tracks an optimistic write's lifecycle for one cached row.
type EntryState string

const (
	StateClean   EntryState = "clean"
	StatePending EntryState = "pending"
	StateFailed  EntryState = "failed"
)

// CandidateEntry is a cached candidate plus its write state.
type CandidateEntry struct {
	Candidate domain.Candidate
	State     EntryState
}

// CandidateCache holds the client-side candidate list, the pending/failed
// marks of in-flight writes, and the user's row selection. Safe for
// concurrent use.
type CandidateCache struct {
	mu        sync.RWMutex
	entries   map[string]*CandidateEntry
	selection map[string]bool
	stale     bool
}

func NewCandidateCache() *CandidateCache {
	return &CandidateCache{
		entries:   make(map[string]*CandidateEntry),
		selection: make(map[string]bool),
	}
}

// Replace swaps the whole cached list for a fresh server read and clears
// the stale flag. Pending/failed marks do not survive a replace.
func (c *CandidateCache) Replace(candidates []*domain.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CandidateEntry, len(candidates))
	for _, cand := range candidates {
		c.entries[cand.CandidateID] = &CandidateEntry{Candidate: *cand, State: StateClean}
	}
	c.stale = false
}

// Write stores one confirmed row and marks it clean.
func (c *CandidateCache) Write(cand *domain.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cand.CandidateID] = &CandidateEntry{Candidate: *cand, State: StateClean}
}

// MarkPending applies an optimistic active-flag flip before the server
// confirms it. Unknown ids are ignored.
func (c *CandidateCache) MarkPending(candidateID string, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[candidateID]
	if !ok {
		return
	}
	e.Candidate.IsActive = active
	e.State = StatePending
}

// MarkFailed flags a row whose optimistic write was rejected. The row keeps
// the optimistic value until the next refresh; the failed mark tells the
// UI to render it as unconfirmed.
func (c *CandidateCache) MarkFailed(candidateID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[candidateID]; ok {
		e.State = StateFailed
	}
}

// Invalidate marks the whole cache stale so the next read goes back to the
// server. Entries stay readable in the meantime.
func (c *CandidateCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
}

func (c *CandidateCache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

// Entries returns the cached rows sorted by sort order then name.
func (c *CandidateCache) Entries() []CandidateEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CandidateEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Candidate, out[j].Candidate
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})
	return out
}

// Get returns one entry by id.
func (c *CandidateCache) Get(candidateID string) (CandidateEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[candidateID]
	if !ok {
		return CandidateEntry{}, false
	}
	return *e, true
}

func (c *CandidateCache) Select(candidateID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection[candidateID] = true
}

func (c *CandidateCache) Deselect(candidateID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selection, candidateID)
}

// Selected returns the selected ids in a stable order.
func (c *CandidateCache) Selected() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.selection))
	for id := range c.selection {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (c *CandidateCache) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = make(map[string]bool)
}
