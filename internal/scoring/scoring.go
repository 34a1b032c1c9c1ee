// Package scoring is the single source of truth for score aggregation.
// Both the admin results endpoint and the export path call into it, so the
// numbers on screen and in generated reports cannot drift apart.
package scoring

import (
	"math"
	"sort"

	"evalboard/internal/domain"
)

// CandidateResult is the aggregate for one candidate across all evaluators.
type CandidateResult struct {
	CandidateID    string  `json:"candidate_id"`
	Name           string  `json:"name"`
	Department     string  `json:"department,omitempty"`
	TotalScore     int     `json:"total_score"`
	AverageScore   float64 `json:"average_score"`
	MaxPossible    int     `json:"max_possible"`
	Percentage     float64 `json:"percentage"`
	EvaluatorCount int     `json:"evaluator_count"`
	CompletedCount int     `json:"completed_count"`
	Rank           int     `json:"rank"`
}

// TieGroup lists candidates whose percentage (rounded to one decimal) is
// identical. Grouping is for reporting only; it never renumbers ranks.
type TieGroup struct {
	Percentage   float64  `json:"percentage"`
	CandidateIDs []string `json:"candidate_ids"`
}

// EffectiveScore resolves the score used for one item: an applied preset
// wins over the evaluator-entered value, and an absent score counts as 0.
func EffectiveScore(itemID string, entered domain.ItemScores, presets map[string]domain.PresetScore) int {
	if p, ok := presets[itemID]; ok && p.ApplyPreset {
		return p.Score
	}
	return entered[itemID]
}

// EvaluatorTotal sums effective scores over the given items for one
// submission.
func EvaluatorTotal(sub domain.Submission, items []domain.Item, presets map[string]domain.PresetScore) int {
	total := 0
	for _, it := range items {
		total += EffectiveScore(it.ItemID, sub.Scores, presets)
	}
	return total
}

// MaxPossible is the sum of item max scores. It depends only on the
// template, never on who evaluated.
func MaxPossible(items []domain.Item) int {
	total := 0
	for _, it := range items {
		total += it.MaxScore
	}
	return total
}

// PresetsByItem indexes a candidate's preset rows by item id.
func PresetsByItem(presets []domain.PresetScore) map[string]domain.PresetScore {
	m := make(map[string]domain.PresetScore, len(presets))
	for _, p := range presets {
		m[p.ItemID] = p
	}
	return m
}

// Status classifies one submission for UI listings.
func Status(sub *domain.Submission) string {
	switch {
	case sub == nil || len(sub.Scores) == 0 && !sub.IsCompleted:
		return domain.StatusNotStarted
	case sub.IsCompleted:
		return domain.StatusCompleted
	default:
		return domain.StatusInProgress
	}
}

// Aggregate combines every evaluator's submissions into one ranked result
// per candidate. Only completed submissions count toward totals; in-progress
// ones are reflected in EvaluatorCount but not CompletedCount. Missing data
// never errors: absent scores are 0 and absent presets are ignored.
func Aggregate(
	candidates []domain.Candidate,
	items []domain.Item,
	submissions []domain.Submission,
	presets []domain.PresetScore,
) []CandidateResult {
	maxPossible := MaxPossible(items)

	subsByCandidate := make(map[string][]domain.Submission)
	for _, s := range submissions {
		subsByCandidate[s.CandidateID] = append(subsByCandidate[s.CandidateID], s)
	}
	presetsByCandidate := make(map[string][]domain.PresetScore)
	for _, p := range presets {
		presetsByCandidate[p.CandidateID] = append(presetsByCandidate[p.CandidateID], p)
	}

	results := make([]CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		r := CandidateResult{
			CandidateID: c.CandidateID,
			Name:        c.Name,
			Department:  c.Department,
			MaxPossible: maxPossible,
		}
		presetIdx := PresetsByItem(presetsByCandidate[c.CandidateID])
		for _, sub := range subsByCandidate[c.CandidateID] {
			r.EvaluatorCount++
			if !sub.IsCompleted {
				continue
			}
			r.CompletedCount++
			r.TotalScore += EvaluatorTotal(sub, items, presetIdx)
		}
		if r.CompletedCount > 0 && maxPossible > 0 {
			r.AverageScore = float64(r.TotalScore) / float64(r.CompletedCount)
			r.Percentage = r.AverageScore / float64(maxPossible) * 100
		}
		results = append(results, r)
	}

	// Rank by descending percentage; ties stay sequential. The tiebreak on
	// the candidate's sort order keeps ranking deterministic across runs.
	order := make(map[string]int, len(candidates))
	for _, c := range candidates {
		order[c.CandidateID] = c.SortOrder
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Percentage != results[j].Percentage {
			return results[i].Percentage > results[j].Percentage
		}
		if order[results[i].CandidateID] != order[results[j].CandidateID] {
			return order[results[i].CandidateID] < order[results[j].CandidateID]
		}
		return results[i].Name < results[j].Name
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// RoundPercent rounds to one decimal, the granularity used for tie
// detection and display.
func RoundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}

// TieGroups collects candidates whose rounded percentage coincides.
// Groups with a single member are dropped.
func TieGroups(results []CandidateResult) []TieGroup {
	byPct := make(map[float64][]string)
	orderedPcts := []float64{}
	for _, r := range results {
		pct := RoundPercent(r.Percentage)
		if _, seen := byPct[pct]; !seen {
			orderedPcts = append(orderedPcts, pct)
		}
		byPct[pct] = append(byPct[pct], r.CandidateID)
	}
	groups := []TieGroup{}
	for _, pct := range orderedPcts {
		if ids := byPct[pct]; len(ids) > 1 {
			groups = append(groups, TieGroup{Percentage: pct, CandidateIDs: ids})
		}
	}
	return groups
}

// Partition splits ranked results at the pass threshold (percentage at or
// above the threshold passes).
func Partition(results []CandidateResult, thresholdPercent float64) (passed, failed []CandidateResult) {
	passed = []CandidateResult{}
	failed = []CandidateResult{}
	for _, r := range results {
		if r.Percentage >= thresholdPercent {
			passed = append(passed, r)
		} else {
			failed = append(failed, r)
		}
	}
	return passed, failed
}

// ClampScore bounds an entered score to [0, maxScore].
func ClampScore(score, maxScore int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
