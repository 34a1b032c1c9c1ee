package domain

// PresetScore is an admin-assigned override for a (candidate, item) pair.
// When ApplyPreset is true it is authoritative over any evaluator input.
type PresetScore struct {
	PresetID    string `json:"preset_id"`
	CandidateID string `json:"candidate_id"`
	ItemID      string `json:"item_id"`
	Score       int    `json:"score"`
	ApplyPreset bool   `json:"apply_preset"`
}
