package domain

// Item is a single scoring criterion inside a category.
type Item struct {
	ItemID         string  `json:"item_id"`
	CategoryID     string  `json:"category_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	MaxScore       int     `json:"max_score"`
	Weight         float64 `json:"weight"`
	IsQuantitative bool    `json:"is_quantitative"`
	HasPreset      bool    `json:"has_preset"`
	SortOrder      int     `json:"sort_order"`
	IsActive       bool    `json:"is_active"`
}
