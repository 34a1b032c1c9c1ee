package domain

// Category groups evaluation items, e.g. "기관수행능력".
type Category struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sort_order"`
	IsActive   bool   `json:"is_active"`
}
