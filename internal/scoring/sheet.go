package scoring

import (
	"sort"

	"evalboard/internal/domain"
)

// SheetItem is one scoring row inside a section.
type SheetItem struct {
	ItemID         string  `json:"item_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	MaxScore       int     `json:"max_score"`
	Weight         float64 `json:"weight"`
	IsQuantitative bool    `json:"is_quantitative"`
	HasPreset      bool    `json:"has_preset"`
}

// SheetSection is one category rendered as a lettered section.
type SheetSection struct {
	Label        string      `json:"label"`
	CategoryID   string      `json:"category_id"`
	CategoryName string      `json:"category_name"`
	Items        []SheetItem `json:"items"`
	Subtotal     int         `json:"subtotal"`
}

// ScoreSheet is the nested sections-with-items structure used for on-screen
// forms and generated documents.
type ScoreSheet struct {
	Sections   []SheetSection `json:"sections"`
	GrandTotal int            `json:"grand_total"`
}

const sectionLabels = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// BuildScoreSheet groups active items under their active categories,
// labels sections A, B, C... in category sort order and computes point
// subtotals. Pure view transform: deterministic for the same input.
func BuildScoreSheet(categories []domain.Category, items []domain.Item) ScoreSheet {
	cats := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if c.IsActive {
			cats = append(cats, c)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].SortOrder != cats[j].SortOrder {
			return cats[i].SortOrder < cats[j].SortOrder
		}
		return cats[i].Name < cats[j].Name
	})

	byCategory := make(map[string][]domain.Item)
	for _, it := range items {
		if it.IsActive {
			byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it)
		}
	}

	sheet := ScoreSheet{Sections: []SheetSection{}}
	for i, c := range cats {
		catItems := byCategory[c.CategoryID]
		sort.SliceStable(catItems, func(a, b int) bool {
			if catItems[a].SortOrder != catItems[b].SortOrder {
				return catItems[a].SortOrder < catItems[b].SortOrder
			}
			return catItems[a].Name < catItems[b].Name
		})

		section := SheetSection{
			Label:        sectionLabel(i),
			CategoryID:   c.CategoryID,
			CategoryName: c.Name,
			Items:        []SheetItem{},
		}
		for _, it := range catItems {
			section.Items = append(section.Items, SheetItem{
				ItemID:         it.ItemID,
				Name:           it.Name,
				Description:    it.Description,
				MaxScore:       it.MaxScore,
				Weight:         it.Weight,
				IsQuantitative: it.IsQuantitative,
				HasPreset:      it.HasPreset,
			})
			section.Subtotal += it.MaxScore
		}
		sheet.GrandTotal += section.Subtotal
		sheet.Sections = append(sheet.Sections, section)
	}
	return sheet
}

func sectionLabel(i int) string {
	if i < len(sectionLabels) {
		return string(sectionLabels[i])
	}
	// 27th section onwards: AA, AB, ...
	return string(sectionLabels[i/len(sectionLabels)-1]) + string(sectionLabels[i%len(sectionLabels)])
}
