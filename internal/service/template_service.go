package service

import (
	"context"
	"encoding/json"
	"fmt"

	"evalboard/internal/domain"
	"evalboard/internal/notify"
	"evalboard/internal/repository"
	"evalboard/internal/scoring"

	"go.uber.org/zap"
)

// TemplateDoc is the portable JSON form of the scoring-form layout.
// Export then import reproduces an equivalent section/item/point structure;
// entity ids are regenerated on import.
type TemplateDoc struct {
	Version  int               `json:"version"`
	Sections []TemplateSection `json:"sections"`
}

type TemplateSection struct {
	CategoryName string         `json:"category_name"`
	SortOrder    int            `json:"sort_order"`
	Items        []TemplateItem `json:"items"`
}

type TemplateItem struct {
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	MaxScore       int     `json:"max_score"`
	Weight         float64 `json:"weight"`
	IsQuantitative bool    `json:"is_quantitative"`
	HasPreset      bool    `json:"has_preset"`
	SortOrder      int     `json:"sort_order"`
}

// TemplateService exports and imports the category/item layout as JSON.
type TemplateService interface {
	ExportJSON(ctx context.Context) ([]byte, error)
	// ImportJSON replaces the current layout with the document's. Existing
	// categories and items are removed first; the delete and the rebuild
	// are not atomic (same limitation as category deletion).
	ImportJSON(ctx context.Context, data []byte) (*scoring.ScoreSheet, error)
}

type templateService struct {
	categories repository.CategoriesRepository
	items      repository.ItemsRepository
	publisher  *notify.Publisher
	logger     *zap.Logger
}

func NewTemplateService(categories repository.CategoriesRepository, items repository.ItemsRepository, publisher *notify.Publisher, logger *zap.Logger) TemplateService {
	return &templateService{categories: categories, items: items, publisher: publisher, logger: logger}
}

func (s *templateService) ExportJSON(ctx context.Context) ([]byte, error) {
	categories, err := s.categories.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListItems(ctx, true)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string][]*domain.Item)
	for _, it := range items {
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it)
	}

	doc := TemplateDoc{Version: 1, Sections: []TemplateSection{}}
	for _, c := range categories {
		section := TemplateSection{
			CategoryName: c.Name,
			SortOrder:    c.SortOrder,
			Items:        []TemplateItem{},
		}
		for _, it := range byCategory[c.CategoryID] {
			section.Items = append(section.Items, TemplateItem{
				Name:           it.Name,
				Description:    it.Description,
				MaxScore:       it.MaxScore,
				Weight:         it.Weight,
				IsQuantitative: it.IsQuantitative,
				HasPreset:      it.HasPreset,
				SortOrder:      it.SortOrder,
			})
		}
		doc.Sections = append(doc.Sections, section)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (s *templateService) ImportJSON(ctx context.Context, data []byte) (*scoring.ScoreSheet, error) {
	var doc TemplateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template document: %w", err)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("template document has no sections")
	}
	for _, section := range doc.Sections {
		if section.CategoryName == "" {
			return nil, fmt.Errorf("template section without a category name")
		}
		for _, it := range section.Items {
			if it.Name == "" || it.MaxScore <= 0 {
				return nil, fmt.Errorf("template item %q is invalid", it.Name)
			}
		}
	}

	// Clear the existing layout.
	existing, err := s.categories.ListCategories(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if _, err := s.items.DeleteByCategory(ctx, c.CategoryID); err != nil {
			return nil, err
		}
		if err := s.categories.DeleteCategory(ctx, c.CategoryID); err != nil {
			return nil, err
		}
	}

	// Rebuild from the document.
	for _, section := range doc.Sections {
		categoryID, err := s.categories.CreateCategory(ctx, &domain.Category{
			Name:      section.CategoryName,
			SortOrder: section.SortOrder,
			IsActive:  true,
		})
		if err != nil {
			return nil, err
		}
		for _, it := range section.Items {
			weight := it.Weight
			if weight == 0 {
				weight = 1
			}
			if _, err := s.items.CreateItem(ctx, &domain.Item{
				CategoryID:     categoryID,
				Name:           it.Name,
				Description:    it.Description,
				MaxScore:       it.MaxScore,
				Weight:         weight,
				IsQuantitative: it.IsQuantitative,
				HasPreset:      it.HasPreset,
				SortOrder:      it.SortOrder,
				IsActive:       true,
			}); err != nil {
				return nil, err
			}
		}
	}
	s.publisher.Changed(ctx, notify.ResourceCategories)
	s.publisher.Changed(ctx, notify.ResourceItems)

	categories, err := s.categories.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListItems(ctx, true)
	if err != nil {
		return nil, err
	}
	sheet := scoring.BuildScoreSheet(deref(categories), derefItems(items))
	return &sheet, nil
}
