package service

import (
	"context"

	"evalboard/internal/domain"
	"evalboard/internal/notify"
	"evalboard/internal/repository"
	"evalboard/internal/scoring"

	"go.uber.org/zap"
)

// CategoryService manages categories and their items, and renders the
// score-sheet view of the template.
type CategoryService interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error)
	// DeleteCategory removes the category's items first, then the category.
	// The two statements are not atomic; a failure in between leaves
	// orphan-free items gone but the category present, which a retry fixes.
	DeleteCategory(ctx context.Context, categoryID string) error

	ListItems(ctx context.Context, activeOnly bool) ([]*domain.Item, error)
	ListItemsByCategory(ctx context.Context, categoryID string) ([]*domain.Item, error)
	CreateItem(ctx context.Context, it *domain.Item) (*domain.Item, error)
	UpdateItem(ctx context.Context, it *domain.Item) (*domain.Item, error)
	DeleteItem(ctx context.Context, itemID string) error

	ScoreSheet(ctx context.Context) (*scoring.ScoreSheet, error)
}

type categoryService struct {
	categories repository.CategoriesRepository
	items      repository.ItemsRepository
	publisher  *notify.Publisher
	logger     *zap.Logger
}

func NewCategoryService(categories repository.CategoriesRepository, items repository.ItemsRepository, publisher *notify.Publisher, logger *zap.Logger) CategoryService {
	return &categoryService{categories: categories, items: items, publisher: publisher, logger: logger}
}

func (s *categoryService) ListCategories(ctx context.Context, activeOnly bool) ([]*domain.Category, error) {
	return s.categories.ListCategories(ctx, activeOnly)
}

func (s *categoryService) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	id, err := s.categories.CreateCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceCategories)
	return s.categories.GetCategory(ctx, id)
}

func (s *categoryService) UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if err := s.categories.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceCategories)
	return s.categories.GetCategory(ctx, c.CategoryID)
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	removed, err := s.items.DeleteByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("Removed items with category",
			zap.String("category_id", categoryID), zap.Int("items", removed))
	}
	if err := s.categories.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	s.publisher.Changed(ctx, notify.ResourceCategories)
	s.publisher.Changed(ctx, notify.ResourceItems)
	return nil
}

func (s *categoryService) ListItems(ctx context.Context, activeOnly bool) ([]*domain.Item, error) {
	return s.items.ListItems(ctx, activeOnly)
}

func (s *categoryService) ListItemsByCategory(ctx context.Context, categoryID string) ([]*domain.Item, error) {
	return s.items.ListItemsByCategory(ctx, categoryID)
}

func (s *categoryService) CreateItem(ctx context.Context, it *domain.Item) (*domain.Item, error) {
	// Items must hang off an existing category.
	if _, err := s.categories.GetCategory(ctx, it.CategoryID); err != nil {
		return nil, err
	}
	id, err := s.items.CreateItem(ctx, it)
	if err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceItems)
	return s.items.GetItem(ctx, id)
}

func (s *categoryService) UpdateItem(ctx context.Context, it *domain.Item) (*domain.Item, error) {
	if err := s.items.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	s.publisher.Changed(ctx, notify.ResourceItems)
	return s.items.GetItem(ctx, it.ItemID)
}

func (s *categoryService) DeleteItem(ctx context.Context, itemID string) error {
	if err := s.items.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	s.publisher.Changed(ctx, notify.ResourceItems)
	return nil
}

func (s *categoryService) ScoreSheet(ctx context.Context) (*scoring.ScoreSheet, error) {
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

func deref(in []*domain.Category) []domain.Category {
	out := make([]domain.Category, len(in))
	for i, c := range in {
		out[i] = *c
	}
	return out
}

func derefItems(in []*domain.Item) []domain.Item {
	out := make([]domain.Item, len(in))
	for i, it := range in {
		out[i] = *it
	}
	return out
}
