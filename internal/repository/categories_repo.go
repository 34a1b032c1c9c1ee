package repository

import (
	"context"

	"evalboard/internal/domain"
)

// CategoriesRepository is the persistence boundary for evaluation categories.
type CategoriesRepository interface {
	GetCategory(ctx context.Context, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) (string, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	// DeleteCategory removes the category row only. Items under it are
	// removed by ItemsRepository.DeleteByCategory in a separate statement;
	// the two are not atomic (known limitation of the write path).
	DeleteCategory(ctx context.Context, categoryID string) error
}

// ItemsRepository is the persistence boundary for evaluation items.
type ItemsRepository interface {
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListItems(ctx context.Context, activeOnly bool) ([]*domain.Item, error)
	ListItemsByCategory(ctx context.Context, categoryID string) ([]*domain.Item, error)
	CreateItem(ctx context.Context, it *domain.Item) (string, error)
	UpdateItem(ctx context.Context, it *domain.Item) error
	DeleteItem(ctx context.Context, itemID string) error
	DeleteByCategory(ctx context.Context, categoryID string) (int, error)
}
