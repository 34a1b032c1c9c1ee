package repository

import (
	"context"
	"database/sql"
	"fmt"

	"evalboard/internal/domain"

	"github.com/google/uuid"
)

// PostgresCategoriesRepository implements CategoriesRepository over raw SQL.
type PostgresCategoriesRepository struct {
	db *sql.DB
}

func NewPostgresCategoriesRepository(db *sql.DB) *PostgresCategoriesRepository {
	return &PostgresCategoriesRepository{db: db}
}

var _ CategoriesRepository = (*PostgresCategoriesRepository)(nil)

func (r *PostgresCategoriesRepository) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	if categoryID == "" {
		return nil, sql.ErrNoRows
	}
	var c domain.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT category_id::text, name, sort_order, is_active
		FROM categories
		WHERE category_id = $1
	`, categoryID).Scan(&c.CategoryID, &c.Name, &c.SortOrder, &c.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (r *PostgresCategoriesRepository) ListCategories(ctx context.Context, activeOnly bool) ([]*domain.Category, error) {
	query := `SELECT category_id::text, name, sort_order, is_active FROM categories`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.SortOrder, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *PostgresCategoriesRepository) CreateCategory(ctx context.Context, c *domain.Category) (string, error) {
	if c.Name == "" {
		return "", fmt.Errorf("name is required")
	}
	if c.CategoryID == "" {
		c.CategoryID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (category_id, name, sort_order, is_active)
		VALUES ($1, $2, $3, $4)
	`, c.CategoryID, c.Name, c.SortOrder, c.IsActive)
	if err != nil {
		return "", fmt.Errorf("failed to create category: %w", err)
	}
	return c.CategoryID, nil
}

func (r *PostgresCategoriesRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $2, sort_order = $3, is_active = $4
		WHERE category_id = $1
	`, c.CategoryID, c.Name, c.SortOrder, c.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *PostgresCategoriesRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category not found: %w", sql.ErrNoRows)
	}
	return nil
}

// PostgresItemsRepository implements ItemsRepository over raw SQL.
type PostgresItemsRepository struct {
	db *sql.DB
}

func NewPostgresItemsRepository(db *sql.DB) *PostgresItemsRepository {
	return &PostgresItemsRepository{db: db}
}

var _ ItemsRepository = (*PostgresItemsRepository)(nil)

const itemColumns = `
	item_id::text,
	category_id::text,
	name,
	COALESCE(description, ''),
	max_score,
	weight,
	is_quantitative,
	has_preset,
	sort_order,
	is_active`

func scanItem(row interface{ Scan(...any) error }) (*domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ItemID,
		&it.CategoryID,
		&it.Name,
		&it.Description,
		&it.MaxScore,
		&it.Weight,
		&it.IsQuantitative,
		&it.HasPreset,
		&it.SortOrder,
		&it.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *PostgresItemsRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	if itemID == "" {
		return nil, sql.ErrNoRows
	}
	query := fmt.Sprintf(`SELECT %s FROM items WHERE item_id = $1`, itemColumns)
	it, err := scanItem(r.db.QueryRowContext(ctx, query, itemID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

func (r *PostgresItemsRepository) ListItems(ctx context.Context, activeOnly bool) ([]*domain.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM items`, itemColumns)
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order, name`
	return r.queryItems(ctx, query)
}

func (r *PostgresItemsRepository) ListItemsByCategory(ctx context.Context, categoryID string) ([]*domain.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE category_id = $1 ORDER BY sort_order, name`, itemColumns)
	return r.queryItems(ctx, query, categoryID)
}

func (r *PostgresItemsRepository) queryItems(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresItemsRepository) CreateItem(ctx context.Context, it *domain.Item) (string, error) {
	if it.Name == "" {
		return "", fmt.Errorf("name is required")
	}
	if it.CategoryID == "" {
		return "", fmt.Errorf("category_id is required")
	}
	if it.MaxScore <= 0 {
		return "", fmt.Errorf("max_score must be positive")
	}
	if it.ItemID == "" {
		it.ItemID = uuid.NewString()
	}
	if it.Weight == 0 {
		it.Weight = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (item_id, category_id, name, description, max_score, weight, is_quantitative, has_preset, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, it.ItemID, it.CategoryID, it.Name, it.Description, it.MaxScore, it.Weight, it.IsQuantitative, it.HasPreset, it.SortOrder, it.IsActive)
	if err != nil {
		return "", fmt.Errorf("failed to create item: %w", err)
	}
	return it.ItemID, nil
}

func (r *PostgresItemsRepository) UpdateItem(ctx context.Context, it *domain.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET category_id = $2,
		    name = $3,
		    description = $4,
		    max_score = $5,
		    weight = $6,
		    is_quantitative = $7,
		    has_preset = $8,
		    sort_order = $9,
		    is_active = $10
		WHERE item_id = $1
	`, it.ItemID, it.CategoryID, it.Name, it.Description, it.MaxScore, it.Weight, it.IsQuantitative, it.HasPreset, it.SortOrder, it.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *PostgresItemsRepository) DeleteItem(ctx context.Context, itemID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *PostgresItemsRepository) DeleteByCategory(ctx context.Context, categoryID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete items by category: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
