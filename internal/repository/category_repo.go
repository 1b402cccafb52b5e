package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/catalog_api/internal/models"
)

// CategoryRepository handles data access for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category and fills in the generated timestamps.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	const q = `
        INSERT INTO categories (id, name)
        VALUES ($1, $2)
        RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q, c.ID, c.Name).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns a single category by id. Returns sql.ErrNoRows when absent.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	const q = `SELECT * FROM categories WHERE id = $1 LIMIT 1`

	var c models.Category
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories, oldest first.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	const q = `SELECT * FROM categories ORDER BY created_at, id`

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}

// Update renames a category and returns the updated row.
// Returns sql.ErrNoRows when no category matches id.
func (r *CategoryRepository) Update(ctx context.Context, id, name string) (*models.Category, error) {
	const q = `UPDATE categories SET name = $2, updated_at = NOW() WHERE id = $1 RETURNING *`

	var c models.Category
	if err := r.db.GetContext(ctx, &c, q, id, name); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a category and returns the removed row. Products that still
// reference it keep their dangling reference.
// Returns sql.ErrNoRows when no category matches id.
func (r *CategoryRepository) Delete(ctx context.Context, id string) (*models.Category, error) {
	const q = `DELETE FROM categories WHERE id = $1 RETURNING *`

	var c models.Category
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}
