package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/catalog_api/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductUpdate describes a partial update. Nil fields are left untouched.
type ProductUpdate struct {
	Name         *string
	Description  *string
	Brand        *string
	Price        *float64
	CategoryID   *string
	Quantity     *int
	CountInStock *int
	Image        *string
}

// Empty reports whether the update carries no fields at all.
func (u *ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Brand == nil &&
		u.Price == nil && u.CategoryID == nil && u.Quantity == nil &&
		u.CountInStock == nil && u.Image == nil
}

// Create inserts a new product and fills in the generated timestamp.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `
        INSERT INTO products (id, name, description, brand, price, category_id, quantity, count_in_stock, image, reviews, num_reviews, rating)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at`

	return r.db.QueryRowxContext(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.Brand,
		p.Price,
		p.CategoryID,
		p.Quantity,
		p.CountInStock,
		p.Image,
		p.Reviews,
		p.NumReviews,
		p.Rating,
	).Scan(&p.CreatedAt)
}

// GetByID returns a single product by id. Returns sql.ErrNoRows when absent.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`

	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies a partial update and returns the updated row.
// Returns sql.ErrNoRows when no product matches id.
func (r *ProductRepository) Update(ctx context.Context, id string, u *ProductUpdate) (*models.Product, error) {
	// Build dynamic SET clause
	set := ""
	args := []interface{}{}
	argIdx := 1

	appendSet := func(column string, value interface{}) {
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", column, argIdx)
		args = append(args, value)
		argIdx++
	}

	if u.Name != nil {
		appendSet("name", *u.Name)
	}
	if u.Description != nil {
		appendSet("description", *u.Description)
	}
	if u.Brand != nil {
		appendSet("brand", *u.Brand)
	}
	if u.Price != nil {
		appendSet("price", *u.Price)
	}
	if u.CategoryID != nil {
		appendSet("category_id", *u.CategoryID)
	}
	if u.Quantity != nil {
		appendSet("quantity", *u.Quantity)
	}
	if u.CountInStock != nil {
		appendSet("count_in_stock", *u.CountInStock)
	}
	if u.Image != nil {
		appendSet("image", *u.Image)
	}

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING *`, set, argIdx)
	args = append(args, id)

	var p models.Product
	if err := r.db.GetContext(ctx, &p, query, args...); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete permanently removes a product and returns the removed row.
// Returns sql.ErrNoRows when no product matches id.
func (r *ProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	const q = `DELETE FROM products WHERE id = $1 RETURNING *`

	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns one page of products in insertion order with the total match
// count. When keyword is non-empty it is matched case-insensitively against
// the product name.
func (r *ProductRepository) List(ctx context.Context, keyword string, page, pageSize int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	const baseWhere = `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM products `+baseWhere, keyword); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM products ` + baseWhere + `
        ORDER BY created_at, id LIMIT $2 OFFSET $3`
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, listQuery, keyword, pageSize, offset); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListWithCategory returns the most recently created products with the
// category reference expanded to the full record. Products with a dangling
// category reference are kept, with an empty category.
func (r *ProductRepository) ListWithCategory(ctx context.Context, limit int) ([]models.ProductWithCategory, error) {
	const q = `
        SELECT p.*,
               COALESCE(c.id::text, '')            AS "category.id",
               COALESCE(c.name, '')                AS "category.name",
               COALESCE(c.created_at, p.created_at) AS "category.created_at",
               COALESCE(c.updated_at, p.created_at) AS "category.updated_at"
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT $1`

	products := []models.ProductWithCategory{}
	if err := r.db.SelectContext(ctx, &products, q, limit); err != nil {
		return nil, err
	}
	return products, nil
}

// ListTop returns up to limit products ordered by rating descending.
func (r *ProductRepository) ListTop(ctx context.Context, limit int) ([]models.Product, error) {
	const q = `SELECT * FROM products ORDER BY rating DESC LIMIT $1`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q, limit); err != nil {
		return nil, err
	}
	return products, nil
}

// ListNewest returns up to limit products ordered by creation recency.
func (r *ProductRepository) ListNewest(ctx context.Context, limit int) ([]models.Product, error) {
	const q = `SELECT * FROM products ORDER BY created_at DESC, id DESC LIMIT $1`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q, limit); err != nil {
		return nil, err
	}
	return products, nil
}

// Filter returns products matching all supplied constraints. An empty
// category list or a range that is not exactly [low, high] leaves that
// dimension unfiltered. No pagination.
func (r *ProductRepository) Filter(ctx context.Context, categoryIDs []string, priceRange []float64) ([]models.Product, error) {
	query := `SELECT * FROM products WHERE 1=1`
	args := []interface{}{}

	if len(categoryIDs) > 0 {
		// Compare as text so malformed checkbox values match nothing
		// instead of failing the uuid cast.
		query += ` AND category_id::text IN (?)`
		args = append(args, categoryIDs)
	}
	if len(priceRange) == 2 {
		query += ` AND price BETWEEN ? AND ?`
		args = append(args, priceRange[0], priceRange[1])
	}
	query += ` ORDER BY created_at, id`

	query, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, query, expanded...); err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateReviews persists the full review sequence together with its derived
// aggregates. Last write wins on the whole sequence.
func (r *ProductRepository) UpdateReviews(ctx context.Context, id string, reviews models.Reviews, numReviews int, rating float64) error {
	const q = `UPDATE products SET reviews = $2, num_reviews = $3, rating = $4 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, q, id, reviews, numReviews, rating)
	return err
}
