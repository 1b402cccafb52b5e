package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/storelane/catalog_api/internal/cache"
	"github.com/storelane/catalog_api/internal/models"
	"github.com/storelane/catalog_api/internal/repository"
	"github.com/storelane/catalog_api/internal/utils"
)

// Listing limits. The paginated storefront listing always uses pages of 6;
// the carousel and admin endpoints use fixed caps.
const (
	listPageSize     = 6
	adminListLimit   = 12
	topProductsLimit = 4
	newProductsLimit = 5
)

// ProductRepository is the data access surface the product service needs.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id string, u *repository.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, keyword string, page, pageSize int) ([]models.Product, int, error)
	ListWithCategory(ctx context.Context, limit int) ([]models.ProductWithCategory, error)
	ListTop(ctx context.Context, limit int) ([]models.Product, error)
	ListNewest(ctx context.Context, limit int) ([]models.Product, error)
	Filter(ctx context.Context, categoryIDs []string, priceRange []float64) ([]models.Product, error)
	UpdateReviews(ctx context.Context, id string, reviews models.Reviews, numReviews int, rating float64) error
}

// ListCache caches the carousel product lists. May be nil (cache disabled).
type ListCache interface {
	GetProducts(ctx context.Context, key string) ([]models.Product, bool)
	SetProducts(ctx context.Context, key string, products []models.Product) error
	InvalidateLists(ctx context.Context) error
}

// ProductService implements catalog product operations and review
// aggregation.
type ProductService struct {
	repo  ProductRepository
	cache ListCache
}

// NewProductService creates a new ProductService. cache may be nil to run
// without the Redis list cache.
func NewProductService(repo ProductRepository, cache ListCache) *ProductService {
	return &ProductService{repo: repo, cache: cache}
}

// CreateProductInput holds the already-coerced parameters for creating a
// product. Image is the canonical URL produced by image resolution; empty
// means no image could be resolved.
type CreateProductInput struct {
	Name         string
	Description  string
	Brand        string
	Price        float64
	CategoryID   string
	Quantity     int
	CountInStock *int
	Image        string
}

// CreateProduct validates and persists a new product.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*models.Product, error) {
	if input.Name == "" || input.Brand == "" || input.Description == "" || input.CategoryID == "" {
		return nil, utils.ErrValidation
	}
	// The reference only needs to be a well-formed identifier; existence is
	// deliberately not checked here.
	if _, err := uuid.Parse(input.CategoryID); err != nil {
		return nil, utils.ErrInvalidCategory
	}
	if input.Image == "" {
		return nil, utils.ErrMissingImage
	}

	product := &models.Product{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Description:  input.Description,
		Brand:        input.Brand,
		Price:        input.Price,
		CategoryID:   input.CategoryID,
		Quantity:     input.Quantity,
		CountInStock: input.CountInStock,
		Image:        input.Image,
		Reviews:      models.Reviews{},
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	log.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

// UpdateProduct applies a partial update. An update carrying no fields at
// all is rejected.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, update *repository.ProductUpdate) (*models.Product, error) {
	if update.Empty() {
		return nil, utils.ErrEmptyUpdate
	}
	if update.CategoryID != nil {
		if _, err := uuid.Parse(*update.CategoryID); err != nil {
			return nil, utils.ErrInvalidCategory
		}
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrProductNotFound
	}

	product, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	s.invalidateLists(ctx)
	return product, nil
}

// DeleteProduct permanently removes a product and returns the removed record.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrProductNotFound
	}

	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	s.invalidateLists(ctx)
	log.Info().Str("product_id", id).Msg("product deleted")
	return product, nil
}

// GetProduct returns a single product by id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrProductNotFound
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ProductPage is one page of the storefront listing.
type ProductPage struct {
	Products []models.Product `json:"products"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	HasMore  bool             `json:"hasMore"`
}

// ListProducts returns one page of 6 products in insertion order, optionally
// narrowed by a case-insensitive keyword match on the name.
func (s *ProductService) ListProducts(ctx context.Context, page int, keyword string) (*ProductPage, error) {
	if page <= 0 {
		page = 1
	}

	products, total, err := s.repo.List(ctx, keyword, page, listPageSize)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Page:     page,
		Pages:    (total + listPageSize - 1) / listPageSize,
		HasMore:  page*listPageSize < total,
	}, nil
}

// ListAdminProducts returns the 12 most-recently-created products with their
// category reference expanded.
func (s *ProductService) ListAdminProducts(ctx context.Context) ([]models.ProductWithCategory, error) {
	return s.repo.ListWithCategory(ctx, adminListLimit)
}

// TopProducts returns up to 4 products by rating descending, served through
// the list cache when available.
func (s *ProductService) TopProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.GetProducts(ctx, cache.KeyTopProducts); ok {
			return products, nil
		}
	}

	products, err := s.repo.ListTop(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, cache.KeyTopProducts, products); err != nil {
			log.Warn().Err(err).Msg("failed to cache top products")
		}
	}
	return products, nil
}

// NewProducts returns up to 5 products by creation recency descending,
// served through the list cache when available.
func (s *ProductService) NewProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.GetProducts(ctx, cache.KeyNewProducts); ok {
			return products, nil
		}
	}

	products, err := s.repo.ListNewest(ctx, newProductsLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, cache.KeyNewProducts, products); err != nil {
			log.Warn().Err(err).Msg("failed to cache new products")
		}
	}
	return products, nil
}

// FilterProducts returns products matching all supplied constraints:
// category membership when categoryIDs is non-empty, inclusive price range
// when exactly two bounds are supplied. No pagination.
func (s *ProductService) FilterProducts(ctx context.Context, categoryIDs []string, priceRange []float64) ([]models.Product, error) {
	return s.repo.Filter(ctx, categoryIDs, priceRange)
}

// AddReview appends a review to a product and recomputes the derived rating
// aggregates. Each user may review a product at most once. This is a
// read-modify-write on the whole review sequence; concurrent appends are
// last-writer-wins.
func (s *ProductService) AddReview(ctx context.Context, productID, userID, username string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return utils.ErrInvalidRating
	}
	if _, err := uuid.Parse(productID); err != nil {
		return utils.ErrProductNotFound
	}

	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return err
	}

	for _, review := range product.Reviews {
		if review.User == userID {
			return utils.ErrDuplicateReview
		}
	}

	reviews := append(product.Reviews, models.Review{
		Name:    username,
		Rating:  rating,
		Comment: comment,
		User:    userID,
	})

	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	numReviews := len(reviews)
	avg := float64(sum) / float64(numReviews)

	if err := s.repo.UpdateReviews(ctx, productID, reviews, numReviews, avg); err != nil {
		return err
	}

	s.invalidateLists(ctx)
	log.Info().
		Str("product_id", productID).
		Str("user_id", userID).
		Int("num_reviews", numReviews).
		Msg("review added")
	return nil
}

// invalidateLists drops the cached carousel lists after any catalog write.
func (s *ProductService) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateLists(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate product list cache")
	}
}
