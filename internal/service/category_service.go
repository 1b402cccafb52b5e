package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/storelane/catalog_api/internal/models"
	"github.com/storelane/catalog_api/internal/utils"
)

// CategoryRepository is the data access surface the category service needs.
type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id, name string) (*models.Category, error)
	Delete(ctx context.Context, id string) (*models.Category, error)
}

// CategoryService implements category CRUD. Name uniqueness is not enforced,
// and deleting a referenced category does not cascade.
type CategoryService struct {
	repo CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CreateCategory persists a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{
		ID:   uuid.New().String(),
		Name: name,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	log.Info().Str("category_id", category.ID).Str("name", name).Msg("category created")
	return category, nil
}

// GetCategory returns a single category by id.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrCategoryNotFound
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

// UpdateCategory renames a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id, name string) (*models.Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrCategoryNotFound
	}

	category, err := s.repo.Update(ctx, id, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Products that reference it keep their
// now-dangling reference.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) (*models.Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrCategoryNotFound
	}

	category, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}

	log.Info().Str("category_id", id).Msg("category deleted")
	return category, nil
}
