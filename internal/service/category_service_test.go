package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/catalog_api/internal/models"
	"github.com/storelane/catalog_api/internal/utils"
)

type stubCategoryRepo struct {
	createFn  func(ctx context.Context, c *models.Category) error
	getByIDFn func(ctx context.Context, id string) (*models.Category, error)
	listFn    func(ctx context.Context) ([]models.Category, error)
	updateFn  func(ctx context.Context, id, name string) (*models.Category, error)
	deleteFn  func(ctx context.Context, id string) (*models.Category, error)
}

func (s *stubCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	if s.createFn != nil {
		return s.createFn(ctx, c)
	}
	return nil
}

func (s *stubCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubCategoryRepo) Update(ctx context.Context, id, name string) (*models.Category, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, name)
	}
	return nil, sql.ErrNoRows
}

func (s *stubCategoryRepo) Delete(ctx context.Context, id string) (*models.Category, error) {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func TestCreateCategory(t *testing.T) {
	var stored *models.Category
	repo := &stubCategoryRepo{
		createFn: func(ctx context.Context, c *models.Category) error {
			stored = c
			return nil
		},
	}
	svc := NewCategoryService(repo)

	category, err := svc.CreateCategory(context.Background(), "Electronics")
	require.NoError(t, err)
	require.NotNil(t, stored)

	_, err = uuid.Parse(category.ID)
	assert.NoError(t, err, "generated id should be a uuid")
	assert.Equal(t, "Electronics", category.Name)
}

func TestGetCategory(t *testing.T) {
	t.Run("malformed id reads as not found", func(t *testing.T) {
		svc := NewCategoryService(&stubCategoryRepo{})
		_, err := svc.GetCategory(context.Background(), "abc")
		assert.ErrorIs(t, err, utils.ErrCategoryNotFound)
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		svc := NewCategoryService(&stubCategoryRepo{})
		_, err := svc.GetCategory(context.Background(), uuid.New().String())
		assert.ErrorIs(t, err, utils.ErrCategoryNotFound)
	})

	t.Run("returns the category", func(t *testing.T) {
		repo := &stubCategoryRepo{
			getByIDFn: func(ctx context.Context, id string) (*models.Category, error) {
				return &models.Category{ID: id, Name: "Books"}, nil
			},
		}
		svc := NewCategoryService(repo)

		category, err := svc.GetCategory(context.Background(), uuid.New().String())
		require.NoError(t, err)
		assert.Equal(t, "Books", category.Name)
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("renames and returns the category", func(t *testing.T) {
		repo := &stubCategoryRepo{
			updateFn: func(ctx context.Context, id, name string) (*models.Category, error) {
				return &models.Category{ID: id, Name: name}, nil
			},
		}
		svc := NewCategoryService(repo)

		category, err := svc.UpdateCategory(context.Background(), uuid.New().String(), "Outdoors")
		require.NoError(t, err)
		assert.Equal(t, "Outdoors", category.Name)
	})

	t.Run("missing category reads as not found", func(t *testing.T) {
		svc := NewCategoryService(&stubCategoryRepo{})
		_, err := svc.UpdateCategory(context.Background(), uuid.New().String(), "Outdoors")
		assert.ErrorIs(t, err, utils.ErrCategoryNotFound)
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("returns the removed category", func(t *testing.T) {
		repo := &stubCategoryRepo{
			deleteFn: func(ctx context.Context, id string) (*models.Category, error) {
				return &models.Category{ID: id, Name: "Books"}, nil
			},
		}
		svc := NewCategoryService(repo)

		category, err := svc.DeleteCategory(context.Background(), uuid.New().String())
		require.NoError(t, err)
		assert.Equal(t, "Books", category.Name)
	})

	t.Run("missing category reads as not found", func(t *testing.T) {
		svc := NewCategoryService(&stubCategoryRepo{})
		_, err := svc.DeleteCategory(context.Background(), uuid.New().String())
		assert.ErrorIs(t, err, utils.ErrCategoryNotFound)
	})
}
