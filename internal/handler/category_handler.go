package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/catalog_api/internal/service"
	"github.com/storelane/catalog_api/internal/utils"
)

// CategoryHandler handles category CRUD HTTP endpoints.
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// categoryRequest is the body for create and update.
type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles POST /v1/categories.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		utils.Error(c, 400, "Name is required")
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(201, category)
}

// ListCategories handles GET /v1/categories.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, categories)
}

// GetCategory handles GET /v1/categories/:id.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, category)
}

// UpdateCategory handles PUT /v1/categories/:id.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		utils.Error(c, 400, "Name is required")
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, category)
}

// DeleteCategory handles DELETE /v1/categories/:id.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	category, err := h.categoryService.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message":  "Category deleted",
		"category": category,
	})
}
