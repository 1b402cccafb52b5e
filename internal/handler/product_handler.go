package handler

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/storelane/catalog_api/internal/repository"
	"github.com/storelane/catalog_api/internal/service"
	"github.com/storelane/catalog_api/internal/utils"
)

// ProductHandler handles catalog product HTTP endpoints.
type ProductHandler struct {
	productService *service.ProductService
	imageResolver  *service.ImageResolver
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService, imageResolver *service.ImageResolver) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		imageResolver:  imageResolver,
	}
}

// CreateProduct handles POST /v1/products (multipart).
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	name := c.PostForm("name")
	brand := c.PostForm("brand")
	description := c.PostForm("description")
	priceStr := c.PostForm("price")
	category := c.PostForm("category")
	quantityStr := c.PostForm("quantity")

	if name == "" || brand == "" || description == "" || priceStr == "" || category == "" || quantityStr == "" {
		utils.Error(c, 400, utils.ErrValidation.Error())
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		utils.Error(c, 400, "Invalid price")
		return
	}
	quantity, err := strconv.Atoi(quantityStr)
	if err != nil || quantity < 0 {
		utils.Error(c, 400, "Invalid quantity")
		return
	}

	var countInStock *int
	if v, ok := c.GetPostForm("countInStock"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.Error(c, 400, "Invalid countInStock")
			return
		}
		countInStock = &n
	}

	imageInput, err := extractImageInput(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to stage uploaded image")
		utils.Error(c, 500, "Internal server error")
		return
	}

	imageURL, err := h.imageResolver.Resolve(c.Request.Context(), imageInput)
	if err != nil {
		log.Error().Err(err).Msg("image resolution failed")
		utils.Error(c, 500, "Internal server error")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		Name:         name,
		Description:  description,
		Brand:        brand,
		Price:        price,
		CategoryID:   category,
		Quantity:     quantity,
		CountInStock: countInStock,
		Image:        imageURL,
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(201, product)
}

// UpdateProduct handles PUT /v1/products/:id (partial multipart).
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	update := &repository.ProductUpdate{}

	if v, ok := c.GetPostForm("name"); ok {
		update.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		update.Description = &v
	}
	if v, ok := c.GetPostForm("brand"); ok {
		update.Brand = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		update.CategoryID = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			utils.Error(c, 400, "Invalid price")
			return
		}
		update.Price = &price
	}
	if v, ok := c.GetPostForm("quantity"); ok {
		quantity, err := strconv.Atoi(v)
		if err != nil || quantity < 0 {
			utils.Error(c, 400, "Invalid quantity")
			return
		}
		update.Quantity = &quantity
	}
	if v, ok := c.GetPostForm("countInStock"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.Error(c, 400, "Invalid countInStock")
			return
		}
		update.CountInStock = &n
	}

	imageInput, err := extractImageInput(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to stage uploaded image")
		utils.Error(c, 500, "Internal server error")
		return
	}
	if imageInput != nil {
		imageURL, err := h.imageResolver.Resolve(c.Request.Context(), imageInput)
		if err != nil {
			log.Error().Err(err).Msg("image resolution failed")
			utils.Error(c, 500, "Internal server error")
			return
		}
		update.Image = &imageURL
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, product)
}

// DeleteProduct handles DELETE /v1/products/:id.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	product, err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message": "Product deleted",
		"product": product,
	})
}

// ListProducts handles GET /v1/products?pageNumber=&keyword=.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page := 1
	if v := c.Query("pageNumber"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			page = p
		}
	}

	result, err := h.productService.ListProducts(c.Request.Context(), page, c.Query("keyword"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, result)
}

// GetProduct handles GET /v1/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, product)
}

// ListAdminProducts handles GET /v1/products/all.
func (h *ProductHandler) ListAdminProducts(c *gin.Context) {
	products, err := h.productService.ListAdminProducts(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, products)
}

// TopProducts handles GET /v1/products/top.
func (h *ProductHandler) TopProducts(c *gin.Context) {
	products, err := h.productService.TopProducts(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, products)
}

// NewProducts handles GET /v1/products/new.
func (h *ProductHandler) NewProducts(c *gin.Context) {
	products, err := h.productService.NewProducts(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, products)
}

// filterRequest mirrors the dashboard's filter widget payload: checked
// category ids and an optional [low, high] price range.
type filterRequest struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio"`
}

// FilterProducts handles POST /v1/products/filter.
func (h *ProductHandler) FilterProducts(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "Invalid request body")
		return
	}

	products, err := h.productService.FilterProducts(c.Request.Context(), req.Checked, req.Radio)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(200, products)
}

// reviewRequest is the body of a review submission.
type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview handles POST /v1/products/:id/reviews. Reviewer identity comes
// from the JWT middleware.
func (h *ProductHandler) AddReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "Invalid request body")
		return
	}

	userID := c.GetString("user_id")
	username := c.GetString("username")

	err := h.productService.AddReview(c.Request.Context(), c.Param("id"), userID, username, req.Rating, req.Comment)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(201, gin.H{"message": "Review added"})
}

// extractImageInput decides the image input shape exactly once, at the HTTP
// boundary. Precedence: an already-resolved URL in the image form value, the
// image file field, the generic file field, the first element of the images
// multi-file field. A staged file is saved to a temp path for the resolver
// to consume. Returns nil when no image was supplied.
func extractImageInput(c *gin.Context) (*service.ImageInput, error) {
	if v := c.PostForm("image"); v != "" {
		return &service.ImageInput{Kind: service.ImageKindResolvedURL, Value: v}, nil
	}

	fh := firstUploadedFile(c, "image", "file", "images")
	if fh == nil {
		return nil, nil
	}

	tempPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, tempPath); err != nil {
		return nil, err
	}

	return &service.ImageInput{Kind: service.ImageKindLocalTempFile, Value: tempPath}, nil
}

// firstUploadedFile returns the first file found under the given form fields,
// in order.
func firstUploadedFile(c *gin.Context, fields ...string) *multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	for _, field := range fields {
		if files := form.File[field]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

// respondCatalogError maps service errors to HTTP statuses. Unexpected
// failures become opaque 500s.
func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrProductNotFound) || errors.Is(err, utils.ErrCategoryNotFound):
		utils.Error(c, 404, err.Error())
	case errors.Is(err, utils.ErrValidation) ||
		errors.Is(err, utils.ErrInvalidCategory) ||
		errors.Is(err, utils.ErrMissingImage) ||
		errors.Is(err, utils.ErrEmptyUpdate) ||
		errors.Is(err, utils.ErrDuplicateReview) ||
		errors.Is(err, utils.ErrInvalidRating):
		utils.Error(c, 400, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected catalog error")
		utils.Error(c, 500, "Internal server error")
	}
}
