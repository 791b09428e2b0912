package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veloxcart/ecommerce-api/internal/adapters/transport/http/dto"
	"github.com/veloxcart/ecommerce-api/internal/adapters/transport/http/middleware"
	cataloguesvc "github.com/veloxcart/ecommerce-api/internal/app/catalogue/service"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
	"github.com/veloxcart/ecommerce-api/internal/infra/config"
)

type CatalogueHandler struct {
	svc cataloguesvc.Service
	cfg *config.Config
	log *zap.Logger
}

func NewCatalogueHandler(svc cataloguesvc.Service, cfg *config.Config, log *zap.Logger) *CatalogueHandler {
	return &CatalogueHandler{svc: svc, cfg: cfg, log: log}
}

// Register wires the catalogue routes. Reads are public; writes require an
// authenticated admin, except reviews which any authenticated customer may
// create and authors may delete.
func (h *CatalogueHandler) Register(api *gin.RouterGroup, authRequired, adminRequired gin.HandlerFunc) {
	categories := api.Group("/categories")
	categories.GET("", h.listCategories)
	categories.GET("/:id", h.getCategory)
	categories.POST("", authRequired, adminRequired, h.createCategory)
	categories.PUT("/:id", authRequired, adminRequired, h.updateCategory)
	categories.DELETE("/:id", authRequired, adminRequired, h.deleteCategory)

	products := api.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/:id", h.getProduct)
	products.POST("", authRequired, adminRequired, h.createProduct)
	products.PUT("/:id", authRequired, adminRequired, h.updateProduct)
	products.DELETE("/:id", authRequired, adminRequired, h.deleteProduct)

	products.GET("/:id/images", h.listImages)
	products.POST("/:id/images", authRequired, adminRequired, h.addImage)
	products.DELETE("/:id/images/:imageID", authRequired, adminRequired, h.deleteImage)

	products.GET("/:id/reviews", h.listReviews)
	products.POST("/:id/reviews", authRequired, h.createReview)
	products.DELETE("/:id/reviews/:reviewID", authRequired, h.deleteReview)
}

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type imageResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
}

type productResponse struct {
	ID            uuid.UUID         `json:"id"`
	CategoryID    uuid.UUID         `json:"category_id"`
	Category      *categoryResponse `json:"category,omitempty"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	StockQuantity int               `json:"stock_quantity"`
	AverageRating float64           `json:"average_rating"`
	Images        []imageResponse   `json:"images"`
	CreatedAt     time.Time         `json:"created_at"`
}

type reviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toCategoryResponse(c model.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func toImageResponse(img model.ProductImage) imageResponse {
	return imageResponse{ID: img.ID, ProductID: img.ProductID, ImageURL: img.ImageURL, IsPrimary: img.IsPrimary}
}

func toProductResponse(p model.Product) productResponse {
	resp := productResponse{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		AverageRating: p.AverageRating,
		Images:        make([]imageResponse, 0, len(p.Images)),
		CreatedAt:     p.CreatedAt,
	}
	if p.Category != nil {
		c := toCategoryResponse(*p.Category)
		resp.Category = &c
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, toImageResponse(img))
	}
	return resp
}

func toReviewResponse(r model.Review) reviewResponse {
	return reviewResponse{
		ID: r.ID, ProductID: r.ProductID, UserID: r.UserID,
		Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt,
	}
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func (h *CatalogueHandler) listCategories(c *gin.Context) {
	page := PageFromQuery(c, h.cfg.CategoryPageSize)
	items, total, err := h.svc.ListCategories(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		HandleError(c, err)
		return
	}

	results := make([]categoryResponse, 0, len(items))
	for _, it := range items {
		results = append(results, toCategoryResponse(it))
	}
	c.JSON(http.StatusOK, gin.H{"meta": NewMeta(c, page, total, len(results)), "results": results})
}

func (h *CatalogueHandler) getCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	category, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(category))
}

func (h *CatalogueHandler) createCategory(c *gin.Context) {
	var body dto.CategoryDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), body)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

func (h *CatalogueHandler) updateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body dto.CategoryDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.svc.UpdateCategory(c.Request.Context(), id, body)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(category))
}

func (h *CatalogueHandler) deleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// productFilterFromQuery parses the supported list filters. Unparseable
// numeric values are treated as absent rather than rejected.
func productFilterFromQuery(c *gin.Context) repo.ProductFilter {
	f := repo.ProductFilter{
		Search:  c.Query("search"),
		OrderBy: c.Query("ordering"),
	}
	if raw := c.Query("category"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.CategoryID = &id
		}
	}
	float := func(name string) *float64 {
		raw := c.Query(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return &v
	}
	f.Price = float("price")
	f.PriceLT = float("price_lt")
	f.PriceLTE = float("price_lte")
	f.PriceGT = float("price_gt")
	f.PriceGTE = float("price_gte")
	f.RatingGTE = float("rating_gte")
	f.RatingLTE = float("rating_lte")
	return f
}

func (h *CatalogueHandler) listProducts(c *gin.Context) {
	page := PageFromQuery(c, h.cfg.ProductPageSize)
	items, total, err := h.svc.ListProducts(c.Request.Context(), productFilterFromQuery(c), page)
	if err != nil {
		HandleError(c, err)
		return
	}

	results := make([]productResponse, 0, len(items))
	for _, it := range items {
		results = append(results, toProductResponse(it))
	}
	c.JSON(http.StatusOK, gin.H{"meta": NewMeta(c, page, total, len(results)), "results": results})
}

func (h *CatalogueHandler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *CatalogueHandler) createProduct(c *gin.Context) {
	var body dto.ProductDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.svc.CreateProduct(c.Request.Context(), body)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (h *CatalogueHandler) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body dto.ProductDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.svc.UpdateProduct(c.Request.Context(), id, body)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *CatalogueHandler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogueHandler) listImages(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page := PageFromQuery(c, h.cfg.ImagePageSize)
	items, total, err := h.svc.ListImages(c.Request.Context(), productID, page)
	if err != nil {
		HandleError(c, err)
		return
	}

	results := make([]imageResponse, 0, len(items))
	for _, it := range items {
		results = append(results, toImageResponse(it))
	}
	c.JSON(http.StatusOK, gin.H{"meta": NewMeta(c, page, total, len(results)), "results": results})
}

func (h *CatalogueHandler) addImage(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body dto.ProductImageDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, err := h.svc.AddImage(c.Request.Context(), productID, body)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toImageResponse(img))
}

func (h *CatalogueHandler) deleteImage(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(c, "imageID")
	if !ok {
		return
	}
	if err := h.svc.DeleteImage(c.Request.Context(), productID, imageID); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogueHandler) listReviews(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page := PageFromQuery(c, h.cfg.ReviewPageSize)
	items, total, err := h.svc.ListReviews(c.Request.Context(), productID, page)
	if err != nil {
		HandleError(c, err)
		return
	}

	results := make([]reviewResponse, 0, len(items))
	for _, it := range items {
		results = append(results, toReviewResponse(it))
	}
	c.JSON(http.StatusOK, gin.H{"meta": NewMeta(c, page, total, len(results)), "results": results})
}

func (h *CatalogueHandler) createReview(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var body dto.ReviewDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review, err := h.svc.CreateReview(c.Request.Context(), productID, user.ID, body)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (h *CatalogueHandler) deleteReview(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "reviewID")
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.svc.DeleteReview(c.Request.Context(), productID, reviewID, user); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
