package handlers

import (
	"strconv"

	"storepanel/internal/models"
	"storepanel/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type ProductImageRequest struct {
	URL       string `json:"url" binding:"required"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type ProductRequest struct {
	Name              string                `json:"name" binding:"required"`
	Description       string                `json:"description"`
	Price             float64               `json:"price"`
	CostPrice         float64               `json:"cost_price"`
	Stock             int                   `json:"stock"`
	LowStockThreshold int                   `json:"low_stock_threshold"`
	Category          string                `json:"category"`
	Status            models.ProductStatus  `json:"status"`
	Images            []ProductImageRequest `json:"images"`
}

func (r *ProductRequest) toInput() services.ProductInput {
	input := services.ProductInput{
		Name:              r.Name,
		Description:       r.Description,
		Price:             r.Price,
		CostPrice:         r.CostPrice,
		Stock:             r.Stock,
		LowStockThreshold: r.LowStockThreshold,
		Category:          r.Category,
		Status:            r.Status,
	}
	for _, img := range r.Images {
		input.Images = append(input.Images, models.ProductImage{
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		})
	}
	return input
}

// ListProducts returns a filtered page of the catalog
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filters := services.ProductFilters{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}

	if v := c.Query("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid minPrice", "code": "VALIDATION_ERROR"})
			return
		}
		filters.MinPrice = &price
	}
	if v := c.Query("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid maxPrice", "code": "VALIDATION_ERROR"})
			return
		}
		filters.MaxPrice = &price
	}
	if v := c.Query("page"); v != "" {
		filters.Page, _ = strconv.Atoi(v)
	}
	if v := c.Query("limit"); v != "" {
		filters.Limit, _ = strconv.Atoi(v)
	}

	list, err := h.productService.ListProducts(filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, list)
}

// GetProduct returns a single product with images
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, product)
}

// CreateProduct creates a product
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid product data", "code": "VALIDATION_ERROR"})
		return
	}

	product, err := h.productService.CreateProduct(req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, product)
}

// UpdateProduct updates a product
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid product data", "code": "VALIDATION_ERROR"})
		return
	}

	product, err := h.productService.UpdateProduct(c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, product)
}

// DeleteProduct deletes a product and its images
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Product deleted successfully"})
}
