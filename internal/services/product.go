package services

import (
	"errors"

	"storepanel/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type ProductFilters struct {
	Search   string
	Category string
	Status   string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

type ProductList struct {
	Products   []models.Product `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

type ProductInput struct {
	Name              string
	Description       string
	Price             float64
	CostPrice         float64
	Stock             int
	LowStockThreshold int
	Category          string
	Status            models.ProductStatus
	Images            []models.ProductImage
}

// ListProducts returns a filtered, paginated page of the catalog.
func (s *ProductService) ListProducts(filters ProductFilters) (*ProductList, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 || filters.Limit > 100 {
		filters.Limit = 20
	}

	query := s.db.Model(&models.Product{})
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, storageError(err)
	}

	var products []models.Product
	offset := (filters.Page - 1) * filters.Limit
	if err := query.Preload("Images").Order("created_at DESC").
		Offset(offset).Limit(filters.Limit).Find(&products).Error; err != nil {
		return nil, storageError(err)
	}

	totalPages := int((total + int64(filters.Limit) - 1) / int64(filters.Limit))
	return &ProductList{
		Products:   products,
		Total:      total,
		Page:       filters.Page,
		Limit:      filters.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetProduct returns a product with its images.
func (s *ProductService) GetProduct(id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Images").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}
	return &product, nil
}

// CreateProduct creates a product and its images.
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:              input.Name,
		Description:       input.Description,
		Price:             input.Price,
		CostPrice:         input.CostPrice,
		Stock:             input.Stock,
		LowStockThreshold: input.LowStockThreshold,
		Category:          input.Category,
		Status:            input.Status,
		Images:            input.Images,
	}
	if product.LowStockThreshold <= 0 {
		product.LowStockThreshold = models.DefaultLowStockThreshold
	}
	if product.Status == "" {
		product.Status = models.ProductStatusDraft
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, storageError(err)
	}
	return product, nil
}

// UpdateProduct replaces a product's fields and images.
func (s *ProductService) UpdateProduct(id string, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.CostPrice = input.CostPrice
	product.Stock = input.Stock
	if input.LowStockThreshold > 0 {
		product.LowStockThreshold = input.LowStockThreshold
	}
	product.Category = input.Category
	if input.Status != "" {
		product.Status = input.Status
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		if input.Images != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			for i := range input.Images {
				input.Images[i].ProductID = product.ID
			}
			if len(input.Images) > 0 {
				if err := tx.Create(&input.Images).Error; err != nil {
					return err
				}
			}
			product.Images = input.Images
		}
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return &product, nil
}

// DeleteProduct deletes a product and its images. Sales rows keep
// their history with a cleared product reference.
func (s *ProductService) DeleteProduct(id string) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storageError(err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SalesData{}).Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		return tx.Select(clause.Associations).Delete(&product).Error
	})
	if err != nil {
		return storageError(err)
	}
	return nil
}

func validateProductInput(input *ProductInput) error {
	var msgs []string
	if input.Name == "" {
		msgs = append(msgs, "Name is required")
	}
	if input.Price < 0 {
		msgs = append(msgs, "Price must not be negative")
	}
	if input.Stock < 0 {
		msgs = append(msgs, "Stock must not be negative")
	}
	if input.Status != "" {
		switch input.Status {
		case models.ProductStatusDraft, models.ProductStatusActive, models.ProductStatusArchived:
		default:
			msgs = append(msgs, "Invalid status")
		}
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
