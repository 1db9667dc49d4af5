package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultLowStockThreshold = 10

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

type Product struct {
	ID                string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name              string         `json:"name" gorm:"type:varchar(255);not null"`
	Description       string         `json:"description" gorm:"type:text"`
	Price             float64        `json:"price" gorm:"not null"`
	CostPrice         float64        `json:"cost_price"`
	Stock             int            `json:"stock" gorm:"default:0"`
	LowStockThreshold int            `json:"low_stock_threshold" gorm:"default:10"`
	Category          string         `json:"category" gorm:"type:varchar(100);index"`
	Status            ProductStatus  `json:"status" gorm:"type:varchar(20);default:'draft'"`
	Images            []ProductImage `json:"images,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// EffectiveLowStockThreshold falls back to the default when the stored
// threshold was never set.
func (p *Product) EffectiveLowStockThreshold() int {
	if p.LowStockThreshold <= 0 {
		return DefaultLowStockThreshold
	}
	return p.LowStockThreshold
}

type ProductImage struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;index"`
	URL       string    `json:"url" gorm:"type:varchar(500);not null"`
	AltText   string    `json:"alt_text" gorm:"type:varchar(255)"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
