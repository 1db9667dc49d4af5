package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesData holds one recorded sale. The product reference is weak:
// deleting a product leaves its sales rows behind with a NULL product
// id so that historical totals stay intact.
type SalesData struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	ProductID   *string   `json:"product_id" gorm:"type:varchar(36);index"`
	Product     *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"not null"`
	TotalAmount float64   `json:"total_amount" gorm:"not null"`
	SaleDate    time.Time `json:"sale_date" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *SalesData) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
