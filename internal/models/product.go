package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	ExternalID  string    `json:"external_id" gorm:"unique;not null"`
	SKU         string    `json:"sku" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	Link        *string   `json:"link"`
	ImageLink   *string   `json:"image_link"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2)"`
	SalePrice   *float64  `json:"sale_price" gorm:"type:decimal(10,2)"`
	Currency    string    `json:"currency" gorm:"default:USD"`
	IsInStock   bool      `json:"is_in_stock" gorm:"default:true"`
	Qty         float64   `json:"qty" gorm:"type:decimal(12,4)"`
	StoreCode   string    `json:"store_code" gorm:"not null;default:default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Availability strings as the catalog platform expects them.
const (
	AvailabilityInStock    = "in stock"
	AvailabilityOutOfStock = "out of stock"
)

// Availability derives the platform availability value from stock flags.
// A product counts as in stock only when the stock flag is set and the
// quantity is nonzero.
func (p *Product) Availability() string {
	if p.IsInStock && p.Qty != 0 {
		return AvailabilityInStock
	}
	return AvailabilityOutOfStock
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
