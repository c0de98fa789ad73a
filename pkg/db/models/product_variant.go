package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenmarket/storefront-backend/pkg/types"
)

// ProductVariant is a purchasable option combination of a product,
// carrying the price read at add-to-cart time.
type ProductVariant struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID             `gorm:"column:product_id;type:uuid;not null;index"`
	SKU             string                `gorm:"column:sku;uniqueIndex;not null"`
	SelectedOptions types.SelectedOptions `gorm:"column:selected_options;type:jsonb;serializer:json"`
	Price           decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	AvailableQty    int                   `gorm:"column:available_qty;not null;default:0"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
