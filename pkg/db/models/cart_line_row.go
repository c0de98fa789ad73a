package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenmarket/storefront-backend/pkg/types"
)

// CartLineRow persists one merchandise/quantity entry of a CartRecord.
type CartLineRow struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID          uuid.UUID             `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID       uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	VariantID       uuid.UUID             `gorm:"column:variant_id;type:uuid;not null"`
	Title           string                `gorm:"column:title;not null"`
	SelectedOptions types.SelectedOptions `gorm:"column:selected_options;type:jsonb;serializer:json"`
	Quantity        int                   `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal       decimal.Decimal       `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
