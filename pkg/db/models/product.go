package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumenmarket/storefront-backend/pkg/enums"
)

// Product is one catalog entry shown on the storefront.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string           `gorm:"column:title;not null"`
	Handle       string           `gorm:"column:handle;uniqueIndex;not null"`
	Description  string           `gorm:"column:description"`
	CurrencyCode enums.Currency   `gorm:"column:currency_code;not null;default:'INR'"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductID"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
