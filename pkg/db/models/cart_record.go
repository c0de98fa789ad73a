package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenmarket/storefront-backend/pkg/enums"
)

// CartRecord is the authoritative server-held cart for a signed-in owner.
// Aggregates are always recomputed from the lines, never written directly.
type CartRecord struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID       uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index"`
	Status        enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CurrencyCode  enums.Currency   `gorm:"column:currency_code;not null;default:'INR'"`
	TotalQuantity int              `gorm:"column:total_quantity;not null;default:0"`
	Subtotal      decimal.Decimal  `gorm:"column:subtotal;type:numeric(12,2);not null;default:0"`
	Total         decimal.Decimal  `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	Lines         []CartLineRow    `gorm:"foreignKey:CartID"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
