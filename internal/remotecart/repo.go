package remotecart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenmarket/storefront-backend/pkg/db/models"
	"github.com/lumenmarket/storefront-backend/pkg/enums"
)

// Repository persists authoritative carts and their lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository over the shared connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveByOwner loads the owner's active cart with its lines.
func (r *Repository) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("owner_id = ? AND status = ?", ownerID, enums.CartStatusActive).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new cart record.
func (r *Repository) Create(ctx context.Context, record *models.CartRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// SaveLine inserts or updates one cart line.
func (r *Repository) SaveLine(ctx context.Context, line *models.CartLineRow) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// DeleteLine removes one line of a cart.
func (r *Repository) DeleteLine(ctx context.Context, cartID, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, lineID).
		Delete(&models.CartLineRow{}).Error
}

// SaveAggregates writes the recomputed aggregate columns of a cart.
func (r *Repository) SaveAggregates(ctx context.Context, record *models.CartRecord) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"currency_code":  record.CurrencyCode,
			"total_quantity": record.TotalQuantity,
			"subtotal":       record.Subtotal,
			"total":          record.Total,
		}).Error
}
