package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenmarket/storefront-backend/pkg/db/models"
	"github.com/lumenmarket/storefront-backend/pkg/enums"
	"github.com/lumenmarket/storefront-backend/pkg/types"
)

// ProductDTO is the storefront-facing product shape.
type ProductDTO struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Handle       string         `json:"handle"`
	Description  string         `json:"description,omitempty"`
	CurrencyCode enums.Currency `json:"currency_code"`
	Variants     []VariantDTO   `json:"variants"`
}

// VariantDTO is one purchasable option combination.
type VariantDTO struct {
	ID              uuid.UUID             `json:"id"`
	SKU             string                `json:"sku"`
	SelectedOptions types.SelectedOptions `json:"selected_options,omitempty"`
	Price           decimal.Decimal       `json:"price"`
	AvailableQty    int                   `json:"available_qty"`
}

func toProductDTO(product *models.Product) ProductDTO {
	variants := make([]VariantDTO, 0, len(product.Variants))
	for _, v := range product.Variants {
		variants = append(variants, VariantDTO{
			ID:              v.ID,
			SKU:             v.SKU,
			SelectedOptions: v.SelectedOptions,
			Price:           v.Price,
			AvailableQty:    v.AvailableQty,
		})
	}
	return ProductDTO{
		ID:           product.ID,
		Title:        product.Title,
		Handle:       product.Handle,
		Description:  product.Description,
		CurrencyCode: product.CurrencyCode,
		Variants:     variants,
	}
}
