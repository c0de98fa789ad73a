package cart

import "github.com/google/uuid"

// AddLineRequest adds a variant to the session's cart.
type AddLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateLineRequest nudges a line's quantity one step up or down.
type UpdateLineRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}
