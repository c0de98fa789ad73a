package cart

import (
	"time"

	"github.com/google/uuid"

	cartsvc "github.com/lumenmarket/storefront-backend/internal/cart"
	"github.com/lumenmarket/storefront-backend/pkg/money"
	"github.com/lumenmarket/storefront-backend/pkg/types"
)

// CartResponse is the wire shape of a cart snapshot.
type CartResponse struct {
	ID            uuid.UUID      `json:"id"`
	Lines         []LineResponse `json:"lines"`
	TotalQuantity int            `json:"total_quantity"`
	Cost          CostResponse   `json:"cost"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// LineResponse is one cart line on the wire.
type LineResponse struct {
	ID              uuid.UUID             `json:"id"`
	ProductID       uuid.UUID             `json:"product_id"`
	VariantID       uuid.UUID             `json:"variant_id"`
	Title           string                `json:"title"`
	SelectedOptions types.SelectedOptions `json:"selected_options,omitempty"`
	Quantity        int                   `json:"quantity"`
	UnitPrice       AmountResponse        `json:"unit_price"`
	Total           AmountResponse        `json:"total"`
}

// CostResponse is the aggregate cost breakdown on the wire.
type CostResponse struct {
	Subtotal AmountResponse `json:"subtotal"`
	Total    AmountResponse `json:"total"`
	Tax      AmountResponse `json:"tax"`
	Shipping AmountResponse `json:"shipping"`
}

// AmountResponse renders money as a fixed-point string with its currency.
type AmountResponse struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

func newAmount(a money.Amount) AmountResponse {
	return AmountResponse{
		Amount:       a.Value.StringFixed(2),
		CurrencyCode: string(a.CurrencyCode),
	}
}

func newCartResponse(c cartsvc.Cart) CartResponse {
	lines := make([]LineResponse, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, LineResponse{
			ID:              line.ID,
			ProductID:       line.Merchandise.ProductID,
			VariantID:       line.Merchandise.VariantID,
			Title:           line.Merchandise.Title,
			SelectedOptions: line.Merchandise.SelectedOptions,
			Quantity:        line.Quantity,
			UnitPrice:       newAmount(line.UnitPrice()),
			Total:           newAmount(line.Total),
		})
	}
	return CartResponse{
		ID:            c.ID,
		Lines:         lines,
		TotalQuantity: c.TotalQuantity,
		Cost: CostResponse{
			Subtotal: newAmount(c.Cost.Subtotal),
			Total:    newAmount(c.Cost.Total),
			Tax:      newAmount(c.Cost.Tax),
			Shipping: newAmount(c.Cost.Shipping),
		},
		UpdatedAt: c.UpdatedAt,
	}
}
