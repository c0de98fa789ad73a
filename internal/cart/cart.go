package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumenmarket/storefront-backend/pkg/enums"
	"github.com/lumenmarket/storefront-backend/pkg/money"
	"github.com/lumenmarket/storefront-backend/pkg/types"
)

// Merchandise identifies the purchasable variant behind a cart line.
type Merchandise struct {
	ProductID       uuid.UUID             `json:"product_id"`
	VariantID       uuid.UUID             `json:"variant_id"`
	Title           string                `json:"title"`
	SelectedOptions types.SelectedOptions `json:"selected_options,omitempty"`
}

// IdentityKey renders the merchandise identity used for line merging.
// Two Add calls with the same key increment one line instead of creating two.
func (m Merchandise) IdentityKey() string {
	return m.VariantID.String() + "|" + m.SelectedOptions.Key()
}

// Line is one merchandise/quantity entry of a cart.
type Line struct {
	ID          uuid.UUID    `json:"id"`
	Merchandise Merchandise  `json:"merchandise"`
	Quantity    int          `json:"quantity"`
	Total       money.Amount `json:"total"`
}

// UnitPrice derives the per-unit price from the line total.
func (l Line) UnitPrice() money.Amount {
	return l.Total.DivQuantity(l.Quantity)
}

// Cost is the aggregate cost breakdown of a cart. Tax and shipping are not
// computed here; the authoritative collaborator owns them.
type Cost struct {
	Subtotal money.Amount `json:"subtotal"`
	Total    money.Amount `json:"total"`
	Tax      money.Amount `json:"tax"`
	Shipping money.Amount `json:"shipping"`
}

// Cart is a snapshot of lines with derived aggregates.
type Cart struct {
	ID            uuid.UUID `json:"id"`
	Lines         []Line    `json:"lines"`
	TotalQuantity int       `json:"total_quantity"`
	Cost          Cost      `json:"cost"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewEmpty returns a fresh cart with zeroed aggregates in the default currency.
func NewEmpty() Cart {
	zero := money.Zero(enums.DefaultCurrency)
	return Cart{
		ID:        uuid.New(),
		Lines:     nil,
		Cost:      Cost{Subtotal: zero, Total: zero, Tax: zero, Shipping: zero},
		UpdatedAt: time.Now().UTC(),
	}
}

// LineByID returns the line with the given identifier, if present.
func (c Cart) LineByID(id uuid.UUID) (Line, bool) {
	for _, line := range c.Lines {
		if line.ID == id {
			return line, true
		}
	}
	return Line{}, false
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a copy whose line slice is independent of the receiver.
func (c Cart) Clone() Cart {
	out := c
	if len(c.Lines) > 0 {
		out.Lines = make([]Line, len(c.Lines))
		copy(out.Lines, c.Lines)
	}
	return out
}

func (c Cart) lineIndexByIdentity(key string) int {
	for i, line := range c.Lines {
		if line.Merchandise.IdentityKey() == key {
			return i
		}
	}
	return -1
}
