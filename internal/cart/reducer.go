package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumenmarket/storefront-backend/pkg/enums"
	"github.com/lumenmarket/storefront-backend/pkg/money"
)

// The reducer is a set of pure state transitions over cart snapshots.
// Callers serialize application; the reducer itself performs no I/O and
// assumes one action at a time.

// Add merges the merchandise into an existing line with the same identity or
// appends a new line. The line total is recomputed from the unit price read at
// call time. Quantities below one leave the cart unchanged.
func Add(c Cart, m Merchandise, unitPrice money.Amount, quantity int) Cart {
	if quantity < 1 {
		return c
	}

	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)

	if i := c.lineIndexByIdentity(m.IdentityKey()); i >= 0 {
		newQuantity := lines[i].Quantity + quantity
		lines[i].Quantity = newQuantity
		lines[i].Total = unitPrice.MulQuantity(newQuantity)
	} else {
		lines = append(lines, Line{
			ID:          uuid.New(),
			Merchandise: m,
			Quantity:    quantity,
			Total:       unitPrice.MulQuantity(quantity),
		})
	}

	return recompute(c, lines)
}

// UpdateQuantity applies a +1/-1 delta to the identified line. A resulting
// quantity of zero or below removes the line entirely; the per-unit price is
// derived from the line's existing total. Unknown line identifiers are a no-op.
func UpdateQuantity(c Cart, lineID uuid.UUID, delta int) Cart {
	lines := make([]Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.ID != lineID {
			lines = append(lines, line)
			continue
		}
		newQuantity := line.Quantity + delta
		if newQuantity <= 0 {
			continue
		}
		unit := line.UnitPrice()
		line.Quantity = newQuantity
		line.Total = unit.MulQuantity(newQuantity)
		lines = append(lines, line)
	}
	return recompute(c, lines)
}

// Remove deletes the identified line unconditionally.
func Remove(c Cart, lineID uuid.UUID) Cart {
	lines := make([]Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.ID == lineID {
			continue
		}
		lines = append(lines, line)
	}
	return recompute(c, lines)
}

// Replace discards the current state and adopts the given snapshot verbatim,
// refreshing only the update timestamp.
func Replace(_ Cart, next Cart) Cart {
	out := next.Clone()
	out.UpdatedAt = time.Now().UTC()
	return out
}

// recompute derives the aggregates from the given lines: total quantity is the
// sum of line quantities, subtotal and total are the sum of line totals, and
// the currency follows the first line (default when empty).
func recompute(c Cart, lines []Line) Cart {
	currency := enums.DefaultCurrency
	if len(lines) > 0 {
		currency = lines[0].Total.CurrencyCode
	}

	totalQuantity := 0
	sum := money.Zero(currency)
	for _, line := range lines {
		totalQuantity += line.Quantity
		sum = sum.Add(line.Total)
	}

	c.Lines = lines
	c.TotalQuantity = totalQuantity
	c.Cost = Cost{
		Subtotal: sum,
		Total:    sum,
		Tax:      money.Zero(currency),
		Shipping: money.Zero(currency),
	}
	c.UpdatedAt = time.Now().UTC()
	return c
}
