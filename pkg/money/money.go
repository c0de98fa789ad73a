package money

import (
	"fmt"

	"github.com/lumenmarket/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Amount is a currency-tagged decimal value.
type Amount struct {
	Value        decimal.Decimal `json:"amount"`
	CurrencyCode enums.Currency  `json:"currency_code"`
}

// Zero returns the zero amount in the given currency.
func Zero(currency enums.Currency) Amount {
	return Amount{Value: decimal.Zero, CurrencyCode: currency}
}

// New builds an amount from a decimal value and currency.
func New(value decimal.Decimal, currency enums.Currency) Amount {
	return Amount{Value: value, CurrencyCode: currency}
}

// Parse builds an amount from its string representation.
func Parse(value string, currency enums.Currency) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	return Amount{Value: d, CurrencyCode: currency}, nil
}

// MulQuantity returns the amount multiplied by a line quantity.
func (a Amount) MulQuantity(quantity int) Amount {
	return Amount{
		Value:        a.Value.Mul(decimal.NewFromInt(int64(quantity))),
		CurrencyCode: a.CurrencyCode,
	}
}

// DivQuantity returns the per-unit amount derived from a line total.
func (a Amount) DivQuantity(quantity int) Amount {
	if quantity == 0 {
		return Zero(a.CurrencyCode)
	}
	return Amount{
		Value:        a.Value.Div(decimal.NewFromInt(int64(quantity))),
		CurrencyCode: a.CurrencyCode,
	}
}

// Add sums two amounts, keeping the receiver's currency.
func (a Amount) Add(other Amount) Amount {
	return Amount{
		Value:        a.Value.Add(other.Value),
		CurrencyCode: a.CurrencyCode,
	}
}

// Equal reports value and currency equality.
func (a Amount) Equal(other Amount) bool {
	return a.CurrencyCode == other.CurrencyCode && a.Value.Equal(other.Value)
}

// IsZero reports whether the value is zero.
func (a Amount) IsZero() bool {
	return a.Value.IsZero()
}

// IsNegative reports whether the value is below zero.
func (a Amount) IsNegative() bool {
	return a.Value.IsNegative()
}

// String renders the amount for logs and errors.
func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Value.String(), a.CurrencyCode)
}
