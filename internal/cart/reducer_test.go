package cart

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenmarket/storefront-backend/pkg/enums"
	"github.com/lumenmarket/storefront-backend/pkg/money"
	"github.com/lumenmarket/storefront-backend/pkg/types"
)

func mustAmount(t *testing.T, value string) money.Amount {
	t.Helper()
	amount, err := money.Parse(value, enums.CurrencyINR)
	require.NoError(t, err)
	return amount
}

func testMerchandise(variantID uuid.UUID, options types.SelectedOptions) Merchandise {
	return Merchandise{
		ProductID:       uuid.New(),
		VariantID:       variantID,
		Title:           "Trail Runner",
		SelectedOptions: options,
	}
}

func assertAggregates(t *testing.T, c Cart) {
	t.Helper()
	quantity := 0
	sum := money.Zero(c.Cost.Total.CurrencyCode)
	for _, line := range c.Lines {
		require.GreaterOrEqual(t, line.Quantity, 1, "lines must never persist with quantity below 1")
		quantity += line.Quantity
		sum = sum.Add(line.Total)
	}
	assert.Equal(t, quantity, c.TotalQuantity)
	assert.True(t, sum.Equal(c.Cost.Total), "total %s != sum %s", c.Cost.Total, sum)
	assert.True(t, sum.Equal(c.Cost.Subtotal))
}

func TestAddCreatesLine(t *testing.T) {
	m := testMerchandise(uuid.New(), types.SelectedOptions{{Name: "size", Value: "42"}})
	c := Add(NewEmpty(), m, mustAmount(t, "499.00"), 2)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.True(t, c.Lines[0].Total.Equal(mustAmount(t, "998.00")))
	assert.Equal(t, enums.CurrencyINR, c.Cost.Total.CurrencyCode)
	assertAggregates(t, c)
}

func TestAddMergesByIdentity(t *testing.T) {
	variantID := uuid.New()
	first := testMerchandise(variantID, types.SelectedOptions{{Name: "size", Value: "42"}})
	// same identity, different option ordering plus a color
	c := Add(NewEmpty(), first, mustAmount(t, "100"), 1)
	c = Add(c, first, mustAmount(t, "100"), 1)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.True(t, c.Lines[0].Total.Equal(mustAmount(t, "200")))
	assertAggregates(t, c)
}

func TestAddIdentityIgnoresOptionOrder(t *testing.T) {
	variantID := uuid.New()
	a := testMerchandise(variantID, types.SelectedOptions{{Name: "size", Value: "42"}, {Name: "color", Value: "black"}})
	b := a
	b.SelectedOptions = types.SelectedOptions{{Name: "color", Value: "black"}, {Name: "size", Value: "42"}}

	c := Add(NewEmpty(), a, mustAmount(t, "100"), 1)
	c = Add(c, b, mustAmount(t, "100"), 1)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestAddDistinctOptionsCreateSeparateLines(t *testing.T) {
	variantID := uuid.New()
	size42 := testMerchandise(variantID, types.SelectedOptions{{Name: "size", Value: "42"}})
	size43 := size42
	size43.SelectedOptions = types.SelectedOptions{{Name: "size", Value: "43"}}

	c := Add(NewEmpty(), size42, mustAmount(t, "100"), 1)
	c = Add(c, size43, mustAmount(t, "100"), 1)

	assert.Len(t, c.Lines, 2)
	assertAggregates(t, c)
}

func TestAddUsesPriceAtCallTime(t *testing.T) {
	m := testMerchandise(uuid.New(), nil)
	c := Add(NewEmpty(), m, mustAmount(t, "100"), 1)
	// the catalog repriced between calls; the merged line adopts the new price
	c = Add(c, m, mustAmount(t, "90"), 1)

	require.Len(t, c.Lines, 1)
	assert.True(t, c.Lines[0].Total.Equal(mustAmount(t, "180")))
	assertAggregates(t, c)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	m := testMerchandise(uuid.New(), nil)
	c := Add(NewEmpty(), m, mustAmount(t, "100"), 0)
	assert.Empty(t, c.Lines)
	c = Add(c, m, mustAmount(t, "100"), -3)
	assert.Empty(t, c.Lines)
}

func TestUpdateQuantityIncrement(t *testing.T) {
	m := testMerchandise(uuid.New(), nil)
	c := Add(NewEmpty(), m, mustAmount(t, "250"), 1)
	lineID := c.Lines[0].ID

	c = UpdateQuantity(c, lineID, 1)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.True(t, c.Lines[0].Total.Equal(mustAmount(t, "500")))
	assertAggregates(t, c)
}

func TestUpdateQuantityDecrementToZeroRemovesLine(t *testing.T) {
	m := testMerchandise(uuid.New(), nil)
	other := testMerchandise(uuid.New(), nil)
	c := Add(NewEmpty(), m, mustAmount(t, "250"), 1)
	c = Add(c, other, mustAmount(t, "100"), 3)
	lineID := c.Lines[0].ID
	before := c.TotalQuantity

	c = UpdateQuantity(c, lineID, -1)

	_, found := c.LineByID(lineID)
	assert.False(t, found)
	assert.Equal(t, before-1, c.TotalQuantity)
	assertAggregates(t, c)
}

func TestUpdateQuantityPreservesUnitPrice(t *testing.T) {
	m := testMerchandise(uuid.New(), nil)
	c := Add(NewEmpty(), m, mustAmount(t, "99.50"), 4)
	lineID := c.Lines[0].ID

	c = UpdateQuantity(c, lineID, -1)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.True(t, c.Lines[0].Total.Equal(mustAmount(t, "298.50")))
}

func TestUpdateQuantityUnknownLineIsNoop(t *testing.T) {
	m := testMerchandise(uuid.New(), nil)
	c := Add(NewEmpty(), m, mustAmount(t, "100"), 2)

	c = UpdateQuantity(c, uuid.New(), 1)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestRemoveIsUnconditional(t *testing.T) {
	m := testMerchandise(uuid.New(), nil)
	c := Add(NewEmpty(), m, mustAmount(t, "100"), 5)
	lineID := c.Lines[0].ID

	c = Remove(c, lineID)

	assert.Empty(t, c.Lines)
	assert.Equal(t, 0, c.TotalQuantity)
	assert.True(t, c.Cost.Total.IsZero())
	assertAggregates(t, c)
}

func TestReplaceSupersedesState(t *testing.T) {
	m := testMerchandise(uuid.New(), nil)
	current := Add(NewEmpty(), m, mustAmount(t, "100"), 3)

	empty := NewEmpty()
	replaced := Replace(current, empty)

	assert.Equal(t, empty.ID, replaced.ID)
	assert.Empty(t, replaced.Lines)
	assert.Equal(t, 0, replaced.TotalQuantity)

	next := Add(NewEmpty(), m, mustAmount(t, "40"), 2)
	replaced = Replace(replaced, next)
	assert.Equal(t, next.ID, replaced.ID)
	require.Len(t, replaced.Lines, 1)
	assert.Equal(t, 2, replaced.Lines[0].Quantity)
}

func TestReplaceDoesNotAliasLines(t *testing.T) {
	m := testMerchandise(uuid.New(), nil)
	next := Add(NewEmpty(), m, mustAmount(t, "40"), 2)

	replaced := Replace(NewEmpty(), next)
	replaced.Lines[0].Quantity = 99

	assert.Equal(t, 2, next.Lines[0].Quantity)
}

func TestAggregatesHoldOverRandomizedSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	variants := make([]Merchandise, 5)
	for i := range variants {
		variants[i] = testMerchandise(uuid.New(), types.SelectedOptions{{Name: "size", Value: string(rune('a' + i))}})
	}

	c := NewEmpty()
	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			m := variants[rng.Intn(len(variants))]
			c = Add(c, m, mustAmount(t, "49.99"), 1+rng.Intn(3))
		case 1:
			if len(c.Lines) > 0 {
				line := c.Lines[rng.Intn(len(c.Lines))]
				delta := 1
				if rng.Intn(2) == 0 {
					delta = -1
				}
				c = UpdateQuantity(c, line.ID, delta)
			}
		case 2:
			if len(c.Lines) > 0 {
				c = Remove(c, c.Lines[rng.Intn(len(c.Lines))].ID)
			}
		case 3:
			if rng.Intn(10) == 0 {
				c = Replace(c, NewEmpty())
			}
		}
		assertAggregates(t, c)
	}
}
