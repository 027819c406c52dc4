package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	headphones = Product{ID: 1, Name: "Headphones", Price: 299000, Cost: 180000}
	watch      = Product{ID: 2, Name: "Watch", Price: 3500000, Cost: 2100000}
)

func sumItems(c *Cart) int64 {
	var s int64
	for _, it := range c.Items {
		s += it.UnitPrice * it.Quantity
	}
	return s
}

func TestAddItem_SameProductAndVariantIncrements(t *testing.T) {
	c := New()

	_, err := c.AddItem(headphones, 2, "Black", "")
	require.NoError(t, err)
	_, err = c.AddItem(headphones, 3, "Black", "")
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(5), c.Items[0].Quantity)
}

func TestAddItem_DifferentVariantAppends(t *testing.T) {
	c := New()

	_, _ = c.AddItem(headphones, 1, "Black", "")
	_, _ = c.AddItem(headphones, 1, "White", "")

	require.Len(t, c.Items, 2)
	assert.Equal(t, "Black", c.Items[0].Variant)
	assert.Equal(t, "White", c.Items[1].Variant)
	assert.Equal(t, int64(2), c.QuantityOf(headphones.ID))
}

func TestAddItem_NonPositiveQuantityIsNoop(t *testing.T) {
	c := New()
	_, _ = c.AddItem(watch, 1, "", "")

	_, err := c.AddItem(watch, 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = c.AddItem(headphones, -2, "", "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(1), c.Items[0].Quantity)
}

func TestAddItem_KeepsPriceSnapshotOnMerge(t *testing.T) {
	c := New()
	_, _ = c.AddItem(watch, 1, "", "")

	repriced := watch
	repriced.Price = 4000000
	_, _ = c.AddItem(repriced, 1, "", "gift")

	assert.Equal(t, int64(3500000), c.Items[0].UnitPrice)
	assert.Equal(t, "gift", c.Items[0].Notes)
}

func TestUpdateQuantity_SetsExactly(t *testing.T) {
	c := New()
	it, _ := c.AddItem(headphones, 2, "", "")

	require.NoError(t, c.UpdateQuantity(it.ID, 7))
	require.NoError(t, c.UpdateQuantity(it.ID, 7))

	assert.Equal(t, int64(7), c.Items[0].Quantity)
}

func TestUpdateQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	c := New()
	a, _ := c.AddItem(headphones, 2, "", "")
	b, _ := c.AddItem(watch, 1, "", "")

	require.NoError(t, c.UpdateQuantity(a.ID, 0))
	require.Len(t, c.Items, 1)
	assert.Equal(t, b.ID, c.Items[0].ID)

	require.NoError(t, c.UpdateQuantity(b.ID, -1))
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity_UnknownItem(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.UpdateQuantity("nope", 1), ErrItemNotFound)
	assert.ErrorIs(t, c.RemoveItem("nope"), ErrItemNotFound)
}

func TestSubtotal_RecomputedAfterEveryMutation(t *testing.T) {
	c := New()
	assert.Equal(t, int64(0), c.Subtotal())

	a, _ := c.AddItem(headphones, 1, "", "")
	assert.Equal(t, sumItems(c), c.Subtotal())

	b, _ := c.AddItem(watch, 1, "", "")
	assert.Equal(t, int64(3799000), c.Subtotal())

	_ = c.UpdateQuantity(a.ID, 3)
	assert.Equal(t, sumItems(c), c.Subtotal())
	assert.Equal(t, int64(299000*3+3500000), c.Subtotal())

	_ = c.RemoveItem(b.ID)
	assert.Equal(t, int64(299000*3), c.Subtotal())

	c.Items[0].Quantity = 1
	assert.Equal(t, int64(299000), c.Subtotal())
}

func TestTotalCostAndQuantity(t *testing.T) {
	c := New()
	_, _ = c.AddItem(headphones, 2, "", "")
	_, _ = c.AddItem(watch, 1, "", "")

	assert.Equal(t, int64(180000*2+2100000), c.TotalCost())
	assert.Equal(t, int64(3), c.TotalQuantity())

	c.Clear()
	assert.True(t, c.IsEmpty())
}
