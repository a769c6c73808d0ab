package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableside/tableside/internal/catalog"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func item(id int, price string) catalog.MenuItem {
	return catalog.MenuItem{
		ID:        id,
		Name:      "item",
		Price:     d(price),
		Category:  "test",
		Available: true,
	}
}

func TestAddItem_QuantityTracksCalls(t *testing.T) {
	c := New()
	tacos := item(1, "9.9")
	flan := item(2, "4.5")

	c.AddItem(tacos)
	c.AddItem(tacos)
	c.AddItem(flan)
	c.AddItem(tacos)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestAddItem_StartsAtOne(t *testing.T) {
	c := New()
	c.AddItem(item(1, "5"))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestDecrementItem(t *testing.T) {
	t.Run("decrements quantity", func(t *testing.T) {
		c := New()
		c.AddItem(item(1, "5"))
		c.AddItem(item(1, "5"))

		c.DecrementItem(1)

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].Quantity)
	})

	t.Run("removes line at zero", func(t *testing.T) {
		c := New()
		c.AddItem(item(1, "5"))

		c.DecrementItem(1)

		assert.Equal(t, 0, c.Len())
	})

	t.Run("ignores unknown id", func(t *testing.T) {
		c := New()
		c.AddItem(item(1, "5"))

		c.DecrementItem(42)

		assert.Equal(t, 1, c.Len())
	})
}

func TestRemoveItem(t *testing.T) {
	c := New()
	tacos := item(1, "9.9")
	for range 5 {
		c.AddItem(tacos)
	}
	c.AddItem(item(2, "4.5"))

	c.RemoveItem(1)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].ItemID)
}

func TestTotals(t *testing.T) {
	c := New()
	c.AddItem(item(1, "10"))
	c.AddItem(item(1, "10"))
	c.AddItem(item(2, "3.5"))

	assert.True(t, c.Subtotal().Equal(d("23.5")), "subtotal %s", c.Subtotal())

	c.SetTip(d("0.1"))
	assert.True(t, c.TipAmount().Equal(d("2.35")), "tip %s", c.TipAmount())
	assert.True(t, c.Total().Equal(d("25.85")), "total %s", c.Total())
}

func TestTotals_EmptyCart(t *testing.T) {
	c := New()
	assert.True(t, c.Subtotal().IsZero())
	assert.True(t, c.Total().IsZero())
}

func TestSetTip_Unvalidated(t *testing.T) {
	// The reducer contract accepts any number; bounds are a UI concern.
	c := New()
	c.AddItem(item(1, "10"))

	c.SetTip(d("2"))
	assert.True(t, c.Total().Equal(d("30")), "total %s", c.Total())
}

func TestPlaceOrder_ResetsState(t *testing.T) {
	c := New()
	c.AddItem(item(1, "10"))
	c.SetTip(d("0.2"))

	c.PlaceOrder()

	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Tip().IsZero())
	assert.True(t, c.Total().IsZero())
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := New()
	c.AddItem(item(1, "10"))

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}
