// Package cart implements the order-cart reducer used by ordering clients:
// a collection of menu item lines with quantities plus a tip fraction.
//
// A Cart mirrors a UI store: all mutations are expected to come from a
// single goroutine, so it carries no locking of its own.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/tableside/tableside/internal/catalog"
	"github.com/tableside/tableside/internal/order"
)

// Cart holds the in-progress order for one table session.
type Cart struct {
	lines []order.Line
	tip   decimal.Decimal
}

// New returns an empty cart with no tip.
func New() *Cart {
	return &Cart{tip: decimal.Zero}
}

// AddItem adds one unit of the given menu item. Repeated calls for the same
// item increment its quantity; the line is appended on first add. It never
// fails.
func (c *Cart) AddItem(item catalog.MenuItem) {
	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, order.Line{
		ItemID:    item.ID,
		Name:      item.Name,
		Price:     item.Price,
		Image:     item.Image,
		Category:  item.Category,
		Available: item.Available,
		Quantity:  1,
	})
}

// DecrementItem reduces the matching line's quantity by one. A line whose
// quantity would reach zero is removed; carts never hold zero-quantity
// lines. Unknown ids are ignored.
func (c *Cart) DecrementItem(id int) {
	for i := range c.lines {
		if c.lines[i].ItemID != id {
			continue
		}
		if c.lines[i].Quantity <= 1 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity--
		}
		return
	}
}

// RemoveItem deletes the line matching id entirely, regardless of quantity.
func (c *Cart) RemoveItem(id int) {
	for i := range c.lines {
		if c.lines[i].ItemID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetTip replaces the tip fraction unconditionally. The contract accepts any
// value; the UI restricts choices to its presets.
func (c *Cart) SetTip(fraction decimal.Decimal) {
	c.tip = fraction
}

// Tip returns the current tip fraction.
func (c *Cart) Tip() decimal.Decimal {
	return c.tip
}

// Subtotal returns the sum of price * quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range c.lines {
		qty := decimal.NewFromInt(int64(c.lines[i].Quantity))
		sum = sum.Add(c.lines[i].Price.Mul(qty))
	}
	return sum
}

// TipAmount returns subtotal * tip.
func (c *Cart) TipAmount() decimal.Decimal {
	return c.Subtotal().Mul(c.tip)
}

// Total returns subtotal + tip amount.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.TipAmount())
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []order.Line {
	out := make([]order.Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// PlaceOrder clears all lines and resets the tip to zero. It is meant to run
// after a successful submission round-trip.
func (c *Cart) PlaceOrder() {
	c.lines = nil
	c.tip = decimal.Zero
}
