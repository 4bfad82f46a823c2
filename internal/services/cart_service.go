package services

import (
	"plenapos/internal/domain"
)

// Cart is the in-progress transaction of one register. It is not safe for concurrent use.
type Cart struct {
	items []domain.CartItem
}

// Add snapshots p into the cart or bumps its quantity if already present.
func (c *Cart) Add(p domain.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity += qty
			return
		}
	}
	c.items = append(c.items, domain.CartItem{Product: p, Quantity: qty})
}

func (c *Cart) Remove(id string) {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

// UpdateQuantity adds delta to the line, never going below 1.
func (c *Cart) UpdateQuantity(id string, delta int) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = max(1, c.items[i].Quantity+delta)
			return
		}
	}
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []domain.CartItem {
	return append([]domain.CartItem(nil), c.items...)
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) Total() float64 { return domain.CartTotal(c.items) }

func (c *Cart) Clear() { c.items = nil }
