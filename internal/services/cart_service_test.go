package services_test

import (
	"testing"

	"plenapos/internal/services"
)

func TestCart(t *testing.T) {
	var c services.Cart
	c.Add(skol(10), 1)
	c.Add(guarana(10), 0)
	c.Add(skol(10), 2)

	items := c.Items()
	if c.Len() != 2 || items[0].Quantity != 3 || items[1].Quantity != 1 {
		t.Fatalf("unexpected lines: %+v", items)
	}
	if c.Total() != 20.46 {
		t.Fatalf("total = %v", c.Total())
	}

	c.UpdateQuantity("1", -10)
	if c.Items()[0].Quantity != 1 {
		t.Fatal("quantity must not drop below 1")
	}
	c.UpdateQuantity("2", 2)
	if c.Items()[1].Quantity != 3 {
		t.Fatal("quantity not increased")
	}

	items[0].Quantity = 99
	if c.Items()[0].Quantity != 1 {
		t.Fatal("Items must return a copy")
	}

	c.Remove("1")
	if c.Len() != 1 || c.Items()[0].ID != "2" {
		t.Fatalf("remove failed: %+v", c.Items())
	}
	c.Clear()
	if c.Len() != 0 || c.Total() != 0 {
		t.Fatal("clear failed")
	}
}
