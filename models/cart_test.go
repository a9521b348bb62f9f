package models

import "testing"

func TestCartRecomputeTotals(t *testing.T) {
	c := Cart{
		TaxPercentage: 18,
		Items: []CartItem{
			{ProductID: "p1", Quantity: 2, Price: 450},
			{ProductID: "p2", Quantity: 1, Price: 1200},
		},
	}
	c.Recompute(5000, 100)

	if c.TotalItems != 3 {
		t.Fatalf("totalItems = %d, want 3", c.TotalItems)
	}
	if c.Subtotal != 2100 {
		t.Fatalf("subtotal = %v, want 2100", c.Subtotal)
	}
	if c.Tax != 378 {
		t.Fatalf("tax = %v, want 378", c.Tax)
	}
	if c.ShippingCharges != 100 {
		t.Fatalf("shipping = %v, want 100 below free threshold", c.ShippingCharges)
	}
	if c.TotalAmount != 2578 {
		t.Fatalf("totalAmount = %v, want 2578", c.TotalAmount)
	}
}

func TestCartRecomputeFreeShipping(t *testing.T) {
	c := Cart{
		TaxPercentage: 18,
		Items:         []CartItem{{ProductID: "p1", Quantity: 5, Price: 1000}},
	}
	c.Recompute(5000, 100)

	if c.ShippingCharges != 0 {
		t.Fatalf("shipping = %v, want 0 at free threshold", c.ShippingCharges)
	}
	if c.TotalAmount != c.Subtotal+c.Tax {
		t.Fatalf("totalAmount = %v, want subtotal+tax = %v", c.TotalAmount, c.Subtotal+c.Tax)
	}
}

func TestCartRecomputeEmpty(t *testing.T) {
	c := Cart{TaxPercentage: 18}
	c.Recompute(5000, 100)

	if c.TotalItems != 0 || c.Subtotal != 0 || c.Tax != 0 || c.ShippingCharges != 0 || c.TotalAmount != 0 {
		t.Fatalf("empty cart should have zero totals, got %+v", c)
	}
}

func TestCartRecomputeDefaultsTaxPercent(t *testing.T) {
	c := Cart{Items: []CartItem{{ProductID: "p1", Quantity: 1, Price: 100}}}
	c.Recompute(5000, 100)

	if c.TaxPercentage != 18 {
		t.Fatalf("taxPercentage = %v, want default 18", c.TaxPercentage)
	}
	if c.Tax != 18 {
		t.Fatalf("tax = %v, want 18", c.Tax)
	}
}

func TestCartRecomputeRounding(t *testing.T) {
	c := Cart{
		TaxPercentage: 18,
		Items:         []CartItem{{ProductID: "p1", Quantity: 3, Price: 33.33}},
	}
	c.Recompute(5000, 100)

	if c.Items[0].Subtotal != 99.99 {
		t.Fatalf("line subtotal = %v, want 99.99", c.Items[0].Subtotal)
	}
	if c.Tax != 18.00 {
		t.Fatalf("tax = %v, want 18.00", c.Tax)
	}
}

func TestFindItem(t *testing.T) {
	c := Cart{Items: []CartItem{{ProductID: "p1"}, {ProductID: "p2"}}}
	if got := c.FindItem("p2"); got != 1 {
		t.Fatalf("FindItem(p2) = %d, want 1", got)
	}
	if got := c.FindItem("p9"); got != -1 {
		t.Fatalf("FindItem(p9) = %d, want -1", got)
	}
}
