package models

import (
	"math"
	"time"
)

type CartItem struct {
	ItemID    string  `json:"itemId" bson:"itemId"`
	ProductID string  `json:"productId" bson:"productId"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
	Subtotal  float64 `json:"subtotal" bson:"subtotal"`
}

type Cart struct {
	CartID          string     `json:"cartId" bson:"cartId"`
	UserID          string     `json:"userId" bson:"userId"`
	Items           []CartItem `json:"items" bson:"items"`
	TotalItems      int        `json:"totalItems" bson:"totalItems"`
	Subtotal        float64    `json:"subtotal" bson:"subtotal"`
	Tax             float64    `json:"tax" bson:"tax"`
	TaxPercentage   float64    `json:"taxPercentage" bson:"taxPercentage"`
	ShippingCharges float64    `json:"shippingCharges" bson:"shippingCharges"`
	TotalAmount     float64    `json:"totalAmount" bson:"totalAmount"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Round2 rounds to two decimal places, the precision money is stored at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Recompute rebuilds every derived total from the line items. Called
// unconditionally before each save so totals can never go stale.
func (c *Cart) Recompute(freeShippingAbove, shippingFlatFee float64) {
	if c.TaxPercentage <= 0 {
		c.TaxPercentage = 18
	}

	totalItems := 0
	subtotal := 0.0
	for i := range c.Items {
		c.Items[i].Subtotal = Round2(c.Items[i].Price * float64(c.Items[i].Quantity))
		totalItems += c.Items[i].Quantity
		subtotal += c.Items[i].Subtotal
	}

	c.TotalItems = totalItems
	c.Subtotal = Round2(subtotal)
	c.Tax = Round2(c.Subtotal * c.TaxPercentage / 100)
	switch {
	case c.Subtotal <= 0:
		c.ShippingCharges = 0
	case c.Subtotal >= freeShippingAbove:
		c.ShippingCharges = 0
	default:
		c.ShippingCharges = shippingFlatFee
	}
	c.TotalAmount = Round2(c.Subtotal + c.Tax + c.ShippingCharges)
	c.UpdatedAt = time.Now()
}

// FindItem returns the index of the line holding productID, or -1.
func (c *Cart) FindItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
