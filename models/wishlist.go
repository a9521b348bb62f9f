package models

import "time"

type WishlistEntry struct {
	ProductID string    `json:"productId" bson:"productId"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

type Wishlist struct {
	WishlistID string          `json:"wishlistId" bson:"wishlistId"`
	UserID     string          `json:"userId" bson:"userId"`
	Products   []WishlistEntry `json:"products" bson:"products"`
	CreatedAt  time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Has reports whether the product is already wishlisted.
func (w *Wishlist) Has(productID string) bool {
	for i := range w.Products {
		if w.Products[i].ProductID == productID {
			return true
		}
	}
	return false
}

// Toggle adds the product when absent and removes it when present,
// returning "added" or "removed" accordingly.
func (w *Wishlist) Toggle(productID string) string {
	for i := range w.Products {
		if w.Products[i].ProductID == productID {
			w.Products = append(w.Products[:i], w.Products[i+1:]...)
			w.UpdatedAt = time.Now()
			return "removed"
		}
	}
	w.Products = append(w.Products, WishlistEntry{ProductID: productID, AddedAt: time.Now()})
	w.UpdatedAt = time.Now()
	return "added"
}
