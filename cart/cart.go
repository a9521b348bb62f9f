// Package cart keeps one cart per customer. Prices are snapshotted onto
// line items and refreshed on every touch, so the stored totals always
// reflect current pricing.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/globals"
	"sparex/models"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func envFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(globals.Env(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

var (
	freeShippingAbove = envFloat("FREE_SHIPPING_ABOVE", 5000)
	shippingFlatFee   = envFloat("SHIPPING_FLAT_FEE", 100)
)

// ShippingRates exposes the configured thresholds to the order flow.
func ShippingRates() (freeAbove, flatFee float64) {
	return freeShippingAbove, shippingFlatFee
}

// LoadOrCreate returns the user's cart, creating an empty one on first use.
func LoadOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := db.CartsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if err == nil {
		return &c, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	c = models.Cart{
		CartID:        utils.GenerateID("c", 12),
		UserID:        userID,
		Items:         []models.CartItem{},
		TaxPercentage: envFloat("TAX_PERCENT", 18),
		CreatedAt:     time.Now(),
	}
	c.Recompute(freeShippingAbove, shippingFlatFee)
	if _, err := db.CartsCollection.InsertOne(ctx, c); err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, err
	}
	return &c, nil
}

func save(ctx context.Context, c *models.Cart) error {
	c.Recompute(freeShippingAbove, shippingFlatFee)
	_, err := db.CartsCollection.ReplaceOne(ctx, bson.M{"userId": c.UserID}, c)
	return err
}

func fetchProduct(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{
		"productId": productID,
		"isActive":  true,
		"isDeleted": false,
	}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Product not found or unavailable")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := LoadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Cart fetched", c)
}

func AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ProductID == "" {
		utils.Error(w, apperr.BadRequest("Product id is required"))
		return
	}
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := fetchProduct(ctx, input.ProductID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	c, err := LoadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	// Stock check covers what is already in the cart
	requested := input.Quantity
	idx := c.FindItem(input.ProductID)
	if idx >= 0 {
		requested += c.Items[idx].Quantity
	}
	if requested > p.Stock {
		utils.Error(w, apperr.BadRequest(fmt.Sprintf("Only %d units of %s available", p.Stock, p.Name)))
		return
	}

	if idx >= 0 {
		c.Items[idx].Quantity = requested
		c.Items[idx].Price = p.FinalPrice()
	} else {
		c.Items = append(c.Items, models.CartItem{
			ItemID:    utils.GenerateID("ci", 10),
			ProductID: p.ProductID,
			Quantity:  input.Quantity,
			Price:     p.FinalPrice(),
		})
	}

	if err := save(ctx, c); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Item added to cart", c)
}

func UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Quantity < 1 {
		utils.Error(w, apperr.BadRequest("Quantity must be at least 1"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := LoadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	itemID := ps.ByName("itemid")
	idx := -1
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		utils.Error(w, apperr.NotFound("Cart item not found"))
		return
	}

	p, err := fetchProduct(ctx, c.Items[idx].ProductID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if input.Quantity > p.Stock {
		utils.Error(w, apperr.BadRequest(fmt.Sprintf("Only %d units of %s available", p.Stock, p.Name)))
		return
	}

	c.Items[idx].Quantity = input.Quantity
	c.Items[idx].Price = p.FinalPrice()

	if err := save(ctx, c); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Cart item updated", c)
}

func RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := LoadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	itemID := ps.ByName("itemid")
	kept := c.Items[:0]
	removed := false
	for _, it := range c.Items {
		if it.ItemID == itemID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		utils.Error(w, apperr.NotFound("Cart item not found"))
		return
	}
	c.Items = kept

	if err := save(ctx, c); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Item removed from cart", c)
}

func Clear(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := LoadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	c.Items = []models.CartItem{}
	if err := save(ctx, c); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Cart cleared", c)
}

// Sync reconciles the cart against the live catalog: gone or inactive
// products drop out, prices refresh, quantities clamp to stock. The
// response reports what changed.
func Sync(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := LoadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	updated := []string{}
	removed := []string{}
	kept := c.Items[:0]

	for _, it := range c.Items {
		p, err := fetchProduct(ctx, it.ProductID)
		if err != nil {
			if _, ok := err.(*apperr.Error); ok {
				removed = append(removed, it.ProductID)
				continue
			}
			utils.Error(w, err)
			return
		}
		if p.Stock <= 0 {
			removed = append(removed, it.ProductID)
			continue
		}

		changed := false
		if it.Quantity > p.Stock {
			it.Quantity = p.Stock
			changed = true
		}
		if it.Price != p.FinalPrice() {
			it.Price = p.FinalPrice()
			changed = true
		}
		if changed {
			updated = append(updated, it.ProductID)
		}
		kept = append(kept, it)
	}
	c.Items = kept

	if err := save(ctx, c); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Cart synced", utils.M{
		"cart":    c,
		"updated": updated,
		"removed": removed,
	})
}
