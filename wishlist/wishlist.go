// Package wishlist stores each user's saved products as a single
// document toggled in and out of.
package wishlist

import (
	"context"
	"net/http"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/models"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// loadOrCreate fetches the caller's wishlist, creating an empty one on
// first use. The unique index on userId keeps concurrent first calls
// from racing in two documents.
func loadOrCreate(ctx context.Context, userID string) (*models.Wishlist, error) {
	var w models.Wishlist
	err := db.WishlistsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&w)
	if err == nil {
		return &w, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	w = models.Wishlist{
		WishlistID: utils.GenerateID("w", 10),
		UserID:     userID,
		Products:   []models.WishlistEntry{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := db.WishlistsCollection.InsertOne(ctx, w); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = db.WishlistsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&w)
			if err == nil {
				return &w, nil
			}
		}
		return nil, err
	}
	return &w, nil
}

func save(ctx context.Context, w *models.Wishlist) error {
	_, err := db.WishlistsCollection.ReplaceOne(ctx, bson.M{"userId": w.UserID}, w)
	return err
}

// Toggle adds the product on first call and removes it on the next.
func Toggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var p models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{
		"productId": productID,
		"isActive":  true,
		"isDeleted": false,
	}).Decode(&p)
	if err != nil {
		utils.Error(w, apperr.NotFound("Product not found"))
		return
	}

	wl, err := loadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	action := wl.Toggle(productID)
	if err := save(ctx, wl); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Wishlist updated", utils.M{
		"action":    action,
		"productId": productID,
		"count":     len(wl.Products),
	})
}

// Get returns the wishlist populated with live product data. Entries
// whose product has since been removed or deactivated are dropped.
func Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	wl, err := loadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	ids := make([]string, 0, len(wl.Products))
	addedAt := make(map[string]time.Time, len(wl.Products))
	for _, entry := range wl.Products {
		ids = append(ids, entry.ProductID)
		addedAt[entry.ProductID] = entry.AddedAt
	}

	products := []models.Product{}
	if len(ids) > 0 {
		cur, err := db.ProductsCollection.Find(ctx, bson.M{
			"productId": bson.M{"$in": ids},
			"isActive":  true,
			"isDeleted": false,
		})
		if err != nil {
			utils.Error(w, err)
			return
		}
		defer cur.Close(ctx)
		if err := cur.All(ctx, &products); err != nil {
			utils.Error(w, err)
			return
		}
	}

	// Prune entries whose product disappeared
	if len(products) != len(wl.Products) {
		alive := make(map[string]bool, len(products))
		for i := range products {
			alive[products[i].ProductID] = true
		}
		kept := wl.Products[:0]
		for _, entry := range wl.Products {
			if alive[entry.ProductID] {
				kept = append(kept, entry)
			}
		}
		wl.Products = kept
		wl.UpdatedAt = time.Now()
		if err := save(ctx, wl); err != nil {
			utils.Error(w, err)
			return
		}
	}

	items := make([]utils.M, 0, len(products))
	for i := range products {
		items = append(items, utils.M{
			"product": products[i],
			"addedAt": addedAt[products[i].ProductID],
		})
	}

	utils.Success(w, http.StatusOK, "Wishlist fetched", utils.M{
		"wishlistId": wl.WishlistID,
		"items":      items,
		"count":      len(items),
	})
}

// Check reports whether one product is wishlisted.
func Check(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	wl, err := loadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Wishlist checked", utils.M{
		"productId":  ps.ByName("productid"),
		"wishlisted": wl.Has(ps.ByName("productid")),
	})
}

// Clear empties the wishlist.
func Clear(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	wl, err := loadOrCreate(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	wl.Products = []models.WishlistEntry{}
	wl.UpdatedAt = time.Now()
	if err := save(ctx, wl); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Wishlist cleared", nil)
}
