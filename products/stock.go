package products

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/models"
	"sparex/mq"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateStock sets an absolute stock level and recomputes the derived
// status. Relative adjustments happen inside the order transaction, not
// here.
func UpdateStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		Stock *int `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Stock == nil {
		utils.Error(w, apperr.BadRequest("Stock value is required"))
		return
	}
	if *input.Stock < 0 {
		utils.Error(w, apperr.BadRequest("Stock cannot be negative"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res := db.ProductsCollection.FindOneAndUpdate(ctx,
		bson.M{"productId": ps.ByName("productid"), "isDeleted": false},
		bson.M{"$set": bson.M{"stock": *input.Stock, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var p models.Product
	if err := res.Decode(&p); err != nil {
		utils.Error(w, apperr.NotFound("Product not found"))
		return
	}

	p.RefreshStockStatus()
	if _, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": p.ProductID},
		bson.M{"$set": bson.M{"stockStatus": p.StockStatus}},
	); err != nil {
		utils.Error(w, err)
		return
	}

	mq.EmitStock(ctx, mq.StockEvent{
		ProductID:   p.ProductID,
		ProductName: p.Name,
		PartNumber:  p.PartNumber,
		Stock:       p.Stock,
		Threshold:   p.LowStockThreshold,
	})

	utils.Success(w, http.StatusOK, "Stock updated", utils.M{
		"productId":   p.ProductID,
		"stock":       p.Stock,
		"stockStatus": p.StockStatus,
	})
}

// LowStock lists products at or below their threshold, for the admin panel.
func LowStock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"isDeleted": false,
		"$expr":     bson.M{"$lte": bson.A{"$stock", "$lowStockThreshold"}},
	}

	opts := options.Find().SetSort(bson.D{{Key: "stock", Value: 1}})
	cur, err := db.ProductsCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	list := []models.Product{}
	if err := cur.All(ctx, &list); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Low stock products fetched", list)
}
