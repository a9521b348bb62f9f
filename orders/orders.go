// Package orders owns the order lifecycle: placement, fulfilment status,
// cancellation and invoices.
package orders

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListMine returns the caller's orders, newest first.
func ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, limit := utils.ParsePagination(r)
	filter := bson.M{"userId": utils.GetUserIDFromRequest(r)}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["orderStatus"] = status
	}

	total, err := db.OrdersCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.Error(w, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	list := []models.Order{}
	if err := cur.All(ctx, &list); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Paginated(w, "Orders fetched", list, utils.NewPagination(total, page, limit))
}

// Get returns one order. Customers only see their own; staff see any.
func Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": ps.ByName("orderid")}).Decode(&order)
	if err != nil {
		utils.Error(w, apperr.NotFound("Order not found"))
		return
	}

	role := utils.GetRoleFromRequest(r)
	if order.UserID != utils.GetUserIDFromRequest(r) && role != "admin" && role != "superadmin" {
		utils.Error(w, apperr.Forbidden("You are not allowed to view this order"))
		return
	}

	utils.Success(w, http.StatusOK, "Order fetched", order)
}

// AdminList serves the back-office order table with filters.
func AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	page, limit := utils.ParsePagination(r)

	filter := bson.M{}
	if status := q.Get("status"); status != "" {
		filter["orderStatus"] = status
	}
	if ps := q.Get("paymentStatus"); ps != "" {
		filter["paymentStatus"] = ps
	}
	if search := q.Get("search"); search != "" {
		filter["$or"] = []bson.M{
			{"orderNumber": bson.M{"$regex": search, "$options": "i"}},
			{"userId": search},
		}
	}

	created := bson.M{}
	if from, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		created["$gte"] = from
	}
	if to, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		created["$lt"] = to.AddDate(0, 0, 1)
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}

	total, err := db.OrdersCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.Error(w, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	list := []models.Order{}
	if err := cur.All(ctx, &list); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Paginated(w, "Orders fetched", list, utils.NewPagination(total, page, limit))
}
