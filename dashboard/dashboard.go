// Package dashboard serves the back-office aggregations: headline
// stats, revenue series and product leaderboards.
package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"sparex/db"
	"sparex/models"
	"sparex/rdx"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const statsCacheKey = "dashboard:stats"
const statsCacheTTL = 60 * time.Second

// Stats returns the headline numbers for the admin home screen. The
// result is cached briefly in redis since every admin session polls it.
func Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cached, err := rdx.RdxGet(statsCacheKey); err == nil && cached != "" {
		var stats utils.M
		if json.Unmarshal([]byte(cached), &stats) == nil {
			utils.Success(w, http.StatusOK, "Dashboard stats fetched", stats)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	totalUsers, err := db.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.Error(w, err)
		return
	}
	totalProducts, err := db.ProductsCollection.CountDocuments(ctx, bson.M{"isDeleted": false})
	if err != nil {
		utils.Error(w, err)
		return
	}
	totalOrders, err := db.OrdersCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.Error(w, err)
		return
	}
	ordersToday, err := db.OrdersCollection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": dayStart}})
	if err != nil {
		utils.Error(w, err)
		return
	}
	lowStock, err := db.ProductsCollection.CountDocuments(ctx, bson.M{
		"isDeleted": false,
		"isActive":  true,
		"$expr":     bson.M{"$lte": bson.A{"$stock", "$lowStockThreshold"}},
	})
	if err != nil {
		utils.Error(w, err)
		return
	}

	totalRevenue, err := revenueSince(ctx, time.Time{})
	if err != nil {
		utils.Error(w, err)
		return
	}
	revenueToday, err := revenueSince(ctx, dayStart)
	if err != nil {
		utils.Error(w, err)
		return
	}

	byStatus, err := ordersByStatus(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}

	stats := utils.M{
		"totalUsers":     totalUsers,
		"totalProducts":  totalProducts,
		"totalOrders":    totalOrders,
		"ordersToday":    ordersToday,
		"totalRevenue":   models.Round2(totalRevenue),
		"revenueToday":   models.Round2(revenueToday),
		"ordersByStatus": byStatus,
		"lowStockCount":  lowStock,
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := rdx.SetWithExpiry(statsCacheKey, string(raw), statsCacheTTL); err != nil {
			log.Println("dashboard stats cache write failed:", err)
		}
	}

	utils.Success(w, http.StatusOK, "Dashboard stats fetched", stats)
}

// revenueSince sums completed payments created at or after the cutoff.
// A zero cutoff sums everything.
func revenueSince(ctx context.Context, since time.Time) (float64, error) {
	match := bson.M{"status": models.PaymentCompleted}
	if !since.IsZero() {
		match["createdAt"] = bson.M{"$gte": since}
	}

	cur, err := db.PaymentsCollection.Aggregate(ctx, bson.A{
		bson.M{"$match": match},
		bson.M{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func ordersByStatus(ctx context.Context) (map[string]int64, error) {
	cur, err := db.OrdersCollection.Aggregate(ctx, bson.A{
		bson.M{"$group": bson.M{"_id": "$orderStatus", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	byStatus := map[string]int64{}
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}
	return byStatus, nil
}

// MonthlyRevenue returns twelve month buckets of completed payment
// revenue for the requested year, zero filled.
func MonthlyRevenue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	year := time.Now().Year()
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y > 2000 {
		year = y
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(1, 0, 0)

	cur, err := db.PaymentsCollection.Aggregate(ctx, bson.A{
		bson.M{"$match": bson.M{
			"status":    models.PaymentCompleted,
			"createdAt": bson.M{"$gte": from, "$lt": to},
		}},
		bson.M{"$group": bson.M{
			"_id":     bson.M{"$month": "$createdAt"},
			"revenue": bson.M{"$sum": "$amount"},
			"count":   bson.M{"$sum": 1},
		}},
	})
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	var rows []struct {
		Month   int     `bson:"_id"`
		Revenue float64 `bson:"revenue"`
		Count   int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		utils.Error(w, err)
		return
	}

	months := make([]utils.M, 12)
	for i := range months {
		months[i] = utils.M{
			"month":   time.Month(i + 1).String()[:3],
			"revenue": 0.0,
			"orders":  int64(0),
		}
	}
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			months[row.Month-1]["revenue"] = models.Round2(row.Revenue)
			months[row.Month-1]["orders"] = row.Count
		}
	}

	utils.Success(w, http.StatusOK, "Monthly revenue fetched", utils.M{
		"year":   year,
		"months": months,
	})
}

// DailyRevenue returns completed payment revenue per day for the last
// thirty days, zero filled.
func DailyRevenue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -29)

	cur, err := db.PaymentsCollection.Aggregate(ctx, bson.A{
		bson.M{"$match": bson.M{
			"status":    models.PaymentCompleted,
			"createdAt": bson.M{"$gte": from},
		}},
		bson.M{"$group": bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"revenue": bson.M{"$sum": "$amount"},
			"count":   bson.M{"$sum": 1},
		}},
	})
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	var rows []struct {
		Day     string  `bson:"_id"`
		Revenue float64 `bson:"revenue"`
		Count   int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		utils.Error(w, err)
		return
	}

	byDay := make(map[string]utils.M, len(rows))
	for _, row := range rows {
		byDay[row.Day] = utils.M{"revenue": models.Round2(row.Revenue), "orders": row.Count}
	}

	days := make([]utils.M, 0, 30)
	for i := 0; i < 30; i++ {
		key := from.AddDate(0, 0, i).Format("2006-01-02")
		entry := utils.M{"date": key, "revenue": 0.0, "orders": int64(0)}
		if hit, ok := byDay[key]; ok {
			entry["revenue"] = hit["revenue"]
			entry["orders"] = hit["orders"]
		}
		days = append(days, entry)
	}

	utils.Success(w, http.StatusOK, "Daily revenue fetched", days)
}

// RecentOrders returns the latest orders for the dashboard feed.
func RecentOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit := int64(10)
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 50 {
		limit = int64(n)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cur, err := db.OrdersCollection.Find(ctx, bson.M{}, opts)
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

	utils.Success(w, http.StatusOK, "Recent orders fetched", list)
}

// TopSelling returns the best selling active products.
func TopSelling(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit := int64(10)
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 50 {
		limit = int64(n)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "totalSales", Value: -1}}).
		SetLimit(limit)

	cur, err := db.ProductsCollection.Find(ctx, bson.M{"isDeleted": false}, opts)
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

	utils.Success(w, http.StatusOK, "Top selling products fetched", list)
}

// SalesByCategory breaks delivered and in-flight order revenue down by
// product category.
func SalesByCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	cur, err := db.OrdersCollection.Aggregate(ctx, bson.A{
		bson.M{"$match": bson.M{"orderStatus": bson.M{"$ne": models.OrderCancelled}}},
		bson.M{"$unwind": "$items"},
		bson.M{"$lookup": bson.M{
			"from":         "products",
			"localField":   "items.productId",
			"foreignField": "productId",
			"as":           "product",
		}},
		bson.M{"$unwind": "$product"},
		bson.M{"$group": bson.M{
			"_id":      "$product.category",
			"revenue":  bson.M{"$sum": "$items.subtotal"},
			"quantity": bson.M{"$sum": "$items.quantity"},
		}},
		bson.M{"$sort": bson.M{"revenue": -1}},
	})
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	var rows []struct {
		Category string  `bson:"_id"`
		Revenue  float64 `bson:"revenue"`
		Quantity int64   `bson:"quantity"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		utils.Error(w, err)
		return
	}

	list := make([]utils.M, 0, len(rows))
	for _, row := range rows {
		list = append(list, utils.M{
			"category": row.Category,
			"revenue":  models.Round2(row.Revenue),
			"quantity": row.Quantity,
		})
	}

	utils.Success(w, http.StatusOK, "Sales by category fetched", list)
}

// CustomerGrowth returns new signups per month for the last twelve
// months.
func CustomerGrowth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	cur, err := db.UserCollection.Aggregate(ctx, bson.A{
		bson.M{"$match": bson.M{"createdAt": bson.M{"$gte": from}}},
		bson.M{"$group": bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$createdAt"}},
			"count": bson.M{"$sum": 1},
		}},
	})
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	var rows []struct {
		Month string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		utils.Error(w, err)
		return
	}

	byMonth := make(map[string]int64, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row.Count
	}

	series := make([]utils.M, 0, 12)
	for i := 0; i < 12; i++ {
		key := from.AddDate(0, i, 0).Format("2006-01")
		series = append(series, utils.M{"month": key, "customers": byMonth[key]})
	}

	utils.Success(w, http.StatusOK, "Customer growth fetched", series)
}
