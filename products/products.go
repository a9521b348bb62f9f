package products

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/models"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productInput struct {
	Name              string                   `json:"name"`
	PartNumber        string                   `json:"partNumber"`
	Description       string                   `json:"description"`
	Category          string                   `json:"category"`
	Subcategory       string                   `json:"subcategory"`
	CompatibleModels  []models.CompatibleModel `json:"compatibleModels"`
	Price             float64                  `json:"price"`
	DiscountPrice     float64                  `json:"discountPrice"`
	Stock             int                      `json:"stock"`
	LowStockThreshold int                      `json:"lowStockThreshold"`
	Specifications    map[string]string        `json:"specifications"`
	WarrantyPeriod    string                   `json:"warrantyPeriod"`
	Manufacturer      string                   `json:"manufacturer"`
	Tags              []string                 `json:"tags"`
	Weight            float64                  `json:"weight"`
	Dimensions        *models.Dimensions       `json:"dimensions"`
}

func (in *productInput) validate() error {
	if in.Name == "" || in.PartNumber == "" || in.Category == "" {
		return apperr.BadRequest("Name, part number and category are required")
	}
	if in.Price <= 0 {
		return apperr.BadRequest("Price must be greater than zero")
	}
	if in.DiscountPrice < 0 || (in.DiscountPrice > 0 && in.DiscountPrice >= in.Price) {
		return apperr.BadRequest("Discount price must be lower than the price")
	}
	if in.Stock < 0 {
		return apperr.BadRequest("Stock cannot be negative")
	}
	return nil
}

func Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, apperr.BadRequest("Invalid input"))
		return
	}
	if err := input.validate(); err != nil {
		utils.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	partNumber := strings.ToUpper(strings.TrimSpace(input.PartNumber))

	p := models.Product{
		ProductID:           utils.GenerateID("p", 12),
		Name:                input.Name,
		PartNumber:          partNumber,
		SanitizedPartNumber: utils.SanitizePartNumber(partNumber),
		Description:         input.Description,
		Category:            input.Category,
		Subcategory:         input.Subcategory,
		CompatibleModels:    input.CompatibleModels,
		Price:               input.Price,
		DiscountPrice:       input.DiscountPrice,
		Stock:               input.Stock,
		LowStockThreshold:   input.LowStockThreshold,
		Specifications:      input.Specifications,
		WarrantyPeriod:      input.WarrantyPeriod,
		Manufacturer:        input.Manufacturer,
		Tags:                input.Tags,
		Weight:              input.Weight,
		Dimensions:          input.Dimensions,
		IsActive:            true,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	if p.LowStockThreshold <= 0 {
		p.LowStockThreshold = models.DefaultLowStockThreshold
	}
	p.RefreshStockStatus()

	if _, err := db.ProductsCollection.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Error(w, apperr.Conflict("A product with this part number already exists"))
			return
		}
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, "Product created", p)
}

// List serves the public catalog with filters, sorting and pagination.
func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	page, limit := utils.ParsePagination(r)

	filter := bson.M{"isActive": true, "isDeleted": false}
	if category := q.Get("category"); category != "" {
		filter["category"] = category
	}
	if sub := q.Get("subcategory"); sub != "" {
		filter["subcategory"] = sub
	}
	if model := q.Get("model"); model != "" {
		filter["compatibleModels.modelName"] = bson.M{"$regex": model, "$options": "i"}
	}
	if manufacturer := q.Get("manufacturer"); manufacturer != "" {
		filter["manufacturer"] = manufacturer
	}
	if q.Get("inStock") == "true" {
		filter["stock"] = bson.M{"$gt": 0}
	}
	if search := q.Get("search"); search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"sanitizedPartNumber": bson.M{"$regex": utils.SanitizePartNumber(search)}},
			{"tags": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	price := bson.M{}
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		price["$gte"] = v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		price["$lte"] = v
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	sort := bson.D{{Key: "createdAt", Value: -1}}
	switch q.Get("sort") {
	case "price_asc":
		sort = bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		sort = bson.D{{Key: "price", Value: -1}}
	case "popular":
		sort = bson.D{{Key: "totalSales", Value: -1}}
	case "name":
		sort = bson.D{{Key: "name", Value: 1}}
	}

	total, err := db.ProductsCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.Error(w, err)
		return
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

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

	utils.Paginated(w, "Products fetched", list, utils.NewPagination(total, page, limit))
}

func Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var p models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{
		"productId": ps.ByName("productid"),
		"isDeleted": false,
	}).Decode(&p)
	if err != nil {
		utils.Error(w, apperr.NotFound("Product not found"))
		return
	}

	utils.Success(w, http.StatusOK, "Product fetched", p)
}

func Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, apperr.BadRequest("Invalid input"))
		return
	}

	// Whitelist updatable fields; stock has its own endpoint.
	allowed := map[string]bool{
		"name": true, "description": true, "category": true, "subcategory": true,
		"compatibleModels": true, "price": true, "discountPrice": true,
		"lowStockThreshold": true, "specifications": true, "warrantyPeriod": true,
		"manufacturer": true, "tags": true, "weight": true, "dimensions": true,
		"isActive": true,
	}
	set := bson.M{}
	for k, v := range input {
		if allowed[k] {
			set[k] = v
		}
	}
	if len(set) == 0 {
		utils.Error(w, apperr.BadRequest("No updatable fields provided"))
		return
	}
	set["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res := db.ProductsCollection.FindOneAndUpdate(ctx,
		bson.M{"productId": ps.ByName("productid"), "isDeleted": false},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var p models.Product
	if err := res.Decode(&p); err != nil {
		utils.Error(w, apperr.NotFound("Product not found"))
		return
	}

	// Threshold changes shift the derived status
	p.RefreshStockStatus()
	_, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": p.ProductID},
		bson.M{"$set": bson.M{"stockStatus": p.StockStatus}},
	)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Product updated", p)
}

// SoftDelete hides a product from the catalog without touching history.
func SoftDelete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": ps.ByName("productid"), "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true, "isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.Error(w, apperr.NotFound("Product not found"))
		return
	}

	utils.Success(w, http.StatusOK, "Product deleted", nil)
}

func ByCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, limit := utils.ParsePagination(r)
	filter := bson.M{
		"category":  ps.ByName("category"),
		"isActive":  true,
		"isDeleted": false,
	}

	total, err := db.ProductsCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.Error(w, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "totalSales", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

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

	utils.Paginated(w, "Products fetched", list, utils.NewPagination(total, page, limit))
}

// Featured returns the top sellers for the storefront landing page.
func Featured(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "totalSales", Value: -1}}).
		SetLimit(8)

	cur, err := db.ProductsCollection.Find(ctx, bson.M{
		"isActive":  true,
		"isDeleted": false,
		"stock":     bson.M{"$gt": 0},
	}, opts)
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

	utils.Success(w, http.StatusOK, "Featured products fetched", list)
}
