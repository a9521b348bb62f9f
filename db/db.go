package db

import (
	"context"
	"log"
	"time"

	"sparex/globals"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	AdminCollection         *mongo.Collection
	ProductsCollection      *mongo.Collection
	CartsCollection         *mongo.Collection
	OrdersCollection        *mongo.Collection
	PaymentsCollection      *mongo.Collection
	NotificationsCollection *mongo.Collection
	WishlistsCollection     *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := globals.Env("MONGODB_URI", "mongodb://localhost:27017")
	dbName := globals.Env("MONGO_DB", "sparexdb")

	ClientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), ClientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database(dbName).Collection("users")
	AdminCollection = Client.Database(dbName).Collection("admins")
	ProductsCollection = Client.Database(dbName).Collection("products")
	CartsCollection = Client.Database(dbName).Collection("carts")
	OrdersCollection = Client.Database(dbName).Collection("orders")
	PaymentsCollection = Client.Database(dbName).Collection("payments")
	NotificationsCollection = Client.Database(dbName).Collection("notifications")
	WishlistsCollection = Client.Database(dbName).Collection("wishlists")
}

// EnsureIndexes creates the unique and TTL indexes the collections rely on.
// Safe to call on every startup; Mongo treats existing indexes as a no-op.
func EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = AdminCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = ProductsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "partNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "subcategory", Value: 1}}},
		{Keys: bson.D{{Key: "compatibleModels.modelName", Value: 1}}},
		{Keys: bson.D{{Key: "sanitizedPartNumber", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = CartsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = OrdersCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "orderStatus", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = PaymentsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "orderId", Value: 1}},
	})
	if err != nil {
		return err
	}

	// Read notifications expire 30 days after readAt; unread ones never do.
	_, err = NotificationsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "readAt", Value: 1}},
		Options: options.Index().
			SetExpireAfterSeconds(30 * 24 * 60 * 60).
			SetPartialFilterExpression(bson.M{"isRead": true}),
	})
	if err != nil {
		return err
	}

	_, err = WishlistsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
