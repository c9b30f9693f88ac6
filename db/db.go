package db

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	OrdersCollection      *mongo.Collection
	CartsCollection       *mongo.Collection
	AddressesCollection   *mongo.Collection
	ProductsCollection    *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Init connects to MongoDB and binds the collection handles. Called once
// from main; packages hold the collections, not the client.
func Init(ctx context.Context) error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "kiranadb"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	database := client.Database(dbName)
	OrdersCollection = database.Collection("orders")
	CartsCollection = database.Collection("carts")
	AddressesCollection = database.Collection("addresses")
	ProductsCollection = database.Collection("products")
	IdempotencyCollection = database.Collection("idempotency")
	return nil
}

// Close disconnects the client during shutdown.
func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
