// Package products is the read-only view of the catalog. Catalog
// management lives in another service; this backend only resolves product
// references for cart pricing.
package products

import (
	"context"

	"kirana/db"
	"kirana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalog implements cart.Catalog over the products collection.
type MongoCatalog struct{}

// FindProduct returns nil, nil when the reference does not resolve.
func (MongoCatalog) FindProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
