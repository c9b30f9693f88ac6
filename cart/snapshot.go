package cart

import (
	"context"

	"kirana/apperr"
	"kirana/db"
	"kirana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrEmptyCart is returned when a snapshot is requested for a cart with
// no resolvable items.
var ErrEmptyCart = apperr.New(apperr.Validation, "Cart is empty")

// Snapshot is the priced, weighed view of a cart at one instant.
type Snapshot struct {
	Items       []models.OrderItem
	Subtotal    float64
	TotalWeight float64
}

// Store fetches and clears a user's cart document.
type Store interface {
	Fetch(ctx context.Context, userID string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// Catalog resolves product references. A nil product with a nil error
// means the reference no longer exists.
type Catalog interface {
	FindProduct(ctx context.Context, productID string) (*models.Product, error)
}

// Reader builds order-item snapshots from a cart. It has no side effects;
// clearing the cart is a separate call the orchestrator makes after the
// order is persisted.
type Reader struct {
	store   Store
	catalog Catalog
}

func NewReader(store Store, catalog Catalog) *Reader {
	return &Reader{store: store, catalog: catalog}
}

// Snapshot resolves every cart line against the catalog. Lines whose
// product no longer exists are skipped, a tolerance policy for products
// deleted while sitting in a cart. Missing quantity defaults to 1,
// missing weight to 1, missing price to 0.
func (r *Reader) Snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	c, err := r.store.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil || len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	snap := &Snapshot{}
	for _, line := range c.Items {
		product, err := r.catalog.FindProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			continue
		}

		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}
		weight := product.Weight
		if weight <= 0 {
			weight = 1
		}

		snap.Subtotal += product.Price * float64(quantity)
		snap.TotalWeight += weight * float64(quantity)
		snap.Items = append(snap.Items, models.OrderItem{
			ProductID: product.ProductID,
			Title:     product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			Weight:    weight,
			Image:     productImage(product),
		})
	}

	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}
	return snap, nil
}

// Clear empties the user's cart.
func (r *Reader) Clear(ctx context.Context, userID string) error {
	return r.store.Clear(ctx, userID)
}

func productImage(p *models.Product) string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// MongoStore is the production Store over the carts collection.
type MongoStore struct{}

func (MongoStore) Fetch(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := db.CartsCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (MongoStore) Clear(ctx context.Context, userID string) error {
	_, err := db.CartsCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"items": []models.CartLine{}}},
	)
	return err
}
