package orders

import (
	"context"
	"time"

	"kirana/db"
	"kirana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusPatch is a partial status update. Empty fields are left alone;
// the patch never touches items, totals or the address snapshot.
type StatusPatch struct {
	OrderStatus      string
	PaymentStatus    string
	ShipmentStatus   string
	CancellationDate *time.Time
}

// Store persists order aggregates. Orders are inserted once and then
// only patched through status transitions, never deleted.
type Store interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error)
	ListAll(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error)
	ApplyStatus(ctx context.Context, id string, patch StatusPatch) (*models.Order, error)
	BulkSetStatus(ctx context.Context, ids []string, orderStatus, paymentStatus string) (int64, error)
}

type MongoStore struct{}

func (MongoStore) Insert(ctx context.Context, order *models.Order) error {
	_, err := db.OrdersCollection.InsertOne(ctx, order)
	return err
}

func (MongoStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	return findOne(ctx, bson.M{"_id": id})
}

func (MongoStore) FindByIDForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	return findOne(ctx, bson.M{"_id": id, "userId": userID})
}

func findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, filter).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (MongoStore) ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	return list(ctx, bson.M{"userId": userID}, page, limit)
}

func (MongoStore) ListAll(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["orderStatus"] = status
	}
	return list(ctx, filter, page, limit)
}

func list(ctx context.Context, filter bson.M, page, limit int) ([]models.Order, int64, error) {
	total, err := db.OrdersCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (MongoStore) ApplyStatus(ctx context.Context, id string, patch StatusPatch) (*models.Order, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.OrderStatus != "" {
		set["orderStatus"] = patch.OrderStatus
	}
	if patch.PaymentStatus != "" {
		set["paymentStatus"] = patch.PaymentStatus
	}
	if patch.ShipmentStatus != "" {
		set["shipmentStatus"] = patch.ShipmentStatus
	}
	if patch.CancellationDate != nil {
		set["cancellationDate"] = patch.CancellationDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := db.OrdersCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// BulkSetStatus issues one batch update restricted to the two status
// fields. Ids that match nothing are simply absent from the count.
func (MongoStore) BulkSetStatus(ctx context.Context, ids []string, orderStatus, paymentStatus string) (int64, error) {
	set := bson.M{"updatedAt": time.Now()}
	if orderStatus != "" {
		set["orderStatus"] = orderStatus
	}
	if paymentStatus != "" {
		set["paymentStatus"] = paymentStatus
	}

	res, err := db.OrdersCollection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": set},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
