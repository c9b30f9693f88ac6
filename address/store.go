package address

import (
	"context"
	"time"

	"kirana/db"
	"kirana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists user addresses. SetDefault must leave exactly one
// default address for the user, under concurrent callers included.
type Store interface {
	Insert(ctx context.Context, a *models.Address) error
	FindByID(ctx context.Context, id string) (*models.Address, error)
	ListByUser(ctx context.Context, userID string) ([]models.Address, error)
	Update(ctx context.Context, a *models.Address) error
	Delete(ctx context.Context, id string) error
	SetDefault(ctx context.Context, userID, id string) error
}

type MongoStore struct{}

func (MongoStore) Insert(ctx context.Context, a *models.Address) error {
	_, err := db.AddressesCollection.InsertOne(ctx, a)
	return err
}

func (MongoStore) FindByID(ctx context.Context, id string) (*models.Address, error) {
	var a models.Address
	err := db.AddressesCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	opts := options.Find().SetSort(bson.D{{Key: "isDefault", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := db.AddressesCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (MongoStore) Update(ctx context.Context, a *models.Address) error {
	a.UpdatedAt = time.Now()
	_, err := db.AddressesCollection.ReplaceOne(ctx, bson.M{"_id": a.AddressID}, a)
	return err
}

func (MongoStore) Delete(ctx context.Context, id string) error {
	_, err := db.AddressesCollection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SetDefault flips isDefault across every address of the user in one
// pipeline update: true where _id matches, false everywhere else. One
// storage operation, so concurrent calls cannot leave zero or two
// defaults behind.
func (MongoStore) SetDefault(ctx context.Context, userID, id string) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"isDefault": bson.M{"$eq": []any{"$_id", id}},
			"updatedAt": time.Now(),
		}}},
	}
	_, err := db.AddressesCollection.UpdateMany(ctx, bson.M{"userId": userID}, pipeline)
	return err
}
