package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCartStore keeps the cart on the user document, mirroring the
// cartItems object the client synchronizes wholesale.
type MongoCartStore struct {
	db *mongo.Database
}

func NewMongoCartStore(db *mongo.Database) *MongoCartStore {
	return &MongoCartStore{db: db}
}

func (s *MongoCartStore) Replace(ctx context.Context, userID primitive.ObjectID, items map[string]int) error {
	if items == nil {
		items = map[string]int{}
	}
	// Zero-quantity entries never persist.
	for productID, quantity := range items {
		if quantity <= 0 {
			delete(items, productID)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.db.Collection("users").UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{
			"cartItems": items,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("replace cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *MongoCartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.Replace(ctx, userID, map[string]int{})
}
