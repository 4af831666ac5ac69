package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/model-map/greenCart/internal/models"
)

type MongoOrderStore struct {
	db *mongo.Database
}

func NewMongoOrderStore(db *mongo.Database) *MongoOrderStore {
	return &MongoOrderStore{db: db}
}

// visibleFilter hides pending unpaid online orders from every listing.
func visibleFilter() bson.M {
	return bson.M{
		"$or": []bson.M{
			{"paymentType": models.PaymentTypeCOD},
			{"isPaid": true},
		},
	}
}

func (s *MongoOrderStore) Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := s.db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert order: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	order.ID = id
	return id, nil
}

func (s *MongoOrderStore) MarkPaid(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.db.Collection("orders").UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"isPaid":    true,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *MongoOrderStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Collection("orders").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (s *MongoOrderStore) VisibleByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedOrder, error) {
	filter := visibleFilter()
	filter["userId"] = userID
	return s.findPopulated(ctx, filter)
}

func (s *MongoOrderStore) AllVisible(ctx context.Context) ([]models.PopulatedOrder, error) {
	return s.findPopulated(ctx, visibleFilter())
}

func (s *MongoOrderStore) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.db.Collection("orders").DeleteMany(ctx, bson.M{
		"paymentType": models.PaymentTypeOnline,
		"isPaid":      false,
		"createdAt":   bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("delete stale pending orders: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoOrderStore) findPopulated(ctx context.Context, filter bson.M) ([]models.PopulatedOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.db.Collection("orders").Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	return s.populate(ctx, orders)
}

// populate resolves product and address references for a page of orders with
// two batched lookups instead of one query per line item.
func (s *MongoOrderStore) populate(ctx context.Context, orders []models.Order) ([]models.PopulatedOrder, error) {
	productIDs := make([]primitive.ObjectID, 0)
	addressIDs := make([]primitive.ObjectID, 0)
	seenProducts := make(map[primitive.ObjectID]bool)
	seenAddresses := make(map[primitive.ObjectID]bool)

	for _, order := range orders {
		if !seenAddresses[order.AddressID] {
			seenAddresses[order.AddressID] = true
			addressIDs = append(addressIDs, order.AddressID)
		}
		for _, item := range order.Items {
			if !seenProducts[item.ProductID] {
				seenProducts[item.ProductID] = true
				productIDs = append(productIDs, item.ProductID)
			}
		}
	}

	products, err := s.lookupProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	addresses, err := s.lookupAddresses(ctx, addressIDs)
	if err != nil {
		return nil, err
	}

	populated := make([]models.PopulatedOrder, 0, len(orders))
	for _, order := range orders {
		items := make([]models.PopulatedOrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, models.PopulatedOrderItem{
				Product:  products[item.ProductID],
				Quantity: item.Quantity,
			})
		}
		populated = append(populated, models.PopulatedOrder{
			ID:          order.ID,
			UserID:      order.UserID,
			Items:       items,
			Amount:      order.Amount,
			Address:     addresses[order.AddressID],
			Status:      order.Status,
			PaymentType: order.PaymentType,
			IsPaid:      order.IsPaid,
			CreatedAt:   order.CreatedAt,
			UpdatedAt:   order.UpdatedAt,
		})
	}
	return populated, nil
}

func (s *MongoOrderStore) lookupProducts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	result := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := s.db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find order products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode order products: %w", err)
	}
	for _, product := range products {
		result[product.ID] = product
	}
	return result, nil
}

func (s *MongoOrderStore) lookupAddresses(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Address, error) {
	result := make(map[primitive.ObjectID]models.Address, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := s.db.Collection("addresses").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find order addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("decode order addresses: %w", err)
	}
	for _, address := range addresses {
		result[address.ID] = address
	}
	return result, nil
}
