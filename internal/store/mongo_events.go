package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type webhookEventDoc struct {
	EventID     string    `bson:"eventId"`
	EventType   string    `bson:"eventType"`
	ProcessedAt time.Time `bson:"processedAt"`
}

// MongoEventLedger records processed webhook deliveries. The collection has
// a unique index on eventId, so racing duplicate deliveries collapse to a
// single insert.
type MongoEventLedger struct {
	db *mongo.Database
}

func NewMongoEventLedger(db *mongo.Database) *MongoEventLedger {
	return &MongoEventLedger{db: db}
}

func (l *MongoEventLedger) Seen(ctx context.Context, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := l.db.Collection("webhook_events").CountDocuments(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return false, fmt.Errorf("count webhook events: %w", err)
	}
	return count > 0, nil
}

func (l *MongoEventLedger) MarkProcessed(ctx context.Context, eventID, eventType string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := l.db.Collection("webhook_events").InsertOne(ctx, webhookEventDoc{
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("mark webhook event processed: %w", err)
	}
	return nil
}
