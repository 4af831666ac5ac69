package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("userId_createdAt"),
	}

	log.Println("EnsureOrderIndexes: creating userId_createdAt index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureOrderIndexes: userId index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: userId_createdAt index created")
	return nil
}

// EnsureWebhookEventIndexes backs the processed-event ledger. The unique
// eventId index is what makes duplicate webhook deliveries detectable.
func EnsureWebhookEventIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("webhook_events").Indexes()

	eventIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "eventId", Value: 1}},
		Options: options.Index().
			SetName("eventId_unique").
			SetUnique(true),
	}

	log.Println("EnsureWebhookEventIndexes: creating eventId_unique index")
	_, err := indexes.CreateOne(ctx, eventIDIndex)
	if err != nil {
		log.Println("EnsureWebhookEventIndexes: eventId index error:", err)
		return err
	}
	log.Println("EnsureWebhookEventIndexes: eventId_unique index created")
	return nil
}
