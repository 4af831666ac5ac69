package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product defines the persisted catalog document. OfferPrice is the price a
// customer actually pays and is the authoritative input to order amounts.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description []string           `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	OfferPrice  float64            `bson:"offerPrice" json:"offerPrice"`
	Image       []string           `bson:"image" json:"image"`
	InStock     bool               `bson:"inStock" json:"inStock"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
