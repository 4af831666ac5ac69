package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment types accepted at order placement.
const (
	PaymentTypeCOD    = "COD"
	PaymentTypeOnline = "Online"
)

// StatusPlaced is the status every order starts in.
const StatusPlaced = "Order Placed"

// OrderItem is a single product line within an order.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order defines the persisted order document.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Items       []OrderItem        `bson:"items" json:"items"`
	Amount      float64            `bson:"amount" json:"amount"`
	AddressID   primitive.ObjectID `bson:"address" json:"address"`
	Status      string             `bson:"status" json:"status"`
	PaymentType string             `bson:"paymentType" json:"paymentType"`
	IsPaid      bool               `bson:"isPaid" json:"isPaid"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedOrderItem carries the product snapshot a listing embeds per line.
type PopulatedOrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// PopulatedOrder is the listing view of an order with product and address
// documents resolved in place of their references.
type PopulatedOrder struct {
	ID          primitive.ObjectID   `json:"id"`
	UserID      primitive.ObjectID   `json:"userId"`
	Items       []PopulatedOrderItem `json:"items"`
	Amount      float64              `json:"amount"`
	Address     Address              `json:"address"`
	Status      string               `json:"status"`
	PaymentType string               `json:"paymentType"`
	IsPaid      bool                 `json:"isPaid"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}
