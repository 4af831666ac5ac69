package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Address is a shipping address owned by a user and referenced by orders.
type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Street    string             `bson:"street" json:"street"`
	City      string             `bson:"city" json:"city"`
	State     string             `bson:"state" json:"state"`
	Zipcode   string             `bson:"zipcode" json:"zipcode"`
	Country   string             `bson:"country" json:"country"`
	Phone     string             `bson:"phone" json:"phone"`
}
