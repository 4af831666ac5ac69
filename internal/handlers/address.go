package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/model-map/greenCart/internal/models"
)

type addAddressRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required" validate:"email"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Zipcode   string `json:"zipcode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

// AddAddress handles POST /api/address/add.
func AddAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/address/add"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		var req addAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFailure(c, route, "Invalid data")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondFailure(c, route, "Invalid data")
			return
		}

		address := models.Address{
			UserID:    userID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Street:    req.Street,
			City:      req.City,
			State:     req.State,
			Zipcode:   req.Zipcode,
			Country:   req.Country,
			Phone:     req.Phone,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("addresses").InsertOne(ctx, address); err != nil {
			respondFailure(c, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address added successfully"})
	}
}

// GetAddress handles GET /api/address/get.
func GetAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/address/get"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("addresses").Find(ctx, bson.M{"userId": userID})
		if err != nil {
			respondFailure(c, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		addresses := make([]models.Address, 0)
		if err := cursor.All(ctx, &addresses); err != nil {
			respondFailure(c, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses})
	}
}
