package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/model-map/greenCart/internal/models"
)

type addProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description []string `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Price       float64  `json:"price" binding:"required"`
	OfferPrice  float64  `json:"offerPrice" binding:"required"`
	Image       []string `json:"image"`
}

type productIDRequest struct {
	ID string `json:"id" binding:"required"`
}

type changeStockRequest struct {
	ID      string `json:"id" binding:"required"`
	InStock *bool  `json:"inStock" binding:"required"`
}

// AddProduct handles POST /api/product/add (seller only). Image URLs are
// accepted as-is; upload/storage is handled elsewhere.
func AddProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/add"
		defer handlePanic(c, route)

		var req addProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFailure(c, route, "Invalid data")
			return
		}

		if req.OfferPrice <= 0 || req.OfferPrice > req.Price {
			respondFailure(c, route, "Invalid data")
			return
		}

		now := time.Now()
		product := models.Product{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			OfferPrice:  req.OfferPrice,
			Image:       req.Image,
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("products").InsertOne(ctx, product); err != nil {
			respondFailure(c, route, "db error")
			return
		}

		log.Printf("[%s] product added: %s", route, req.Name)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product added"})
	}
}

// ProductList handles GET /api/product/list.
func ProductList(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/product/list"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("products").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondFailure(c, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondFailure(c, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}

// ProductByID handles POST /api/product/id.
func ProductByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/id"
		defer handlePanic(c, route)

		var req productIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFailure(c, route, "Invalid data")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			respondFailure(c, route, "Invalid data")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondFailure(c, route, "Product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

// ChangeStock handles POST /api/product/stock (seller only).
func ChangeStock(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/stock"
		defer handlePanic(c, route)

		var req changeStockRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.InStock == nil {
			respondFailure(c, route, "Invalid data")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			respondFailure(c, route, "Invalid data")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{"inStock": *req.InStock, "updatedAt": time.Now()},
		})
		if err != nil {
			respondFailure(c, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondFailure(c, route, "Product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Stock updated"})
	}
}
