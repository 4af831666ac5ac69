package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/model-map/greenCart/internal/models"
)

const tokenTTL = 7 * 24 * time.Hour

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required" validate:"email"`
	Password string `json:"password" binding:"required" validate:"min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/user/register.
func Register(db *mongo.Database, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/register"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondFailure(c, route, "database unavailable")
			return
		}

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFailure(c, route, "Missing details")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondFailure(c, route, "Invalid email or password")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			respondFailure(c, route, "db error")
			return
		}
		if count > 0 {
			respondFailure(c, route, "User already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondFailure(c, route, "password hashing failed")
			return
		}

		now := time.Now()
		user := models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			CartItems:    map[string]int{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			respondFailure(c, route, "db error")
			return
		}
		userID, _ := res.InsertedID.(primitive.ObjectID)

		token, err := signUserToken(userID, jwtSecret)
		if err != nil {
			respondFailure(c, route, "token generation failed")
			return
		}

		log.Printf("[%s] user registered: %s", route, email)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"token":   token,
			"user":    gin.H{"email": user.Email, "name": user.Name},
		})
	}
}

// Login handles POST /api/user/login.
func Login(db *mongo.Database, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFailure(c, route, "Email and password are required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{
			"email": strings.ToLower(strings.TrimSpace(req.Email)),
		}).Decode(&user)
		if err != nil {
			respondFailure(c, route, "Invalid email or password")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondFailure(c, route, "Invalid email or password")
			return
		}

		token, err := signUserToken(user.ID, jwtSecret)
		if err != nil {
			respondFailure(c, route, "token generation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"token":   token,
			"user":    gin.H{"email": user.Email, "name": user.Name},
		})
	}
}

// IsAuth handles GET /api/user/is-auth behind the user auth middleware.
func IsAuth(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/is-auth"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondFailure(c, route, "User not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

// Logout handles GET /api/user/logout. Tokens are bearer tokens, so logout
// is client-side; the endpoint exists for API parity.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged Out"})
	}
}

func signUserToken(userID primitive.ObjectID, secret string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"exp":    time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
