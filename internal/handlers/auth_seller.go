package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SellerLogin handles POST /api/seller/login. The seller account is a single
// identity configured through the environment, not a database record.
func SellerLogin(jwtSecret, sellerEmail, sellerPassword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/seller/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFailure(c, route, "Invalid Credentials")
			return
		}

		if !strings.EqualFold(strings.TrimSpace(req.Email), sellerEmail) || req.Password != sellerPassword {
			respondFailure(c, route, "Invalid Credentials")
			return
		}

		claims := jwt.MapClaims{
			"email": sellerEmail,
			"exp":   time.Now().Add(tokenTTL).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
		if err != nil {
			respondFailure(c, route, "token generation failed")
			return
		}

		log.Printf("[%s] seller logged in", route)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged In", "token": token})
	}
}

// SellerIsAuth handles GET /api/seller/is-auth behind the seller middleware.
func SellerIsAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// SellerLogout handles GET /api/seller/logout.
func SellerLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged Out"})
	}
}
