package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/model-map/greenCart/internal/store"
)

type updateCartRequest struct {
	CartItems map[string]int `json:"cartItems"`
}

// UpdateCart handles POST /api/cart/update. The client owns the cart and
// synchronizes it wholesale; the whole cartItems object is replaced.
func UpdateCart(carts store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/update"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFailure(c, route, "Invalid data")
			return
		}

		if err := carts.Replace(c.Request.Context(), userID, req.CartItems); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondFailure(c, route, "User not found")
				return
			}
			respondFailure(c, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart Updated"})
	}
}
