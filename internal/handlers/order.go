package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/model-map/greenCart/internal/checkout"
	"github.com/model-map/greenCart/internal/models"
	"github.com/model-map/greenCart/internal/payment"
)

type orderItemRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type placeOrderRequest struct {
	Items   []orderItemRequest `json:"items"`
	Address string             `json:"address"`
}

// PlaceOrderCOD handles POST /api/order/cod.
func PlaceOrderCOD(service *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/cod"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		items, addressID, ok := bindPlaceOrder(c, route)
		if !ok {
			return
		}

		if _, err := service.PlaceOrderCOD(c.Request.Context(), userID, items, addressID); err != nil {
			respondFailure(c, route, placementErrorMessage(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order Placed Successfully"})
	}
}

// PlaceOrderOnline handles POST /api/order/online. The response carries the
// gateway redirect URL; settlement happens later through the webhook.
func PlaceOrderOnline(service *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/online"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		items, addressID, ok := bindPlaceOrder(c, route)
		if !ok {
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			respondFailure(c, route, "Invalid data")
			return
		}

		url, err := service.PlaceOrderOnline(c.Request.Context(), userID, items, addressID, origin)
		if err != nil {
			respondFailure(c, route, placementErrorMessage(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
	}
}

// GetUserOrders handles GET /api/order/user.
func GetUserOrders(service *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order/user"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized"})
			return
		}

		orders, err := service.UserOrders(c.Request.Context(), userID)
		if err != nil {
			respondFailure(c, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GetSellerOrders handles GET /api/order/seller.
func GetSellerOrders(service *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order/seller"
		defer handlePanic(c, route)

		orders, err := service.AllOrders(c.Request.Context())
		if err != nil {
			respondFailure(c, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

func bindPlaceOrder(c *gin.Context, route string) ([]models.OrderItem, primitive.ObjectID, bool) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, route, "Invalid data")
		return nil, primitive.NilObjectID, false
	}

	if len(req.Items) == 0 || req.Address == "" {
		respondFailure(c, route, "Invalid data")
		return nil, primitive.NilObjectID, false
	}

	addressID, err := primitive.ObjectIDFromHex(req.Address)
	if err != nil {
		respondFailure(c, route, "Invalid data")
		return nil, primitive.NilObjectID, false
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			respondFailure(c, route, "Invalid data")
			return nil, primitive.NilObjectID, false
		}
		items = append(items, models.OrderItem{ProductID: productID, Quantity: item.Quantity})
	}
	return items, addressID, true
}

func placementErrorMessage(err error) string {
	var notFound checkout.ProductNotFoundError
	var gatewayErr *payment.GatewayError

	switch {
	case errors.Is(err, checkout.ErrInvalidRequest):
		return "Invalid data"
	case errors.As(err, &notFound):
		return "Product not found"
	case errors.As(err, &gatewayErr):
		log.Printf("[ORDER] [ERROR] gateway failure: %v", gatewayErr)
		return "Payment gateway error"
	default:
		return err.Error()
	}
}
