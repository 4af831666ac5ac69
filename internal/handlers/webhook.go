package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/model-map/greenCart/internal/checkout"
	"github.com/model-map/greenCart/internal/payment"
)

// StripeWebhook handles POST /stripe. The body must reach the processor raw
// and unparsed; any middleware that decodes JSON first would break signature
// verification, so this route is wired outside the JSON plumbing.
func StripeWebhook(processor *checkout.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /stripe"
		defer handlePanic(c, route)

		payload, err := c.GetRawData()
		if err != nil {
			log.Printf("[%s] reading body failed: %v", route, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		err = processor.Process(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, payment.ErrSignatureInvalid) {
				log.Printf("[%s] signature rejected: %v", route, err)
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
				return
			}
			// Non-2xx makes the gateway redeliver; the event was not
			// durably processed.
			log.Printf("[%s] processing failed: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "event not processed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
