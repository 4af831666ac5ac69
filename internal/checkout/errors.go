package checkout

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidRequest rejects a placement with no items or no address before
// anything is computed or stored.
var ErrInvalidRequest = errors.New("invalid data")

// ProductNotFoundError aborts order placement when a line item references a
// product that does not exist. The order must not be partially created.
type ProductNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID.Hex())
}

// AmountMismatchError reports that the per-line amounts sent to the gateway
// and the aggregate amount stored on the order diverge beyond rounding. Both
// computations are deliberate business rules; drifting apart is a loud error,
// not something to paper over.
type AmountMismatchError struct {
	OrderAmount   float64
	GatewayAmount float64
}

func (e AmountMismatchError) Error() string {
	return fmt.Sprintf("order amount %.2f and gateway line total %.2f diverge beyond rounding tolerance",
		e.OrderAmount, e.GatewayAmount)
}
