package checkout

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/model-map/greenCart/internal/models"
	"github.com/model-map/greenCart/internal/payment"
)

// taxRate is the flat surcharge applied on top of every order.
const taxRate = 0.02

// minorUnitsPerUnit converts a whole currency amount to the gateway's
// minor-unit representation for a two-decimal currency.
const minorUnitsPerUnit = 100

// orderAmount folds the already-resolved products into the aggregate order
// total: floored subtotal plus a floored 2% tax surcharge. Product lookups
// happen before this fold, never inside it.
func orderAmount(products map[primitive.ObjectID]models.Product, items []models.OrderItem) (float64, error) {
	var subtotal float64
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return 0, ProductNotFoundError{ProductID: item.ProductID}
		}
		subtotal += product.OfferPrice * float64(item.Quantity)
	}
	return math.Floor(subtotal) + math.Floor(subtotal*taxRate), nil
}

// gatewayLines builds the per-line checkout data. The 2% surcharge is applied
// per unit here, in addition to the aggregate surcharge baked into the stored
// order amount; reconcileAmounts asserts the two stay within rounding of each
// other.
func gatewayLines(products map[primitive.ObjectID]models.Product, items []models.OrderItem) ([]payment.LineItem, error) {
	lines := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, ProductNotFoundError{ProductID: item.ProductID}
		}
		unit := math.Floor(product.OfferPrice + product.OfferPrice*taxRate)
		lines = append(lines, payment.LineItem{
			Name:       product.Name,
			UnitAmount: int64(unit) * minorUnitsPerUnit,
			Quantity:   item.Quantity,
		})
	}
	return lines, nil
}

// reconcileAmounts compares the aggregate order amount against the sum of the
// per-line gateway amounts. Per-unit flooring loses up to one whole currency
// unit for every unit sold, and the aggregate side floors twice, so the two
// may legitimately differ by the total quantity plus two; anything beyond
// that means the two business rules have drifted apart.
func reconcileAmounts(amount float64, lines []payment.LineItem) error {
	var gatewayMinor int64
	var totalQuantity int
	for _, line := range lines {
		gatewayMinor += line.UnitAmount * int64(line.Quantity)
		totalQuantity += line.Quantity
	}
	gatewayAmount := float64(gatewayMinor) / minorUnitsPerUnit

	tolerance := float64(totalQuantity + 2)
	if math.Abs(gatewayAmount-amount) > tolerance {
		return AmountMismatchError{OrderAmount: amount, GatewayAmount: gatewayAmount}
	}
	return nil
}
