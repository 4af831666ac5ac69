package checkout

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/model-map/greenCart/internal/models"
	"github.com/model-map/greenCart/internal/payment"
	"github.com/model-map/greenCart/internal/store"
)

// Service orchestrates order placement for both payment paths.
type Service struct {
	products store.ProductStore
	orders   store.OrderStore
	gateway  payment.Gateway
	currency string
}

func NewService(products store.ProductStore, orders store.OrderStore, gateway payment.Gateway, currency string) *Service {
	return &Service{
		products: products,
		orders:   orders,
		gateway:  gateway,
		currency: currency,
	}
}

// PlaceOrderCOD validates and creates a cash-on-delivery order. The order is
// immediately visible in listings regardless of isPaid.
func (s *Service) PlaceOrderCOD(ctx context.Context, userID primitive.ObjectID, items []models.OrderItem, addressID primitive.ObjectID) (*models.Order, error) {
	if err := validatePlacement(items, addressID); err != nil {
		return nil, err
	}

	products, err := s.resolveProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	amount, err := orderAmount(products, items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:      userID,
		Items:       items,
		Amount:      amount,
		AddressID:   addressID,
		Status:      models.StatusPlaced,
		PaymentType: models.PaymentTypeCOD,
		IsPaid:      false,
	}
	if _, err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("[ORDER] [INFO] COD order %s placed for user %s amount %.2f",
		order.ID.Hex(), userID.Hex(), amount)
	return order, nil
}

// PlaceOrderOnline creates a pending order, opens a checkout session with the
// gateway and returns the redirect URL. The order stays pending until a
// webhook settles it; if session creation fails it is left for the reaper.
func (s *Service) PlaceOrderOnline(ctx context.Context, userID primitive.ObjectID, items []models.OrderItem, addressID primitive.ObjectID, origin string) (string, error) {
	if err := validatePlacement(items, addressID); err != nil {
		return "", err
	}

	products, err := s.resolveProducts(ctx, items)
	if err != nil {
		return "", err
	}

	amount, err := orderAmount(products, items)
	if err != nil {
		return "", err
	}
	lines, err := gatewayLines(products, items)
	if err != nil {
		return "", err
	}
	if err := reconcileAmounts(amount, lines); err != nil {
		log.Printf("[ORDER] [ERROR] amount reconciliation failed for user %s: %v", userID.Hex(), err)
		return "", err
	}

	order := &models.Order{
		UserID:      userID,
		Items:       items,
		Amount:      amount,
		AddressID:   addressID,
		Status:      models.StatusPlaced,
		PaymentType: models.PaymentTypeOnline,
		IsPaid:      false,
	}
	orderID, err := s.orders.Create(ctx, order)
	if err != nil {
		return "", err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.SessionRequest{
		Lines:      lines,
		Currency:   s.currency,
		SuccessURL: fmt.Sprintf("%s/loader?next=my-orders", origin),
		CancelURL:  fmt.Sprintf("%s/cart", origin),
		Metadata: payment.SessionMetadata{
			OrderID: orderID.Hex(),
			UserID:  userID.Hex(),
		},
	})
	if err != nil {
		log.Printf("[ORDER] [ERROR] checkout session for order %s failed: %v", orderID.Hex(), err)
		return "", err
	}

	log.Printf("[ORDER] [INFO] online order %s pending, session %s", orderID.Hex(), session.ID)
	return session.URL, nil
}

// UserOrders lists the orders a user may see: COD orders and paid online
// orders, newest first.
func (s *Service) UserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedOrder, error) {
	return s.orders.VisibleByUser(ctx, userID)
}

// AllOrders is the seller listing with the same visibility predicate.
func (s *Service) AllOrders(ctx context.Context) ([]models.PopulatedOrder, error) {
	return s.orders.AllVisible(ctx)
}

func validatePlacement(items []models.OrderItem, addressID primitive.ObjectID) error {
	if len(items) == 0 || addressID.IsZero() {
		return ErrInvalidRequest
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return ErrInvalidRequest
		}
	}
	return nil
}

// resolveProducts fetches every referenced product up front, so the amount
// fold stays pure. A missing product aborts the whole placement.
func (s *Service) resolveProducts(ctx context.Context, items []models.OrderItem) (map[primitive.ObjectID]models.Product, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, ProductNotFoundError{ProductID: id}
		}
	}
	return products, nil
}
