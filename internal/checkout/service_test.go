package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/model-map/greenCart/internal/models"
	"github.com/model-map/greenCart/internal/payment"
)

func newTestService(products map[primitive.ObjectID]models.Product) (*Service, *fakeOrders, *fakeGateway) {
	orders := newFakeOrders()
	gateway := newFakeGateway()
	service := NewService(&fakeProducts{products: products}, orders, gateway, "usd")
	return service, orders, gateway
}

func TestPlaceOrderCODRejectsEmptyItems(t *testing.T) {
	service, orders, _ := newTestService(nil)

	_, err := service.PlaceOrderCOD(context.Background(), primitive.NewObjectID(), nil, primitive.NewObjectID())
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if len(orders.orders) != 0 {
		t.Fatalf("expected no order records, got %d", len(orders.orders))
	}
}

func TestPlaceOrderCODRejectsMissingAddress(t *testing.T) {
	id, product := productFixture(100)
	service, orders, _ := newTestService(map[primitive.ObjectID]models.Product{id: product})

	items := []models.OrderItem{{ProductID: id, Quantity: 1}}
	_, err := service.PlaceOrderCOD(context.Background(), primitive.NewObjectID(), items, primitive.NilObjectID)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if len(orders.orders) != 0 {
		t.Fatal("expected no order records for invalid request")
	}
}

func TestPlaceOrderCODRejectsNonPositiveQuantity(t *testing.T) {
	id, product := productFixture(100)
	service, orders, _ := newTestService(map[primitive.ObjectID]models.Product{id: product})

	items := []models.OrderItem{{ProductID: id, Quantity: 0}}
	_, err := service.PlaceOrderCOD(context.Background(), primitive.NewObjectID(), items, primitive.NewObjectID())
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if len(orders.orders) != 0 {
		t.Fatal("expected no order records for invalid request")
	}
}

func TestPlaceOrderCODMissingProductAbortsCreation(t *testing.T) {
	service, orders, _ := newTestService(nil)

	items := []models.OrderItem{{ProductID: primitive.NewObjectID(), Quantity: 1}}
	_, err := service.PlaceOrderCOD(context.Background(), primitive.NewObjectID(), items, primitive.NewObjectID())

	var notFound ProductNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}
	if len(orders.orders) != 0 {
		t.Fatal("order must not be partially created when a product is missing")
	}
}

func TestPlaceOrderCODCreatesPlacedOrder(t *testing.T) {
	id, product := productFixture(100)
	service, orders, gateway := newTestService(map[primitive.ObjectID]models.Product{id: product})
	userID := primitive.NewObjectID()
	addressID := primitive.NewObjectID()

	items := []models.OrderItem{{ProductID: id, Quantity: 2}}
	order, err := service.PlaceOrderCOD(context.Background(), userID, items, addressID)
	if err != nil {
		t.Fatalf("PlaceOrderCOD returned error: %v", err)
	}

	if len(orders.orders) != 1 {
		t.Fatalf("expected 1 order record, got %d", len(orders.orders))
	}
	stored := orders.orders[order.ID]
	if stored.Amount != 204 {
		t.Fatalf("expected amount 204, got %v", stored.Amount)
	}
	if stored.PaymentType != models.PaymentTypeCOD || stored.IsPaid {
		t.Fatalf("unexpected order state: paymentType=%s isPaid=%v", stored.PaymentType, stored.IsPaid)
	}
	if stored.Status != models.StatusPlaced {
		t.Fatalf("expected status %q, got %q", models.StatusPlaced, stored.Status)
	}
	if len(gateway.created) != 0 {
		t.Fatal("COD placement must not touch the payment gateway")
	}
}

func TestPlaceOrderOnlineCreatesPendingOrderAndSession(t *testing.T) {
	id, product := productFixture(100)
	service, orders, gateway := newTestService(map[primitive.ObjectID]models.Product{id: product})
	userID := primitive.NewObjectID()

	items := []models.OrderItem{{ProductID: id, Quantity: 2}}
	url, err := service.PlaceOrderOnline(context.Background(), userID, items, primitive.NewObjectID(), "https://shop.example")
	if err != nil {
		t.Fatalf("PlaceOrderOnline returned error: %v", err)
	}
	if url == "" {
		t.Fatal("expected a redirect URL")
	}

	if len(orders.orders) != 1 {
		t.Fatalf("expected exactly 1 pending order, got %d", len(orders.orders))
	}
	var orderID primitive.ObjectID
	for id, order := range orders.orders {
		orderID = id
		if order.IsPaid {
			t.Fatal("online order must start unpaid")
		}
		if order.PaymentType != models.PaymentTypeOnline {
			t.Fatalf("expected Online payment type, got %s", order.PaymentType)
		}
	}

	if len(gateway.created) != 1 {
		t.Fatalf("expected 1 session request, got %d", len(gateway.created))
	}
	req := gateway.created[0]
	if req.Metadata.OrderID != orderID.Hex() {
		t.Fatalf("session metadata orderId %q does not match created order %q", req.Metadata.OrderID, orderID.Hex())
	}
	if req.Metadata.UserID != userID.Hex() {
		t.Fatalf("session metadata userId mismatch: %q", req.Metadata.UserID)
	}
	if !strings.HasPrefix(req.SuccessURL, "https://shop.example/") {
		t.Fatalf("success URL not derived from origin: %q", req.SuccessURL)
	}
	if req.Currency != "usd" {
		t.Fatalf("expected currency usd, got %q", req.Currency)
	}
	// per-line amount carries the 2% surcharge in minor units
	if req.Lines[0].UnitAmount != 10200 {
		t.Fatalf("expected line unit amount 10200, got %d", req.Lines[0].UnitAmount)
	}
}

func TestPlaceOrderOnlineAcceptsFractionalPriceAtQuantity(t *testing.T) {
	id, product := productFixture(99.5)
	service, orders, gateway := newTestService(map[primitive.ObjectID]models.Product{id: product})

	items := []models.OrderItem{{ProductID: id, Quantity: 50}}
	url, err := service.PlaceOrderOnline(context.Background(), primitive.NewObjectID(), items, primitive.NewObjectID(), "https://shop.example")
	if err != nil {
		t.Fatalf("PlaceOrderOnline returned error: %v", err)
	}
	if url == "" {
		t.Fatal("expected a redirect URL")
	}
	if len(orders.orders) != 1 || len(gateway.created) != 1 {
		t.Fatalf("expected 1 order and 1 session, got %d orders %d sessions", len(orders.orders), len(gateway.created))
	}
	// subtotal 4975: amount 4975 + floor(99.5) = 5074, per-unit floor(101.49) = 101
	for _, order := range orders.orders {
		if order.Amount != 5074 {
			t.Fatalf("expected amount 5074, got %v", order.Amount)
		}
	}
	if gateway.created[0].Lines[0].UnitAmount != 10100 {
		t.Fatalf("expected unit amount 10100, got %d", gateway.created[0].Lines[0].UnitAmount)
	}
}

func TestPlaceOrderOnlineGatewayFailureLeavesPendingOrder(t *testing.T) {
	id, product := productFixture(100)
	service, orders, gateway := newTestService(map[primitive.ObjectID]models.Product{id: product})
	gateway.createErr = &payment.GatewayError{Kind: payment.KindUnavailable, Message: "connection refused"}

	items := []models.OrderItem{{ProductID: id, Quantity: 1}}
	_, err := service.PlaceOrderOnline(context.Background(), primitive.NewObjectID(), items, primitive.NewObjectID(), "https://shop.example")

	var gatewayErr *payment.GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	// the pending order stays; the reaper owns cleanup
	if len(orders.orders) != 1 {
		t.Fatalf("expected pending order to remain, got %d orders", len(orders.orders))
	}
	for _, order := range orders.orders {
		if order.IsPaid {
			t.Fatal("pending order must not be paid")
		}
	}
}

func TestPendingOnlineOrderHiddenFromListings(t *testing.T) {
	id, product := productFixture(100)
	service, orders, _ := newTestService(map[primitive.ObjectID]models.Product{id: product})
	userID := primitive.NewObjectID()

	items := []models.OrderItem{{ProductID: id, Quantity: 1}}
	if _, err := service.PlaceOrderOnline(context.Background(), userID, items, primitive.NewObjectID(), "https://shop.example"); err != nil {
		t.Fatalf("PlaceOrderOnline returned error: %v", err)
	}

	userOrders, err := service.UserOrders(context.Background(), userID)
	if err != nil {
		t.Fatalf("UserOrders returned error: %v", err)
	}
	if len(userOrders) != 0 {
		t.Fatalf("pending online order must be hidden from the user, got %d orders", len(userOrders))
	}

	sellerOrders, err := service.AllOrders(context.Background())
	if err != nil {
		t.Fatalf("AllOrders returned error: %v", err)
	}
	if len(sellerOrders) != 0 {
		t.Fatalf("pending online order must be hidden from the seller, got %d orders", len(sellerOrders))
	}

	// once paid it shows up in both views
	for orderID := range orders.orders {
		if err := orders.MarkPaid(context.Background(), orderID); err != nil {
			t.Fatalf("MarkPaid returned error: %v", err)
		}
	}

	userOrders, _ = service.UserOrders(context.Background(), userID)
	if len(userOrders) != 1 || !userOrders[0].IsPaid {
		t.Fatalf("expected exactly one paid order for the user, got %+v", userOrders)
	}
	sellerOrders, _ = service.AllOrders(context.Background())
	if len(sellerOrders) != 1 {
		t.Fatalf("expected exactly one order for the seller, got %d", len(sellerOrders))
	}
}

func TestCODOrderVisibleImmediately(t *testing.T) {
	id, product := productFixture(100)
	service, _, _ := newTestService(map[primitive.ObjectID]models.Product{id: product})
	userID := primitive.NewObjectID()

	items := []models.OrderItem{{ProductID: id, Quantity: 1}}
	if _, err := service.PlaceOrderCOD(context.Background(), userID, items, primitive.NewObjectID()); err != nil {
		t.Fatalf("PlaceOrderCOD returned error: %v", err)
	}

	userOrders, err := service.UserOrders(context.Background(), userID)
	if err != nil {
		t.Fatalf("UserOrders returned error: %v", err)
	}
	if len(userOrders) != 1 {
		t.Fatalf("COD order must be visible immediately, got %d orders", len(userOrders))
	}
	if userOrders[0].IsPaid {
		t.Fatal("COD order is visible while still unpaid")
	}
}
