package checkout

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/model-map/greenCart/internal/models"
	"github.com/model-map/greenCart/internal/payment"
	"github.com/model-map/greenCart/internal/store"
)

type fakeProducts struct {
	products map[primitive.ObjectID]models.Product
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	result := make(map[primitive.ObjectID]models.Product)
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

type fakeOrders struct {
	orders  map[primitive.ObjectID]*models.Order
	cutoffs []time.Time
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	order.ID = id
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	copied := *order
	f.orders[id] = &copied
	return id, nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id primitive.ObjectID) error {
	order, ok := f.orders[id]
	if !ok {
		return store.ErrOrderNotFound
	}
	order.IsPaid = true
	return nil
}

func (f *fakeOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.orders, id)
	return nil
}

func (f *fakeOrders) VisibleByUser(_ context.Context, userID primitive.ObjectID) ([]models.PopulatedOrder, error) {
	var result []models.PopulatedOrder
	for _, order := range f.orders {
		if order.UserID != userID {
			continue
		}
		if order.PaymentType == models.PaymentTypeCOD || order.IsPaid {
			result = append(result, populatedView(order))
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (f *fakeOrders) AllVisible(_ context.Context) ([]models.PopulatedOrder, error) {
	var result []models.PopulatedOrder
	for _, order := range f.orders {
		if order.PaymentType == models.PaymentTypeCOD || order.IsPaid {
			result = append(result, populatedView(order))
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (f *fakeOrders) DeleteStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	var reaped int64
	for id, order := range f.orders {
		if order.PaymentType == models.PaymentTypeOnline && !order.IsPaid && order.CreatedAt.Before(cutoff) {
			delete(f.orders, id)
			reaped++
		}
	}
	return reaped, nil
}

func populatedView(order *models.Order) models.PopulatedOrder {
	return models.PopulatedOrder{
		ID:          order.ID,
		UserID:      order.UserID,
		Amount:      order.Amount,
		Status:      order.Status,
		PaymentType: order.PaymentType,
		IsPaid:      order.IsPaid,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func sortNewestFirst(orders []models.PopulatedOrder) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

type fakeCarts struct {
	carts  map[primitive.ObjectID]map[string]int
	clears int
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: make(map[primitive.ObjectID]map[string]int)}
}

func (f *fakeCarts) Replace(_ context.Context, userID primitive.ObjectID, items map[string]int) error {
	if _, ok := f.carts[userID]; !ok {
		return store.ErrUserNotFound
	}
	if items == nil {
		items = map[string]int{}
	}
	f.carts[userID] = items
	return nil
}

func (f *fakeCarts) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if err := f.Replace(ctx, userID, map[string]int{}); err != nil {
		return err
	}
	f.clears++
	return nil
}

type fakeLedger struct {
	processed map[string]string
	// forgetful ledgers never remember events; used to prove the handler
	// stays idempotent without the ledger's help.
	forgetful bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{processed: make(map[string]string)}
}

func (f *fakeLedger) Seen(_ context.Context, eventID string) (bool, error) {
	if f.forgetful {
		return false, nil
	}
	_, ok := f.processed[eventID]
	return ok, nil
}

func (f *fakeLedger) MarkProcessed(_ context.Context, eventID, eventType string) error {
	if f.forgetful {
		return nil
	}
	f.processed[eventID] = eventType
	return nil
}

type fakeGateway struct {
	created     []payment.SessionRequest
	session     *payment.Session
	createErr   error
	byIntent    map[string][]payment.Session
	intentCalls []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{byIntent: make(map[string][]payment.Session)}
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	f.created = append(f.created, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.session != nil {
		return f.session, nil
	}
	return &payment.Session{
		ID:       "cs_test_1",
		URL:      "https://gateway.example/session/cs_test_1",
		Metadata: req.Metadata,
	}, nil
}

func (f *fakeGateway) SessionsByPaymentIntent(_ context.Context, paymentIntentID string) ([]payment.Session, error) {
	f.intentCalls = append(f.intentCalls, paymentIntentID)
	return f.byIntent[paymentIntentID], nil
}
