package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/model-map/greenCart/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUserNotFound  = errors.New("user not found")
)

// ProductStore is the catalog lookup capability order placement depends on.
type ProductStore interface {
	// FindByIDs resolves every id in one query. Missing ids are simply
	// absent from the result map; callers decide whether that is fatal.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
}

// OrderStore persists orders and their lifecycle transitions.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	// MarkPaid sets isPaid=true. Setting it twice is a no-op.
	MarkPaid(ctx context.Context, id primitive.ObjectID) error
	// Delete removes an order. Deleting an already-absent order is not an
	// error; a redelivered failure webhook must not blow up.
	Delete(ctx context.Context, id primitive.ObjectID) error
	// VisibleByUser lists a user's orders matching the visibility predicate
	// (COD or paid), newest first, with products and address populated.
	VisibleByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedOrder, error)
	// AllVisible is the seller view: the same predicate across all users.
	AllVisible(ctx context.Context) ([]models.PopulatedOrder, error)
	// DeleteStalePending removes unpaid online orders created before the
	// cutoff, returning how many were reaped.
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// CartStore owns the per-user cart document. Updates are whole-document
// replaces; there is no partial patching of cart entries.
type CartStore interface {
	Replace(ctx context.Context, userID primitive.ObjectID, items map[string]int) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// EventLedger records processed webhook event ids so duplicate deliveries
// can be acknowledged without re-applying their effects.
type EventLedger interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string) error
}
