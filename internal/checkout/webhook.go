package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/model-map/greenCart/internal/payment"
	"github.com/model-map/greenCart/internal/store"
)

// Event kinds the processor mutates state for. Anything else is acknowledged
// without effect.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// WebhookEvent is the closed set of fields reconciliation needs from a
// verified payload. Data.Object.ID is the payment reference used to find the
// originating session.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// Processor applies verified payment-outcome events to order and cart state.
// The gateway signature is the only authentication on this path.
type Processor struct {
	gateway       payment.Gateway
	orders        store.OrderStore
	carts         store.CartStore
	ledger        store.EventLedger
	webhookSecret string
	now           func() time.Time
}

func NewProcessor(gateway payment.Gateway, orders store.OrderStore, carts store.CartStore, ledger store.EventLedger, webhookSecret string) *Processor {
	return &Processor{
		gateway:       gateway,
		orders:        orders,
		carts:         carts,
		ledger:        ledger,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

// Process verifies and reconciles one raw webhook delivery. A nil return
// means the event was durably handled (or determined not applicable) and the
// sender may be acknowledged; any error tells the transport layer to let the
// gateway retry. Signature verification happens before anything else and a
// failure there must map to a 400.
func (p *Processor) Process(ctx context.Context, payload []byte, sigHeader string) error {
	if err := payment.VerifySignature(payload, sigHeader, p.webhookSecret, p.now()); err != nil {
		return err
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode webhook payload: %w", err)
	}

	seen, err := p.ledger.Seen(ctx, event.ID)
	if err != nil {
		return err
	}
	if seen {
		log.Printf("[WEBHOOK] [INFO] duplicate delivery of event %s acknowledged", event.ID)
		return nil
	}

	switch event.Type {
	case EventPaymentSucceeded:
		if err := p.handlePaymentSucceeded(ctx, event.Data.Object.ID); err != nil {
			return err
		}
	case EventPaymentFailed:
		if err := p.handlePaymentFailed(ctx, event.Data.Object.ID); err != nil {
			return err
		}
	default:
		log.Printf("[WEBHOOK] [INFO] unhandled event type %s", event.Type)
		return nil
	}

	// State changes are already persisted; the ledger entry only short-cuts
	// future duplicate deliveries, so a failure to record it is not fatal.
	if err := p.ledger.MarkProcessed(ctx, event.ID, event.Type); err != nil {
		log.Printf("[WEBHOOK] [ERROR] recording event %s failed: %v", event.ID, err)
	}
	return nil
}

// handlePaymentSucceeded marks the originating order paid and wipes the
// user's cart. Both mutations use set semantics, so redelivery is harmless.
func (p *Processor) handlePaymentSucceeded(ctx context.Context, paymentIntentID string) error {
	meta, err := p.resolveMetadata(ctx, paymentIntentID)
	if err != nil {
		return err
	}

	if err := p.orders.MarkPaid(ctx, meta.orderID); err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			log.Printf("[WEBHOOK] [WARN] paid order %s no longer exists", meta.orderID.Hex())
			return nil
		}
		return err
	}

	if err := p.carts.Clear(ctx, meta.userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Printf("[WEBHOOK] [WARN] user %s for paid order %s no longer exists", meta.userID.Hex(), meta.orderID.Hex())
			return nil
		}
		return err
	}

	log.Printf("[WEBHOOK] [INFO] order %s paid, cart cleared for user %s", meta.orderID.Hex(), meta.userID.Hex())
	return nil
}

// handlePaymentFailed removes the pending order. A failed payment leaves no
// trace; deleting an already-absent order is a no-op.
func (p *Processor) handlePaymentFailed(ctx context.Context, paymentIntentID string) error {
	meta, err := p.resolveMetadata(ctx, paymentIntentID)
	if err != nil {
		return err
	}

	if err := p.orders.Delete(ctx, meta.orderID); err != nil {
		return err
	}

	log.Printf("[WEBHOOK] [INFO] order %s removed after failed payment", meta.orderID.Hex())
	return nil
}

type eventMetadata struct {
	orderID primitive.ObjectID
	userID  primitive.ObjectID
}

// resolveMetadata finds the checkout session carrying this payment reference
// and reads the order/user correlation out of its metadata. The terminal
// event itself does not carry the metadata.
func (p *Processor) resolveMetadata(ctx context.Context, paymentIntentID string) (eventMetadata, error) {
	sessions, err := p.gateway.SessionsByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return eventMetadata{}, fmt.Errorf("resolve sessions for payment %s: %w", paymentIntentID, err)
	}
	if len(sessions) == 0 {
		return eventMetadata{}, fmt.Errorf("no checkout session found for payment %s", paymentIntentID)
	}

	meta := sessions[0].Metadata
	orderID, err := primitive.ObjectIDFromHex(meta.OrderID)
	if err != nil {
		return eventMetadata{}, fmt.Errorf("session for payment %s has bad orderId %q", paymentIntentID, meta.OrderID)
	}
	userID, err := primitive.ObjectIDFromHex(meta.UserID)
	if err != nil {
		return eventMetadata{}, fmt.Errorf("session for payment %s has bad userId %q", paymentIntentID, meta.UserID)
	}
	return eventMetadata{orderID: orderID, userID: userID}, nil
}
