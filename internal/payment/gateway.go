package payment

import (
	"context"
	"fmt"
)

// LineItem is one checkout line as the gateway wants it: display name, unit
// amount in minor currency units (surcharge already applied), and quantity.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int
}

// SessionMetadata correlates a checkout session back to the pending order.
type SessionMetadata struct {
	OrderID string
	UserID  string
}

// SessionRequest is everything needed to open a checkout session.
type SessionRequest struct {
	Lines      []LineItem
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   SessionMetadata
}

// Session is the gateway's handle for one payment attempt.
type Session struct {
	ID       string
	URL      string
	Metadata SessionMetadata
}

// Gateway abstracts the external payment provider. SessionsByPaymentIntent
// exists because terminal payment events do not carry session metadata
// directly; reconciliation resolves it through the payment reference.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error)
	SessionsByPaymentIntent(ctx context.Context, paymentIntentID string) ([]Session, error)
}

// Gateway failure kinds.
const (
	KindUnavailable = "unavailable"
	KindRejected    = "rejected"
)

// GatewayError reports a failed call to the payment provider. Kind separates
// transport/5xx trouble from explicit request rejection.
type GatewayError struct {
	Kind    string
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("payment gateway %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("payment gateway %s: %s", e.Kind, e.Message)
}
