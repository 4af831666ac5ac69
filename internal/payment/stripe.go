package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/model-map/greenCart/internal/config"
)

// StripeGateway talks to the Stripe REST API with a plain HTTP client. The
// checkout-session endpoints take form-encoded bodies and return JSON.
type StripeGateway struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

func NewStripeGateway(cfg config.Stripe) *StripeGateway {
	return &StripeGateway{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   strings.TrimSuffix(cfg.APIBaseURL, "/"),
		secretKey: cfg.SecretKey,
	}
}

type stripeSession struct {
	ID       string            `json:"id"`
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata"`
}

type stripeSessionList struct {
	Data []stripeSession `json:"data"`
}

type stripeErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("metadata[orderId]", req.Metadata.OrderID)
	form.Set("metadata[userId]", req.Metadata.UserID)

	for i, line := range req.Lines {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", req.Currency)
		form.Set(prefix+"[price_data][product_data][name]", line.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(line.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(line.Quantity))
	}

	var session stripeSession
	if err := g.call(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}

	return &Session{
		ID:  session.ID,
		URL: session.URL,
		Metadata: SessionMetadata{
			OrderID: session.Metadata["orderId"],
			UserID:  session.Metadata["userId"],
		},
	}, nil
}

func (g *StripeGateway) SessionsByPaymentIntent(ctx context.Context, paymentIntentID string) ([]Session, error) {
	query := url.Values{}
	query.Set("payment_intent", paymentIntentID)

	var list stripeSessionList
	path := "/v1/checkout/sessions?" + query.Encode()
	if err := g.call(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(list.Data))
	for _, item := range list.Data {
		sessions = append(sessions, Session{
			ID:  item.ID,
			URL: item.URL,
			Metadata: SessionMetadata{
				OrderID: item.Metadata["orderId"],
				UserID:  item.Metadata["userId"],
			},
		})
	}
	return sessions, nil
}

func (g *StripeGateway) call(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &GatewayError{Kind: KindUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GatewayError{Kind: KindUnavailable, Message: err.Error()}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return &GatewayError{Kind: KindUnavailable, Status: resp.StatusCode, Message: gatewayMessage(payload)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &GatewayError{Kind: KindRejected, Status: resp.StatusCode, Message: gatewayMessage(payload)}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}

func gatewayMessage(payload []byte) string {
	var body stripeErrorBody
	if err := json.Unmarshal(payload, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return strings.TrimSpace(string(payload))
}
