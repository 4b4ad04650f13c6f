// Package billing creates hosted checkout sessions and turns confirmed
// payments into subscriptions.
package billing

import "context"

const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"

	// PaymentStatusPaid is the provider's payment_status once funds are captured.
	PaymentStatusPaid = "paid"
)

type CheckoutRequest struct {
	Amount      float64
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

type CheckoutStatus struct {
	Status        string
	PaymentStatus string
	// AmountTotal is in the smallest currency unit.
	AmountTotal int64
	Currency    string
	Metadata    map[string]string
}

type WebhookEvent struct {
	Type          string
	SessionID     string
	PaymentStatus string
	Metadata      map[string]string
}

// Provider is a hosted checkout service.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error)
	// ParseWebhook verifies signature against body and decodes the event.
	ParseWebhook(body []byte, signature string) (*WebhookEvent, error)
}
