package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"ironhold/internal/apperr"
	"ironhold/internal/model"
)

// Stripe implements Provider on Stripe Checkout.
type Stripe struct {
	sc            *client.API
	webhookSecret string
}

func NewStripe(apiKey, webhookSecret string, timeout time.Duration) *Stripe {
	backends := stripe.NewBackends(&http.Client{Timeout: timeout})
	return newStripe(apiKey, webhookSecret, backends)
}

func newStripe(apiKey, webhookSecret string, backends *stripe.Backends) *Stripe {
	return &Stripe{
		sc:            client.New(apiKey, backends),
		webhookSecret: webhookSecret,
	}
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(model.Cents(req.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "payment provider unavailable", err)
	}
	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

func (s *Stripe) GetCheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "payment provider unavailable", err)
	}
	return &CheckoutStatus{
		Status:        string(sess.Status),
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		Metadata:      sess.Metadata,
	}, nil
}

func (s *Stripe) ParseWebhook(body []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(body, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", err)
	}

	ev := &WebhookEvent{Type: string(event.Type)}
	switch ev.Type {
	case EventCheckoutCompleted, EventAsyncPaymentSucceeded:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		ev.SessionID = sess.ID
		ev.PaymentStatus = string(sess.PaymentStatus)
		ev.Metadata = sess.Metadata
	}
	return ev, nil
}
