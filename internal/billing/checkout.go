package billing

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"ironhold/internal/apperr"
	"ironhold/internal/database"
	"ironhold/internal/model"
)

const currencyUSD = "usd"

// CheckoutResult is what the client needs to redirect to the hosted page.
type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type Checkout struct {
	provider Provider
	store    database.TransactionStore
	log      *zap.Logger
	now      func() time.Time
}

func NewCheckout(provider Provider, store database.TransactionStore, log *zap.Logger) *Checkout {
	return &Checkout{provider: provider, store: store, log: log, now: time.Now}
}

// Create opens a checkout session for plan and records it as a pending transaction.
func (c *Checkout) Create(ctx context.Context, user *model.User, plan model.Plan, originURL string) (*CheckoutResult, error) {
	if user == nil {
		return nil, apperr.New(apperr.Unauthenticated, "Login required")
	}
	if !plan.Paid() {
		return nil, apperr.New(apperr.InvalidInput, "Invalid plan")
	}
	originURL = strings.TrimRight(strings.TrimSpace(originURL), "/")
	if originURL == "" {
		return nil, apperr.New(apperr.InvalidInput, "origin_url required")
	}

	amount := plan.Price()
	sess, err := c.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		Amount:      amount,
		Currency:    currencyUSD,
		ProductName: model.Plans[plan].Name,
		SuccessURL:  originURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   originURL + "/pricing",
		Metadata: map[string]string{
			"user_id": user.ID,
			"email":   user.Email,
			"plan":    string(plan),
		},
	})
	if err != nil {
		c.log.Warn("checkout session failed", zap.String("user_id", user.ID), zap.Error(err))
		if apperr.KindOf(err) == apperr.Internal {
			err = apperr.Wrap(apperr.UpstreamFailure, "payment provider unavailable", err)
		}
		return nil, err
	}

	txn := &model.Transaction{
		ID:            model.NewID("txn_"),
		SessionID:     sess.SessionID,
		UserID:        user.ID,
		Email:         user.Email,
		Amount:        amount,
		Currency:      currencyUSD,
		Plan:          plan,
		Status:        model.TransactionPending,
		PaymentStatus: model.PaymentInitiated,
		CreatedAt:     c.now().UTC(),
	}
	if err := c.store.CreateTransaction(ctx, txn); err != nil {
		c.log.Error("record transaction", zap.String("session_id", sess.SessionID), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, "record transaction", err)
	}

	c.log.Info("checkout created",
		zap.String("transaction_id", txn.ID),
		zap.String("session_id", txn.SessionID),
		zap.String("plan", string(plan)),
	)
	return &CheckoutResult{URL: sess.URL, SessionID: sess.SessionID}, nil
}
