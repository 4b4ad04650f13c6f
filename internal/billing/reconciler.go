package billing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ironhold/internal/apperr"
	"ironhold/internal/database"
	"ironhold/internal/model"
)

var ErrTransactionNotFound = apperr.New(apperr.NotFound, "Transaction not found")

// StatusResult is reported to a client polling its checkout.
type StatusResult struct {
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	Plan          model.Plan `json:"plan,omitempty"`
	AmountTotal   int64      `json:"amount_total,omitempty"`
	Currency      string     `json:"currency,omitempty"`
}

// Reconciler converges local transactions with the provider. Poll, webhook and
// sweep may all observe the same payment; the store's conditional update makes
// sure only one of them activates the subscription.
type Reconciler struct {
	provider Provider
	store    database.TransactionStore
	log      *zap.Logger
	now      func() time.Time
}

func NewReconciler(provider Provider, store database.TransactionStore, log *zap.Logger) *Reconciler {
	return &Reconciler{provider: provider, store: store, log: log, now: time.Now}
}

// Status reports the payment state of sessionID to its owner, activating the
// subscription if the provider says it has been paid.
func (r *Reconciler) Status(ctx context.Context, user *model.User, sessionID string) (*StatusResult, error) {
	if user == nil {
		return nil, apperr.New(apperr.Unauthenticated, "Login required")
	}
	txn, err := r.store.FindTransaction(ctx, sessionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "find transaction", err)
	}
	if txn == nil || txn.UserID != user.ID {
		return nil, ErrTransactionNotFound
	}

	if txn.Paid() {
		return &StatusResult{
			Status:        string(model.TransactionComplete),
			PaymentStatus: string(model.PaymentPaid),
			Plan:          txn.Plan,
		}, nil
	}

	st, err := r.provider.GetCheckoutStatus(ctx, sessionID)
	if err != nil {
		if apperr.KindOf(err) == apperr.Internal {
			err = apperr.Wrap(apperr.UpstreamFailure, "payment provider unavailable", err)
		}
		return nil, err
	}

	if st.PaymentStatus == PaymentStatusPaid {
		if _, err := r.activate(ctx, txn, "poll"); err != nil {
			return nil, err
		}
	}

	return &StatusResult{
		Status:        st.Status,
		PaymentStatus: st.PaymentStatus,
		AmountTotal:   st.AmountTotal,
		Currency:      st.Currency,
	}, nil
}

// HandleWebhook verifies and applies a provider event. Events for unknown
// transactions and event types we do not act on are acknowledged.
func (r *Reconciler) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	ev, err := r.provider.ParseWebhook(body, signature)
	if err != nil {
		return apperr.Wrap(apperr.InvalidInput, "invalid webhook", err)
	}

	if ev.Type != EventCheckoutCompleted && ev.Type != EventAsyncPaymentSucceeded {
		r.log.Debug("webhook ignored", zap.String("type", ev.Type))
		return nil
	}
	if ev.PaymentStatus != PaymentStatusPaid {
		r.log.Info("checkout completed without payment",
			zap.String("session_id", ev.SessionID),
			zap.String("payment_status", ev.PaymentStatus),
		)
		return nil
	}

	txn, err := r.store.FindTransaction(ctx, ev.SessionID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "find transaction", err)
	}
	if txn == nil {
		r.log.Warn("webhook for unknown transaction", zap.String("session_id", ev.SessionID))
		return nil
	}
	uid, plan := ev.Metadata["user_id"], ev.Metadata["plan"]
	if (uid != "" && uid != txn.UserID) || (plan != "" && model.Plan(plan) != txn.Plan) {
		r.log.Warn("webhook metadata disagrees with transaction",
			zap.String("session_id", ev.SessionID),
			zap.String("metadata_user_id", uid),
			zap.String("metadata_plan", plan),
			zap.String("user_id", txn.UserID),
			zap.String("plan", string(txn.Plan)),
		)
	}
	if txn.Paid() {
		return nil
	}

	_, err = r.activate(ctx, txn, "webhook")
	return err
}

// Sweep polls the provider for every unpaid transaction created after since.
// Per-transaction failures are logged and skipped. It returns the number of
// subscriptions it activated.
func (r *Reconciler) Sweep(ctx context.Context, since time.Time) (int, error) {
	pending, err := r.store.ListPendingTransactions(ctx, since)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "list pending transactions", err)
	}

	activated := 0
	for i := range pending {
		if err := ctx.Err(); err != nil {
			return activated, err
		}
		txn := &pending[i]

		st, err := r.provider.GetCheckoutStatus(ctx, txn.SessionID)
		if err != nil {
			r.log.Warn("sweep status check failed",
				zap.String("session_id", txn.SessionID),
				zap.Bool("retryable", apperr.Retryable(err)),
				zap.Error(err),
			)
			continue
		}
		if st.PaymentStatus != PaymentStatusPaid {
			continue
		}

		ok, err := r.activate(ctx, txn, "sweep")
		if err != nil {
			r.log.Error("sweep activation failed", zap.String("session_id", txn.SessionID), zap.Error(err))
			continue
		}
		if ok {
			activated++
		}
	}
	return activated, nil
}

func (r *Reconciler) activate(ctx context.Context, txn *model.Transaction, source string) (bool, error) {
	if !txn.Plan.Paid() {
		return false, apperr.New(apperr.Internal, "transaction has no paid plan")
	}

	now := r.now().UTC()
	ok, err := r.store.ActivateSubscription(ctx, database.Activation{
		SessionID: txn.SessionID,
		UserID:    txn.UserID,
		Plan:      txn.Plan,
		Expires:   now.Add(txn.Plan.Duration()),
		PaidAt:    now,
	})
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "activate subscription", err)
	}

	if ok {
		r.log.Info("subscription activated",
			zap.String("source", source),
			zap.String("session_id", txn.SessionID),
			zap.String("user_id", txn.UserID),
			zap.String("plan", string(txn.Plan)),
		)
	} else {
		r.log.Debug("transaction already activated", zap.String("source", source), zap.String("session_id", txn.SessionID))
	}
	return ok, nil
}
