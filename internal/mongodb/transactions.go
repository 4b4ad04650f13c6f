package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"ironhold/internal/database"
	"ironhold/internal/model"
)

func (s *Store) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	if _, err := s.transactions().InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return database.ErrDuplicate
		}
		return fmt.Errorf("error creating transaction: %w", err)
	}
	return nil
}

func (s *Store) FindTransaction(ctx context.Context, sessionID string) (*model.Transaction, error) {
	var t model.Transaction
	err := s.transactions().FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding transaction %s: %w", sessionID, err)
	}
	return &t, nil
}

func (s *Store) ListPendingTransactions(ctx context.Context, since time.Time) ([]model.Transaction, error) {
	filter := bson.M{
		"payment_status": model.PaymentInitiated,
		"created_at":     bson.M{"$gte": since},
	}
	cursor, err := s.transactions().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing pending transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []model.Transaction
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding transactions: %w", err)
	}
	return out, nil
}

// ActivateSubscription claims the transaction with a filtered update so only one
// caller can flip it to paid, then applies the plan to the user. On a replica set
// both writes commit together. Standalone deployments have no multi-document
// transactions, so there a failed user update releases the claim again.
func (s *Store) ActivateSubscription(ctx context.Context, a database.Activation) (bool, error) {
	if !s.transactional {
		ok, err := s.activate(ctx, a)
		if err != nil && ok {
			s.release(ctx, a)
			ok = false
		}
		return ok, err
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return false, fmt.Errorf("error starting session: %w", err)
	}
	defer sess.EndSession(ctx)

	res, err := sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		ok, err := s.activate(ctx, a)
		if err != nil {
			return false, err
		}
		return ok, nil
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

// activate runs the claim and the user update. It reports whether the claim
// succeeded, even when the user update then fails.
func (s *Store) activate(ctx context.Context, a database.Activation) (bool, error) {
	claim, err := s.transactions().UpdateOne(ctx,
		bson.M{"session_id": a.SessionID, "payment_status": bson.M{"$ne": model.PaymentPaid}},
		bson.M{"$set": bson.M{
			"status":         model.TransactionComplete,
			"payment_status": model.PaymentPaid,
			"paid_at":        a.PaidAt,
		}})
	if err != nil {
		return false, fmt.Errorf("error claiming transaction %s: %w", a.SessionID, err)
	}
	if claim.ModifiedCount == 0 {
		return false, nil
	}

	res, err := s.users().UpdateOne(ctx,
		bson.M{"user_id": a.UserID},
		bson.M{"$set": bson.M{
			"subscription_plan":    a.Plan,
			"subscription_expires": a.Expires,
		}})
	if err == nil && res.MatchedCount == 0 {
		err = fmt.Errorf("user not found: %s", a.UserID)
	}
	if err != nil {
		return true, fmt.Errorf("error activating subscription for user %s: %w", a.UserID, err)
	}
	return true, nil
}

func (s *Store) release(ctx context.Context, a database.Activation) {
	_, err := s.transactions().UpdateOne(ctx,
		bson.M{"session_id": a.SessionID, "payment_status": model.PaymentPaid},
		bson.M{
			"$set":   bson.M{"status": model.TransactionPending, "payment_status": model.PaymentInitiated},
			"$unset": bson.M{"paid_at": ""},
		})
	if err != nil {
		s.log.Error("failed to release transaction claim",
			zap.String("session_id", a.SessionID),
			zap.Error(err))
	}
}
