package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"ironhold/internal/model"
)

// ReplaceSession upserts on user_id, which carries a unique index.
func (s *Store) ReplaceSession(ctx context.Context, sess *model.Session) error {
	_, err := s.sessions().ReplaceOne(ctx,
		bson.M{"user_id": sess.UserID},
		sess,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error replacing session for user %s: %w", sess.UserID, err)
	}
	return nil
}

func (s *Store) FindSession(ctx context.Context, token string) (*model.Session, error) {
	var sess model.Session
	err := s.sessions().FindOne(ctx, bson.M{"session_token": token}).Decode(&sess)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding session: %w", err)
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.sessions().DeleteOne(ctx, bson.M{"session_token": token}); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.sessions().DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("error purging sessions: %w", err)
	}
	return res.DeletedCount, nil
}
