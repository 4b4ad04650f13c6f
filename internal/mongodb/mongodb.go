// Package mongodb implements database.Store on a MongoDB deployment.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"ironhold/internal/database"
)

var (
	UserCollection        = "users"
	SessionCollection     = "user_sessions"
	TransactionCollection = "payment_transactions"
	VideoCollection       = "videos"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
	// transactional is set when the deployment supports multi-document
	// transactions (replica set or sharded cluster).
	transactional bool
}

var _ database.Store = (*Store)(nil)

func Connect(uri, dbName string, log *zap.Logger) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		log.Error("failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	store := &Store{client: client, db: client.Database(dbName), log: log}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store.transactional, err = store.supportsTransactions(ctx)
	if err != nil {
		log.Warn("could not detect MongoDB topology, assuming standalone", zap.Error(err))
	}

	log.Info("successfully connected to MongoDB",
		zap.String("database", dbName),
		zap.Bool("transactions", store.transactional))
	return store, nil
}

func (s *Store) supportsTransactions(ctx context.Context) (bool, error) {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := s.db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false, fmt.Errorf("error running hello: %w", err)
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid", nil
}

func (s *Store) users() *mongo.Collection        { return s.db.Collection(UserCollection) }
func (s *Store) sessions() *mongo.Collection     { return s.db.Collection(SessionCollection) }
func (s *Store) transactions() *mongo.Collection { return s.db.Collection(TransactionCollection) }
func (s *Store) videos() *mongo.Collection       { return s.db.Collection(VideoCollection) }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		s.log.Error("failed to disconnect from MongoDB", zap.Error(err))
		return err
	}
	s.log.Info("successfully disconnected from MongoDB")
	return nil
}

// Migrate creates the unique indexes the store's invariants depend on.
func (s *Store) Migrate(ctx context.Context) error {
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}, Options: options.Index().SetUnique(true)}
	}

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.users():    {unique("user_id"), unique("email")},
		s.sessions(): {unique("session_token"), unique("user_id")},
		s.transactions(): {
			unique("transaction_id"),
			unique("session_id"),
			{Keys: bson.D{{Key: "payment_status", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		s.videos(): {unique("video_id"), {Keys: bson.D{{Key: "order", Value: 1}}}},
	}

	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}
