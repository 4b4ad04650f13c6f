// Package database defines the persistence contracts used by the services and
// implements them on PostgreSQL.
package database

import (
	"context"
	"errors"
	"time"

	"ironhold/internal/model"
)

// ErrDuplicate is returned when an insert collides with a unique key.
var ErrDuplicate = errors.New("duplicate key")

// Lookups return (nil, nil) when the record does not exist.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUserProfile(ctx context.Context, userID, name, picture string) error
}

type SessionStore interface {
	// ReplaceSession stores s as the only session of s.UserID.
	ReplaceSession(ctx context.Context, s *model.Session) error
	FindSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Activation is the effect of one confirmed payment.
type Activation struct {
	SessionID string
	UserID    string
	Plan      model.Plan
	Expires   time.Time
	PaidAt    time.Time
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *model.Transaction) error
	FindTransaction(ctx context.Context, sessionID string) (*model.Transaction, error)
	ListPendingTransactions(ctx context.Context, since time.Time) ([]model.Transaction, error)
	// ActivateSubscription marks the transaction paid and applies the plan to the
	// user, but only if the transaction was not already paid. It reports whether
	// this call performed the transition.
	ActivateSubscription(ctx context.Context, a Activation) (bool, error)
}

type VideoStore interface {
	ListVideos(ctx context.Context) ([]model.Video, error)
	FindVideo(ctx context.Context, id string) (*model.Video, error)
	// CreateVideo assigns v.Order as one past the current maximum.
	CreateVideo(ctx context.Context, v *model.Video) error
	DeleteVideo(ctx context.Context, id string) (bool, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type Store interface {
	UserStore
	SessionStore
	TransactionStore
	VideoStore

	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}
