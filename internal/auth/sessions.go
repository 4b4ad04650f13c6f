package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"ironhold/internal/apperr"
	"ironhold/internal/database"
	"ironhold/internal/model"
)

// Sessions owns the login/logout lifecycle. A user has at most one live session.
type Sessions struct {
	users     database.UserStore
	store     database.SessionStore
	exchanger Exchanger
	log       *zap.Logger
	now       func() time.Time
}

func NewSessions(users database.UserStore, store database.SessionStore, exchanger Exchanger, log *zap.Logger) *Sessions {
	return &Sessions{
		users:     users,
		store:     store,
		exchanger: exchanger,
		log:       log,
		now:       time.Now,
	}
}

// Exchange trades an identity-service session id for a logged in user.
func (s *Sessions) Exchange(ctx context.Context, sessionID string) (*model.User, *model.Session, error) {
	id, err := s.exchanger.Exchange(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return s.Login(ctx, *id)
}

// Login finds or creates the user behind id and replaces any session they had.
// An empty id.SessionToken gets a freshly minted token.
func (s *Sessions) Login(ctx context.Context, id model.Identity) (*model.User, *model.Session, error) {
	if id.Email == "" {
		return nil, nil, apperr.New(apperr.Unauthenticated, "Invalid session")
	}

	user, err := s.upsertUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	token := id.SessionToken
	if token == "" {
		token = NewSessionToken()
	}
	now := s.now().UTC()
	session := &model.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}
	if err := s.store.ReplaceSession(ctx, session); err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "store session", err)
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID))
	return user, session, nil
}

func (s *Sessions) upsertUser(ctx context.Context, id model.Identity) (*model.User, error) {
	user, err := s.users.FindUserByEmail(ctx, id.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "find user", err)
	}

	if user == nil {
		created, err := s.users.CreateUser(ctx, &model.User{
			ID:               model.NewID("user_"),
			Email:            id.Email,
			Name:             id.Name,
			Picture:          id.Picture,
			SubscriptionPlan: model.PlanFree,
			CreatedAt:        s.now().UTC(),
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.Internal, "create user", err)
		}
		// Lost a race with a concurrent first login of the same email.
		user, err = s.users.FindUserByEmail(ctx, id.Email)
		if err != nil || user == nil {
			return nil, apperr.Wrap(apperr.Internal, "find user", err)
		}
	}

	if err := s.users.UpdateUserProfile(ctx, user.ID, id.Name, id.Picture); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update user", err)
	}
	user.Name = id.Name
	user.Picture = id.Picture
	return user, nil
}

// Resolve returns the user owning token, or nil when the token is unknown or expired.
func (s *Sessions) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.store.FindSession(ctx, token)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "find session", err)
	}
	if session == nil || session.Expired(s.now()) {
		return nil, nil
	}

	user, err := s.users.FindUserByID(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "find user", err)
	}
	return user, nil
}

func (s *Sessions) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return apperr.Wrap(apperr.Internal, "delete session", err)
	}
	return nil
}
