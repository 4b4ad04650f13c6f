package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"ironhold/internal/database"
	"ironhold/internal/model"
)

func (s *Store) findUser(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := s.users().FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.findUser(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.findUser(ctx, bson.M{"user_id": id})
	if err != nil {
		return nil, fmt.Errorf("error finding user %s: %w", id, err)
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, database.ErrDuplicate
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, userID, name, picture string) error {
	_, err := s.users().UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"name": name, "picture": picture}})
	if err != nil {
		return fmt.Errorf("error updating user %s: %w", userID, err)
	}
	return nil
}
