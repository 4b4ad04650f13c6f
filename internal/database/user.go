package database

import (
	"context"
	"database/sql"
	"fmt"

	"ironhold/internal/model"
)

const userColumns = "user_id, email, name, picture, subscription_plan, subscription_expires, created_at"

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var picture sql.NullString
	var expires sql.NullTime

	err := row.Scan(&user.ID, &user.Email, &user.Name, &picture, &user.SubscriptionPlan, &expires, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	user.Picture = picture.String
	if expires.Valid {
		t := expires.Time
		user.SubscriptionExpires = &t
	}
	return user, nil
}

func (p *Postgres) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(p.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return user, nil
}

func (p *Postgres) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(p.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE user_id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("error finding user %s: %w", id, err)
	}
	return user, nil
}

func (p *Postgres) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO users (user_id, email, name, picture, subscription_plan, subscription_expires, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		user.ID, user.Email, user.Name, nullIfEmpty(user.Picture), user.SubscriptionPlan, user.SubscriptionExpires, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

func (p *Postgres) UpdateUserProfile(ctx context.Context, userID, name, picture string) error {
	_, err := p.db.ExecContext(ctx, "UPDATE users SET name = $1, picture = $2 WHERE user_id = $3",
		name, nullIfEmpty(picture), userID)
	if err != nil {
		return fmt.Errorf("error updating user %s: %w", userID, err)
	}
	return nil
}
