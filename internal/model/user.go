package model

import "time"

type User struct {
	ID                  string     `db:"user_id" bson:"user_id" json:"user_id"`
	Email               string     `db:"email" bson:"email" json:"email"`
	Name                string     `db:"name" bson:"name" json:"name"`
	Picture             string     `db:"picture" bson:"picture,omitempty" json:"picture,omitempty"`
	SubscriptionPlan    Plan       `db:"subscription_plan" bson:"subscription_plan" json:"subscription_plan"`
	SubscriptionExpires *time.Time `db:"subscription_expires" bson:"subscription_expires,omitempty" json:"subscription_expires"`
	CreatedAt           time.Time  `db:"created_at" bson:"created_at" json:"created_at"`
}

// Identity is what an identity provider tells us about a freshly authenticated person.
type Identity struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}
