package model

import "time"

type Session struct {
	Token     string    `db:"session_token" bson:"session_token" json:"session_token"`
	UserID    string    `db:"user_id" bson:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" bson:"created_at" json:"created_at"`
}

// Expired reports whether the session is no longer usable at t.
func (s *Session) Expired(t time.Time) bool {
	return !s.ExpiresAt.After(t)
}
