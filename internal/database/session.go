package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ironhold/internal/model"
)

// ReplaceSession relies on the unique user_id column so a concurrent second
// login can never leave two live sessions behind.
func (p *Postgres) ReplaceSession(ctx context.Context, s *model.Session) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO user_sessions (session_token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET session_token = EXCLUDED.session_token,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at`,
		s.Token, s.UserID, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("error replacing session for user %s: %w", s.UserID, err)
	}
	return nil
}

func (p *Postgres) FindSession(ctx context.Context, token string) (*model.Session, error) {
	s := &model.Session{}
	err := p.db.QueryRowContext(ctx,
		"SELECT session_token, user_id, expires_at, created_at FROM user_sessions WHERE session_token = $1", token).
		Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding session: %w", err)
	}
	return s, nil
}

func (p *Postgres) DeleteSession(ctx context.Context, token string) error {
	if _, err := p.db.ExecContext(ctx, "DELETE FROM user_sessions WHERE session_token = $1", token); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx, "DELETE FROM user_sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("error purging sessions: %w", err)
	}
	return res.RowsAffected()
}
