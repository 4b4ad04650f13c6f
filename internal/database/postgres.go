package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Postgres implements Store on a *sql.DB opened with lib/pq.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// New opens and pings a PostgreSQL connection pool.
func New(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}
	return db, nil
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close(context.Context) error {
	return p.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id              TEXT PRIMARY KEY,
	email                TEXT NOT NULL UNIQUE,
	name                 TEXT NOT NULL DEFAULT '',
	picture              TEXT,
	subscription_plan    TEXT NOT NULL DEFAULT 'free',
	subscription_expires TIMESTAMPTZ,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS user_sessions (
	session_token TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL UNIQUE REFERENCES users (user_id) ON DELETE CASCADE,
	expires_at    TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS payment_transactions (
	transaction_id TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL UNIQUE,
	user_id        TEXT NOT NULL REFERENCES users (user_id),
	email          TEXT NOT NULL,
	amount         NUMERIC(10, 2) NOT NULL,
	currency       TEXT NOT NULL,
	plan           TEXT NOT NULL,
	status         TEXT NOT NULL,
	payment_status TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	paid_at        TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS payment_transactions_pending_idx
	ON payment_transactions (payment_status, created_at);

CREATE TABLE IF NOT EXISTS videos (
	video_id      TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL,
	category      TEXT NOT NULL,
	video_url     TEXT NOT NULL,
	thumbnail_url TEXT,
	is_premium    BOOLEAN NOT NULL DEFAULT FALSE,
	display_order INT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate creates the tables if they do not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
