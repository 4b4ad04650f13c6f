package main

import (
	"context"
	"fmt"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"ironhold/internal/auth"
	"ironhold/internal/config"
	"ironhold/internal/database"
	"ironhold/internal/mongodb"
)

type stores struct {
	db    database.Store
	state sessions.Store
	log   *zap.Logger

	closeState func()
}

// openStore connects the configured backend. PostgreSQL deployments also keep
// gothic's OAuth state in the database; MongoDB deployments use a cookie.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	secret := []byte(cfg.SessionSecret)

	switch cfg.StoreBackend {
	case config.BackendMongo:
		db, err := mongodb.Connect(cfg.MongoURI, cfg.MongoDB, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		return &stores{db: db, state: auth.NewCookieStateStore(secret), log: log, closeState: func() {}}, nil

	case config.BackendPostgres:
		conn, err := database.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db := database.NewPostgres(conn)

		st := &stores{db: db, log: log, closeState: func() {}}
		if cfg.OAuthEnabled() {
			pg, err := auth.NewPGStateStore(cfg.DatabaseURL, secret)
			if err != nil {
				db.Close(ctx)
				return nil, fmt.Errorf("failed to create session store: %w", err)
			}
			st.state = pg
			st.closeState = pg.Close
		}
		log.Info("connected to postgres")
		return st, nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}

func (s *stores) close() {
	s.closeState()

	ctx, cancel := closeTimeout()
	defer cancel()
	if err := s.db.Close(ctx); err != nil {
		s.log.Warn("close store", zap.Error(err))
	}
}
