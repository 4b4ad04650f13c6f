package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth/gothic"
	"go.uber.org/zap"

	"ironhold/internal/auth"
	"ironhold/internal/billing"
	"ironhold/internal/config"
	"ironhold/internal/database"
	"ironhold/internal/handler"
	"ironhold/internal/middleware"
	"ironhold/internal/video"
	"ironhold/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	*gin.Engine
	cfg     *config.Config
	log     *zap.Logger
	limiter *middleware.RateLimiter
	sweeper *worker.Sweeper
}

// New wires services on top of store. stateStore holds gothic's OAuth state
// and is only used when provider login is configured.
func New(cfg *config.Config, log *zap.Logger, store database.Store, stateStore sessions.Store) *Server {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error("invalid TRUSTED_PROXIES, ignoring forwarded headers", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), middleware.Logger(log), middleware.CORS(cfg.CORSOrigins))

	sessionSvc := auth.NewSessions(store, store, auth.NewSessionExchanger(cfg.AuthServiceURL, cfg.ProviderTimeout), log)
	videoSvc := video.NewService(store, cfg.AdminEmail, log)
	provider := billing.NewStripe(cfg.StripeAPIKey, cfg.StripeWebhookSecret, cfg.ProviderTimeout)
	checkout := billing.NewCheckout(provider, store, log)
	reconciler := billing.NewReconciler(provider, store, log)

	if cfg.OAuthEnabled() {
		gothic.Store = stateStore
		auth.UseGoogle(cfg.ClientID, cfg.ClientSecret, cfg.ClientCallbackURL)
	}

	h := handler.New(cfg, log, sessionSvc, videoSvc, checkout, reconciler, store, auth.NewGothicAuthenticator())
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.Use(middleware.Session(sessionSvc, log))
	{
		api.GET("/", h.Home)
		api.GET("/plans", h.Plans)
		api.GET("/categories", h.Categories)
		api.GET("/videos", h.ListVideos)
		api.GET("/videos/:id", h.GetVideo)
		api.POST("/videos", h.CreateVideo)
		api.DELETE("/videos/:id", h.DeleteVideo)
		api.POST("/auth/logout", h.Logout)
		api.POST("/webhook/stripe", h.StripeWebhook)
	}

	limited := api.Group("/")
	limited.Use(limiter.Middleware())
	{
		limited.POST("/auth/session", h.CreateSession)
		if cfg.OAuthEnabled() {
			limited.GET("/auth/:provider", h.SignInWithProvider)
			limited.GET("/auth/:provider/callback", h.CallbackHandler)
		}
	}

	authorized := api.Group("/")
	authorized.Use(middleware.RequireUser())
	{
		authorized.GET("/auth/me", h.Me)
		authorized.GET("/payments/status/:session_id", h.PaymentStatus)
		authorized.POST("/payments/create-checkout", limiter.Middleware(), h.CreateCheckout)
	}

	return &Server{
		Engine:  r,
		cfg:     cfg,
		log:     log,
		limiter: limiter,
		sweeper: worker.NewSweeper(reconciler, store, cfg.SweepInterval, log),
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.limiter.StartCleanup(ctx, time.Minute)
	go s.sweeper.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
