package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"go.uber.org/zap"

	"ironhold/internal/apperr"
	"ironhold/internal/auth"
	"ironhold/internal/billing"
	"ironhold/internal/config"
	"ironhold/internal/middleware"
	"ironhold/internal/model"
	"ironhold/internal/video"
)

type SessionService interface {
	Exchange(ctx context.Context, sessionID string) (*model.User, *model.Session, error)
	Login(ctx context.Context, id model.Identity) (*model.User, *model.Session, error)
	Logout(ctx context.Context, token string) error
}

type VideoService interface {
	IsAdmin(user *model.User) bool
	List(ctx context.Context, user *model.User) ([]model.ListedVideo, error)
	Get(ctx context.Context, id string, user *model.User) (*model.Video, error)
	Create(ctx context.Context, user *model.User, in video.CreateInput) (*model.Video, error)
	Delete(ctx context.Context, user *model.User, id string) error
	Categories(ctx context.Context) ([]string, error)
}

type CheckoutService interface {
	Create(ctx context.Context, user *model.User, plan model.Plan, originURL string) (*billing.CheckoutResult, error)
}

type PaymentReconciler interface {
	Status(ctx context.Context, user *model.User, sessionID string) (*billing.StatusResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	cfg      *config.Config
	log      *zap.Logger
	sessions SessionService
	videos   VideoService
	checkout CheckoutService
	payments PaymentReconciler
	db       Pinger
	auth     auth.Authenticator
}

func New(cfg *config.Config, log *zap.Logger, sessions SessionService, videos VideoService,
	checkout CheckoutService, payments PaymentReconciler, db Pinger, authenticator auth.Authenticator) *Handler {

	return &Handler{cfg, log, sessions, videos, checkout, payments, db, authenticator}
}

// respondError reports err with the status of its kind. Only the boundary
// decides status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.Status(), gin.H{"detail": apperr.Message(err)})
}

func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Iron Hold Wrestling API"})
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, model.Plans)
}

type userResponse struct {
	UserID              string     `json:"user_id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Picture             string     `json:"picture"`
	SubscriptionPlan    model.Plan `json:"subscription_plan"`
	SubscriptionExpires *time.Time `json:"subscription_expires"`
	IsAdmin             bool       `json:"is_admin"`
}

func (h *Handler) userResponse(u *model.User) userResponse {
	plan := u.SubscriptionPlan
	if plan == "" {
		plan = model.PlanFree
	}
	return userResponse{
		UserID:              u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Picture:             u.Picture,
		SubscriptionPlan:    plan,
		SubscriptionExpires: u.SubscriptionExpires,
		IsAdmin:             h.videos.IsAdmin(u),
	}
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// CreateSession exchanges the identity service's session id for our cookie.
func (h *Handler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidInput, "session_id required", err))
		return
	}

	user, session, err := h.sessions.Exchange(c.Request.Context(), req.SessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	auth.SetSessionCookie(c.Writer, session.Token)
	c.JSON(http.StatusOK, h.userResponse(user))
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, h.userResponse(middleware.CurrentUser(c)))
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), auth.TokenFromRequest(c.Request)); err != nil {
		h.respondError(c, err)
		return
	}
	auth.ClearSessionCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) SignInWithProvider(c *gin.Context) {
	provider := c.Param("provider")
	q := c.Request.URL.Query()
	q.Add("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func (h *Handler) CallbackHandler(c *gin.Context) {
	provider := c.Param("provider")
	q := c.Request.URL.Query()
	q.Add("provider", provider)
	q.Del("scope")
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := h.auth.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		h.respondError(c, apperr.Wrap(apperr.Unauthenticated, "Authentication failed", err))
		return
	}

	_, session, err := h.sessions.Login(c.Request.Context(), auth.IdentityFromGoth(gothUser))
	if err != nil {
		h.respondError(c, err)
		return
	}

	auth.SetSessionCookie(c.Writer, session.Token)
	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendURL)
}
