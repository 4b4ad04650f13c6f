package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ironhold/internal/auth"
	"ironhold/internal/model"
)

const userKey = "user"

// Resolver maps a session token to its user. A nil user means no valid session.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// Session attaches the caller's user, if any, to the request. It never rejects.
func Session(r Resolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromRequest(c.Request)
		if token == "" {
			c.Next()
			return
		}

		user, err := r.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Error("resolve session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
			return
		}
		if user != nil {
			SetUser(c, user)
		}
		c.Next()
	}
}

// RequireUser protects routes that need a logged in user. It must run after Session.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		c.Next()
	}
}

// SetUser attaches user to the gin and request contexts.
func SetUser(c *gin.Context, user *model.User) {
	c.Set(userKey, user)
	c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
}

// CurrentUser returns the user attached by Session, or nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
