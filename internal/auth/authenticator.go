package auth

import (
	"context"
	"net/http"

	"github.com/markbates/goth"

	"ironhold/internal/model"
)

// Authenticator describes an object that can complete a provider OAuth flow.
type Authenticator interface {
	CompleteUserAuth(w http.ResponseWriter, r *http.Request) (goth.User, error)
}

// Exchanger trades an opaque session id from the identity service for the identity behind it.
type Exchanger interface {
	Exchange(ctx context.Context, sessionID string) (*model.Identity, error)
}
