package auth

import (
	"net/http"

	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"ironhold/internal/model"
)

// GothicAuthenticator is the real implementation of the Authenticator interface.
type GothicAuthenticator struct{}

func NewGothicAuthenticator() *GothicAuthenticator {
	return &GothicAuthenticator{}
}

// CompleteUserAuth wraps the call to gothic.CompleteUserAuth.
func (a *GothicAuthenticator) CompleteUserAuth(w http.ResponseWriter, r *http.Request) (goth.User, error) {
	return gothic.CompleteUserAuth(w, r)
}

// UseGoogle registers the Google provider with goth. Only profile scopes are requested.
func UseGoogle(clientID, clientSecret, callbackURL string) goth.Provider {
	gp := google.New(clientID, clientSecret, callbackURL, "email", "profile")
	gp.SetPrompt("select_account")
	goth.UseProviders(gp)
	return gp
}

// IdentityFromGoth maps a completed goth login onto our identity record.
// The session token is left empty so the caller mints one.
func IdentityFromGoth(u goth.User) model.Identity {
	return model.Identity{
		Email:   u.Email,
		Name:    u.Name,
		Picture: u.AvatarURL,
	}
}
