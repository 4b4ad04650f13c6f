package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/antonlindstrom/pgstore"
	"github.com/gorilla/sessions"
)

const (
	// SessionCookie carries the API session token.
	SessionCookie = "session_token"
	SessionTTL    = 7 * 24 * time.Hour

	stateMaxAge = 600
)

// NewPGStateStore keeps gothic's short-lived OAuth state in PostgreSQL.
func NewPGStateStore(dbURL string, keyPairs ...[]byte) (*pgstore.PGStore, error) {
	store, err := pgstore.NewPGStore(dbURL, keyPairs...)
	if err != nil {
		return nil, err
	}
	store.Options = stateOptions()
	return store, nil
}

// NewCookieStateStore keeps gothic's OAuth state in an encrypted cookie.
func NewCookieStateStore(keyPairs ...[]byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(keyPairs...)
	store.Options = stateOptions()
	return store
}

func stateOptions() *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   stateMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token, _ := extractBearerToken(r.Header.Get("Authorization"))
	return token
}

func extractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
