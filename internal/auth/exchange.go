package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ironhold/internal/apperr"
	"ironhold/internal/model"
)

const sessionDataPath = "/auth/v1/env/oauth/session-data"

// SessionExchanger calls the hosted identity service that completes the OAuth dance for us.
type SessionExchanger struct {
	baseURL string
	client  *http.Client
}

func NewSessionExchanger(baseURL string, timeout time.Duration) *SessionExchanger {
	return &SessionExchanger{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *SessionExchanger) Exchange(ctx context.Context, sessionID string) (*model.Identity, error) {
	if sessionID == "" {
		return nil, apperr.New(apperr.InvalidInput, "session_id required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+sessionDataPath, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "build session exchange request", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "identity service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid session")
	}

	var id model.Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "malformed identity response", err)
	}
	if id.Email == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid session")
	}
	return &id, nil
}
