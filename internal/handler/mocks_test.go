package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"ironhold/internal/billing"
	"ironhold/internal/model"
	"ironhold/internal/video"
)

type MockSessions struct {
	mock.Mock
}

var _ SessionService = (*MockSessions)(nil)

func (m *MockSessions) Exchange(ctx context.Context, sessionID string) (*model.User, *model.Session, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(*model.Session), args.Error(2)
}

func (m *MockSessions) Login(ctx context.Context, id model.Identity) (*model.User, *model.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(*model.Session), args.Error(2)
}

func (m *MockSessions) Logout(ctx context.Context, token string) error {
	args := m.Called(token)
	return args.Error(0)
}

type MockVideos struct {
	mock.Mock
}

var _ VideoService = (*MockVideos)(nil)

func (m *MockVideos) IsAdmin(user *model.User) bool {
	return user != nil && user.Email == "coach@ironhold.test"
}

func (m *MockVideos) List(ctx context.Context, user *model.User) ([]model.ListedVideo, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ListedVideo), args.Error(1)
}

func (m *MockVideos) Get(ctx context.Context, id string, user *model.User) (*model.Video, error) {
	args := m.Called(id, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideos) Create(ctx context.Context, user *model.User, in video.CreateInput) (*model.Video, error) {
	args := m.Called(user, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideos) Delete(ctx context.Context, user *model.User, id string) error {
	args := m.Called(user, id)
	return args.Error(0)
}

func (m *MockVideos) Categories(ctx context.Context) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCheckout struct {
	mock.Mock
}

func (m *MockCheckout) Create(ctx context.Context, user *model.User, plan model.Plan, originURL string) (*billing.CheckoutResult, error) {
	args := m.Called(user, plan, originURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CheckoutResult), args.Error(1)
}

type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) Status(ctx context.Context, user *model.User, sessionID string) (*billing.StatusResult, error) {
	args := m.Called(user, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.StatusResult), args.Error(1)
}

func (m *MockPayments) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	args := m.Called(body, signature)
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

// MockStore is a mock implementation of the sessions.Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	args := m.Called(r, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessions.Session), args.Error(1)
}

func (m *MockStore) New(r *http.Request, name string) (*sessions.Session, error) {
	args := m.Called(r, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessions.Session), args.Error(1)
}

func (m *MockStore) Save(r *http.Request, w http.ResponseWriter, s *sessions.Session) error {
	args := m.Called(r, w, s)
	return args.Error(0)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) SetName(name string) {}

func (m *MockProvider) Debug(debug bool) {}

func (m *MockProvider) BeginAuth(state string) (goth.Session, error) {
	args := m.Called(state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(goth.Session), args.Error(1)
}
func (m *MockProvider) UnmarshalSession(session string) (goth.Session, error) { return nil, nil }
func (m *MockProvider) FetchUser(session goth.Session) (goth.User, error)     { return goth.User{}, nil }
func (m *MockProvider) RefreshTokenAvailable() bool                           { return false }

func (m *MockProvider) RefreshToken(refreshToken string) (*oauth2.Token, error) {
	return nil, nil
}

type MockGothSession struct {
	mock.Mock
}

func (m *MockGothSession) GetAuthURL() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockGothSession) Marshal() string {
	return ""
}

func (m *MockGothSession) Authorize(provider goth.Provider, params goth.Params) (string, error) {
	return "", nil
}

type MockAuth struct {
	mock.Mock
}

func (m *MockAuth) CompleteUserAuth(w http.ResponseWriter, r *http.Request) (goth.User, error) {
	args := m.Called(r, w)
	if args.Get(0) == nil {
		return goth.User{}, args.Error(1)
	}
	return args.Get(0).(goth.User), args.Error(1)
}
