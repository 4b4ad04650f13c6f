package video

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ironhold/internal/apperr"
	"ironhold/internal/database"
	"ironhold/internal/model"
)

type MockVideoStore struct {
	mock.Mock
}

var _ database.VideoStore = (*MockVideoStore)(nil)

func (m *MockVideoStore) ListVideos(ctx context.Context) ([]model.Video, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoStore) FindVideo(ctx context.Context, id string) (*model.Video, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoStore) CreateVideo(ctx context.Context, v *model.Video) error {
	args := m.Called(v)
	return args.Error(0)
}

func (m *MockVideoStore) DeleteVideo(ctx context.Context, id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVideoStore) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var fixedNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func setupService() (*Service, *MockVideoStore) {
	store := new(MockVideoStore)
	s := NewService(store, "coach@ironhold.test", zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s, store
}

func premiumUser() *model.User {
	expires := fixedNow.Add(24 * time.Hour)
	return &model.User{ID: "user_1", Email: "a@example.com", SubscriptionPlan: model.PlanMonthly, SubscriptionExpires: &expires}
}

var admin = &model.User{ID: "user_admin", Email: "Coach@IronHold.test", SubscriptionPlan: model.PlanFree}

func TestService_List(t *testing.T) {
	videos := []model.Video{
		{ID: "vid_a", Order: 1},
		{ID: "vid_b", Order: 2, IsPremium: true},
	}

	testCases := []struct {
		name           string
		user           *model.User
		expectedLocked []bool
	}{
		{name: "Anonymous", user: nil, expectedLocked: []bool{false, true}},
		{name: "Free plan", user: &model.User{SubscriptionPlan: model.PlanFree}, expectedLocked: []bool{false, true}},
		{name: "Premium", user: premiumUser(), expectedLocked: []bool{false, false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, store := setupService()
			store.On("ListVideos").Return(videos, nil)

			out, err := s.List(context.Background(), tc.user)
			require.NoError(t, err)
			require.Len(t, out, 2)
			for i, v := range out {
				assert.Equal(t, tc.expectedLocked[i], v.IsLocked, v.ID)
			}
		})
	}

	t.Run("Store error", func(t *testing.T) {
		s, store := setupService()
		store.On("ListVideos").Return(nil, errors.New("boom"))

		_, err := s.List(context.Background(), nil)
		assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	})
}

func TestService_Get(t *testing.T) {
	testCases := []struct {
		name       string
		user       *model.User
		setupMocks func(store *MockVideoStore)
		expected   error
	}{
		{
			name: "Missing video",
			setupMocks: func(store *MockVideoStore) {
				store.On("FindVideo", "vid_x").Return(nil, nil)
			},
			expected: ErrNotFound,
		},
		{
			name: "Premium video anonymous",
			setupMocks: func(store *MockVideoStore) {
				store.On("FindVideo", "vid_x").Return(&model.Video{ID: "vid_x", IsPremium: true}, nil)
			},
			expected: apperr.LoginRequired,
		},
		{
			name: "Premium video free user",
			user: &model.User{SubscriptionPlan: model.PlanFree},
			setupMocks: func(store *MockVideoStore) {
				store.On("FindVideo", "vid_x").Return(&model.Video{ID: "vid_x", IsPremium: true}, nil)
			},
			expected: apperr.SubscriptionRequired,
		},
		{
			name: "Premium video subscriber",
			user: premiumUser(),
			setupMocks: func(store *MockVideoStore) {
				store.On("FindVideo", "vid_x").Return(&model.Video{ID: "vid_x", IsPremium: true}, nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, store := setupService()
			tc.setupMocks(store)

			v, err := s.Get(context.Background(), "vid_x", tc.user)
			if tc.expected != nil {
				assert.ErrorIs(t, err, tc.expected)
				assert.Nil(t, v)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "vid_x", v.ID)
		})
	}
}

func TestService_Create(t *testing.T) {
	valid := CreateInput{
		Title:       "Single leg",
		Description: "<p>Shoot <strong>low</strong></p>",
		Category:    "Takedowns",
		VideoURL:    "https://www.youtube.com/watch?v=abc123&t=10",
		IsPremium:   true,
	}

	t.Run("Admin creates video", func(t *testing.T) {
		s, store := setupService()
		store.On("CreateVideo", mock.AnythingOfType("*model.Video")).Run(func(args mock.Arguments) {
			args.Get(0).(*model.Video).Order = 4
		}).Return(nil)

		v, err := s.Create(context.Background(), admin, valid)
		require.NoError(t, err)

		assert.Regexp(t, `^vid_[0-9a-f]{12}$`, v.ID)
		assert.Equal(t, "https://www.youtube.com/embed/abc123", v.VideoURL)
		assert.Equal(t, "Shoot **low**", v.Description)
		assert.Equal(t, 4, v.Order)
		assert.Equal(t, fixedNow, v.CreatedAt)
		assert.True(t, v.IsPremium)
		store.AssertExpectations(t)
	})

	t.Run("Non admin", func(t *testing.T) {
		s, store := setupService()

		_, err := s.Create(context.Background(), premiumUser(), valid)
		assert.ErrorIs(t, err, ErrNotAdmin)
		store.AssertNotCalled(t, "CreateVideo", mock.Anything)
	})

	t.Run("Anonymous", func(t *testing.T) {
		s, _ := setupService()

		_, err := s.Create(context.Background(), nil, valid)
		assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	})

	t.Run("Missing category", func(t *testing.T) {
		s, _ := setupService()
		in := valid
		in.Category = "  "

		_, err := s.Create(context.Background(), admin, in)
		assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	})
}

func TestService_Delete(t *testing.T) {
	testCases := []struct {
		name         string
		user         *model.User
		setupMocks   func(store *MockVideoStore)
		expectedKind apperr.Kind
		expectErr    bool
	}{
		{
			name: "Deleted",
			user: admin,
			setupMocks: func(store *MockVideoStore) {
				store.On("DeleteVideo", "vid_x").Return(true, nil)
			},
		},
		{
			name: "Nothing deleted",
			user: admin,
			setupMocks: func(store *MockVideoStore) {
				store.On("DeleteVideo", "vid_x").Return(false, nil)
			},
			expectErr:    true,
			expectedKind: apperr.NotFound,
		},
		{
			name:         "Not admin",
			user:         premiumUser(),
			setupMocks:   func(store *MockVideoStore) {},
			expectErr:    true,
			expectedKind: apperr.Forbidden,
		},
		{
			name: "Store error",
			user: admin,
			setupMocks: func(store *MockVideoStore) {
				store.On("DeleteVideo", "vid_x").Return(false, errors.New("boom"))
			},
			expectErr:    true,
			expectedKind: apperr.Internal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, store := setupService()
			tc.setupMocks(store)

			err := s.Delete(context.Background(), tc.user, "vid_x")
			if !tc.expectErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.expectedKind, apperr.KindOf(err))
		})
	}
}

func TestService_Categories(t *testing.T) {
	s, store := setupService()
	store.On("ListCategories").Return(nil, nil)

	categories, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}
