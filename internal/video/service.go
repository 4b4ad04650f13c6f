// Package video is the catalog of wrestling technique videos.
package video

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"ironhold/internal/access"
	"ironhold/internal/apperr"
	"ironhold/internal/database"
	"ironhold/internal/model"
)

var (
	ErrNotFound = apperr.New(apperr.NotFound, "Video not found")
	ErrNotAdmin = apperr.New(apperr.Forbidden, "Admin access required")
)

// CreateInput is the admin payload for a new video.
type CreateInput struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Category     string `json:"category" binding:"required"`
	VideoURL     string `json:"video_url" binding:"required"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsPremium    bool   `json:"is_premium"`
}

type Service struct {
	store      database.VideoStore
	adminEmail string
	log        *zap.Logger
	now        func() time.Time
}

func NewService(store database.VideoStore, adminEmail string, log *zap.Logger) *Service {
	return &Service{
		store:      store,
		adminEmail: adminEmail,
		log:        log,
		now:        time.Now,
	}
}

// IsAdmin reports whether user is the configured administrator.
func (s *Service) IsAdmin(user *model.User) bool {
	return user != nil && s.adminEmail != "" && strings.EqualFold(user.Email, s.adminEmail)
}

// List returns every video in display order, marking the ones user cannot open.
func (s *Service) List(ctx context.Context, user *model.User) ([]model.ListedVideo, error) {
	videos, err := s.store.ListVideos(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list videos", err)
	}

	premium := access.HasPremium(user, s.now())
	out := make([]model.ListedVideo, 0, len(videos))
	for _, v := range videos {
		out = append(out, model.ListedVideo{Video: v, IsLocked: v.IsPremium && !premium})
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string, user *model.User) (*model.Video, error) {
	v, err := s.store.FindVideo(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "find video", err)
	}
	if v == nil {
		return nil, ErrNotFound
	}
	if err := access.Check(v, user, s.now()); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Create(ctx context.Context, user *model.User, in CreateInput) (*model.Video, error) {
	if !s.IsAdmin(user) {
		return nil, ErrNotAdmin
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	description, err := Markdown(in.Description)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "description is not valid HTML", err)
	}

	v := &model.Video{
		ID:           model.NewID("vid_"),
		Title:        strings.TrimSpace(in.Title),
		Description:  description,
		Category:     strings.TrimSpace(in.Category),
		VideoURL:     EmbedURL(strings.TrimSpace(in.VideoURL)),
		ThumbnailURL: strings.TrimSpace(in.ThumbnailURL),
		IsPremium:    in.IsPremium,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateVideo(ctx, v); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "create video", err)
	}

	s.log.Info("video created", zap.String("video_id", v.ID), zap.Int("order", v.Order))
	return v, nil
}

func validate(in CreateInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return apperr.New(apperr.InvalidInput, "title required")
	case strings.TrimSpace(in.Description) == "":
		return apperr.New(apperr.InvalidInput, "description required")
	case strings.TrimSpace(in.Category) == "":
		return apperr.New(apperr.InvalidInput, "category required")
	case strings.TrimSpace(in.VideoURL) == "":
		return apperr.New(apperr.InvalidInput, "video_url required")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, user *model.User, id string) error {
	if !s.IsAdmin(user) {
		return ErrNotAdmin
	}
	deleted, err := s.store.DeleteVideo(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "delete video", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info("video deleted", zap.String("video_id", id))
	return nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
