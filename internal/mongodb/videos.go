package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"ironhold/internal/model"
)

func (s *Store) ListVideos(ctx context.Context) ([]model.Video, error) {
	cursor, err := s.videos().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing videos: %w", err)
	}
	defer cursor.Close(ctx)

	videos := []model.Video{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("error decoding videos: %w", err)
	}
	return videos, nil
}

func (s *Store) FindVideo(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	err := s.videos().FindOne(ctx, bson.M{"video_id": id}).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding video %s: %w", id, err)
	}
	return &v, nil
}

func (s *Store) CreateVideo(ctx context.Context, v *model.Video) error {
	var last model.Video
	err := s.videos().FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})).Decode(&last)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		v.Order = 1
	case err != nil:
		return fmt.Errorf("error reading last video order: %w", err)
	default:
		v.Order = last.Order + 1
	}

	if _, err := s.videos().InsertOne(ctx, v); err != nil {
		return fmt.Errorf("error creating video: %w", err)
	}
	return nil
}

func (s *Store) DeleteVideo(ctx context.Context, id string) (bool, error) {
	res, err := s.videos().DeleteOne(ctx, bson.M{"video_id": id})
	if err != nil {
		return false, fmt.Errorf("error deleting video %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	if err := s.videos().Distinct(ctx, "category", bson.M{}).Decode(&categories); err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	sort.Strings(categories)
	return categories, nil
}
