package database

import (
	"context"
	"database/sql"
	"fmt"

	"ironhold/internal/model"
)

const videoColumns = "video_id, title, description, category, video_url, thumbnail_url, is_premium, display_order, created_at"

func scanVideo(row rowScanner) (*model.Video, error) {
	v := &model.Video{}
	var thumbnail sql.NullString
	if err := row.Scan(&v.ID, &v.Title, &v.Description, &v.Category, &v.VideoURL, &thumbnail,
		&v.IsPremium, &v.Order, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.ThumbnailURL = thumbnail.String
	return v, nil
}

func (p *Postgres) ListVideos(ctx context.Context) ([]model.Video, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT "+videoColumns+" FROM videos ORDER BY display_order ASC")
	if err != nil {
		return nil, fmt.Errorf("error listing videos: %w", err)
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

func (p *Postgres) FindVideo(ctx context.Context, id string) (*model.Video, error) {
	v, err := scanVideo(p.db.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM videos WHERE video_id = $1", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding video %s: %w", id, err)
	}
	return v, nil
}

func (p *Postgres) CreateVideo(ctx context.Context, v *model.Video) error {
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO videos (video_id, title, description, category, video_url, thumbnail_url, is_premium, display_order, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, COALESCE(MAX(display_order), 0) + 1, $8 FROM videos
		RETURNING display_order`,
		v.ID, v.Title, v.Description, v.Category, v.VideoURL, nullIfEmpty(v.ThumbnailURL), v.IsPremium, v.CreatedAt).
		Scan(&v.Order)
	if err != nil {
		return fmt.Errorf("error creating video: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteVideo(ctx context.Context, id string) (bool, error) {
	res, err := p.db.ExecContext(ctx, "DELETE FROM videos WHERE video_id = $1", id)
	if err != nil {
		return false, fmt.Errorf("error deleting video %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *Postgres) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT DISTINCT category FROM videos ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
