package model

import "time"

type Video struct {
	ID           string    `db:"video_id" bson:"video_id" json:"video_id"`
	Title        string    `db:"title" bson:"title" json:"title"`
	Description  string    `db:"description" bson:"description" json:"description"`
	Category     string    `db:"category" bson:"category" json:"category"`
	VideoURL     string    `db:"video_url" bson:"video_url" json:"video_url"`
	ThumbnailURL string    `db:"thumbnail_url" bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	IsPremium    bool      `db:"is_premium" bson:"is_premium" json:"is_premium"`
	Order        int       `db:"order" bson:"order" json:"order"`
	CreatedAt    time.Time `db:"created_at" bson:"created_at" json:"created_at"`
}

// ListedVideo is a video as shown in the catalog, with the caller's lock state.
type ListedVideo struct {
	Video
	IsLocked bool `json:"is_locked"`
}
