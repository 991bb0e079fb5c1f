package model

import "time"

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type MediaAsset struct {
	ID         string    `db:"id"          json:"id"`
	UserID     string    `db:"user_id"     json:"user_id"`
	FileURL    string    `db:"file_url"    json:"file_url"`
	FileName   string    `db:"file_name"   json:"file_name"`
	FileSize   int64     `db:"file_size"   json:"file_size"`
	Type       string    `db:"type"        json:"type"`
	MimeType   string    `db:"mime_type"   json:"mime_type"`
	DurationMs *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}
