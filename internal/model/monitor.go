package model

import "time"

// Monitor represents a playback device. DeviceToken is the credential the
// device presents to resolve its published content; unique across monitors.
type Monitor struct {
	ID          string    `db:"id"           json:"id"`
	UserID      string    `db:"user_id"      json:"user_id"`
	Name        string    `db:"name"         json:"name"`
	DeviceToken string    `db:"device_token" json:"device_token"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// MonitorScreenPublish links a monitor to a screen version. At most one row
// per monitor carries IsActive=true; the resolver reads only that row.
type MonitorScreenPublish struct {
	ID              string    `db:"id"                json:"id"`
	MonitorID       string    `db:"monitor_id"        json:"monitor_id"`
	ScreenVersionID string    `db:"screen_version_id" json:"screen_version_id"`
	IsActive        bool      `db:"is_active"         json:"is_active"`
	PublishedAt     time.Time `db:"published_at"      json:"published_at"`
}
