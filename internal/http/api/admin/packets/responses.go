package packets

import (
	"encoding/json"
	"time"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

type UserResponse struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	CreatedAt string  `json:"created_at"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type ScreenResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewScreenResponse(s model.Screen) ScreenResponse {
	return ScreenResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

type SceneResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewSceneResponse(s model.Scene) SceneResponse {
	return SceneResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

type MonitorResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	DeviceToken string `json:"device_token"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func NewMonitorResponse(m model.Monitor) MonitorResponse {
	return MonitorResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		DeviceToken: m.DeviceToken,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
	}
}

type VersionResponse struct {
	ID        string          `json:"id"`
	ParentID  string          `json:"parent_id"`
	Kind      string          `json:"kind"`
	Version   int             `json:"version"`
	Status    string          `json:"status"`
	Title     *string         `json:"title,omitempty"`
	Content   json.RawMessage `json:"content"`
	CreatedAt string          `json:"created_at"`
}

func NewVersionResponse(v model.Version) VersionResponse {
	return VersionResponse{
		ID:        v.ID,
		ParentID:  v.ParentID,
		Kind:      string(v.Kind),
		Version:   v.Version,
		Status:    string(v.Status),
		Title:     v.Title,
		Content:   json.RawMessage(v.Content),
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
}

// DraftResponse wraps the draft the way the dashboard expects it.
type DraftResponse struct {
	Draft VersionResponse `json:"draft"`
}

type PublishResponse struct {
	ID              string `json:"id"`
	MonitorID       string `json:"monitor_id"`
	ScreenVersionID string `json:"screen_version_id"`
	IsActive        bool   `json:"is_active"`
	PublishedAt     string `json:"published_at"`
}

func NewPublishResponse(p model.MonitorScreenPublish) PublishResponse {
	return PublishResponse{
		ID:              p.ID,
		MonitorID:       p.MonitorID,
		ScreenVersionID: p.ScreenVersionID,
		IsActive:        p.IsActive,
		PublishedAt:     p.PublishedAt.Format(time.RFC3339),
	}
}

type MediaAssetResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	FileURL    string `json:"file_url"`
	FileName   string `json:"file_name"`
	FileSize   int64  `json:"file_size"`
	Type       string `json:"type"`
	MimeType   string `json:"mime_type"`
	DurationMs *int64 `json:"duration_ms,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func NewMediaAssetResponse(a model.MediaAsset) MediaAssetResponse {
	return MediaAssetResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		FileURL:    a.FileURL,
		FileName:   a.FileName,
		FileSize:   a.FileSize,
		Type:       a.Type,
		MimeType:   a.MimeType,
		DurationMs: a.DurationMs,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}

type UsageResponse struct {
	UsedBytes  int64 `json:"usedBytes"`
	LimitBytes int64 `json:"limitBytes"`
}

type MediaListResponse struct {
	Media []MediaAssetResponse `json:"media"`
	Usage UsageResponse        `json:"usage"`
}
