package packets

import "encoding/json"

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
}

type CreateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
}

type CreateScreenRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateScreenRequest struct {
	Name *string `json:"name"`
}

type CreateSceneRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateSceneRequest struct {
	Name *string `json:"name"`
}

// UpdateScreenDraftRequest patches the screen draft: absent fields keep
// their prior value.
type UpdateScreenDraftRequest struct {
	Title      *string         `json:"title"`
	LayoutJSON json.RawMessage `json:"layoutJson"`
}

// CreateScreenDraftRequest explicitly creates a new draft version.
type CreateScreenDraftRequest struct {
	Title      *string         `json:"title"`
	LayoutJSON json.RawMessage `json:"layoutJson"`
}

type UpdateSceneDraftRequest struct {
	DataJSON json.RawMessage `json:"dataJson"`
}

type CreateMonitorRequest struct {
	Name        string `json:"name" binding:"required"`
	DeviceToken string `json:"device_token" binding:"required"`
}

type UpdateMonitorRequest struct {
	Name *string `json:"name"`
}

type PublishRequest struct {
	ScreenVersionID string `json:"screen_version_id" binding:"required"`
}

type ClaimMonitorRequest struct {
	PairingCode string `json:"pairing_code" binding:"required"`
	Name        string `json:"name" binding:"required"`
}

// RegisterMediaRequest records an object that already lives in blob storage.
type RegisterMediaRequest struct {
	FileURL    string `json:"file_url" binding:"required"`
	FileName   string `json:"file_name" binding:"required"`
	FileSize   int64  `json:"file_size" binding:"required,gt=0"`
	Type       string `json:"type" binding:"required,oneof=image video"`
	MimeType   string `json:"mime_type" binding:"required"`
	DurationMs *int64 `json:"duration_ms"`
}
