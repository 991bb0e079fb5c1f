package packets

import (
	"encoding/json"
	"time"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

// ScreenVersionResponse is what a playback device renders: the layout
// travels verbatim in LayoutJSON.
type ScreenVersionResponse struct {
	ID         string          `json:"id"`
	ScreenID   string          `json:"screen_id"`
	Version    int             `json:"version"`
	Status     string          `json:"status"`
	Title      *string         `json:"title,omitempty"`
	LayoutJSON json.RawMessage `json:"layout_json"`
	CreatedAt  string          `json:"created_at"`
}

func NewScreenVersionResponse(v model.Version) ScreenVersionResponse {
	return ScreenVersionResponse{
		ID:         v.ID,
		ScreenID:   v.ParentID,
		Version:    v.Version,
		Status:     string(v.Status),
		Title:      v.Title,
		LayoutJSON: json.RawMessage(v.Content),
		CreatedAt:  v.CreatedAt.Format(time.RFC3339),
	}
}

type RegisterPairingCodeRequest struct {
	PairingCode string `json:"pairing_code" binding:"required"`
}

type RegisterPairingCodeResponse struct {
	DeviceToken string `json:"device_token"`
}
