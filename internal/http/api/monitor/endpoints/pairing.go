package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/http/api"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api/monitor/packets"
	"github.com/Fresco-Signage-LLC/fresco/internal/redis"
)

type PairingController struct {
	pairing *redis.Client
}

// PairingModule mounts the device-side half of monitor pairing: the device
// shows a short code, stashes it here, and polls with the token it gets
// back until an admin claims the code.
func PairingModule(pairing *redis.Client) api.Module {
	ctl := &PairingController{pairing: pairing}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/pairing/register", ctl.registerPairingCode)
	})
}

// POST /api/monitor/pairing/register
func (t *PairingController) registerPairingCode(ctx *gin.Context) (any, *api.APIError) {
	if t.pairing == nil {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "pairing is not configured"}
	}

	var request packets.RegisterPairingCodeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	deviceToken := uuid.NewString()
	if err := t.pairing.StashPairingCode(ctx, request.PairingCode, deviceToken); err != nil {
		log.Error().Err(err).Msg("failed to register pairing code")
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "pairing store unavailable"}
	}

	return packets.RegisterPairingCodeResponse{DeviceToken: deviceToken}, nil
}
