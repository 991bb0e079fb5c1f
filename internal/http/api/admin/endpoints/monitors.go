package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api/admin/packets"
	"github.com/Fresco-Signage-LLC/fresco/internal/model"
	"github.com/Fresco-Signage-LLC/fresco/internal/publish"
	"github.com/Fresco-Signage-LLC/fresco/internal/redis"
)

type MonitorController struct {
	store     db.Store
	publisher *publish.Service
	pairing   *redis.Client // nil when Redis is not configured
}

// MonitorModule mounts all authenticated /monitors endpoints.
func MonitorModule(store db.Store, publisher *publish.Service, pairing *redis.Client) api.Module {
	ctl := &MonitorController{store: store, publisher: publisher, pairing: pairing}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/monitors", ctl.listMonitors)
		c.POST("/monitors", ctl.createMonitor)
		c.GET("/monitors/:id", ctl.getMonitor)
		c.PUT("/monitors/:id", ctl.updateMonitor)

		c.POST("/monitors/:id/publish", ctl.publishToMonitor)
		c.POST("/monitors/claim", ctl.claimMonitor)
	})
}

func (t *MonitorController) ownedMonitor(ctx *gin.Context, user *model.User) (*model.Monitor, *api.APIError) {
	monitor, err := t.store.GetMonitorByID(ctx.Param("id"))
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "monitor not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not get monitor"}
	}
	if monitor.UserID != user.ID {
		log.Error().
			Str("user_id", user.ID).
			Str("monitor_owner", monitor.UserID).
			Msg("forbidden access to monitor")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return monitor, nil
}

// GET /api/admin/monitors
func (t *MonitorController) listMonitors(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListMonitors(&user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list monitors"}
	}

	out := make([]packets.MonitorResponse, 0, len(all))
	for _, m := range all {
		out = append(out, packets.NewMonitorResponse(m))
	}
	return gin.H{"monitors": out}, nil
}

// POST /api/admin/monitors
func (t *MonitorController) createMonitor(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateMonitorRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if existing, _ := t.store.GetMonitorByDeviceToken(request.DeviceToken); existing != nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "device token already in use"}
	}

	monitor, err := t.store.CreateMonitor(user.ID, request.Name, request.DeviceToken)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create monitor"}
	}
	return packets.NewMonitorResponse(monitor), nil
}

// GET /api/admin/monitors/:id
func (t *MonitorController) getMonitor(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	monitor, apiErr := t.ownedMonitor(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.NewMonitorResponse(*monitor), nil
}

// PUT /api/admin/monitors/:id
func (t *MonitorController) updateMonitor(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	monitor, apiErr := t.ownedMonitor(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateMonitorRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	updated, err := t.store.UpdateMonitor(monitor.ID, request.Name)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update monitor"}
	}
	return packets.NewMonitorResponse(*updated), nil
}

// POST /api/admin/monitors/:id/publish
func (t *MonitorController) publishToMonitor(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	monitor, apiErr := t.ownedMonitor(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.PublishRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	// the version's parent screen must belong to the caller too
	version, err := t.store.GetVersionByID(model.KindScreen, request.ScreenVersionID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen version not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not get screen version"}
	}
	screen, err := t.store.GetScreenByID(version.ParentID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not get screen"}
	}
	if screen.UserID != user.ID {
		log.Error().
			Str("user_id", user.ID).
			Str("screen_owner", screen.UserID).
			Msg("forbidden publish of screen version")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	published, err := t.publisher.Activate(monitor.ID, request.ScreenVersionID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "screen version not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not publish"}
	}
	return packets.NewPublishResponse(published), nil
}

// POST /api/admin/monitors/claim
//
// Turns a device-side pairing code into a monitor owned by the caller.
func (t *MonitorController) claimMonitor(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if t.pairing == nil {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "pairing is not configured"}
	}

	var request packets.ClaimMonitorRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	deviceToken, err := t.pairing.ClaimPairingCode(ctx, request.PairingCode)
	if errors.Is(err, redis.ErrCodeNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "pairing code not found or expired"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "pairing store unavailable"}
	}

	monitor, err := t.store.CreateMonitor(user.ID, request.Name, deviceToken)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create monitor"}
	}
	return packets.NewMonitorResponse(monitor), nil
}
