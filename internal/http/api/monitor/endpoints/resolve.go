package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api/monitor/packets"
	"github.com/Fresco-Signage-LLC/fresco/internal/publish"
)

type ResolveController struct {
	publisher *publish.Service
}

// ResolveModule mounts the device-facing lookup. The device token in the
// path is the credential; there is no other auth on this group.
func ResolveModule(publisher *publish.Service) api.Module {
	ctl := &ResolveController{publisher: publisher}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/:device_token", ctl.resolve)
	})
}

// GET /api/monitor/:device_token
func (t *ResolveController) resolve(ctx *gin.Context) (any, *api.APIError) {
	version, err := t.publisher.ResolveForDevice(ctx.Param("device_token"))
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "No screen assigned"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not resolve screen"}
	}
	return packets.NewScreenVersionResponse(*version), nil
}
