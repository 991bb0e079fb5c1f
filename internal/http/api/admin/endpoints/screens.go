package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx/types"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api/admin/packets"
	"github.com/Fresco-Signage-LLC/fresco/internal/model"
	"github.com/Fresco-Signage-LLC/fresco/internal/versioning"
)

type ScreenController struct {
	store  db.Store
	drafts *versioning.Manager
}

// ScreenModule mounts all authenticated /screens endpoints.
func ScreenModule(store db.Store, drafts *versioning.Manager) api.Module {
	ctl := &ScreenController{store: store, drafts: drafts}
	return api.ModuleFunc(func(c *api.Controller) {
		// CRUD
		c.GET("/screens", ctl.listScreens)
		c.POST("/screens", ctl.createScreen)
		c.GET("/screens/:id", ctl.getScreen)
		c.PUT("/screens/:id", ctl.updateScreen)
		c.POST("/screens/:id/duplicate", ctl.duplicateScreen)

		// draft lifecycle
		c.GET("/screens/:id/draft", ctl.getDraft)
		c.PATCH("/screens/:id/draft", ctl.updateDraft)
		c.POST("/screens/:id/draft", ctl.createDraft)
		c.GET("/screens/:id/versions", ctl.listVersions)
	})
}

// ownedScreen loads the screen and enforces ownership.
func (t *ScreenController) ownedScreen(ctx *gin.Context, user *model.User) (*model.Screen, *api.APIError) {
	screen, err := t.store.GetScreenByID(ctx.Param("id"))
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
			Msg("forbidden access to screen")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return screen, nil
}

// GET /api/admin/screens
func (t *ScreenController) listScreens(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListScreens(&user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list screens"}
	}

	out := make([]packets.ScreenResponse, 0, len(all))
	for _, s := range all {
		out = append(out, packets.NewScreenResponse(s))
	}
	return gin.H{"screens": out}, nil
}

// POST /api/admin/screens
func (t *ScreenController) createScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	screen, err := t.store.CreateScreen(user.ID, request.Name)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create screen"}
	}
	return packets.NewScreenResponse(screen), nil
}

// GET /api/admin/screens/:id
func (t *ScreenController) getScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.NewScreenResponse(*screen), nil
}

// PUT /api/admin/screens/:id
func (t *ScreenController) updateScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	updated, err := t.store.UpdateScreen(screen.ID, request.Name)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update screen"}
	}
	return packets.NewScreenResponse(*updated), nil
}

// POST /api/admin/screens/:id/duplicate
func (t *ScreenController) duplicateScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	dup, err := t.store.DuplicateScreen(screen.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not duplicate screen"}
	}
	return packets.NewScreenResponse(dup), nil
}

// GET /api/admin/screens/:id/draft
func (t *ScreenController) getDraft(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	draft, err := t.drafts.GetOrCreateDraft(model.KindScreen, screen.ID)
	if err != nil {
		return nil, draftError(err)
	}
	return packets.DraftResponse{Draft: packets.NewVersionResponse(draft)}, nil
}

// PATCH /api/admin/screens/:id/draft
func (t *ScreenController) updateDraft(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateScreenDraftRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	draft, err := t.drafts.UpdateDraft(model.KindScreen, screen.ID, request.Title, types.JSONText(request.LayoutJSON))
	if err != nil {
		return nil, draftError(err)
	}
	return packets.DraftResponse{Draft: packets.NewVersionResponse(draft)}, nil
}

// POST /api/admin/screens/:id/draft
//
// Always creates a new draft version, even when one already exists.
func (t *ScreenController) createDraft(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.CreateScreenDraftRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	draft, err := t.drafts.CreateDraft(model.KindScreen, screen.ID, request.Title, types.JSONText(request.LayoutJSON))
	if err != nil {
		return nil, draftError(err)
	}
	return gin.H{"versionId": draft.ID, "version": draft.Version}, nil
}

// GET /api/admin/screens/:id/versions
func (t *ScreenController) listVersions(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.ownedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	versions, err := t.drafts.ListVersions(model.KindScreen, screen.ID)
	if err != nil {
		return nil, draftError(err)
	}
	out := make([]packets.VersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, packets.NewVersionResponse(v))
	}
	return gin.H{"versions": out}, nil
}

// draftError maps versioning failures onto API errors.
func draftError(err error) *api.APIError {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	case errors.Is(err, versioning.ErrInvalidContent):
		return &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	default:
		return &api.APIError{Code: http.StatusInternalServerError, Message: "draft operation failed"}
	}
}
