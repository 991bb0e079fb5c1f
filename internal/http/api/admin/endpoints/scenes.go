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

type SceneController struct {
	store  db.Store
	drafts *versioning.Manager
}

// SceneModule mounts all authenticated /scenes endpoints.
func SceneModule(store db.Store, drafts *versioning.Manager) api.Module {
	ctl := &SceneController{store: store, drafts: drafts}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/scenes", ctl.listScenes)
		c.POST("/scenes", ctl.createScene)
		c.GET("/scenes/:id", ctl.getScene)
		c.PUT("/scenes/:id", ctl.updateScene)

		c.GET("/scenes/:id/draft", ctl.getDraft)
		c.PATCH("/scenes/:id/draft", ctl.updateDraft)
		c.GET("/scenes/:id/versions", ctl.listVersions)
	})
}

func (t *SceneController) ownedScene(ctx *gin.Context, user *model.User) (*model.Scene, *api.APIError) {
	scene, err := t.store.GetSceneByID(ctx.Param("id"))
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "scene not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not get scene"}
	}
	if scene.UserID != user.ID {
		log.Error().
			Str("user_id", user.ID).
			Str("scene_owner", scene.UserID).
			Msg("forbidden access to scene")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return scene, nil
}

// GET /api/admin/scenes
func (t *SceneController) listScenes(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListScenes(&user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list scenes"}
	}

	out := make([]packets.SceneResponse, 0, len(all))
	for _, s := range all {
		out = append(out, packets.NewSceneResponse(s))
	}
	return gin.H{"scenes": out}, nil
}

// POST /api/admin/scenes
func (t *SceneController) createScene(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateSceneRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	scene, err := t.store.CreateScene(user.ID, request.Name)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create scene"}
	}
	return packets.NewSceneResponse(scene), nil
}

// GET /api/admin/scenes/:id
func (t *SceneController) getScene(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	scene, apiErr := t.ownedScene(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.NewSceneResponse(*scene), nil
}

// PUT /api/admin/scenes/:id
func (t *SceneController) updateScene(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	scene, apiErr := t.ownedScene(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateSceneRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	updated, err := t.store.UpdateScene(scene.ID, request.Name)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update scene"}
	}
	return packets.NewSceneResponse(*updated), nil
}

// GET /api/admin/scenes/:id/draft
func (t *SceneController) getDraft(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	scene, apiErr := t.ownedScene(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	draft, err := t.drafts.GetOrCreateDraft(model.KindScene, scene.ID)
	if err != nil {
		return nil, draftError(err)
	}
	return packets.DraftResponse{Draft: packets.NewVersionResponse(draft)}, nil
}

// PATCH /api/admin/scenes/:id/draft
func (t *SceneController) updateDraft(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	scene, apiErr := t.ownedScene(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateSceneDraftRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	draft, err := t.drafts.UpdateDraft(model.KindScene, scene.ID, nil, types.JSONText(request.DataJSON))
	if err != nil {
		return nil, draftError(err)
	}
	return packets.DraftResponse{Draft: packets.NewVersionResponse(draft)}, nil
}

// GET /api/admin/scenes/:id/versions
func (t *SceneController) listVersions(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	scene, apiErr := t.ownedScene(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	versions, err := t.drafts.ListVersions(model.KindScene, scene.ID)
	if err != nil {
		return nil, draftError(err)
	}
	out := make([]packets.VersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, packets.NewVersionResponse(v))
	}
	return gin.H{"versions": out}, nil
}
