package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api/admin/packets"
	"github.com/Fresco-Signage-LLC/fresco/internal/media"
	"github.com/Fresco-Signage-LLC/fresco/internal/model"
	"github.com/Fresco-Signage-LLC/fresco/internal/storage"
)

type MediaController struct {
	assets        *media.Service
	storageSystem storage.Storage
}

// MediaModule mounts all authenticated /media endpoints.
func MediaModule(assets *media.Service, storageSystem storage.Storage) api.Module {
	ctl := &MediaController{assets: assets, storageSystem: storageSystem}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/media", ctl.listMedia)
		c.POST("/media", ctl.registerMedia)
		c.POST("/media/upload", ctl.uploadMedia)
		c.DELETE("/media/:id", ctl.deleteMedia)
	})
}

// GET /api/admin/media
func (t *MediaController) listMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	assets, err := t.assets.List(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list media"}
	}
	used, limit, err := t.assets.Usage(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not compute usage"}
	}

	out := make([]packets.MediaAssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, packets.NewMediaAssetResponse(a))
	}
	return packets.MediaListResponse{
		Media: out,
		Usage: packets.UsageResponse{UsedBytes: used, LimitBytes: limit},
	}, nil
}

// POST /api/admin/media
func (t *MediaController) registerMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.RegisterMediaRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	asset, err := t.assets.Register(model.MediaAsset{
		UserID:     user.ID,
		FileURL:    request.FileURL,
		FileName:   request.FileName,
		FileSize:   request.FileSize,
		Type:       request.Type,
		MimeType:   request.MimeType,
		DurationMs: request.DurationMs,
	})
	if errors.Is(err, media.ErrQuotaExceeded) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "Storage quota exceeded"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not register media"}
	}
	return packets.NewMediaAssetResponse(asset), nil
}

// POST /api/admin/media/upload
//
// Multipart upload: the quota is checked before the blob is written so a
// rejected upload never stores anything.
func (t *MediaController) uploadMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}

	if err := t.assets.CheckQuota(user.ID, fileHeader.Size); err != nil {
		if errors.Is(err, media.ErrQuotaExceeded) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "Storage quota exceeded"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not check quota"}
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	mediaType := model.MediaTypeImage
	if strings.HasPrefix(mimeType, "video/") {
		mediaType = model.MediaTypeVideo
	}

	var durationMs *int64
	if raw := ctx.PostForm("duration_ms"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid duration_ms"}
		}
		durationMs = &parsed
	}

	fileURL, err := t.storageSystem.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store file"}
	}

	asset, err := t.assets.Register(model.MediaAsset{
		UserID:     user.ID,
		FileURL:    fileURL,
		FileName:   fileHeader.Filename,
		FileSize:   fileHeader.Size,
		Type:       mediaType,
		MimeType:   mimeType,
		DurationMs: durationMs,
	})
	if errors.Is(err, media.ErrQuotaExceeded) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "Storage quota exceeded"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not register media"}
	}
	return packets.NewMediaAssetResponse(asset), nil
}

// DELETE /api/admin/media/:id
func (t *MediaController) deleteMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	if id == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing media id"}
	}

	if err := t.assets.Delete(user.ID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "media not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete media"}
	}

	used, limit, err := t.assets.Usage(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not compute usage"}
	}
	return gin.H{"ok": true, "usage": packets.UsageResponse{UsedBytes: used, LimitBytes: limit}}, nil
}
