package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Fresco-Signage-LLC/fresco/internal/config"
	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api"
	adminapi "github.com/Fresco-Signage-LLC/fresco/internal/http/api/admin/endpoints"
	monitorapi "github.com/Fresco-Signage-LLC/fresco/internal/http/api/monitor/endpoints"
	"github.com/Fresco-Signage-LLC/fresco/internal/media"
	"github.com/Fresco-Signage-LLC/fresco/internal/publish"
	"github.com/Fresco-Signage-LLC/fresco/internal/redis"
	"github.com/Fresco-Signage-LLC/fresco/internal/storage"
	"github.com/Fresco-Signage-LLC/fresco/internal/versioning"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	store db.Store,
	storageSystem storage.Storage,
	drafts *versioning.Manager,
	publisher *publish.Service,
	assets *media.Service,
	pairing *redis.Client,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(cfg.JWTSecret, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     store,
	},
		adminapi.UserModule(store),
		adminapi.ScreenModule(store, drafts),
		adminapi.SceneModule(store, drafts),
		adminapi.MonitorModule(store, publisher, pairing),
		adminapi.MediaModule(assets, storageSystem),
		// session endpoints that require auth
		adminapi.AuthSessionModule(cfg.JWTSecret, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/monitor",
	},
		monitorapi.ResolveModule(publisher),
		monitorapi.PairingModule(pairing),
	)

	// locally stored uploads are served straight from disk
	if !cfg.UseSpaces {
		r.Static("/uploads", cfg.UploadDir)
	}
}
