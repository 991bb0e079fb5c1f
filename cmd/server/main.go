package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/config"
	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/media"
	"github.com/Fresco-Signage-LLC/fresco/internal/mqtt"
	"github.com/Fresco-Signage-LLC/fresco/internal/publish"
	"github.com/Fresco-Signage-LLC/fresco/internal/redis"
	"github.com/Fresco-Signage-LLC/fresco/internal/versioning"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// initialize the record store
	store, err := InitStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}

	// blob storage for media uploads
	storageSystem := InitStorage(cfg)

	// Redis pairing stash (optional)
	var pairing *redis.Client
	if cfg.RedisAddress != "" {
		pairing = redis.NewClient(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	}

	// MQTT refresh notifier (optional)
	var notifier publish.Notifier
	if cfg.MQTTBroker != "" {
		mqttNotifier, err := mqtt.NewNotifier(cfg.MQTTBroker, "fresco-server")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect MQTT notifier")
		}
		defer mqttNotifier.Close()
		notifier = mqttNotifier
	}

	drafts := versioning.NewManager(store)
	publisher := publish.NewService(store, notifier)
	assets := media.NewService(store, storageSystem)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	RegisterRoutes(r, cfg, store, storageSystem, drafts, publisher, assets, pairing)

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// InitStore selects the record-store backend from configuration.
func InitStore(cfg *config.Config) (db.Store, error) {
	if cfg.StoreDriver == config.StoreDriverDocument {
		return db.NewDocumentStore(cfg.DocumentPath)
	}

	store, err := db.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if migrator, ok := store.(db.Migrator); ok {
		if err := migrator.RunMigrations(cfg.MigrationsPath); err != nil {
			return nil, err
		}
	}
	return store, nil
}
