package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/config"
	"github.com/Fresco-Signage-LLC/fresco/internal/storage"
)

// InitStorage selects and returns the configured storage backend
func InitStorage(cfg *config.Config) storage.Storage {
	if cfg.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Msg("using Spaces storage")
		return spacesStorage
	}

	local := storage.NewLocalStorage(cfg.UploadDir)
	log.Info().Str("dir", cfg.UploadDir).Msg("using local file storage")
	return local
}
