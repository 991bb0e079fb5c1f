package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverDocument = "document"
)

// Config holds environment-based settings
type Config struct {
	Environment   string
	ServerAddress string
	JWTSecret     string

	StoreDriver    string
	DatabaseURL    string
	MigrationsPath string
	DocumentPath   string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBroker string

	UploadDir       string
	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:   os.Getenv("APP_ENV"),
		ServerAddress: os.Getenv("SERVER_ADDRESS"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		StoreDriver:    os.Getenv("STORE_DRIVER"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DocumentPath:   os.Getenv("DOCUMENT_STORE_PATH"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBroker: os.Getenv("MQTT_BROKER"),

		UploadDir:       os.Getenv("UPLOAD_DIR"),
		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
	}

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = ":8080"
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = StoreDriverPostgres
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres store driver")
		}
		if cfg.MigrationsPath == "" {
			cfg.MigrationsPath = "./migrations"
		}
	case StoreDriverDocument:
		if cfg.DocumentPath == "" {
			cfg.DocumentPath = "./data/store.json"
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	if cfg.UseSpaces {
		if cfg.SpacesEndpoint == "" || cfg.SpacesBucket == "" || cfg.SpacesCDNURL == "" {
			return nil, fmt.Errorf("USE_SPACES requires SPACES_ENDPOINT, SPACES_BUCKET and SPACES_CDN_URL")
		}
	}

	return cfg, nil
}
