package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port              string
	DBPath            string
	JWTSecret         string
	SegmentConfigPath string // optional YAML overriding segmentation thresholds
	AppCatalogPath    string // optional YAML overriding app categories
	PlaceCatalogPath  string // optional YAML of named places enabling label enrichment
}

// Load reads configuration from the environment, with .env support for
// local development
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		Port:              getEnv("PORT", ":8080"),
		DBPath:            getEnv("DB_PATH", "./data/timeline.db"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SegmentConfigPath: os.Getenv("SEGMENT_CONFIG_PATH"),
		AppCatalogPath:    os.Getenv("APP_CATALOG_PATH"),
		PlaceCatalogPath:  os.Getenv("PLACE_CATALOG_PATH"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
