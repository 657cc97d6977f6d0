package config

import (
	"os"
	"strconv"
	"time"
)

// BackendConfig holds settings for the external eSignature backend.
type BackendConfig struct {
	// BaseURL is the backend origin, e.g. http://localhost:3000.
	BaseURL string
	// RequestTimeout bounds every document/login request.
	RequestTimeout time.Duration
}

// GeoConfig holds settings for the best-effort IP/geolocation lookup.
// Lookups are optional request context; failures never block an upload.
type GeoConfig struct {
	IPEndpoint  string
	GeoEndpoint string
	Timeout     time.Duration
}

// AppConfig is the centralized configuration struct for the gateway.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port string
	// SessionFile overrides where the session token is persisted.
	// Empty means the per-user default location.
	SessionFile string
	Backend     BackendConfig
	Geo         GeoConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:        getEnv("PORT", "8080"),
		SessionFile: getEnv("SESSION_FILE", ""),
		Backend: BackendConfig{
			BaseURL:        getEnv("API_URL", "http://localhost:3000"),
			RequestTimeout: getEnvDuration("API_TIMEOUT_MS", 5000),
		},
		Geo: GeoConfig{
			IPEndpoint:  getEnv("GEO_IP_ENDPOINT", "https://api.ipify.org?format=json"),
			GeoEndpoint: getEnv("GEO_LOOKUP_ENDPOINT", "http://ip-api.com/json"),
			Timeout:     getEnvDuration("GEO_TIMEOUT_MS", 2000),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration reads a millisecond value from the environment.
func getEnvDuration(key string, defMillis int) time.Duration {
	return time.Duration(getEnvInt(key, defMillis)) * time.Millisecond
}
