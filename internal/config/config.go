package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter, for both the CLI (client side)
// and the devserver.
type Config struct {
	Env      string
	LogLevel string

	// Client side
	APIBaseURL  string
	APIToken    string
	HTTPTimeout time.Duration

	// Devserver
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	AllowedOrigins  []string
	RateLimitLimit  int64
	RateLimitPeriod time.Duration
	MaxUploadSizeMB int64
}

// Load reads environment variables and returns a ready configuration.
func Load() (*Config, error) {
	// Load .env only if present; otherwise plain environment variables.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: no .env file, using environment variables: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:         env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8080/api"),
		APIToken:    getEnv("API_TOKEN", ""),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if env == "production" {
		if len(jwtSecret) < 32 {
			return nil, fmt.Errorf("config: JWT_SECRET is required and must be at least 32 characters in production")
		}
	} else if jwtSecret == "" {
		jwtSecret = "dev-only-secret-change-in-production"
		log.Printf("config: WARNING - using the default JWT_SECRET, change it in production!")
	}
	cfg.JWTSecret = jwtSecret

	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS is required in production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	} else {
		cfg.AllowedOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.AllowedOrigins {
			cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	}

	cfg.HTTPTimeout = mustParseDuration(getEnv("HTTP_TIMEOUT", "30s"))
	cfg.AccessTokenTTL = mustParseDuration(getEnv("ACCESS_TOKEN_TTL", "15m"))
	cfg.MaxUploadSizeMB = mustParseInt64(getEnv("MAX_UPLOAD_MB", "10"))
	cfg.RateLimitLimit = mustParseInt64(getEnv("RATE_LIMIT_LIMIT", "60"))
	cfg.RateLimitPeriod = mustParseDuration(getEnv("RATE_LIMIT_PERIOD", "1m"))

	return cfg, nil
}

// getEnv returns the environment variable's value or the fallback.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// mustParseDuration parses a duration string or exits.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: could not parse duration %q: %v", v, err)
	}
	return dur
}

// mustParseInt64 parses an integer string or exits.
func mustParseInt64(v string) int64 {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: could not parse number %q: %v", v, err)
	}
	return num
}
