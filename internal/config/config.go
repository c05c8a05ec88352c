package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort              = "8080"
	defaultDatabaseURL       = "silkscan.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTAccessTTL      = "24h"
	defaultClassifierURL     = "http://localhost:5000/predict"
	defaultClassifierTimeout = "30s"
	defaultUploadDir         = "./uploads"
)

type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	JWTSecret         string
	JWTAccessTTL      time.Duration
	ClassifierURL     string
	ClassifierTimeout time.Duration
	UploadDir         string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.ClassifierURL = strings.TrimSpace(getEnv("CLASSIFIER_URL", defaultClassifierURL))
	cfg.UploadDir = strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.ClassifierTimeout, err = parseDurationEnv("CLASSIFIER_TIMEOUT", defaultClassifierTimeout)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.ClassifierTimeout <= 0 {
		return fmt.Errorf("CLASSIFIER_TIMEOUT must be > 0")
	}
	if cfg.ClassifierURL == "" {
		return fmt.Errorf("CLASSIFIER_URL must not be empty")
	}
	if cfg.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
