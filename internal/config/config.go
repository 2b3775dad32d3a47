package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	DatabaseURL         string `env:"DATABASE_URL"`
	AppHost             string `env:"APP_HOST" envDefault:":8080"`
	JWTSecret           string `env:"JWT_SECRET"`
	ScanCachePath       string `env:"SCAN_CACHE_PATH"`
	WarrantyWindowDays  int    `env:"WARRANTY_WINDOW_DAYS" envDefault:"30"`
	MigrationsDirectory string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
