package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultOutputPath     = "arc_raiders_crafting_profit.xlsx"
	defaultLootOutputPath = "arc_raiders_loot_values.xlsx"
	defaultFallbackValue  = 500
	defaultTopN           = 10
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultEnvironment    = "dev"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	OutputPath     string
	LootOutputPath string
	// SnapshotPath enables the SQLite export when set.
	SnapshotPath  string
	DataDir       string
	FallbackValue int
	TopN          int
	Port          string
	LogLevel      string
	LogFormat     string
	Environment   string
}

// IsDev reports whether the process runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Environment) {
	case "", "dev", "development", "local":
		return true
	}
	return false
}

// Load reads environment variables and returns a populated Config.
func Load() (Config, error) {
	// Best-effort: production injects real env vars.
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	cfg := Config{
		OutputPath:     getenv("OUTPUT_PATH", defaultOutputPath),
		LootOutputPath: getenv("LOOT_OUTPUT_PATH", defaultLootOutputPath),
		SnapshotPath:   os.Getenv("SNAPSHOT_PATH"),
		DataDir:        os.Getenv("DATA_DIR"),
		Port:           getenv("PORT", defaultPort),
		LogLevel:       getenv("LOG_LEVEL", defaultLogLevel),
		LogFormat:      getenv("LOG_FORMAT", defaultLogFormat),
		Environment:    getenv("ENVIRONMENT", defaultEnvironment),
	}

	var err error
	if cfg.FallbackValue, err = getint("FALLBACK_MATERIAL_VALUE", defaultFallbackValue); err != nil {
		return Config{}, err
	}
	if cfg.FallbackValue < 0 {
		return Config{}, fmt.Errorf("FALLBACK_MATERIAL_VALUE must not be negative, got %d", cfg.FallbackValue)
	}
	if cfg.TopN, err = getint("TOP_N", defaultTopN); err != nil {
		return Config{}, err
	}
	if cfg.TopN < 1 {
		return Config{}, fmt.Errorf("TOP_N must be positive, got %d", cfg.TopN)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}
