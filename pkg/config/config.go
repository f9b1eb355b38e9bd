package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port     int
	LogLevel zapcore.Level

	// DataDir is the base for relative default paths.
	DataDir        string
	OrganismConfig string
	SelectionDB    string

	// MaxURLLength is the longest download URL handed out for GET.
	MaxURLLength int
	LapisTimeout time.Duration

	// DotEnvErr is why .env could not be loaded, nil when it was.
	DotEnvErr error
}

func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	envErr := godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	level, err := zapcore.ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Port:           v.GetInt("PORT"),
		LogLevel:       level,
		DataDir:        v.GetString("SEQPORTAL_DATA"),
		OrganismConfig: v.GetString("ORGANISM_CONFIG"),
		SelectionDB:    v.GetString("SELECTION_DB"),
		MaxURLLength:   v.GetInt("MAX_URL_LENGTH"),
		LapisTimeout:   parseDuration(v.GetString("LAPIS_TIMEOUT"), 30*time.Second),
		DotEnvErr:      envErr,
	}
	if cfg.OrganismConfig == "" {
		cfg.OrganismConfig = filepath.Join(cfg.DataDir, "organisms.yaml")
	}
	if cfg.SelectionDB == "" {
		cfg.SelectionDB = filepath.Join(cfg.DataDir, "db", "selections.db")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d (must be 1-65535)", cfg.Port)
	}
	if cfg.MaxURLLength <= 0 {
		return nil, fmt.Errorf("invalid MAX_URL_LENGTH: %d (must be positive)", cfg.MaxURLLength)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEQPORTAL_DATA", "./data")
	v.SetDefault("ORGANISM_CONFIG", "")
	v.SetDefault("SELECTION_DB", "")
	v.SetDefault("MAX_URL_LENGTH", 8000)
	v.SetDefault("LAPIS_TIMEOUT", "30s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
