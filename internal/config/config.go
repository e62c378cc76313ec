// Package config loads server settings from environment variables and an
// optional config file.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/gavinlouuu-kpt/pg-minio/internal/browse"
)

// Config holds everything the server needs at startup. MinIO credentials are
// deliberately absent: those come from the user at login, per session.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`

	// PageSize is the number of images per grid page (3x3 by default).
	PageSize int `mapstructure:"page_size"`

	// DefaultEndpoint pre-fills the endpoint field on the login form.
	DefaultEndpoint string `mapstructure:"default_endpoint"`

	// SessionKey is the 32-byte AES key for session cookies. When empty an
	// ephemeral key is generated and sessions die with the process.
	SessionKey string `mapstructure:"session_key"`

	// PostgresDSN enables the object recorder when set.
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// Load reads pg-minio.yaml from the working directory (if present) and
// PGMINIO_* environment variables, env winning over file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("page_size", browse.DefaultPageSize)
	v.SetDefault("default_endpoint", "localhost:9000")
	// Optional keys need a registered default or AutomaticEnv never feeds
	// them into Unmarshal.
	v.SetDefault("session_key", "")
	v.SetDefault("postgres_dsn", "")

	v.SetConfigName("pg-minio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("pgminio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = browse.DefaultPageSize
	}
	return &cfg, nil
}
