// Package config loads service configuration from an optional file plus
// CURBSIDE_-prefixed environment variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	// DSN is optional; without it the service runs with no snapshot
	// fallback store.
	DSN string `mapstructure:"dsn"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type OpenDataConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

type FineCatalogConfig struct {
	Path string `mapstructure:"path"`
}

type SnapshotConfig struct {
	RetentionDays int    `mapstructure:"retention_days"`
	PruneSchedule string `mapstructure:"prune_schedule"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	OpenData    OpenDataConfig    `mapstructure:"opendata"`
	FineCatalog FineCatalogConfig `mapstructure:"fine_catalog"`
	Snapshots   SnapshotConfig    `mapstructure:"snapshots"`
}

func (c OpenDataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c OpenDataConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load reads config.yaml from the working directory when present; every key
// can also come from the environment (CURBSIDE_SERVER_ADDR and so on).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("database.dsn", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("opendata.base_url", "https://data.cityofnewyork.us/resource")
	v.SetDefault("opendata.timeout_seconds", 5)
	v.SetDefault("opendata.cache_ttl_seconds", 300)
	v.SetDefault("fine_catalog.path", "")
	v.SetDefault("snapshots.retention_days", 30)
	v.SetDefault("snapshots.prune_schedule", "0 4 * * *")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("curbside")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
