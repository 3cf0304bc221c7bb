// Package config loads slidecraft settings from config files and the
// environment and validates them before the pipeline starts.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreFile     = "file"
	StoreRedis    = "redis"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Slide count bounds enforced on configuration and on per-request values.
const (
	MinSlideCount = 1
	MaxSlideCount = 50
)

// ClampSlideCount forces a requested slide count into the allowed range.
func ClampSlideCount(n int) int {
	if n < MinSlideCount {
		return MinSlideCount
	}
	if n > MaxSlideCount {
		return MaxSlideCount
	}
	return n
}

// Config is the resolved slidecraft configuration.
type Config struct {
	// Provider selects the LLM backend: copilot, openai, claude, gemini,
	// or empty for auto-detection from credentials.
	Provider string `mapstructure:"provider"`
	// Model overrides the provider's default model.
	Model string `mapstructure:"model"`

	// Style pins a preset for every run; empty keeps recommendation on.
	Style string `mapstructure:"style"`

	Workspace     string   `mapstructure:"workspace"`
	OutputDir     string   `mapstructure:"output_dir"`
	OutputFormats []string `mapstructure:"output_formats"`
	SlideCount    int      `mapstructure:"slide_count"`

	Store    string         `mapstructure:"store"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// RedisConfig configures the Redis session store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MongoConfig configures the MongoDB session store.
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// PostgresConfig configures the PostgreSQL session store.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Load reads slidecraft.yaml from the working directory or ~/.slidecraft,
// then overlays SLIDECRAFT_* environment variables. A missing config file is
// not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("slidecraft")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.slidecraft")

	v.SetEnvPrefix("SLIDECRAFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("workspace", ".")
	v.SetDefault("output_dir", ".")
	v.SetDefault("output_formats", []string{"html"})
	v.SetDefault("slide_count", 10)
	v.SetDefault("store", StoreFile)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("mongo.database", "slidecraft")
	v.SetDefault("mongo.collection", "sessions")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	v := NewValidator()

	if c.Provider != "" {
		v.ValidateOneOf("provider", c.Provider, "copilot", "openai", "claude", "gemini")
	}
	v.ValidateRange("slide_count", c.SlideCount, MinSlideCount, MaxSlideCount)
	v.ValidateEach("output_formats", c.OutputFormats, "html", "pptx", "pdf")
	v.ValidateOneOf("store", c.Store, StoreFile, StoreRedis, StoreMongo, StorePostgres)

	switch c.Store {
	case StoreRedis:
		v.RequireNonEmpty("redis.addr", c.Redis.Addr)
		v.ValidateRange("redis.db", c.Redis.DB, 0, 15)
	case StoreMongo:
		v.RequireNonEmpty("mongo.uri", c.Mongo.URI)
		v.RequireNonEmpty("mongo.database", c.Mongo.Database)
		v.RequireNonEmpty("mongo.collection", c.Mongo.Collection)
	case StorePostgres:
		v.RequireNonEmpty("postgres.host", c.Postgres.Host)
		v.ValidateRange("postgres.port", c.Postgres.Port, 1, 65535)
		v.RequireNonEmpty("postgres.user", c.Postgres.User)
		v.RequireNonEmpty("postgres.dbname", c.Postgres.DBName)
		v.ValidateOneOf("postgres.sslmode", c.Postgres.SSLMode,
			"disable", "require", "verify-ca", "verify-full")
	}

	return v.Error()
}
