// Package config loads service settings from the environment, an optional
// .env file and an optional config file named by CONFIG_FILE.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds everything main needs to assemble the service.
type Config struct {
	AppPort         string
	DBDriver        string
	DatabaseDSN     string
	LogLevel        string
	LogFormat       string
	MetricsEnabled  bool
	RabbitMQURL     string
	RabbitMQQueue   string
	ShutdownTimeout time.Duration
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "db.sqlite")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// Load reads .env (if present), then the environment, then CONFIG_FILE.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:   v.GetString("RABBITMQ_QUEUE"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDriver != DriverMemory && cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required for driver %s", cfg.DBDriver)
	}

	return cfg, nil
}
