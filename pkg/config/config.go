package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config groups the application settings, read from the environment (with an
// optional .env file) via Viper. All keys are prefixed INVENTORY_.
type Config struct {
	Env      string // development, staging, production
	LogLevel string
	DB       DBConfig
	HTTP     HTTPConfig
}

// DBConfig holds the backing-store location: a SQLite file path by default, or
// a full postgres:// DSN.
type DBConfig struct {
	DSN string
}

// HTTPConfig configures the optional API server started by the serve command.
type HTTPConfig struct {
	Addr string
}

// Load reads the configuration. A missing .env file is not an error; explicit
// environment variables win over file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("inventory")
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("log_level", "info")
	v.SetDefault("db", "inventory.db")
	v.SetDefault("http_addr", ":8080")

	return &Config{
		Env:      v.GetString("env"),
		LogLevel: v.GetString("log_level"),
		DB:       DBConfig{DSN: v.GetString("db")},
		HTTP:     HTTPConfig{Addr: v.GetString("http_addr")},
	}, nil
}
