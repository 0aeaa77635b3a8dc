package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string `mapstructure:"PGSQL_URL"`
	Port           string `mapstructure:"PORT"`
	IsProduction   bool   `mapstructure:"IS_PRODUCTION"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`
	RateLimitSpec  string `mapstructure:"RATE_LIMIT"`
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	// ulule/limiter format, e.g. "100-M" for 100 requests per minute.
	v.SetDefault("RATE_LIMIT", "300-M")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable is required")
	}

	return &cfg, nil
}
