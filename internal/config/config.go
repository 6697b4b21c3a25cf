package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read from the environment. Secrets never have defaults; the
// server refuses to start without them.
type Config struct {
	Env  string `env:"ENVIRONMENT" env-default:"local"`
	Port string `env:"SERVER_PORT" env-default:"5000"`

	// postgres in production, sqlite for local runs
	DBDriver  string `env:"DB_DRIVER" env-default:"postgres"`
	SQLiteDSN string `env:"SQLITE_DSN" env-default:"file:projects.db?_foreign_keys=on"`

	PostgresUser     string `env:"POSTGRES_USER" env-default:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB" env-default:"projects"`
	PostgresHost     string `env:"POSTGRES_HOST" env-default:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" env-default:"5432"`

	JWTSecret string `env:"JWT_SECRET"`

	// initial administrator account, consumed by cmd/seedadmin
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	return cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite3" {
		return c.SQLiteDSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)
}

// IsProduction controls cookie security attributes.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
