package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT, default=8080"`
	GinMode  string `env:"GIN_MODE, default=debug"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// LogPretty switches the logger to console output instead of JSON.
	LogPretty bool `env:"LOG_PRETTY, default=false"`

	DB    DBConfig
	Redis RedisConfig
	Auth  AuthConfig

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
}

type DBConfig struct {
	// Driver is one of mysql, postgres or sqlite.
	Driver   string `env:"DB_DRIVER, default=mysql"`
	Host     string `env:"DB_HOST, default=localhost"`
	Port     string `env:"DB_PORT, default=3306"`
	User     string `env:"DB_USER, default=taskuser"`
	Password string `env:"DB_PASSWORD, default=taskpassword"`
	Name     string `env:"DB_NAME, default=task_management"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AuthConfig struct {
	SessionSecret string        `env:"SESSION_SECRET, default=default-secret-key-change-me"`
	JWTSecret     string        `env:"JWT_SECRET, default=default-jwt-secret-change-me"`
	TokenTTL      time.Duration `env:"JWT_TTL, default=72h"`
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env file is fine, the environment is authoritative.
	_ = godotenv.Load()

	return LoadWith(context.Background(), envconfig.OsLookuper())
}

// LoadWith processes the configuration using the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	switch cfg.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return &cfg, nil
}
