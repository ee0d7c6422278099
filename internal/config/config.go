package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is the process configuration, decoded from the environment after an
// optional .env file load.
type Config struct {
	Addr           string `env:"ADDR,default=:8080"`
	StorageBackend string `env:"STORAGE_BACKEND,default=file"` // file | postgres | memory
	DataDir        string `env:"DATA_DIR,default=./data"`
	DatabaseURL    string `env:"DATABASE_URL"`
	Owner          string `env:"OWNER_ID,default=default"`

	JWTSecret         string `env:"JWT_SECRET"`
	AdminUser         string `env:"ADMIN_USER,default=admin"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
}

// Load reads .env if present and decodes the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	switch cfg.StorageBackend {
	case "file", "postgres", "memory":
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be file, postgres or memory, got %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
	}
	return &cfg, nil
}
