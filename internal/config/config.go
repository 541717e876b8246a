// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Relational store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Blob backends.
const (
	BlobSQLite = "sqlite"
	BlobMinio  = "minio"
	BlobMemory = "memory"
)

type Config struct {
	Port string

	DBDriver     string
	DatabasePath string
	DatabaseURL  string

	BlobBackend   string
	BlobContainer string
	PublicBaseURL string

	MinioEndpoint     string
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	MinioPublicRead   bool

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration
	BcryptCost  int

	AdminUsernames []string
	MaxUploadBytes int64
	LogLevel       slog.Level
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() (*Config, error) {
	port := envOrDefault("PORT", "8080")
	cfg := &Config{
		Port:              port,
		DBDriver:          envOrDefault("DB_DRIVER", DriverSQLite),
		DatabasePath:      envOrDefault("DATABASE_PATH", "mediahub.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		BlobBackend:       envOrDefault("BLOB_BACKEND", BlobSQLite),
		BlobContainer:     envOrDefault("BLOB_CONTAINER", "images"),
		PublicBaseURL:     strings.TrimRight(envOrDefault("PUBLIC_BASE_URL", "http://localhost:"+port+"/media"), "/"),
		MinioEndpoint:     envOrDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioRootUser:     os.Getenv("MINIO_ROOT_USER"),
		MinioRootPassword: os.Getenv("MINIO_ROOT_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTIssuer:         envOrDefault("JWT_ISSUER", "mediahub"),
		JWTAudience:       envOrDefault("JWT_AUDIENCE", "mediahub"),
		TokenTTL:          7 * 24 * time.Hour,
		BcryptCost:        12,
		MaxUploadBytes:    10 << 20,
		LogLevel:          slog.LevelInfo,
	}

	var err error
	if cfg.MinioUseSSL, err = envBool("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}
	if cfg.MinioPublicRead, err = envBool("MINIO_PUBLIC_READ", false); err != nil {
		return nil, err
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if cfg.TokenTTL, err = time.ParseDuration(v); err != nil || cfg.TokenTTL <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q", v)
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cfg.BcryptCost, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if cfg.MaxUploadBytes, err = strconv.ParseInt(v, 10, 64); err != nil || cfg.MaxUploadBytes <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", v)
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}
	for _, name := range strings.Split(os.Getenv("ADMIN_USERNAMES"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.AdminUsernames = append(cfg.AdminUsernames, name)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}

	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	switch c.BlobBackend {
	case BlobSQLite:
		if c.DBDriver != DriverSQLite {
			return errors.New("BLOB_BACKEND=sqlite requires DB_DRIVER=sqlite")
		}
	case BlobMemory:
	case BlobMinio:
		if c.MinioRootUser == "" || c.MinioRootPassword == "" {
			return errors.New("MINIO_ROOT_USER and MINIO_ROOT_PASSWORD are required when BLOB_BACKEND=minio")
		}
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.BlobBackend)
	}

	if c.BlobContainer == "" || strings.Contains(c.BlobContainer, "/") {
		return fmt.Errorf("invalid BLOB_CONTAINER %q", c.BlobContainer)
	}
	return nil
}

// IsAdminUsername reports whether username is listed in ADMIN_USERNAMES.
func (c *Config) IsAdminUsername(username string) bool {
	for _, name := range c.AdminUsernames {
		if strings.EqualFold(name, username) {
			return true
		}
	}
	return false
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
