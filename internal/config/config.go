package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at process start and passed to constructors.
// Nothing below the cli package reads the environment.
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Token    TokenConfig
	Log      LogConfig
	CORS     CORSConfig
	Uploads  UploadConfig
}

type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Driver   string // postgres (pgx) | pq (lib/pq) | sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	Path     string // sqlite file
}

type TokenConfig struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type LogConfig struct {
	File       string // empty logs to stdout
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

const devSecret = "development-only-secret"

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	accessMin, err := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	refreshMin, err := getEnvInt("REFRESH_TOKEN_EXPIRE_MINUTES", 7*24*60)
	if err != nil {
		return nil, err
	}
	maxSize, err := getEnvInt("LOG_MAX_SIZE_MB", 10)
	if err != nil {
		return nil, err
	}
	maxBackups, err := getEnvInt("LOG_MAX_BACKUPS", 7)
	if err != nil {
		return nil, err
	}
	maxAge, err := getEnvInt("LOG_MAX_AGE_DAYS", 7)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getEnvInt("MAX_UPLOAD_MB", 8)
	if err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Addr:           "0.0.0.0:" + getEnv("PORT", "8000"),
			RequestTimeout: timeout,
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "realty"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
			Path:     getEnv("DB_PATH", "./realty.db"),
		},
		Token: TokenConfig{
			Secret:     os.Getenv("SECRET_KEY"),
			Algorithm:  strings.ToUpper(getEnv("ALGORITHM", "HS256")),
			AccessTTL:  time.Duration(accessMin) * time.Minute,
			RefreshTTL: time.Duration(refreshMin) * time.Minute,
		},
		Log: LogConfig{
			File:       getEnv("LOG_FILE", "./logs/app.log"),
			Level:      getEnv("LOG_LEVEL", "debug"),
			MaxSizeMB:  maxSize,
			MaxBackups: maxBackups,
			MaxAgeDays: maxAge,
			Compress:   getEnv("LOG_COMPRESS", "true") == "true",
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Uploads: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "./static"),
			MaxBytes: int64(maxUpload) << 20,
		},
	}

	if cfg.Token.Secret == "" && cfg.IsDevelopment() {
		log.Println("SECRET_KEY not set – using development secret")
		cfg.Token.Secret = devSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "test"
}

// Validate rejects configurations the server cannot run safely with.
func (c *Config) Validate() error {
	var errs []error
	if c.Token.Secret == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	switch c.Token.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("unsupported ALGORITHM %q", c.Token.Algorithm))
	}
	if c.Token.AccessTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_EXPIRE_MINUTES must be longer than the access token lifetime"))
	}
	switch c.Database.Driver {
	case "postgres", "pq", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v, exists := os.LookupEnv(key)
	if !exists || v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
