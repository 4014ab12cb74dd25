package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Backup   BackupConfig
	CORS     CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Addr     string
	User     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration. An empty Secret turns auth off.
type JWTConfig struct {
	Secret     string
	Expiration string
}

// BackupConfig controls the periodic snapshot. A zero Interval disables it.
type BackupConfig struct {
	Dir      string
	Interval time.Duration
	Retain   int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads .env when present and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	var err error

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.Store = StoreConfig{
		Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll_engine"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
		MinConns: int32(dbMinConns),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		User:     getEnv("REDIS_USER", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:     getEnv("JWT_SECRET_KEY", ""),
		Expiration: getEnv("JWT_EXPIRATION_TIME", "720h"),
	}

	// Backup configuration
	backupInterval, err := time.ParseDuration(getEnv("BACKUP_INTERVAL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_INTERVAL: %w", err)
	}
	backupRetain, err := strconv.Atoi(getEnv("BACKUP_RETAIN", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_RETAIN: %w", err)
	}

	config.Backup = BackupConfig{
		Dir:      getEnv("BACKUP_DIR", "./backups"),
		Interval: backupInterval,
		Retain:   backupRetain,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}

	switch c.Store.Driver {
	case StoreMemory:
		if c.App.Env == "production" {
			return fmt.Errorf("STORE_DRIVER=memory loses every record on restart, use postgres or redis when APP_ENV=production")
		}
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when STORE_DRIVER=postgres")
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORE_DRIVER=redis")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of memory, postgres, redis, got %q", c.Store.Driver)
	}

	if c.JWT.Secret != "" {
		if _, err := time.ParseDuration(c.JWT.Expiration); err != nil {
			return fmt.Errorf("invalid JWT_EXPIRATION_TIME: %w", err)
		}
	}

	if c.Backup.Interval < 0 {
		return fmt.Errorf("BACKUP_INTERVAL must not be negative")
	}
	if c.Backup.Interval > 0 && c.Backup.Dir == "" {
		return fmt.Errorf("BACKUP_DIR is required when BACKUP_INTERVAL is set")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
