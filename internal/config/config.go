package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"starlink_crm_backend/pkg/utils"
)

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	AllowedOrigins []string
	StaticDir      string
	MaxClients     int
	Database       DatabaseConfig
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	RunMigrations   bool
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	maxClients, err := envInt("MAX_CLIENTS", 1000)
	if err != nil {
		return nil, err
	}
	maxOpen, err := envInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, err
	}
	maxIdle, err := envInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}
	lifetime, err := time.ParseDuration(utils.Getenv("DB_CONN_MAX_LIFETIME", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	runMigrations, err := strconv.ParseBool(utils.Getenv("DB_RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_RUN_MIGRATIONS: %w", err)
	}

	return &Config{
		Port:           utils.Getenv("PORT", "4000"),
		GinMode:        utils.Getenv("GIN_MODE", "release"),
		LogLevel:       utils.Getenv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(utils.Getenv("FRONTEND_URL", "http://localhost:3000")),
		StaticDir:      utils.Getenv("STATIC_DIR", ""),
		MaxClients:     maxClients,
		Database: DatabaseConfig{
			Host:            utils.Getenv("DB_HOST", "localhost"),
			Port:            utils.Getenv("DB_PORT", "5432"),
			User:            utils.Getenv("DB_USER", "postgres"),
			Password:        utils.Getenv("DB_PASSWORD", ""),
			Name:            utils.Getenv("DB_NAME", "starlink_crm"),
			SSLMode:         utils.Getenv("DB_SSLMODE", "disable"),
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: lifetime,
			RunMigrations:   runMigrations,
		},
	}, nil
}

func envInt(key string, fallback int) (int, error) {
	raw := utils.Getenv(key, strconv.Itoa(fallback))
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, raw)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
