// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported storage backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Logging  LoggingConfig
	Policy   PolicyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// DatabaseConfig selects the storage backend and its connection settings.
// For postgres, DSN wins over the discrete host/port fields when set.
type DatabaseConfig struct {
	Driver string
	Path   string // sqlite database file
	DSN    string

	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Debug           bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env        string
	Migrations bool
	Seed       bool
	SeedFile   string
	// SeedUsername and SeedPassword override the account from the seed file.
	SeedUsername string
	SeedPassword string
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level  string
	Format string // text|json
}

// PolicyConfig toggles the optional input hardening rules.
type PolicyConfig struct {
	RequireCustomerName          bool
	RejectNegativeAmounts        bool
	RequireKnownCustomer         bool
	RequireCurrentPassword       bool
	EnforceVerificationInvariant bool
}

// DSNOrDefault returns the postgres connection string, building the
// key=value form from the discrete fields when DSN is empty.
func (d DatabaseConfig) DSNOrDefault() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3001"),
			ReadTimeout:    getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:            getEnv("DB_PATH", "data/erp.db"),
			DSN:             os.Getenv("DATABASE_DSN"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "ledger"),
			Password:        getEnv("DB_PASSWORD", "ledger"),
			DBName:          getEnv("DB_NAME", "ledger"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			Debug:           getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Env:          getEnv("APP_ENV", "development"),
			Migrations:   getEnvBool("MIGRATIONS", false),
			Seed:         getEnvBool("DB_SEED", true),
			SeedFile:     os.Getenv("SEED_FILE"),
			SeedUsername: os.Getenv("SEED_USERNAME"),
			SeedPassword: os.Getenv("SEED_PASSWORD"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Policy: PolicyConfig{
			RequireCustomerName:          getEnvBool("POLICY_REQUIRE_CUSTOMER_NAME", false),
			RejectNegativeAmounts:        getEnvBool("POLICY_REJECT_NEGATIVE_AMOUNTS", false),
			RequireKnownCustomer:         getEnvBool("POLICY_REQUIRE_KNOWN_CUSTOMER", false),
			RequireCurrentPassword:       getEnvBool("POLICY_REQUIRE_CURRENT_PASSWORD", false),
			EnforceVerificationInvariant: getEnvBool("POLICY_ENFORCE_VERIFICATION_INVARIANT", true),
		},
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", cfg.Database.Driver, DriverSQLite, DriverPostgres)
	}
	if cfg.Database.MaxOpenConns < 1 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1, got %d", cfg.Database.MaxOpenConns)
	}
	return cfg, nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration accepts Go duration strings ("15s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
