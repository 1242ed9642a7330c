// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gurkanbulca/dayplan/internal/database"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Planner  PlannerConfig
}

type ServerConfig struct {
	GRPCPort         string
	Environment      string
	EnableReflection bool
	AutoMigrate      bool
	// MemoryStore keeps tasks in process memory instead of PostgreSQL
	MemoryStore bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

type JWTConfig struct {
	Secret              string
	AccessTokenDuration time.Duration
}

type PlannerConfig struct {
	HorizonMonths      int
	Timezone           string
	DefaultOccurrences int
}

// Location resolves the planner time zone
func (p PlannerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(p.Timezone)
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			GRPCPort:         getEnv("GRPC_PORT", "50051"),
			Environment:      getEnv("ENVIRONMENT", "development"),
			EnableReflection: getEnvAsBool("ENABLE_REFLECTION", true),
			AutoMigrate:      getEnvAsBool("AUTO_MIGRATE", true),
			MemoryStore:      getEnvAsBool("MEMORY_STORE", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "dayplan"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			Debug:    getEnvAsBool("DB_DEBUG", false),
		},
		JWT: JWTConfig{
			Secret:              getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			AccessTokenDuration: getEnvAsDuration("JWT_ACCESS_TOKEN_DURATION", 24*time.Hour),
		},
		Planner: PlannerConfig{
			HorizonMonths:      getEnvAsInt("PLANNER_HORIZON_MONTHS", 24),
			Timezone:           getEnv("PLANNER_TIMEZONE", "UTC"),
			DefaultOccurrences: getEnvAsInt("PLANNER_DEFAULT_OCCURRENCES", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Server.GRPCPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("GRPC_PORT must be a valid port, got %q", c.Server.GRPCPort))
	}
	if c.Planner.HorizonMonths < 1 {
		errs = append(errs, fmt.Errorf("PLANNER_HORIZON_MONTHS must be at least 1, got %d", c.Planner.HorizonMonths))
	}
	if c.Planner.DefaultOccurrences < 0 || c.Planner.DefaultOccurrences > 366 {
		errs = append(errs, fmt.Errorf("PLANNER_DEFAULT_OCCURRENCES must be between 0 and 366, got %d", c.Planner.DefaultOccurrences))
	}
	if _, err := c.Planner.Location(); err != nil {
		errs = append(errs, fmt.Errorf("PLANNER_TIMEZONE: %w", err))
	}
	if c.JWT.AccessTokenDuration <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_DURATION must be positive"))
	}
	if c.IsProduction() && strings.HasPrefix(c.JWT.Secret, "dev-") {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}

	return errors.Join(errs...)
}

// ToDatabaseConfig converts to the connection settings of the database package
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.DBName,
		SSLMode:  c.Database.SSLMode,
		Debug:    c.Database.Debug,
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15m", "24h")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}
