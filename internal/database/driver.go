package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/lib/pq"
)

// Config for database connection
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// DSN returns the lib/pq connection string
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// NewDriver opens a pooled PostgreSQL connection wrapped in an ent SQL driver
func NewDriver(cfg Config) (*entsql.Driver, error) {
	drv, err := Open(dialect.Postgres, cfg.DSN())
	if err != nil {
		return nil, err
	}
	log.Println("✅ Connected to PostgreSQL")
	return drv, nil
}

// Open opens any database/sql driver registered under the ent dialect name
// ("postgres", "sqlite3") and verifies the connection.
func Open(dialectName, dsn string) (*entsql.Driver, error) {
	db, err := sql.Open(dialectName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return entsql.OpenDB(dialectName, db), nil
}

// WithDebug wraps the driver so every statement is logged
func WithDebug(drv dialect.Driver, debug bool) dialect.Driver {
	if !debug {
		return drv
	}
	return dialect.Debug(drv)
}
