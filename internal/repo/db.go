// Package repo implements the SQL record store for schools, backed by GORM.
// This file contains database bootstrapping helpers for SQLite (pure Go
// driver), MySQL and PostgreSQL, connection pool tuning, optional query
// tracing, and schema migrations.
package repo

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-school-directory/internal/config"
	"github.com/tbourn/go-school-directory/internal/domain"
)

// Open connects to the SQL database selected by cfg.Driver and applies the
// shared pool settings. The returned handle owns the process-wide pool; close
// it with Close at shutdown.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite, "":
		db, err = OpenSQLite(cfg.Path)
	case config.DriverMySQL:
		db, err = gorm.Open(mysql.Open(MySQLDSN(cfg)), &gorm.Config{})
	case config.DriverPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  PostgresDSN(cfg),
			PreferSimpleProtocol: true, // PgBouncer / Supabase pooler friendly
		}), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	tunePool(db, cfg.MaxOpenConns)
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	tunePool(db, 10)
	return db, nil
}

// MySQLDSN builds a go-sql-driver DSN from cfg. Times are parsed into
// time.Time in UTC so created_at round-trips without conversion.
func MySQLDSN(cfg config.DBConfig) string {
	mc := mysqldrv.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// PostgresDSN builds a postgres:// URL from cfg with credentials escaped.
func PostgresDSN(cfg config.DBConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	q.Set("application_name", "school-directory")
	u.RawQuery = q.Encode()
	return u.String()
}

// tunePool bounds the connection pool. maxOpen <= 0 keeps the default of 10.
func tunePool(db *gorm.DB, maxOpen int) {
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxOpen)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
}

// EnableTracing installs the GORM OpenTelemetry plugin so every query emits
// a span under the request trace.
func EnableTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin())
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the schools table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.School{})
}
