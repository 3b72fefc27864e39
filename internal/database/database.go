// Package database provides SQL connectivity and transaction management
// for the identity provider store. PostgreSQL and MySQL are supported.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect establishes a database connection with the given configuration.
// MySQL connections always get parseTime enabled so TIMESTAMP columns scan
// into time.Time values.
func Connect(cfg Config) (*sql.DB, error) {
	connectionString := cfg.ConnectionString
	if cfg.Driver == "mysql" {
		mysqlCfg, err := mysql.ParseDSN(connectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
		}
		mysqlCfg.ParseTime = true
		connectionString = mysqlCfg.FormatDSN()
	}

	db, err := sql.Open(cfg.Driver, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
