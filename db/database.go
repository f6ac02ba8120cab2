package db

import (
	"database/sql"
	"fmt"
	"sync"
)

// Database bundles the SQLite connection with its migration state. Create
// one at startup with New, hand its Repository to the components that need
// persistence, and Close it during shutdown.
type Database struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// DatabaseConfig holds configuration for the Database.
type DatabaseConfig struct {
	// Path is the database file path
	Path string
	// MigrationsPath is the path to migrations directory (file:// URL format)
	MigrationsPath string
	// ConnectionConfig allows customizing the SQLite connection
	ConnectionConfig *ConnectionConfig
}

// DefaultDatabaseConfig returns sensible defaults for the database.
func DefaultDatabaseConfig(path string) DatabaseConfig {
	return DatabaseConfig{
		Path:           path,
		MigrationsPath: "file://db/migrations",
	}
}

// New opens the database with WAL mode and foreign keys enabled and applies
// any pending migrations.
func New(config DatabaseConfig) (*Database, error) {
	connCfg := DefaultConnectionConfig(config.Path)
	if config.ConnectionConfig != nil {
		connCfg = *config.ConnectionConfig
	}

	conn, err := NewSQLiteConnection(connCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MigrationsPath != "" {
		if err := MigrateUp(conn, config.MigrationsPath); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return &Database{db: conn, path: config.Path}, nil
}

// DB returns the underlying connection for repositories.
func (d *Database) DB() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// Repository returns a Repository bound to this database.
func (d *Database) Repository() *Repository {
	return NewRepository(d.DB())
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}
