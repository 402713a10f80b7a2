package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrMigrationsUnsupported is returned for drivers without versioned migrations.
// Those databases are provisioned with GORM AutoMigrate instead.
var ErrMigrationsUnsupported = errors.New("versioned migrations are only available for mysql")

// Migrator applies the embedded SQL migrations.
type Migrator struct {
	m *migrate.Migrate
}

// Migrations returns the embedded migration source.
func Migrations() (source.Driver, error) {
	return iofs.New(migrationFS, "migrations")
}

// NewMigrator opens a migrate instance against the configured MySQL database.
func NewMigrator(cfg Config) (*Migrator, error) {
	if cfg.Driver != "" && cfg.Driver != DriverMySQL {
		return nil, fmt.Errorf("%w (driver %s)", ErrMigrationsUnsupported, cfg.Driver)
	}

	src, err := Migrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	dbURL := "mysql://" + MySQLDSN(cfg, timeout) + "&multiStatements=true"

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration. An up-to-date database is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the latest migration.
func (mg *Migrator) Down() error {
	if err := mg.m.Steps(-1); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Version returns the applied version. A fresh database reports version 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the source and database handles.
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	return errors.Join(sourceErr, dbErr)
}
