// Package database handles database connections, schema inspection and migrations.
//
// It wraps GORM to configure MySQL (production), PostgreSQL and SQLite (tests and
// local runs) connections from the application's configuration.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, applies pool settings and pings
// the database before returning. SQLite connections are limited to a single open
// connection so an in-memory database survives for the lifetime of the handle.
//
// # Migrations
//
// The MySQL schema is versioned with golang-migrate. The SQL files under migrations/
// are embedded and applied through Migrator (Up, Down, Version). Other drivers are
// provisioned with GORM AutoMigrate by the catalog feature.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live schema so the integrity command
// can verify that every column the catalog models need is present.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "operators", []string{"name", "esim_id"})
package database
